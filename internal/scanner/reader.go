package scanner

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"
)

// Reader rejections. Callers treat all of them as "skip this file".
var (
	ErrNotRegular = errors.New("not a regular file")
	ErrTooLarge   = errors.New("file exceeds maximum size")
	ErrBinary     = errors.New("binary file")
)

// File is the content and stat information of a readable text file.
type File struct {
	Data    []byte
	Size    int64
	ModTime time.Time
}

// ReadFile stats and reads absPath. It rejects non-regular files, files
// larger than MaxFileSize (before or after reading) and binary content.
func ReadFile(absPath string) (*File, error) {
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", absPath, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s: %w", absPath, ErrNotRegular)
	}
	if info.Size() > MaxFileSize {
		return nil, fmt.Errorf("%s (%d bytes): %w", absPath, info.Size(), ErrTooLarge)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", absPath, err)
	}
	// The file may have grown between stat and read.
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("%s (%d bytes): %w", absPath, len(data), ErrTooLarge)
	}
	if IsBinary(data) {
		return nil, fmt.Errorf("%s: %w", absPath, ErrBinary)
	}

	return &File{
		Data:    data,
		Size:    int64(len(data)),
		ModTime: info.ModTime(),
	}, nil
}

// IsBinary classifies data by its first BinarySampleSize bytes. Any NUL byte
// means binary; otherwise the sample is binary when more than 30% of it is
// control-like (below 7, between 14 and 32 exclusive, or DEL).
func IsBinary(data []byte) bool {
	sample := data
	if len(sample) > BinarySampleSize {
		sample = sample[:BinarySampleSize]
	}
	if len(sample) == 0 {
		return false
	}
	if bytes.IndexByte(sample, 0) >= 0 {
		return true
	}

	control := 0
	for _, b := range sample {
		if b < 7 || (b > 14 && b < 32) || b == 127 {
			control++
		}
	}
	return control*100 > binaryControlPercent*len(sample)
}
