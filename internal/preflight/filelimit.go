package preflight

import (
	"fmt"
	"syscall"
)

// MinFileDescriptors is the lowest file descriptor limit that leaves room
// for concurrent file reads during a search.
const MinFileDescriptors = 256

// CheckFileDescriptors checks if the file descriptor limit is sufficient.
func (c *Checker) CheckFileDescriptors() Result {
	res := Result{
		Name: "file_descriptors",
	}

	var rLimit syscall.Rlimit
	if err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		res.Status = StatusWarn
		res.Message = fmt.Sprintf("failed to check file descriptor limit: %v", err)
		return res
	}

	res.Message = fmt.Sprintf("%d (minimum: %d)", rLimit.Cur, MinFileDescriptors)
	if rLimit.Cur < MinFileDescriptors {
		res.Status = StatusWarn
		res.Details = "Run 'ulimit -n 1024' or lower search.workers"
		return res
	}

	res.Status = StatusPass
	return res
}
