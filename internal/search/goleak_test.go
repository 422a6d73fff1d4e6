package search

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain checks that the file-read pool drains on every path, including
// errors.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
