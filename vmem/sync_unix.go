//go:build unix

package vmem

import (
	"os"

	"golang.org/x/sys/unix"
)

// syncFile flushes file data and metadata to stable storage
func syncFile(f *os.File) error {
	return unix.Fsync(int(f.Fd()))
}
