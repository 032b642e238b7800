//go:build !unix && !windows

package vmem

import "os"

func syncFile(f *os.File) error {
	return f.Sync()
}
