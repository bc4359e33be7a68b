//go:build !windows

package main

import "golang.org/x/sys/unix"

// diskStatter reports free space on the filesystem containing path,
// in bytes. Field types vary across unix platforms (some are signed,
// some unsigned on certain BSDs), hence the defensive clamp.
type diskStatter struct{}

func (diskStatter) freeBytes(path string) (uint64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, err
	}
	bavail := stat.Bavail
	bsize := stat.Bsize
	if bavail < 0 {
		bavail = 0
	}
	if bsize < 0 {
		bsize = 0
	}
	return uint64(bavail) * uint64(bsize), nil //nolint:gosec
}
