//go:build !windows

package traversal

import "io/fs"

// POSIX has no system flag; symlinks are already filtered by type.
func skipByAttributes(info fs.FileInfo) bool {
	return info.Mode()&fs.ModeSymlink != 0
}
