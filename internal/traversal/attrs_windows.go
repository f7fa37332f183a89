//go:build windows

package traversal

import (
	"io/fs"
	"syscall"
)

func skipByAttributes(info fs.FileInfo) bool {
	data, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return false
	}
	const skip = syscall.FILE_ATTRIBUTE_SYSTEM | syscall.FILE_ATTRIBUTE_REPARSE_POINT
	return data.FileAttributes&skip != 0
}
