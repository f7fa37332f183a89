// Package traversal enumerates directory contents while skipping entries that
// cannot or should not be cataloged.
package traversal

import (
	"errors"
	"io"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/VR3Dcz/FileCatalog/internal/constants"
)

// Entry is one enumerated directory or file. Info comes from Lstat.
type Entry struct {
	Path string
	Name string
	Info fs.FileInfo
}

// Guard produces lazy enumerations of one directory level. Errors never escape the
// sequences; they are reported to the OnError hook and the sequence ends.
type Guard struct {
	virtualRoots []string
	onError      func(path string, err error)
}

type Option func(*Guard)

// WithVirtualRoots replaces the default pseudo filesystem roots.
func WithVirtualRoots(roots ...string) Option {
	return func(g *Guard) { g.virtualRoots = roots }
}

// OnError registers a hook called when a directory cannot be opened or read.
func OnError(fn func(path string, err error)) Option {
	return func(g *Guard) { g.onError = fn }
}

func New(opts ...Option) *Guard {
	g := &Guard{onError: func(string, error) {}}
	if runtime.GOOS != "windows" {
		g.virtualRoots = constants.VirtualRoots
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Directories yields the immediate subdirectories of dir. A subdirectory that
// cannot be opened is reported to OnError and left out.
func (g *Guard) Directories(dir string) iter.Seq[Entry] {
	return g.entries(dir, func(e Entry) bool {
		return e.Info.IsDir() && !g.IsVirtual(e.Path) && g.accessible(e.Path)
	})
}

func (g *Guard) accessible(dir string) bool {
	f, err := os.Open(dir)
	if err != nil {
		g.onError(dir, err)
		return false
	}
	f.Close() //nolint:errcheck // read-only
	return true
}

// Files yields the immediate regular files of dir.
func (g *Guard) Files(dir string) iter.Seq[Entry] {
	return g.entries(dir, func(e Entry) bool {
		return e.Info.Mode().IsRegular()
	})
}

// IsVirtual reports whether path is one of the virtual roots or nested below one.
func (g *Guard) IsVirtual(path string) bool {
	return isVirtualPath(path, g.virtualRoots)
}

func (g *Guard) entries(dir string, keep func(Entry) bool) iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		if g.IsVirtual(dir) {
			return
		}

		f, err := os.Open(dir)
		if err != nil {
			g.onError(dir, err)
			return
		}
		defer f.Close() //nolint:errcheck // read-only

		for {
			batch, err := f.ReadDir(constants.DirReadBatch)
			for _, de := range batch {
				if de.Type()&fs.ModeSymlink != 0 {
					continue
				}
				info, infoErr := de.Info()
				if infoErr != nil {
					continue
				}
				if skipByAttributes(info) {
					continue
				}
				e := Entry{Path: filepath.Join(dir, de.Name()), Name: de.Name(), Info: info}
				if !keep(e) {
					continue
				}
				if !yield(e) {
					return
				}
			}
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				g.onError(dir, err)
				return
			}
		}
	}
}

func isVirtualPath(path string, roots []string) bool {
	if len(roots) == 0 {
		return false
	}
	clean := filepath.ToSlash(filepath.Clean(path))
	for _, root := range roots {
		if clean == root || strings.HasPrefix(clean, root+"/") {
			return true
		}
	}
	return false
}
