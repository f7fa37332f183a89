// Package scanner loads a directory tree into the catalog in one transaction.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/VR3Dcz/FileCatalog/internal/constants"
	"github.com/VR3Dcz/FileCatalog/internal/domain"
	"github.com/VR3Dcz/FileCatalog/internal/logger"
	"github.com/VR3Dcz/FileCatalog/internal/storage"
	"github.com/VR3Dcz/FileCatalog/internal/store"
	"github.com/VR3Dcz/FileCatalog/internal/tagging"
	"github.com/VR3Dcz/FileCatalog/internal/traversal"
	"github.com/VR3Dcz/FileCatalog/internal/worker"
)

// ErrRootNotFound is returned when the scan root is missing or is not a directory.
var ErrRootNotFound = errors.New("scan root not found")

type Options struct {
	ReadAudioTags bool
	HashFiles     bool
	// Workers bounds the metadata pool. Zero means one per CPU.
	Workers int
}

type Scanner struct {
	db       *store.DB
	opts     Options
	log      *logger.Logger
	readTags func(path string) (tagging.Tags, error)
}

func New(db *store.DB, opts Options, log *logger.Logger) *Scanner {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	return &Scanner{
		db:       db,
		opts:     opts,
		log:      logger.OrDefault(log).WithComponent("scanner"),
		readTags: tagging.ReadTags,
	}
}

type queued struct {
	path     string
	name     string
	relPath  string
	parentID *int64
}

// pending is a file record waiting for the metadata phase.
type pending struct {
	path  string
	entry *domain.FileEntry
	tags  bool
}

// Scan replaces the contents of driveID with the tree under rootPath. The drive's
// previous folders and files are cleared inside the same transaction, so a failed
// scan leaves them untouched.
func (s *Scanner) Scan(ctx context.Context, rootPath string, driveID int64) (*domain.ScanStats, error) {
	root := filepath.Clean(rootPath)
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRootNotFound, root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrRootNotFound, root)
	}

	stats := &domain.ScanStats{ScanID: uuid.NewString(), DriveID: driveID, RootPath: root}
	log := s.log.WithScan(stats.ScanID, root)
	start := time.Now()
	log.Info("Scan started", "drive_id", driveID, "workers", s.opts.Workers,
		"read_tags", s.opts.ReadAudioTags, "hash", s.opts.HashFiles)

	skipped := make(map[string]struct{})
	guard := traversal.New(traversal.OnError(func(path string, err error) {
		if _, seen := skipped[path]; !seen {
			skipped[path] = struct{}{}
			log.Warn("Skipping unreadable directory", "path", path, "error", err)
		}
	}))

	pool := worker.NewPool(s.opts.Workers)

	bulk, err := s.db.BeginBulk(ctx)
	if err != nil {
		return nil, err
	}
	defer bulk.Rollback() //nolint:errcheck // no-op after commit

	if err := bulk.ClearDrive(ctx, driveID); err != nil {
		return nil, err
	}

	queue := []queued{{path: root, name: RootName(root)}}
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("scan of %s aborted: %w", root, err)
		}

		dir := queue[0]
		queue[0] = queued{}
		queue = queue[1:]

		folder := &domain.Folder{
			DriveID:      driveID,
			ParentID:     dir.parentID,
			Name:         dir.name,
			RelativePath: dir.relPath,
		}
		if err := bulk.InsertFolder(ctx, folder); err != nil {
			return nil, err
		}
		stats.Folders++

		folderID := folder.ID
		for sub := range guard.Directories(dir.path) {
			queue = append(queue, queued{
				path:     sub.Path,
				name:     sub.Name,
				relPath:  dir.relPath + string(filepath.Separator) + sub.Name,
				parentID: &folderID,
			})
		}

		var files []pending
		for f := range guard.Files(dir.path) {
			ext := domain.NormalizeExtension(filepath.Ext(f.Name))
			files = append(files, pending{
				path: f.Path,
				entry: &domain.FileEntry{
					FolderID:   folderID,
					Name:       f.Name,
					Extension:  ext,
					SizeBytes:  f.Info.Size(),
					ModifiedAt: f.Info.ModTime().UTC(),
				},
				tags: s.opts.ReadAudioTags && constants.IsAudioExtension(ext),
			})
		}

		tagged, hashed := s.collectMetadata(ctx, log, pool, files)
		stats.TaggedFiles += tagged
		stats.HashedFiles += hashed

		for _, p := range files {
			if err := bulk.InsertFile(ctx, p.entry); err != nil {
				return nil, err
			}
			stats.Files++
			stats.TotalBytes += p.entry.SizeBytes
		}
	}

	if err := bulk.Commit(); err != nil {
		return nil, err
	}

	stats.SkippedDirs = len(skipped)
	stats.Duration = time.Since(start)
	log.Info("Scan finished",
		"folders", stats.Folders,
		"files", stats.Files,
		"size", humanize.Bytes(uint64(stats.TotalBytes)),
		"tagged", stats.TaggedFiles,
		"skipped_dirs", stats.SkippedDirs,
		"duration", stats.Duration)
	return stats, nil
}

// collectMetadata runs tag reads and hashing for one directory on the pool and
// returns once every task has finished. Each task touches only its own record.
func (s *Scanner) collectMetadata(ctx context.Context, log *logger.Logger, pool *worker.Pool, files []pending) (tagged, hashed int) {
	if !s.opts.HashFiles && !s.opts.ReadAudioTags {
		return 0, 0
	}

	var taggedCount, hashedCount atomic.Int64
	for _, p := range files {
		if !p.tags && !s.opts.HashFiles {
			continue
		}
		if ctx.Err() != nil {
			break
		}

		pool.Go(func() {
			if p.tags {
				// unreadable tags leave the file cataloged without metadata
				if tags, err := s.readTags(p.path); err == nil && !tags.IsEmpty() {
					tags.Apply(p.entry)
					taggedCount.Add(1)
				}
			}
			if s.opts.HashFiles {
				sum, err := storage.HashFile(p.path)
				if err != nil {
					log.Debug("Failed to hash file", "path", p.path, "error", err)
					return
				}
				p.entry.Hash = &sum
				hashedCount.Add(1)
			}
		})
	}

	if err := pool.Wait(); err != nil {
		log.Warn("Metadata task failed", "error", err)
	}
	return int(taggedCount.Load()), int(hashedCount.Load())
}

// RootName is the display name of the root folder: its base name, or the path
// itself for volume roots such as "/" or "C:\".
func RootName(root string) string {
	base := filepath.Base(root)
	if base == "." || base == string(filepath.Separator) || base == "" {
		return root
	}
	return base
}
