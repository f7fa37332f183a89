package catalog

import (
	"context"
	"slices"

	"github.com/VR3Dcz/FileCatalog/internal/domain"
	"github.com/VR3Dcz/FileCatalog/internal/store"
)

// read runs fn with the catalog held shared. Queries may overlap each other but
// never a lifecycle operation.
func (s *Session) read(fn func(db *store.DB) error) error {
	if !s.mu.TryRLock() {
		return ErrBusy
	}
	defer s.mu.RUnlock()

	if s.db == nil {
		return ErrClosed
	}
	return fn(s.db)
}

// write is read plus marking the catalog as modified on success.
func (s *Session) write(fn func(db *store.DB) error) error {
	return s.read(func(db *store.DB) error {
		if err := fn(db); err != nil {
			return err
		}
		s.dirty.Store(true)
		return nil
	})
}

func (s *Session) ListDrives(ctx context.Context) ([]domain.Drive, error) {
	var drives []domain.Drive
	err := s.read(func(db *store.DB) (err error) {
		drives, err = db.ListDrives(ctx)
		return err
	})
	return drives, err
}

func (s *Session) GetDrive(ctx context.Context, id int64) (*domain.Drive, error) {
	var drive *domain.Drive
	err := s.read(func(db *store.DB) (err error) {
		drive, err = db.GetDrive(ctx, id)
		return err
	})
	return drive, err
}

func (s *Session) RenameDrive(ctx context.Context, id int64, name string) error {
	return s.write(func(db *store.DB) error {
		return db.RenameDrive(ctx, id, name)
	})
}

func (s *Session) UpdateDriveSortOrder(ctx context.Context, id int64, order int) error {
	return s.write(func(db *store.DB) error {
		return db.UpdateDriveSortOrder(ctx, id, order)
	})
}

func (s *Session) DeleteDrive(ctx context.Context, id int64) error {
	return s.write(func(db *store.DB) error {
		drive, err := db.GetDrive(ctx, id)
		if err != nil {
			return err
		}
		if err := db.DeleteDrive(ctx, id); err != nil {
			return err
		}
		s.log.WithDrive(drive.ID, drive.Name).Info("Drive deleted")
		return nil
	})
}

func (s *Session) ClearDriveContents(ctx context.Context, id int64) error {
	return s.write(func(db *store.DB) error {
		return db.ClearDriveContents(ctx, id)
	})
}

// MoveDrive shifts a drive by delta positions, clamped to the list bounds, and
// renumbers every drive to a dense 0..n-1 order.
func (s *Session) MoveDrive(ctx context.Context, id int64, delta int) error {
	return s.write(func(db *store.DB) error {
		drives, err := db.ListDrives(ctx)
		if err != nil {
			return err
		}

		from := slices.IndexFunc(drives, func(d domain.Drive) bool { return d.ID == id })
		if from < 0 {
			return store.ErrNotFound
		}
		to := min(max(from+delta, 0), len(drives)-1)

		ids := make([]int64, 0, len(drives))
		for _, d := range drives {
			ids = append(ids, d.ID)
		}
		ids = slices.Delete(ids, from, from+1)
		ids = slices.Insert(ids, to, id)

		return db.ReorderDrives(ctx, ids)
	})
}

func (s *Session) ListSubfolders(ctx context.Context, driveID int64, parentID *int64) ([]domain.Folder, error) {
	var folders []domain.Folder
	err := s.read(func(db *store.DB) (err error) {
		folders, err = db.ListSubfolders(ctx, driveID, parentID)
		return err
	})
	return folders, err
}

func (s *Session) RenameFolder(ctx context.Context, id int64, name string) error {
	return s.write(func(db *store.DB) error {
		return db.RenameFolder(ctx, id, name)
	})
}

func (s *Session) ListFiles(ctx context.Context, folderID int64) ([]domain.FileEntry, error) {
	var files []domain.FileEntry
	err := s.read(func(db *store.DB) (err error) {
		files, err = db.ListFiles(ctx, folderID)
		return err
	})
	return files, err
}

func (s *Session) ResolveAncestorChain(ctx context.Context, folderID int64) ([]int64, error) {
	var chain []int64
	err := s.read(func(db *store.DB) (err error) {
		chain, err = db.ResolveAncestorChain(ctx, folderID)
		return err
	})
	return chain, err
}

func (s *Session) FolderTotalSize(ctx context.Context, folderID int64) (int64, error) {
	var total int64
	err := s.read(func(db *store.DB) (err error) {
		total, err = db.FolderTotalSize(ctx, folderID)
		return err
	})
	return total, err
}

func (s *Session) Search(ctx context.Context, query string, mode domain.SearchMode) ([]domain.SearchResult, error) {
	var results []domain.SearchResult
	err := s.read(func(db *store.DB) (err error) {
		results, err = db.Search(ctx, query, mode)
		return err
	})
	return results, err
}

// FolderContents lists a folder's subfolders followed by its files. With automatic
// folder sizes enabled, each subfolder carries its total size; failures there are
// logged and leave the size empty.
func (s *Session) FolderContents(ctx context.Context, folderID int64) (*domain.FolderContents, error) {
	autoSizes := s.settings.Get().AutoCalculateFolderSizes

	var contents *domain.FolderContents
	err := s.read(func(db *store.DB) error {
		folder, err := db.GetFolder(ctx, folderID)
		if err != nil {
			return err
		}
		drive, err := db.GetDrive(ctx, folder.DriveID)
		if err != nil {
			return err
		}
		subfolders, err := db.ListSubfolders(ctx, folder.DriveID, &folder.ID)
		if err != nil {
			return err
		}
		files, err := db.ListFiles(ctx, folder.ID)
		if err != nil {
			return err
		}

		contents = &domain.FolderContents{
			Folder: folder,
			Items:  make([]domain.FolderItem, 0, len(subfolders)+len(files)),
		}
		for _, sub := range subfolders {
			item := domain.FolderItem{
				IsFolder: true,
				FolderID: sub.ID,
				Name:     sub.Name,
				Path:     domain.DisplayPath(drive.Name, sub.RelativePath),
			}
			if autoSizes {
				size, err := db.FolderTotalSize(ctx, sub.ID)
				if err != nil {
					s.log.Warn("Failed to compute folder size", "folder_id", sub.ID, "error", err)
				} else {
					item.SizeBytes = &size
				}
			}
			contents.Items = append(contents.Items, item)
		}
		for _, f := range files {
			size, modified := f.SizeBytes, f.ModifiedAt
			contents.Items = append(contents.Items, domain.FolderItem{
				FolderID:   f.FolderID,
				FileID:     f.ID,
				Name:       f.Name,
				Extension:  f.Extension,
				Path:       domain.DisplayPath(drive.Name, folder.RelativePath),
				SizeBytes:  &size,
				ModifiedAt: &modified,
				Title:      f.Title,
				Artist:     f.Artist,
			})
			if f.HasAudioMetadata() {
				contents.HasAudioMetadata = true
			}
		}
		return nil
	})
	return contents, err
}
