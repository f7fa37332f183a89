package archive

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/VR3Dcz/FileCatalog/internal/domain"
	"github.com/VR3Dcz/FileCatalog/internal/logger"
	"github.com/VR3Dcz/FileCatalog/internal/store"
)

func seedCatalog(t *testing.T, path string) *store.DB {
	t.Helper()
	ctx := context.Background()

	db, err := store.NewSQLiteDB(path)
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	driveID, err := db.GetOrCreateDrive(ctx, "Docs", "/data/docs")
	if err != nil {
		t.Fatalf("GetOrCreateDrive failed: %v", err)
	}

	b, err := db.BeginBulk(ctx)
	if err != nil {
		t.Fatalf("BeginBulk failed: %v", err)
	}
	root := &domain.Folder{DriveID: driveID, Name: "Docs"}
	if err := b.InsertFolder(ctx, root); err != nil {
		t.Fatalf("InsertFolder failed: %v", err)
	}
	for i, name := range []string{"one.txt", "two.txt", "three.txt"} {
		f := &domain.FileEntry{
			FolderID:   root.ID,
			Name:       name,
			Extension:  ".txt",
			SizeBytes:  int64(100 * (i + 1)),
			ModifiedAt: time.Date(2023, 5, 6, 7, 8, 9, 0, time.UTC),
		}
		if err := b.InsertFile(ctx, f); err != nil {
			t.Fatalf("InsertFile failed: %v", err)
		}
	}
	if err := b.Commit(); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	return db
}

func TestCodec_SaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	codec := New(logger.Discard())

	working := filepath.Join(dir, "working.kat")
	db := seedCatalog(t, working)
	before, err := db.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	drivesBefore, err := db.ListDrives(ctx)
	if err != nil {
		t.Fatalf("ListDrives failed: %v", err)
	}

	out := filepath.Join(dir, "out", "out.kat")
	if err := codec.Save(ctx, db, working, out); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	compressed := IsCompressed(bufio.NewReader(f))
	f.Close()
	if !compressed {
		t.Fatal("Expected saved catalog to carry the gzip magic")
	}

	fresh := filepath.Join(dir, "fresh.kat")
	if err := codec.Load(ctx, out, fresh); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	loaded, err := store.NewSQLiteDB(fresh)
	if err != nil {
		t.Fatalf("open loaded catalog: %v", err)
	}
	defer loaded.Close()

	after, err := loaded.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if *after != *before {
		t.Errorf("Stats differ: before %+v, after %+v", before, after)
	}

	drivesAfter, err := loaded.ListDrives(ctx)
	if err != nil {
		t.Fatalf("ListDrives failed: %v", err)
	}
	if len(drivesAfter) != 1 || drivesAfter[0].ID != drivesBefore[0].ID || drivesAfter[0].Identifier != drivesBefore[0].Identifier {
		t.Errorf("Drives differ: before %+v, after %+v", drivesBefore, drivesAfter)
	}

	results, err := loaded.Search(ctx, "tw", domain.SearchFullText)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("Expected search index to survive the round trip, got %d hits", len(results))
	}
}

func TestCodec_LoadLegacyRaw(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	legacy := filepath.Join(dir, "legacy.kat")
	db := seedCatalog(t, legacy)
	if err := db.Compact(ctx); err != nil {
		t.Fatalf("Compact failed: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	working := filepath.Join(dir, "working.kat")
	if err := os.WriteFile(working, []byte("stale"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := New(logger.Discard()).Load(ctx, legacy, working); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want, err := os.ReadFile(legacy)
	if err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(working)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(want, got) {
		t.Error("Expected raw catalog to be copied byte for byte")
	}
}

func TestCodec_LoadCorrupt(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	src := filepath.Join(dir, "broken.kat")
	if err := os.WriteFile(src, []byte{0x1f, 0x8b, 0x08, 0x00, 0xde, 0xad}, 0644); err != nil {
		t.Fatal(err)
	}
	working := filepath.Join(dir, "working.kat")
	if err := os.WriteFile(working, []byte("previous"), 0644); err != nil {
		t.Fatal(err)
	}

	err := New(logger.Discard()).Load(ctx, src, working)
	if !errors.Is(err, ErrCorruptArchive) {
		t.Fatalf("Expected ErrCorruptArchive, got %v", err)
	}

	got, err := os.ReadFile(working)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "previous" {
		t.Errorf("Expected working file untouched, got %q", got)
	}
}

func TestCodec_LoadMissingSource(t *testing.T) {
	dir := t.TempDir()
	err := New(logger.Discard()).Load(context.Background(), filepath.Join(dir, "nope.kat"), filepath.Join(dir, "w.kat"))
	if err == nil {
		t.Fatal("Expected error for missing source")
	}
}

type failingCompactor struct{}

func (failingCompactor) Compact(context.Context) error { return errors.New("disk full") }

func TestCodec_SaveFailureKeepsDestination(t *testing.T) {
	dir := t.TempDir()

	working := filepath.Join(dir, "working.kat")
	if err := os.WriteFile(working, []byte("db"), 0644); err != nil {
		t.Fatal(err)
	}
	dst := filepath.Join(dir, "out.kat")
	if err := os.WriteFile(dst, []byte("old archive"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := New(logger.Discard()).Save(context.Background(), failingCompactor{}, working, dst); err == nil {
		t.Fatal("Expected save to fail")
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "old archive" {
		t.Errorf("Expected destination untouched, got %q", got)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("Expected no leftover temp files, got %d entries", len(entries))
	}
}

func TestIsCompressed(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  bool
	}{
		{"gzip", []byte{0x1f, 0x8b, 0x08}, true},
		{"sqlite", []byte("SQLite format 3\x00"), false},
		{"short", []byte{0x1f}, false},
		{"empty", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			br := bufio.NewReader(bytes.NewReader(tt.input))
			if got := IsCompressed(br); got != tt.want {
				t.Errorf("IsCompressed = %v, want %v", got, tt.want)
			}
			if br.Buffered() != len(tt.input) {
				t.Errorf("Expected peek not to consume input")
			}
		})
	}
}
