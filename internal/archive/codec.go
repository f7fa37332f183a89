// Package archive converts between the working catalog database and the portable
// .kat file, which is a gzip container around the database or, for older catalogs,
// the raw database itself.
package archive

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/klauspost/compress/gzip"

	"github.com/VR3Dcz/FileCatalog/internal/constants"
	"github.com/VR3Dcz/FileCatalog/internal/logger"
	"github.com/VR3Dcz/FileCatalog/internal/storage"
)

// ErrCorruptArchive is returned when a compressed catalog cannot be decompressed.
var ErrCorruptArchive = errors.New("corrupt catalog archive")

// Compactor shrinks the working catalog before it is archived.
type Compactor interface {
	Compact(ctx context.Context) error
}

type Codec struct {
	log   *logger.Logger
	level int
}

func New(log *logger.Logger) *Codec {
	return &Codec{
		log:   logger.OrDefault(log).WithComponent("archive"),
		level: gzip.DefaultCompression,
	}
}

// Load writes the database contained in src to working. The working file and its
// WAL side files are replaced only after src has been fully decoded.
func (c *Codec) Load(ctx context.Context, src, working string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open catalog %s: %w", src, err)
	}
	defer in.Close() //nolint:errcheck // read-only

	br := bufio.NewReader(in)
	compressed := IsCompressed(br)

	var r io.Reader = br
	if compressed {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrCorruptArchive, src, err)
		}
		defer gz.Close() //nolint:errcheck // read-only
		r = gz
	}

	tmp, err := storage.CreateTempBeside(working)
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", working, err)
	}
	tmpPath := tmp.Name()
	success := false
	defer func() {
		if !success {
			tmp.Close()        //nolint:errcheck // already failing
			os.Remove(tmpPath) //nolint:errcheck // already failing
		}
	}()

	n, err := io.Copy(tmp, &ctxReader{ctx: ctx, r: r})
	if err != nil {
		if compressed && ctx.Err() == nil {
			return fmt.Errorf("%w: %s: %v", ErrCorruptArchive, src, err)
		}
		return fmt.Errorf("failed to read catalog %s: %w", src, err)
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := storage.RemoveSQLiteFiles(working); err != nil {
		return err
	}
	if err := storage.ReplaceFile(tmpPath, working); err != nil {
		return err
	}
	success = true

	c.log.Info("Catalog loaded", "src", src, "compressed", compressed, "size", humanize.Bytes(uint64(n)))
	return nil
}

// Save compacts the working catalog and writes it gzip-compressed to dst through a
// temp file, so a failed save leaves any previous dst intact.
func (c *Codec) Save(ctx context.Context, compactor Compactor, working, dst string) error {
	if err := compactor.Compact(ctx); err != nil {
		return fmt.Errorf("failed to compact catalog: %w", err)
	}

	in, err := os.Open(working)
	if err != nil {
		return fmt.Errorf("failed to open working catalog: %w", err)
	}
	defer in.Close() //nolint:errcheck // read-only

	tmp, err := storage.CreateTempBeside(dst)
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", dst, err)
	}
	tmpPath := tmp.Name()
	success := false
	defer func() {
		if !success {
			tmp.Close()        //nolint:errcheck // already failing
			os.Remove(tmpPath) //nolint:errcheck // already failing
		}
	}()

	gz, err := gzip.NewWriterLevel(tmp, c.level)
	if err != nil {
		return err
	}
	n, err := io.Copy(gz, &ctxReader{ctx: ctx, r: in})
	if err != nil {
		return fmt.Errorf("failed to compress catalog: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("failed to finish archive: %w", err)
	}
	if err := tmp.Chmod(constants.FilePermissions); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := storage.ReplaceFile(tmpPath, dst); err != nil {
		return err
	}
	success = true

	c.log.Info("Catalog saved", "dst", dst, "size", humanize.Bytes(uint64(n)))
	return nil
}

// IsCompressed peeks at the gzip magic without consuming it. Inputs shorter than
// the magic are treated as raw.
func IsCompressed(br *bufio.Reader) bool {
	head, err := br.Peek(2)
	if err != nil {
		return false
	}
	return head[0] == constants.GZipMagic1 && head[1] == constants.GZipMagic2
}

// ctxReader stops a copy once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (r *ctxReader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}
