// Package blob provides the archival sink used by the external task
// ingest path. Blobs are opaque named payloads; the filesystem
// implementation is backed by afero so tests can run against an
// in-memory filesystem.
package blob

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// ArchiveSink stores named payloads for audit and replay.
type ArchiveSink interface {
	// Put writes the payload under the given blob name, overwriting any
	// existing blob with that name.
	Put(ctx context.Context, blobName string, payload []byte) error

	// Delete removes the named blob. Used by the readiness probe's
	// write-then-delete round-trip.
	Delete(ctx context.Context, blobName string) error
}

// FSArchive implements ArchiveSink on top of an afero filesystem rooted
// at a directory.
type FSArchive struct {
	fs     afero.Fs
	dir    string
	logger *slog.Logger
}

// NewFSArchive creates an archive sink writing into dir on the given
// filesystem. The directory is created if it does not exist.
func NewFSArchive(fs afero.Fs, dir string, logger *slog.Logger) (*FSArchive, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory %q: %w", dir, err)
	}

	return &FSArchive{
		fs:     fs,
		dir:    dir,
		logger: logger.With(slog.String("component", "fs_archive")),
	}, nil
}

// Ensure FSArchive implements ArchiveSink
var _ ArchiveSink = (*FSArchive)(nil)

// Put implements ArchiveSink.Put
func (a *FSArchive) Put(ctx context.Context, blobName string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := filepath.Join(a.dir, blobName)
	if err := afero.WriteFile(a.fs, path, payload, 0o644); err != nil {
		a.logger.Error("failed to write archive blob", "error", err, "blob_name", blobName)
		return fmt.Errorf("failed to write archive blob %q: %w", blobName, err)
	}

	a.logger.Debug("archive blob written", "blob_name", blobName, "bytes", len(payload))
	return nil
}

// Delete implements ArchiveSink.Delete
func (a *FSArchive) Delete(ctx context.Context, blobName string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := filepath.Join(a.dir, blobName)
	if err := a.fs.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("archive blob %q does not exist: %w", blobName, err)
		}
		a.logger.Error("failed to delete archive blob", "error", err, "blob_name", blobName)
		return fmt.Errorf("failed to delete archive blob %q: %w", blobName, err)
	}

	return nil
}
