package imagefile

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/unclefomotw/better-image-naming/internal/model"
)

// Sentinel errors for the filesystem stages. Callers match them with
// errors.Is; the wrapped message carries the offending path.
var (
	// ErrNotFound means the input path does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrNotAFile means the input path exists but is a directory.
	ErrNotAFile = errors.New("not a regular file")

	// ErrMetadata means a filesystem stat failed for a reason other than
	// the path not existing (e.g. permission denied).
	ErrMetadata = errors.New("cannot read file metadata")

	// ErrDestinationExists means the computed filename is already taken.
	// The tool never overwrites; re-run after moving the existing file.
	ErrDestinationExists = errors.New("destination already exists")
)

// Resolve validates that path exists and is a regular file, and returns it
// as an absolute path.
//
// Returns an error wrapping:
//   - ErrNotFound if the path does not exist
//   - ErrNotAFile if the path is a directory
//   - ErrMetadata if the path cannot be stat'ed for any other reason
//
// Resolve has no side effects.
func Resolve(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrMetadata, path, err)
	}

	info, err := os.Stat(abs)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("%w: %s", ErrNotFound, path)
	case err != nil:
		return "", fmt.Errorf("%w: %s: %v", ErrMetadata, path, err)
	case info.IsDir():
		return "", fmt.Errorf("%w: %s is a directory", ErrNotAFile, path)
	}

	return abs, nil
}

// ReadMetadata returns the file's modification time converted to UTC and its
// lowercase extension (including the leading dot).
//
// The extension is empty when the file has none; the pipeline substitutes a
// default in that case. Call Resolve first; a vanished file surfaces as
// ErrNotFound, any other stat failure as ErrMetadata.
func ReadMetadata(path string) (*model.Metadata, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMetadata, path, err)
	}

	return &model.Metadata{
		ModifiedAtUTC: info.ModTime().UTC(),
		Extension:     strings.ToLower(filepath.Ext(path)),
	}, nil
}

// Write performs the single filesystem write of a run: it either copies src
// to dst (default) or renames src to dst (inPlace).
//
// Both modes fail with ErrDestinationExists when dst is already present;
// existing files are never overwritten. On a failed copy the partial
// destination file is removed, so no failure path leaves anything behind.
func Write(src, dst string, inPlace bool) error {
	if _, err := os.Lstat(dst); err == nil {
		return fmt.Errorf("%w: %s", ErrDestinationExists, filepath.Base(dst))
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s: %v", ErrMetadata, dst, err)
	}

	if inPlace {
		return os.Rename(src, dst)
	}
	return copyFile(src, dst)
}

// copyFile copies src to a newly created dst, preserving the modification
// time so the name's timestamp prefix stays true for the copy as well.
func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	// O_EXCL guards against a file appearing between the Lstat in Write
	// and the create.
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("%w: %s", ErrDestinationExists, filepath.Base(dst))
	}
	if err != nil {
		return err
	}

	_, err = io.Copy(out, in)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dst)
		return err
	}

	_ = os.Chtimes(dst, info.ModTime(), info.ModTime())
	return nil
}
