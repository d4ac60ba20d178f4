package imagefile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTestFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "photo.jpg", []byte("bytes"))

	t.Run("regular file", func(t *testing.T) {
		got, err := Resolve(path)
		if err != nil {
			t.Fatalf("Resolve() returned error: %v", err)
		}
		if !filepath.IsAbs(got) {
			t.Errorf("Resolve() = %q, want an absolute path", got)
		}
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := Resolve(filepath.Join(dir, "missing.jpg"))
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Resolve() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("directory", func(t *testing.T) {
		_, err := Resolve(dir)
		if !errors.Is(err, ErrNotAFile) {
			t.Errorf("Resolve() error = %v, want ErrNotAFile", err)
		}
	})
}

func TestReadMetadata(t *testing.T) {
	dir := t.TempDir()
	modTime := time.Date(2023, 12, 15, 14, 30, 22, 0, time.UTC)

	t.Run("extension and mtime", func(t *testing.T) {
		path := writeTestFile(t, dir, "Vacation.JPG", []byte("bytes"))
		if err := os.Chtimes(path, modTime, modTime); err != nil {
			t.Fatal(err)
		}

		meta, err := ReadMetadata(path)
		if err != nil {
			t.Fatalf("ReadMetadata() returned error: %v", err)
		}
		if meta.Extension != ".jpg" {
			t.Errorf("Extension = %q, want %q", meta.Extension, ".jpg")
		}
		if !meta.ModifiedAtUTC.Equal(modTime) {
			t.Errorf("ModifiedAtUTC = %v, want %v", meta.ModifiedAtUTC, modTime)
		}
		if meta.ModifiedAtUTC.Location() != time.UTC {
			t.Errorf("ModifiedAtUTC location = %v, want UTC", meta.ModifiedAtUTC.Location())
		}
	})

	t.Run("no extension", func(t *testing.T) {
		path := writeTestFile(t, dir, "snapshot", []byte("bytes"))

		meta, err := ReadMetadata(path)
		if err != nil {
			t.Fatalf("ReadMetadata() returned error: %v", err)
		}
		if meta.Extension != "" {
			t.Errorf("Extension = %q, want empty", meta.Extension)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadMetadata(filepath.Join(dir, "missing.jpg"))
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("ReadMetadata() error = %v, want ErrNotFound", err)
		}
	})
}

func TestWriteCopy(t *testing.T) {
	dir := t.TempDir()
	content := []byte("original image bytes")
	src := writeTestFile(t, dir, "vacation.jpg", content)
	dst := filepath.Join(dir, "20231215143022_sunset_beach.jpg")

	if err := Write(src, dst, false); err != nil {
		t.Fatalf("Write() returned error: %v", err)
	}

	srcAfter, err := os.ReadFile(src)
	if err != nil {
		t.Fatalf("original file is gone after copy: %v", err)
	}
	if string(srcAfter) != string(content) {
		t.Error("original file content changed after copy")
	}

	dstAfter, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("destination not created: %v", err)
	}
	if string(dstAfter) != string(content) {
		t.Error("copied content differs from the original")
	}
}

func TestWriteCopyPreservesModTime(t *testing.T) {
	dir := t.TempDir()
	modTime := time.Date(2023, 12, 15, 14, 30, 22, 0, time.UTC)
	src := writeTestFile(t, dir, "vacation.jpg", []byte("bytes"))
	if err := os.Chtimes(src, modTime, modTime); err != nil {
		t.Fatal(err)
	}
	dst := filepath.Join(dir, "copy.jpg")

	if err := Write(src, dst, false); err != nil {
		t.Fatalf("Write() returned error: %v", err)
	}

	info, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if !info.ModTime().UTC().Equal(modTime) {
		t.Errorf("copy mtime = %v, want %v", info.ModTime().UTC(), modTime)
	}
}

func TestWriteInPlace(t *testing.T) {
	dir := t.TempDir()
	content := []byte("original image bytes")
	src := writeTestFile(t, dir, "vacation.jpg", content)
	dst := filepath.Join(dir, "20231215143022_sunset_beach.jpg")

	if err := Write(src, dst, true); err != nil {
		t.Fatalf("Write() returned error: %v", err)
	}

	if _, err := os.Stat(src); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("original path still exists after in-place rename")
	}

	dstAfter, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("destination not created: %v", err)
	}
	if string(dstAfter) != string(content) {
		t.Error("renamed content differs from the original")
	}
}

func TestWriteCollision(t *testing.T) {
	for _, inPlace := range []bool{false, true} {
		name := "copy"
		if inPlace {
			name = "in-place"
		}
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			src := writeTestFile(t, dir, "vacation.jpg", []byte("source"))
			dst := writeTestFile(t, dir, "taken.jpg", []byte("existing"))

			err := Write(src, dst, inPlace)
			if !errors.Is(err, ErrDestinationExists) {
				t.Fatalf("Write() error = %v, want ErrDestinationExists", err)
			}

			// Neither file may be touched on the failure path.
			srcAfter, _ := os.ReadFile(src)
			if string(srcAfter) != "source" {
				t.Error("source changed after failed write")
			}
			dstAfter, _ := os.ReadFile(dst)
			if string(dstAfter) != "existing" {
				t.Error("existing destination was overwritten")
			}
		})
	}
}
