package model

import "time"

// Request describes a single rename invocation.
//
// A Request is built once from command-line input and never mutated
// afterwards. Each invocation of the tool processes exactly one Request.
type Request struct {
	// Path is the image file to rename, as given on the command line.
	Path string

	// Model is the Ollama model tag used to describe the image,
	// e.g. "gemma3:4b".
	Model string

	// InPlace renames the original file instead of creating a copy.
	InPlace bool
}

// Metadata holds the filesystem facts the new name is derived from.
//
// It is read once from the source file and treated as read-only for the
// rest of the pipeline.
type Metadata struct {
	// ModifiedAtUTC is the file's last-modified time, converted to UTC.
	// The timestamp prefix of the new name is derived from this value,
	// so the result is independent of the machine's local timezone.
	ModifiedAtUTC time.Time

	// Extension is the lowercase file extension including the leading
	// dot (".jpg"). Empty when the source file has no extension.
	Extension string
}

// Result describes a completed rename.
type Result struct {
	// NewName is the composed filename, e.g. "20231215143022_sunset_beach.jpg".
	NewName string

	// NewPath is the absolute path of the written file. It is always in
	// the same directory as the source file.
	NewPath string

	// InPlace reports whether the original file was moved (true) or a
	// copy was created (false).
	InPlace bool
}
