// Package imagefile handles every filesystem touch of a rename run.
//
// This package contains:
//   - Input validation (Resolve)
//   - Metadata reading: UTC modification time and extension (ReadMetadata)
//   - Upload payload loading with optional downscaling (LoadPayload)
//   - The single copy-or-rename write (Write)
//
// # Error matching
//
// Failures wrap sentinel errors so callers can classify them:
//
//	_, err := imagefile.Resolve("missing.jpg")
//	if errors.Is(err, imagefile.ErrNotFound) { ... }
//
// # Write semantics
//
// Write performs exactly one filesystem write and refuses to overwrite:
//
//	err := imagefile.Write(src, dst, false) // copy, original untouched
//	err := imagefile.Write(src, dst, true)  // rename within the directory
//	// both: errors.Is(err, imagefile.ErrDestinationExists) on collision
package imagefile
