// Package model defines the core data structures passed between the
// pipeline stages.
//
// # Request
//
// Request captures one invocation: the file to rename, the Ollama model to
// ask, and whether to rename in place or copy:
//
//	req := &model.Request{Path: "vacation.jpg", Model: "gemma3:4b"}
//
// # Metadata
//
// Metadata is derived once from the filesystem and feeds the timestamp and
// extension parts of the composed name:
//
//	meta, _ := imagefile.ReadMetadata(path)
//	fmt.Println(meta.ModifiedAtUTC) // always UTC
//	fmt.Println(meta.Extension)     // ".jpg"
//
// # Result
//
// Result reports where the renamed file ended up. Nothing in this package
// persists beyond a single run.
package model
