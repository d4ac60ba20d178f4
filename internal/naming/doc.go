// Package naming turns a model's free-text description of an image into a
// deterministic, filename-safe name.
//
// The composed name has the shape
//
//	<YYYYMMDDHHMMSS>_<word>[_<word>[_<word>]]<ext>
//
// where the timestamp is the source file's modification time in UTC and the
// words are 1-3 lowercase [a-z0-9]+ tokens extracted from the description.
//
//	words, err := naming.Normalize("A sunset over the beach")
//	// words = ["sunset", "beach"]
//	name := naming.Compose(modTime, words, ".jpg")
//	// "20231215143022_sunset_beach.jpg"
//
// All functions are pure; nothing here touches the filesystem or network.
package naming
