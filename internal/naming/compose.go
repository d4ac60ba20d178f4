package naming

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// ErrEmptyDescription is returned when normalization leaves no usable word.
var ErrEmptyDescription = errors.New("description contains no usable words")

// MaxWords is the maximum number of description words kept in a filename.
const MaxWords = 3

// timestampLayout formats a time as YYYYMMDDHHMMSS.
const timestampLayout = "20060102150405"

var (
	// invalidChars matches everything that may not appear in a
	// description word. Words are restricted to [a-z0-9] so the composed
	// name is portable across filesystems.
	invalidChars = regexp.MustCompile(`[^a-z0-9\s_-]`)

	// separators matches runs of whitespace, underscores and hyphens,
	// all of which delimit words in model output.
	separators = regexp.MustCompile(`[\s_-]+`)
)

// fillerWords are articles, prepositions and connectives that vision models
// like to wrap a subject in ("A sunset over the beach"). They are dropped so
// the kept words carry the actual content.
var fillerWords = map[string]bool{
	"a": true, "an": true, "the": true,
	"of": true, "in": true, "on": true, "at": true,
	"over": true, "under": true, "with": true, "by": true,
	"to": true, "for": true, "from": true,
	"and": true, "or": true,
	"is": true, "are": true, "its": true,
}

// Normalize reduces raw model output to at most MaxWords lowercase words,
// each matching [a-z0-9]+.
//
// The steps are:
//  1. Strip surrounding quotes and whitespace.
//  2. Lowercase and remove punctuation.
//  3. Split on whitespace, underscores and hyphens.
//  4. Drop filler words ("a", "the", "over", ...), unless that would drop
//     everything.
//  5. Keep the first MaxWords words.
//
// Normalization is idempotent: feeding the joined result back in returns the
// same words. When no usable word remains, ErrEmptyDescription is returned.
func Normalize(raw string) ([]string, error) {
	text := strings.TrimSpace(raw)
	text = strings.Trim(text, "\"'`")
	text = strings.ToLower(text)
	text = invalidChars.ReplaceAllString(text, "")

	var all []string
	for _, part := range separators.Split(text, -1) {
		if part != "" {
			all = append(all, part)
		}
	}
	if len(all) == 0 {
		return nil, ErrEmptyDescription
	}

	words := make([]string, 0, MaxWords)
	for _, w := range all {
		if fillerWords[w] {
			continue
		}
		words = append(words, w)
		if len(words) == MaxWords {
			break
		}
	}

	// A description made only of filler words is still a description.
	if len(words) == 0 {
		words = all
		if len(words) > MaxWords {
			words = words[:MaxWords]
		}
	}

	return words, nil
}

// Timestamp formats t as YYYYMMDDHHMMSS in UTC.
func Timestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// Compose builds the final filename from the file's modification time, the
// normalized description words, and the original extension (including the
// leading dot):
//
//	Compose(modTime, []string{"sunset", "beach"}, ".jpg")
//	// "20231215143022_sunset_beach.jpg"
//
// Compose is deterministic and performs no I/O. It assumes words came from
// Normalize and ext from imagefile.ReadMetadata.
func Compose(modifiedAt time.Time, words []string, ext string) string {
	return Timestamp(modifiedAt) + "_" + strings.Join(words, "_") + ext
}
