// Package storage manages the output directory for downloaded box art.
//
// Images are written as {slug}{ext} with an atomic temp-file-then-rename so
// interrupted downloads never leave partial files with final names. Name
// collisions overwrite the existing file; the resource name is the dedup
// key, so the last write wins.
package storage
