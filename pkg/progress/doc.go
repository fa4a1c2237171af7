// Package progress persists the completion record that makes download runs
// resumable.
//
// The record is a JSON file mapping completed resource names to the
// filenames written in the output directory. It is loaded once at the start
// of a run and saved synchronously after every successful download, so an
// interruption at any point loses at most the in-flight item. Saves go
// through a temporary file and an atomic rename; a crash mid-save leaves
// the previous record intact.
//
// A name appears in the record iff its image file was fully written. Failed
// downloads are appended to a separate list for reporting and remain
// pending on the next run.
package progress
