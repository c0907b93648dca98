// Package snapshot persists inventory scans as a versioned SQLite database.
//
// Saves are atomic: rows are written to a temp database beside the target and
// renamed over it after commit, under an exclusive flock on "<path>.lock".
// Loads take a shared lock and reject anything that does not read back
// cleanly with media.ErrCacheCorrupt.
package snapshot
