// Package document stores pages on disk.
//
// A saved page is a versioned envelope around the tree:
//
//	{"version": 1, "savedAt": "2026-01-02T15:04:05Z", "tree": {...}}
//
// Load also accepts a bare tree, the shape the editor serializes, so
// hand-written or exported pages open directly. FileStore implements
// editor.Saver and writes atomically.
package document
