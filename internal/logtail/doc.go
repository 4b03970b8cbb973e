// Package logtail reads the end of Quill's own log file for display in the TUI.
//
// Read keeps a ring buffer of the last maxLines lines, so memory stays
// bounded by the number of lines requested rather than the file size:
//
//	lines, err := logtail.Read(cfg.LogPath, 200)
//
// A missing file is not an error; the TUI simply shows an empty log.
// Classify gives the renderer a coarse severity for coloring.
package logtail
