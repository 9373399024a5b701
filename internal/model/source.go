// Package model defines the data structures for mutation testing.
package model

// Path represents a file system path.
type Path string

// File represents a source file selected for mutation.
type File struct {
	// FullPath is the path used to read the pristine file.
	FullPath Path
	// ShortPath is the slash-separated path relative to the session root. It
	// is what reports show and what mutation ids are derived from.
	ShortPath Path
	Hash      string
}
