package search

import (
	"io/fs"
	"os"
)

// DataProvider defines the interface for reading dataset files.
// This abstraction allows the datasets to come from a directory on disk in
// production and from an in-memory map in tests.
//
// Implementations:
//   - fsDataProvider: reads from an fs.FS (os.DirFS of the data directory)
//   - MockDataProvider: uses an in-memory map for testing
type DataProvider interface {
	// ReadFile reads the named file and returns its contents.
	// The name is relative to the data root (e.g., "indexes/stable/searchindex.json").
	ReadFile(name string) ([]byte, error)
}

type fsDataProvider struct {
	fsys fs.FS
}

// NewFSDataProvider creates a DataProvider backed by fsys
func NewFSDataProvider(fsys fs.FS) DataProvider {
	return &fsDataProvider{fsys: fsys}
}

// NewDirDataProvider creates a DataProvider rooted at dir
func NewDirDataProvider(dir string) DataProvider {
	return NewFSDataProvider(os.DirFS(dir))
}

func (p *fsDataProvider) ReadFile(name string) ([]byte, error) {
	return fs.ReadFile(p.fsys, name)
}
