package search

import (
	"errors"
	"fmt"
)

var (
	// ErrDatasetLoad is wrapped by every DatasetLoadError
	ErrDatasetLoad = errors.New("dataset load failed")

	// ErrUnsupportedVersion is returned for versions outside the configured set
	ErrUnsupportedVersion = errors.New("unsupported documentation version")
)

// DatasetLoadError reports that the dataset for Version could not be loaded or indexed
type DatasetLoadError struct {
	Version string
	Err     error
}

func (e *DatasetLoadError) Error() string {
	return fmt.Sprintf("failed to load dataset for %s: %v", e.Version, e.Err)
}

func (e *DatasetLoadError) Unwrap() []error {
	return []error{ErrDatasetLoad, e.Err}
}
