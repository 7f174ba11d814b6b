package search

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Store holds at most one index per documentation version.
// Indexes are built on first use and kept until Close; concurrent first
// requests for the same version share a single build.
type Store struct {
	registry *Registry

	mu      sync.RWMutex
	indexes map[string]Index
	closed  bool

	builds singleflight.Group
}

// NewStore creates an empty store over the registry's datasets
func NewStore(registry *Registry) *Store {
	return &Store{
		registry: registry,
		indexes:  make(map[string]Index),
	}
}

// ErrStoreClosed is returned by GetOrBuild after Close
var ErrStoreClosed = errors.New("index store closed")

// Registry returns the dataset registry backing the store
func (s *Store) Registry() *Registry {
	return s.registry
}

// GetOrBuild returns the index for version, building it from the dataset
// the first time the version is requested
func (s *Store) GetOrBuild(ctx context.Context, version string) (Index, error) {
	if index, ok, err := s.lookup(version); ok || err != nil {
		return index, err
	}

	ch := s.builds.DoChan(version, func() (interface{}, error) {
		// Another caller may have finished building while we waited
		if index, ok, err := s.lookup(version); ok || err != nil {
			return index, err
		}
		return s.build(context.WithoutCancel(ctx), version)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(Index), nil
	}
}

func (s *Store) lookup(version string) (Index, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, false, ErrStoreClosed
	}
	index, ok := s.indexes[version]
	return index, ok, nil
}

func (s *Store) build(ctx context.Context, version string) (Index, error) {
	if !s.registry.Supports(version) {
		return nil, &DatasetLoadError{Version: version, Err: ErrUnsupportedVersion}
	}

	log.Printf("Creating index for %s", version)
	startTime := time.Now()

	items, err := s.registry.Load(ctx, version)
	if err != nil {
		return nil, &DatasetLoadError{Version: version, Err: err}
	}

	index, err := BuildIndex(items)
	if err != nil {
		return nil, &DatasetLoadError{Version: version, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		index.Close()
		return nil, ErrStoreClosed
	}
	s.indexes[version] = index

	log.Printf("✓ Index for %s ready (%d items) in %v", version, len(items), time.Since(startTime).Round(time.Millisecond))
	return index, nil
}

// Close closes every index; later GetOrBuild calls fail with ErrStoreClosed
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	for version, index := range s.indexes {
		if err := index.Close(); err != nil {
			log.Printf("Warning: Error closing index for %s: %v", version, err)
			errs = append(errs, err)
		}
		delete(s.indexes, version)
	}
	return errors.Join(errs...)
}
