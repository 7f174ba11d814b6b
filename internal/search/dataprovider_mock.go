package search

import (
	"io/fs"
	"sync"
)

// MockDataProvider implements DataProvider for testing.
// It keeps files in memory and counts reads so tests can assert how often
// a dataset was loaded.
type MockDataProvider struct {
	mu    sync.Mutex
	files map[string][]byte
	reads map[string]int
}

// NewMockDataProvider creates a new mock data provider for testing.
func NewMockDataProvider() *MockDataProvider {
	return &MockDataProvider{
		files: make(map[string][]byte),
		reads: make(map[string]int),
	}
}

// AddFile adds a file to the mock provider.
func (m *MockDataProvider) AddFile(name string, content []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = content
}

// ReadFile reads a file from the mock storage.
func (m *MockDataProvider) ReadFile(name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reads[name]++
	content, exists := m.files[name]
	if !exists {
		return nil, fs.ErrNotExist
	}
	return content, nil
}

// Reads returns how many times name was read.
func (m *MockDataProvider) Reads(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads[name]
}
