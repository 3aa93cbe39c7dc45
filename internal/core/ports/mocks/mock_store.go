package mocks

import (
	"strconv"
	"sync"

	"github.com/CarloBu/lottie-svg-toolbox/internal/core/domain"
)

// MockPreferenceStore is an in-memory implementation of the
// PreferenceStore port for tests.
type MockPreferenceStore struct {
	mu     sync.RWMutex
	values map[string]string
	recent domain.RecentList

	// SaveRecentCalls counts SaveRecent invocations so tests can assert
	// touch-at-most-once behavior
	SaveRecentCalls int

	// Unavailable simulates persistent storage being broken; values
	// still stick in memory, matching the real adapter's degradation
	Unavailable bool
}

// NewMockPreferenceStore creates an empty mock store
func NewMockPreferenceStore() *MockPreferenceStore {
	return &MockPreferenceStore{values: make(map[string]string)}
}

func (m *MockPreferenceStore) GetString(key, def string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.values[key]; ok {
		return v
	}
	return def
}

func (m *MockPreferenceStore) SetString(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

func (m *MockPreferenceStore) GetBool(key string, def bool) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func (m *MockPreferenceStore) SetBool(key string, value bool) {
	m.SetString(key, strconv.FormatBool(value))
}

func (m *MockPreferenceStore) GetInt(key string, def int) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func (m *MockPreferenceStore) SetInt(key string, value int) {
	m.SetString(key, strconv.Itoa(value))
}

func (m *MockPreferenceStore) GetFloat(key string, def float64) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func (m *MockPreferenceStore) SetFloat(key string, value float64) {
	m.SetString(key, strconv.FormatFloat(value, 'g', -1, 64))
}

func (m *MockPreferenceStore) Recent() domain.RecentList {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.recent
}

func (m *MockPreferenceStore) SaveRecent(list domain.RecentList) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveRecentCalls++
	m.recent = list
}

func (m *MockPreferenceStore) Available() bool {
	return !m.Unavailable
}
