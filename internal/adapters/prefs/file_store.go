package prefs

import (
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/CarloBu/lottie-svg-toolbox/internal/core/domain"
)

// state is the on-disk shape of the preference file
type state struct {
	Values map[string]string `yaml:"values"`
	Recent domain.RecentList `yaml:"recent"`
}

// FileStore is a PreferenceStore backed by a single YAML state file.
//
// All persistence is best-effort: a missing or corrupt file yields
// defaults, and write failures degrade to in-memory operation so a
// read-only home directory never breaks the viewer itself. Callers can
// check Available to warn the user once.
type FileStore struct {
	path string

	mu        sync.RWMutex
	values    map[string]string
	recent    domain.RecentList
	available bool
}

// NewFileStore loads the state file at path, tolerating absence and
// corruption.
func NewFileStore(path string) *FileStore {
	s := &FileStore{
		path:      path,
		values:    make(map[string]string),
		available: true,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.available = false
		}
		return s
	}

	var st state
	if err := yaml.Unmarshal(data, &st); err != nil {
		// Corrupt state is discarded, not fatal; the next flush
		// rewrites it wholesale.
		return s
	}
	if st.Values != nil {
		s.values = st.Values
	}
	s.recent = st.Recent
	return s
}

func (s *FileStore) GetString(key, def string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.values[key]; ok {
		return v
	}
	return def
}

func (s *FileStore) SetString(key, value string) {
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()
	s.flush()
}

func (s *FileStore) GetBool(key string, def bool) bool {
	v := s.GetString(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func (s *FileStore) SetBool(key string, value bool) {
	s.SetString(key, strconv.FormatBool(value))
}

func (s *FileStore) GetInt(key string, def int) int {
	v := s.GetString(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func (s *FileStore) SetInt(key string, value int) {
	s.SetString(key, strconv.Itoa(value))
}

func (s *FileStore) GetFloat(key string, def float64) float64 {
	v := s.GetString(key, "")
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func (s *FileStore) SetFloat(key string, value float64) {
	s.SetString(key, strconv.FormatFloat(value, 'g', -1, 64))
}

func (s *FileStore) Recent() domain.RecentList {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.recent
}

func (s *FileStore) SaveRecent(list domain.RecentList) {
	s.mu.Lock()
	s.recent = list
	s.mu.Unlock()
	s.flush()
}

// Available reports whether the last persistence attempt succeeded
func (s *FileStore) Available() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.available
}

// flush writes the whole state file. Failures flip Available but are
// otherwise swallowed; the in-memory state stays authoritative for the
// session.
func (s *FileStore) flush() {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := yaml.Marshal(state{Values: s.values, Recent: s.recent})
	if err != nil {
		s.available = false
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		s.available = false
		return
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		s.available = false
		return
	}
	s.available = true
}
