package browser

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// CookieStore keeps the dashboard cookies between runs so a restart can skip the login form.
type CookieStore struct {
	mu   sync.Mutex
	path string
}

type StoredCookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Domain   string    `json:"domain"`
	Path     string    `json:"path"`
	Expires  time.Time `json:"expires"`
	Secure   bool      `json:"secure"`
	HttpOnly bool      `json:"httpOnly"`
}

func NewCookieStore(path string) *CookieStore {
	return &CookieStore{path: path}
}

// Load returns the unexpired cookies on disk. A missing file is not an error.
func (s *CookieStore) Load() ([]StoredCookie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var stored []StoredCookie
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, err
	}

	now := time.Now()
	live := stored[:0]
	for _, c := range stored {
		if isExpired(c, now) {
			continue
		}
		live = append(live, c)
	}
	return live, nil
}

func (s *CookieStore) Save(cookies []StoredCookie) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cookies, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

func (s *CookieStore) HasCookies() bool {
	cookies, err := s.Load()
	return err == nil && len(cookies) > 0
}

func (s *CookieStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.path == "" {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// zero Expires is a session cookie
func isExpired(c StoredCookie, now time.Time) bool {
	return !c.Expires.IsZero() && c.Expires.Before(now)
}
