package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// Session is the persisted login: the backend's session cookies plus the
// user they belong to.
type Session struct {
	Username string    `json:"username"`
	BaseURL  string    `json:"base_url"`
	Cookies  []Cookie  `json:"cookies"`
	SavedAt  time.Time `json:"saved_at"`
}

type Cookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Path    string    `json:"path,omitempty"`
	Expires time.Time `json:"expires,omitzero"`
}

func sessionPath() string {
	return filepath.Join(ConfigDir(), "session.json")
}

func withLock(fn func() error) error {
	if err := os.MkdirAll(ConfigDir(), 0o700); err != nil {
		return err
	}
	lock := flock.New(sessionPath() + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock session file: %w", err)
	}
	defer lock.Unlock()
	return fn()
}

// LoadSession returns the saved login, or nil when there is none.
func LoadSession() (*Session, error) {
	var s *Session
	err := withLock(func() error {
		data, err := os.ReadFile(sessionPath())
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		if err != nil {
			return err
		}
		s = &Session{}
		if err := json.Unmarshal(data, s); err != nil {
			return fmt.Errorf("parse session file: %w", err)
		}
		return nil
	})
	return s, err
}

func SaveSession(s Session) error {
	if s.SavedAt.IsZero() {
		s.SavedAt = time.Now()
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return withLock(func() error {
		return os.WriteFile(sessionPath(), data, 0o600)
	})
}

// ClearSession removes the saved login. It is not an error if none exists.
func ClearSession() error {
	return withLock(func() error {
		err := os.Remove(sessionPath())
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	})
}

// HTTPCookies converts the saved cookies for the API client, skipping
// expired ones.
func (s *Session) HTTPCookies() []*http.Cookie {
	if s == nil {
		return nil
	}
	now := time.Now()
	var out []*http.Cookie
	for _, c := range s.Cookies {
		if !c.Expires.IsZero() && c.Expires.Before(now) {
			continue
		}
		out = append(out, &http.Cookie{Name: c.Name, Value: c.Value, Path: c.Path, Expires: c.Expires})
	}
	return out
}

// CookiesFrom builds the persisted form of the client's cookies.
func CookiesFrom(cookies []*http.Cookie) []Cookie {
	out := make([]Cookie, 0, len(cookies))
	for _, c := range cookies {
		out = append(out, Cookie{Name: c.Name, Value: c.Value, Path: c.Path, Expires: c.Expires})
	}
	return out
}
