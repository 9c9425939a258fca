package session

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/ryanfowler/curlc/internal/client"
)

var validName = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// IsValidName returns true if the store name contains only alphanumeric
// characters, hyphens, and underscores.
func IsValidName(name string) bool {
	return validName.MatchString(name)
}

// StoredCookie represents a JSON-serializable cookie.
type StoredCookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Domain   string    `json:"domain"`
	Path     string    `json:"path,omitzero"`
	Expires  time.Time `json:"expires,omitzero"`
	Secure   bool      `json:"secure,omitzero"`
	HttpOnly bool      `json:"http_only,omitzero"`
}

type storeFile struct {
	Cookies []StoredCookie `json:"cookies"`
}

// Store is a named cookie store persisted between invocations.
type Store struct {
	Name    string
	Cookies []StoredCookie
	path    string
	mu      sync.Mutex
}

// LoadStore loads a store from disk or creates a new empty one. Expired
// cookies are dropped on load.
func LoadStore(name string) (*Store, error) {
	if !IsValidName(name) {
		return nil, fmt.Errorf("invalid session name '%s': must contain only letters, digits, '-' and '_'", name)
	}

	dir, err := getStoreDir()
	if err != nil {
		return nil, err
	}

	s := &Store{Name: name, path: filepath.Join(dir, name+".json")}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}

	var f storeFile
	if err := json.Unmarshal(data, &f); err != nil {
		return s, err
	}

	now := time.Now()
	s.Cookies = make([]StoredCookie, 0, len(f.Cookies))
	for _, c := range f.Cookies {
		if !c.Expires.IsZero() && c.Expires.Before(now) {
			continue
		}
		s.Cookies = append(s.Cookies, c)
	}
	return s, nil
}

// Save atomically writes the store to disk.
func (s *Store) Save() error {
	s.mu.Lock()
	data, err := json.MarshalIndent(storeFile{Cookies: s.Cookies}, "", "  ")
	s.mu.Unlock()
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return s.write(data)
}

func (s *Store) write(data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".session-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, s.path)
}

// Jar returns an http.CookieJar seeded with the stored cookies that records
// every cookie it receives back into the Store.
func (s *Store) Jar() (http.CookieJar, error) {
	jar, err := client.NewJar()
	if err != nil {
		return nil, err
	}

	for _, c := range s.Cookies {
		scheme := "http"
		if c.Secure {
			scheme = "https"
		}
		u := &url.URL{Scheme: scheme, Host: c.Domain, Path: c.Path}
		jar.SetCookies(u, []*http.Cookie{{
			Name:     c.Name,
			Value:    c.Value,
			Path:     c.Path,
			Expires:  c.Expires,
			Secure:   c.Secure,
			HttpOnly: c.HttpOnly,
		}})
	}

	return &storeJar{jar: jar, store: s}, nil
}

type storeJar struct {
	jar   http.CookieJar
	store *Store
}

func (j *storeJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.jar.SetCookies(u, cookies)

	for _, c := range cookies {
		sc := StoredCookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  c.Expires,
			Secure:   c.Secure,
			HttpOnly: c.HttpOnly,
		}
		if sc.Domain == "" {
			sc.Domain = u.Hostname()
		}
		if sc.Path == "" {
			sc.Path = "/"
		}
		j.store.put(sc)
	}
}

func (j *storeJar) Cookies(u *url.URL) []*http.Cookie {
	return j.jar.Cookies(u)
}

// put replaces the cookie with the same name, domain and path, or appends it.
func (s *Store) put(c StoredCookie) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.Cookies {
		if existing.Name == c.Name && existing.Domain == c.Domain && existing.Path == c.Path {
			s.Cookies[i] = c
			return
		}
	}
	s.Cookies = append(s.Cookies, c)
}

func getStoreDir() (string, error) {
	if dir := os.Getenv("CURLC_INTERNAL_SESSIONS_DIR"); dir != "" {
		return dir, os.MkdirAll(dir, 0o755)
	}

	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, "curlc", "sessions")
	return path, os.MkdirAll(path, 0o755)
}
