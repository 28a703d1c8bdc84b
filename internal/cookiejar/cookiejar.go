// Package cookiejar wraps the stdlib cookie jar with file persistence.
// The platform issues session cookies (SESSDATA and friends) during QR
// login; persisting them keeps the session across restarts.
package cookiejar

import (
	"encoding/json"
	"fmt"
	"net/http"
	stdjar "net/http/cookiejar"
	"net/url"
	"os"
	"sync"
	"time"
)

const filePerm = 0o600

// Jar is a persistent http.CookieJar. Cookies are tracked per origin as they
// are set, so the full set can be serialized; the inner stdlib jar does the
// domain-matching work.
type Jar struct {
	mu      sync.Mutex
	inner   *stdjar.Jar
	path    string
	entries map[string]map[string]*http.Cookie // origin -> cookie name -> cookie
}

type savedCookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Path     string    `json:"path,omitempty"`
	Domain   string    `json:"domain,omitempty"`
	Expires  time.Time `json:"expires,omitempty"`
	Secure   bool      `json:"secure,omitempty"`
	HTTPOnly bool      `json:"httpOnly,omitempty"`
}

type fileEntry struct {
	Origin  string        `json:"origin"`
	Cookies []savedCookie `json:"cookies"`
}

// New creates a jar backed by the given file. A missing file is not an
// error: the jar starts empty (anonymous session).
func New(path string) (*Jar, error) {
	inner, err := stdjar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("new jar: %w", err)
	}

	j := &Jar{
		inner:   inner,
		path:    path,
		entries: make(map[string]map[string]*http.Cookie),
	}

	if err := j.load(); err != nil {
		return nil, fmt.Errorf("load cookies: %w", err)
	}

	return j, nil
}

// SetCookies implements http.CookieJar.
func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.inner.SetCookies(u, cookies)

	origin := u.Scheme + "://" + u.Host

	byName := j.entries[origin]
	if byName == nil {
		byName = make(map[string]*http.Cookie)
		j.entries[origin] = byName
	}

	for _, c := range cookies {
		if c.MaxAge < 0 || (!c.Expires.IsZero() && c.Expires.Before(time.Now())) {
			delete(byName, c.Name)

			continue
		}

		byName[c.Name] = c
	}
}

// Cookies implements http.CookieJar.
func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()

	return j.inner.Cookies(u)
}

// Save writes all tracked cookies to the backing file.
func (j *Jar) Save() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	entries := make([]fileEntry, 0, len(j.entries))

	for origin, byName := range j.entries {
		entry := fileEntry{Origin: origin}
		for _, c := range byName {
			entry.Cookies = append(entry.Cookies, savedCookie{
				Name:     c.Name,
				Value:    c.Value,
				Path:     c.Path,
				Domain:   c.Domain,
				Expires:  c.Expires,
				Secure:   c.Secure,
				HTTPOnly: c.HttpOnly,
			})
		}

		entries = append(entries, entry)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cookies: %w", err)
	}

	tmp := j.path + ".tmp"
	if err := os.WriteFile(tmp, data, filePerm); err != nil {
		return fmt.Errorf("write cookie file: %w", err)
	}

	if err := os.Rename(tmp, j.path); err != nil {
		return fmt.Errorf("rename cookie file: %w", err)
	}

	return nil
}

// Clear drops all cookies and removes the backing file.
func (j *Jar) Clear() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	inner, err := stdjar.New(nil)
	if err != nil {
		return fmt.Errorf("new jar: %w", err)
	}

	j.inner = inner
	j.entries = make(map[string]map[string]*http.Cookie)

	err = os.Remove(j.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove cookie file: %w", err)
	}

	return nil
}

func (j *Jar) load() error {
	data, err := os.ReadFile(j.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read cookie file: %w", err)
	}

	var entries []fileEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("unmarshal cookies: %w", err)
	}

	now := time.Now()

	for _, entry := range entries {
		u, err := url.Parse(entry.Origin)
		if err != nil {
			continue
		}

		cookies := make([]*http.Cookie, 0, len(entry.Cookies))

		for _, c := range entry.Cookies {
			if !c.Expires.IsZero() && c.Expires.Before(now) {
				continue
			}

			cookies = append(cookies, &http.Cookie{
				Name:     c.Name,
				Value:    c.Value,
				Path:     c.Path,
				Domain:   c.Domain,
				Expires:  c.Expires,
				Secure:   c.Secure,
				HttpOnly: c.HTTPOnly,
			})
		}

		if len(cookies) > 0 {
			j.SetCookies(u, cookies)
		}
	}

	return nil
}
