package auth

import (
	"crypto/subtle"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

// AdminPassword verifies the shared admin secret. The secret lives in a
// plaintext file; it is read once and cached, and re-read whenever the
// file's mtime changes, so rotating the password never requires a restart.
type AdminPassword struct {
	path string

	mu       sync.Mutex
	password string
	modTime  time.Time
	loaded   bool
}

// NewAdminPassword creates a verifier over the given password file.
func NewAdminPassword(path string) *AdminPassword {
	return &AdminPassword{path: path}
}

// Verify reports whether the candidate matches the stored password.
// Both sides are whitespace-trimmed; comparison is constant-time.
// A missing or unreadable password file fails every verification.
func (a *AdminPassword) Verify(candidate string) bool {
	current, ok := a.current()
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(strings.TrimSpace(candidate)), []byte(current)) == 1
}

func (a *AdminPassword) current() (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	info, err := os.Stat(a.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Error reading admin password file: %v", err)
		}
		a.loaded = false
		return "", false
	}

	if a.loaded && info.ModTime().Equal(a.modTime) {
		return a.password, true
	}

	data, err := os.ReadFile(a.path)
	if err != nil {
		log.Printf("Error reading admin password file: %v", err)
		a.loaded = false
		return "", false
	}

	a.password = strings.TrimSpace(string(data))
	a.modTime = info.ModTime()
	a.loaded = true
	return a.password, true
}
