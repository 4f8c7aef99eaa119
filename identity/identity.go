// Package identity resolves and persists a stable client identifier.
package identity

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/denisbrodbeck/machineid"
	"github.com/google/uuid"
)

const clientIDFileName = "client_id"

// Store resolves a client identifier once and caches it for the process
// lifetime. The identifier is read from a plain-text file; on miss it is
// derived from the machine id (random uuid as last resort) and written back.
// Resolution never fails: file-system problems only degrade identity
// stability to a fresh id per process.
type Store struct {
	path  string
	appID string

	mu sync.Mutex
	id string
}

// NewStore creates a Store persisting at path. If path is empty, the
// per-platform user config dir is used: <UserConfigDir>/<appID>/client_id.
func NewStore(path, appID string) *Store {
	return &Store{path: path, appID: appID}
}

// Resolve returns the client identifier, reading or creating the backing
// file on first call. Concurrent first calls are serialized so only one
// caller creates the file; the rest observe its value.
func (s *Store) Resolve() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.id != "" {
		return s.id
	}

	path := s.path
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			log.Printf("identity: no user config dir (%v), using non-persistent id", err)
			s.id = s.generate()
			return s.id
		}
		path = filepath.Join(dir, s.appID, clientIDFileName)
	}

	if data, err := os.ReadFile(path); err == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			s.id = id
			return s.id
		}
	}

	s.id = s.generate()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		log.Printf("identity: create dir for %s: %v", path, err)
		return s.id
	}
	if err := os.WriteFile(path, []byte(s.id+"\n"), 0644); err != nil {
		log.Printf("identity: persist client id to %s: %v", path, err)
	}
	return s.id
}

// generate derives an identifier from the machine id, falling back to a
// random uuid when the platform lookup fails.
func (s *Store) generate() string {
	if id, err := machineid.ProtectedID(s.appID); err == nil && id != "" {
		return id
	} else if err != nil {
		log.Printf("identity: machine id unavailable (%v), using random id", err)
	}
	return uuid.NewString()
}
