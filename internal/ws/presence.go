package ws

import "sync"

// Registry tracks which connection currently speaks for a user. One live
// connection per user is the modeled behavior: a newer registration for the
// same user supersedes the old one. The interface is kept narrow so a shared
// (e.g. Redis-backed) registry can replace the in-memory one.
type Registry interface {
	// Register binds userID to connID, superseding any prior connection.
	Register(userID uint, connID string)
	// Remove drops the entry for connID and returns the user it belonged to.
	// A disconnect for a superseded connection is a no-op: it must never
	// evict the newer registration for the same user.
	Remove(connID string) (uint, bool)
	// Lookup returns the user's current connection handle, if any.
	Lookup(userID uint) (string, bool)
	// Count returns the number of users currently registered.
	Count() int
}

type memoryRegistry struct {
	mu     sync.RWMutex
	byUser map[uint]string
	byConn map[string]uint
}

// NewMemoryRegistry creates the process-local presence registry.
func NewMemoryRegistry() Registry {
	return &memoryRegistry{
		byUser: make(map[uint]string),
		byConn: make(map[string]uint),
	}
}

func (r *memoryRegistry) Register(userID uint, connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	// Last connection wins; drop the reverse entry of the superseded one so
	// its eventual disconnect cannot touch this registration.
	if old, ok := r.byUser[userID]; ok {
		delete(r.byConn, old)
	}
	r.byUser[userID] = connID
	r.byConn[connID] = userID
}

func (r *memoryRegistry) Remove(connID string) (uint, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	userID, ok := r.byConn[connID]
	if !ok {
		return 0, false
	}
	delete(r.byConn, connID)
	delete(r.byUser, userID)
	return userID, true
}

func (r *memoryRegistry) Lookup(userID uint) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	connID, ok := r.byUser[userID]
	return connID, ok
}

func (r *memoryRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser)
}
