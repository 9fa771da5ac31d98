package chathub

import (
	"sort"
	"sync"
)

// Registry is the presence table: the single source of truth for "is this
// user reachable right now". At most one connection per user; a later
// connection replaces an earlier one.
//
// Mutations happen on the hub's run loop, but reads also come from HTTP
// handlers, so the table is guarded by an RWMutex.
type Registry struct {
	mu     sync.RWMutex
	byUser map[string]Client
}

func NewRegistry() *Registry {
	return &Registry{byUser: make(map[string]Client)}
}

// Register makes c the current connection for its user and returns the
// displaced connection, if any, so the caller can decide what to do with it.
func (r *Registry) Register(c Client) (displaced Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev := r.byUser[c.GetUserID()]
	r.byUser[c.GetUserID()] = c
	if prev != nil && prev.GetConnID() == c.GetConnID() {
		return nil
	}
	return prev
}

// Lookup returns the current connection for a user, if the user is online.
func (r *Registry) Lookup(userID string) (Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byUser[userID]
	return c, ok
}

// Unregister removes c from the table only if it is still the current
// connection for its user. This guards against a stale connection's late
// disconnect handler removing a newer session. Reports whether the entry
// was removed.
func (r *Registry) Unregister(c Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.byUser[c.GetUserID()]
	if !ok || cur.GetConnID() != c.GetConnID() {
		return false
	}
	delete(r.byUser, c.GetUserID())
	return true
}

// Online returns the sorted set of user ids with a live connection.
func (r *Registry) Online() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.byUser))
	for id := range r.byUser {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Clients returns a snapshot of all current connections.
func (r *Registry) Clients() []Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Client, 0, len(r.byUser))
	for _, c := range r.byUser {
		out = append(out, c)
	}
	return out
}
