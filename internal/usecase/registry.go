package usecase

import (
	"errors"
	"strings"
	"sync"

	"github.com/prasetyodidi/campfire/internal/domain"
)

var (
	// ErrEmptyUsername is returned when the username is blank after trimming
	ErrEmptyUsername = errors.New("Username is required!")

	// ErrEmptyRoom is returned when the room name is blank after trimming
	ErrEmptyRoom = errors.New("Room is required!")

	// ErrAlreadyJoined is returned when a connection tries to join twice
	ErrAlreadyJoined = errors.New("Already joined a room!")
)

// Registry tracks which user occupies each live connection. It is the only
// mutable state in the relay and must never hold an entry for a closed
// connection; the Router removes entries as the first step of disconnect
// handling.
type Registry struct {
	mu    sync.RWMutex
	users map[string]*domain.User
	order []string // connection IDs in join order, for deterministic listings
}

// NewRegistry creates an empty membership registry
func NewRegistry() *Registry {
	return &Registry{
		users: make(map[string]*domain.User),
	}
}

// roomKey normalizes a room name for equality: "Chat" and "chat" are the same room
func roomKey(room string) string {
	return strings.ToLower(strings.TrimSpace(room))
}

// Add validates and inserts a user for the given connection. Username and room
// are trimmed; either being empty after trimming fails validation with no state
// change. A connection that already holds an entry is rejected rather than
// overwritten. The room's original casing is preserved for display.
func (r *Registry) Add(connID, username, room string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	room = strings.TrimSpace(room)

	if username == "" {
		return nil, ErrEmptyUsername
	}
	if room == "" {
		return nil, ErrEmptyRoom
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[connID]; exists {
		return nil, ErrAlreadyJoined
	}

	user := domain.NewUser(connID, username, room)
	r.users[connID] = user
	r.order = append(r.order, connID)

	return user, nil
}

// Remove deletes the entry for a connection and returns the removed user, or
// nil if the connection was never joined. Removing an absent connection is a
// no-op, so disconnect handling stays idempotent.
func (r *Registry) Remove(connID string) *domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, exists := r.users[connID]
	if !exists {
		return nil
	}

	delete(r.users, connID)
	for i, id := range r.order {
		if id == connID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	return user
}

// Get returns the user for a connection, or nil if the connection has not joined
func (r *Registry) Get(connID string) *domain.User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.users[connID]
}

// UsersInRoom returns all current users of a room in join order. The room name
// is matched case-insensitively, the same normalization Add applies.
func (r *Registry) UsersInRoom(room string) []*domain.User {
	key := roomKey(room)

	r.mu.RLock()
	defer r.mu.RUnlock()

	var members []*domain.User
	for _, id := range r.order {
		if user := r.users[id]; user != nil && roomKey(user.Room) == key {
			members = append(members, user)
		}
	}
	return members
}

// Count returns the total number of joined connections
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}
