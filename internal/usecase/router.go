package usecase

import (
	"errors"
	"strconv"
	"sync"

	"github.com/prasetyodidi/campfire/internal/domain"
)

var (
	// ErrProfanity is returned when a chat message fails content screening
	ErrProfanity = errors.New("Profanity is not allowed!")

	// ErrNotJoined is returned for events from a connection that never joined.
	// The transport treats it as a protocol error and does not broadcast anything.
	ErrNotJoined = errors.New("Join a room first!")
)

const (
	welcomeBody       = "Welcome!"
	locationSharedAck = "Location shared!"
)

// Sender delivers an encoded event to a single live connection.
// Delivery to a connection that has since closed must be a silent no-op.
type Sender interface {
	Send(connID string, data []byte)
}

// Screener decides whether a chat message's text is rejected before broadcast
type Screener interface {
	IsProfane(text string) bool
}

// Router translates per-connection events into broadcasts over the current room
// membership. It owns the Registry exclusively, and a single mutex serializes
// every event end-to-end so that the membership consulted for a broadcast can
// never be torn between two concurrent joins or disconnects.
type Router struct {
	mu       sync.Mutex
	registry *Registry
	sender   Sender
	screener Screener
}

// NewRouter creates a Router over the given registry, outbound sender, and
// profanity screener. A nil screener disables content screening.
func NewRouter(registry *Registry, sender Sender, screener Screener) *Router {
	return &Router{
		registry: registry,
		sender:   sender,
		screener: screener,
	}
}

// Registry exposes the membership registry for read-only callers such as the
// health endpoint. Mutations stay inside the Router.
func (rt *Router) Registry() *Registry {
	return rt.registry
}

// Join admits a connection into a room. On success the sender gets a personal
// welcome, the rest of the room a join announcement, and the whole room a fresh
// membership snapshot. On validation failure nothing is stored or broadcast and
// the error text is the ack for the joining connection.
func (rt *Router) Join(connID, username, room string) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	user, err := rt.registry.Add(connID, username, room)
	if err != nil {
		return err
	}

	rt.push(connID, domain.NewChatMessage(domain.AdminAuthor, welcomeBody))

	members := rt.registry.UsersInRoom(user.Room)
	joined := domain.NewChatMessage(domain.AdminAuthor, user.Username+" has joined!")
	for _, m := range members {
		if m.ConnID != connID {
			rt.push(m.ConnID, joined)
		}
	}

	rt.pushRoomData(user.Room, members)
	return nil
}

// SendMessage relays a chat message to every member of the sender's room,
// sender included, unless the text fails profanity screening.
func (rt *Router) SendMessage(connID, text string) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	user := rt.registry.Get(connID)
	if user == nil {
		return ErrNotJoined
	}

	if rt.screener != nil && rt.screener.IsProfane(text) {
		return ErrProfanity
	}

	msg := domain.NewChatMessage(user.Username, text)
	for _, m := range rt.registry.UsersInRoom(user.Room) {
		rt.push(m.ConnID, msg)
	}
	return nil
}

// SendLocation relays a map link to every other member of the sender's room.
// The sender is excluded: it gets the fixed confirmation ack instead.
func (rt *Router) SendLocation(connID string, lat, lon float64) (string, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	user := rt.registry.Get(connID)
	if user == nil {
		return "", ErrNotJoined
	}

	url := "https://google.com/maps?q=" +
		strconv.FormatFloat(lat, 'f', -1, 64) + "," +
		strconv.FormatFloat(lon, 'f', -1, 64)

	msg := domain.NewLocationMessage(user.Username, url)
	for _, m := range rt.registry.UsersInRoom(user.Room) {
		if m.ConnID != connID {
			rt.push(m.ConnID, msg)
		}
	}
	return locationSharedAck, nil
}

// Disconnect removes the connection's registry entry before anything else, then
// announces the departure and a refreshed snapshot to the remaining members.
// A connection that never joined disconnects silently.
func (rt *Router) Disconnect(connID string) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	user := rt.registry.Remove(connID)
	if user == nil {
		return
	}

	members := rt.registry.UsersInRoom(user.Room)
	left := domain.NewChatMessage(domain.AdminAuthor, user.Username+" has left!")
	for _, m := range members {
		rt.push(m.ConnID, left)
	}

	rt.pushRoomData(user.Room, members)
}

// push encodes and delivers one event to one connection
func (rt *Router) push(connID string, msg domain.Message) {
	rt.sender.Send(connID, msg.Encode())
}

// pushRoomData sends a membership snapshot to every listed member
func (rt *Router) pushRoomData(room string, members []*domain.User) {
	usernames := make([]string, 0, len(members))
	for _, m := range members {
		usernames = append(usernames, m.Username)
	}

	snapshot := domain.NewRoomData(room, usernames)
	for _, m := range members {
		rt.push(m.ConnID, snapshot)
	}
}
