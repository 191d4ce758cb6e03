package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// MessageType defines the type of event pushed to clients
type MessageType string

const (
	MessageTypeChat     MessageType = "message"
	MessageTypeLocation MessageType = "locationMessage"
	MessageTypeRoomData MessageType = "roomData"
	MessageTypeAck      MessageType = "ack"
)

// AdminAuthor is the reserved author name for system-generated messages
const AdminAuthor = "Admin"

// Inbound event names accepted from clients
const (
	EventJoin         = "join"
	EventSendMessage  = "sendMessage"
	EventSendLocation = "sendLocation"
)

// Message is the envelope for every event pushed to a client
type Message struct {
	ID        string          `json:"id"`
	Type      MessageType     `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// ChatPayload is the payload for text messages, user- and system-authored alike
type ChatPayload struct {
	Author string `json:"author"`
	Body   string `json:"body"`
	SentAt int64  `json:"sentAtEpochMillis"`
}

// LocationPayload is the payload for shared map links
type LocationPayload struct {
	Author string `json:"author"`
	URL    string `json:"url"`
	SentAt int64  `json:"sentAtEpochMillis"`
}

// RoomDataPayload is the room-state snapshot sent on membership changes
type RoomDataPayload struct {
	Room  string   `json:"room"`
	Users []string `json:"users"`
}

// AckPayload answers an inbound event on the originating connection only
type AckPayload struct {
	For     string `json:"for"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// JoinPayload is the inbound payload for join events
type JoinPayload struct {
	Username string `json:"username"`
	Room     string `json:"room"`
}

// SendMessagePayload is the inbound payload for chat messages
type SendMessagePayload struct {
	Text string `json:"text"`
}

// SendLocationPayload is the inbound payload for location shares
type SendLocationPayload struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func newMessage(t MessageType, payload interface{}) Message {
	data, _ := json.Marshal(payload)
	return Message{
		ID:        uuid.New().String(),
		Type:      t,
		Payload:   data,
		CreatedAt: time.Now(),
	}
}

// NewChatMessage builds a chat event with the current timestamp
func NewChatMessage(author, body string) Message {
	return newMessage(MessageTypeChat, ChatPayload{
		Author: author,
		Body:   body,
		SentAt: time.Now().UnixMilli(),
	})
}

// NewLocationMessage builds a location-share event with the current timestamp
func NewLocationMessage(author, url string) Message {
	return newMessage(MessageTypeLocation, LocationPayload{
		Author: author,
		URL:    url,
		SentAt: time.Now().UnixMilli(),
	})
}

// NewRoomData builds a room-state snapshot event
func NewRoomData(room string, users []string) Message {
	return newMessage(MessageTypeRoomData, RoomDataPayload{
		Room:  room,
		Users: users,
	})
}

// NewAck builds a direct acknowledgment for an inbound event
func NewAck(event, errText, message string) Message {
	return newMessage(MessageTypeAck, AckPayload{
		For:     event,
		Error:   errText,
		Message: message,
	})
}

// Encode marshals the message for the wire
func (m Message) Encode() []byte {
	data, _ := json.Marshal(m)
	return data
}
