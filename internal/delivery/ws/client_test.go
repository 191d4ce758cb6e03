package ws

import (
	"encoding/json"
	"testing"

	"github.com/prasetyodidi/campfire/internal/domain"
	"github.com/prasetyodidi/campfire/internal/usecase"
)

func TestNewClient(t *testing.T) {
	hub := NewHub()
	router := usecase.NewRouter(usecase.NewRegistry(), hub, nil)

	client := NewClient(hub, router, nil)

	if client.ID == "" {
		t.Error("Expected a generated connection identity")
	}
	if client.send == nil {
		t.Error("Expected client.send channel to be initialized")
	}

	other := NewClient(hub, router, nil)
	if other.ID == client.ID {
		t.Error("Expected connection identities to be unique")
	}
}

func TestClient_Send(t *testing.T) {
	hub := NewHub()
	client := newMockClient(hub)

	client.Send([]byte("test message"))

	select {
	case received := <-client.send:
		if string(received) != "test message" {
			t.Errorf("Expected 'test message', got %s", string(received))
		}
	default:
		t.Error("Expected message to be in send channel")
	}
}

// drain empties the client's send queue and returns the decoded messages
func drain(t *testing.T, c *Client) []domain.Message {
	t.Helper()
	var out []domain.Message
	for {
		select {
		case data := <-c.send:
			var msg domain.Message
			if err := json.Unmarshal(data, &msg); err != nil {
				t.Fatalf("Invalid JSON on send queue: %v", err)
			}
			out = append(out, msg)
		default:
			return out
		}
	}
}

func ackOf(t *testing.T, msgs []domain.Message, event string) *domain.AckPayload {
	t.Helper()
	for _, m := range msgs {
		if m.Type != domain.MessageTypeAck {
			continue
		}
		var p domain.AckPayload
		if err := json.Unmarshal(m.Payload, &p); err != nil {
			t.Fatalf("Invalid ack payload: %v", err)
		}
		if p.For == event {
			return &p
		}
	}
	return nil
}

func TestClient_Dispatch_Join(t *testing.T) {
	hub := NewHub()
	client := newMockClient(hub)
	hub.Register(client)

	client.dispatch(domain.EventJoin, json.RawMessage(`{"username":"alice","room":"general"}`))

	msgs := drain(t, client)
	ack := ackOf(t, msgs, domain.EventJoin)
	if ack == nil {
		t.Fatal("Expected a join ack")
	}
	if ack.Error != "" {
		t.Errorf("Expected empty ack on success, got %q", ack.Error)
	}

	// The welcome and the room snapshot arrive through the hub
	var types []domain.MessageType
	for _, m := range msgs {
		types = append(types, m.Type)
	}
	if len(msgs) != 3 {
		t.Errorf("Expected welcome + snapshot + ack, got %v", types)
	}
}

func TestClient_Dispatch_Join_ValidationError(t *testing.T) {
	hub := NewHub()
	client := newMockClient(hub)
	hub.Register(client)

	client.dispatch(domain.EventJoin, json.RawMessage(`{"username":"  ","room":"general"}`))

	ack := ackOf(t, drain(t, client), domain.EventJoin)
	if ack == nil {
		t.Fatal("Expected a join ack")
	}
	if ack.Error == "" {
		t.Error("Expected the validation error text in the ack")
	}
}

func TestClient_Dispatch_SendLocationAck(t *testing.T) {
	hub := NewHub()
	client := newMockClient(hub)
	hub.Register(client)

	client.dispatch(domain.EventJoin, json.RawMessage(`{"username":"alice","room":"general"}`))
	drain(t, client)

	client.dispatch(domain.EventSendLocation, json.RawMessage(`{"latitude":48.8566,"longitude":2.3522}`))

	msgs := drain(t, client)
	ack := ackOf(t, msgs, domain.EventSendLocation)
	if ack == nil {
		t.Fatal("Expected a location ack")
	}
	if ack.Message != "Location shared!" {
		t.Errorf("Expected fixed confirmation, got %q", ack.Message)
	}

	// The sender never receives their own location broadcast
	for _, m := range msgs {
		if m.Type == domain.MessageTypeLocation {
			t.Error("Sender must not receive the location event")
		}
	}
}

func TestClient_Dispatch_BeforeJoinIsSilent(t *testing.T) {
	hub := NewHub()
	client := newMockClient(hub)
	hub.Register(client)

	client.dispatch(domain.EventSendMessage, json.RawMessage(`{"text":"hello"}`))

	if msgs := drain(t, client); len(msgs) != 0 {
		t.Errorf("Expected protocol error to be swallowed, got %d messages", len(msgs))
	}
}

func TestClient_Dispatch_MalformedPayload(t *testing.T) {
	hub := NewHub()
	client := newMockClient(hub)
	hub.Register(client)

	client.dispatch(domain.EventJoin, json.RawMessage(`"not an object"`))
	client.dispatch("unknown-event", json.RawMessage(`{}`))

	if msgs := drain(t, client); len(msgs) != 0 {
		t.Errorf("Expected malformed input to be ignored, got %d messages", len(msgs))
	}
}
