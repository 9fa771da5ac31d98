package chathub_test

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"chatterbox/backend/internal/models"

	"github.com/google/uuid"
)

// MockClient is a test double for the chathub.Client interface.
type MockClient struct {
	connID string
	userID string
	send   chan models.Event

	mu     sync.Mutex
	closed bool
}

func newMockClient(userID string) *MockClient {
	return &MockClient{
		connID: uuid.New().String(),
		userID: userID,
		send:   make(chan models.Event, 16), // Buffered to prevent blocking in tests
	}
}

func (c *MockClient) GetConnID() string                   { return c.connID }
func (c *MockClient) GetUserID() string                   { return c.userID }
func (c *MockClient) GetSendChannel() chan<- models.Event { return c.send }
func (c *MockClient) Run()                                {}

func (c *MockClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *MockClient) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// nextEvent waits for the next event delivered to the client.
func nextEvent(t *testing.T, c *MockClient) models.Event {
	t.Helper()
	select {
	case ev := <-c.send:
		return ev
	case <-time.After(time.Second):
		t.Fatalf("client %s received no event", c.userID)
		return models.Event{}
	}
}

// nextEventNamed discards events until one with the given name arrives.
// Useful when presence broadcasts interleave with the event under test.
func nextEventNamed(t *testing.T, c *MockClient, name string) models.Event {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		select {
		case ev := <-c.send:
			if ev.Name == name {
				return ev
			}
		case <-deadline:
			t.Fatalf("client %s never received %q", c.userID, name)
			return models.Event{}
		}
	}
}

// expectNoEvent asserts that nothing (or only presence noise) arrives.
func expectNoEventNamed(t *testing.T, c *MockClient, name string) {
	t.Helper()
	timeout := time.After(150 * time.Millisecond)
	for {
		select {
		case ev := <-c.send:
			if ev.Name == name {
				t.Fatalf("client %s unexpectedly received %q", c.userID, name)
			}
		case <-timeout:
			return
		}
	}
}

func decodePayload(t *testing.T, ev models.Event, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(ev.Data, v); err != nil {
		t.Fatalf("failed to decode %q payload: %v", ev.Name, err)
	}
}

func mustEvent(t *testing.T, name string, payload interface{}) models.Event {
	t.Helper()
	ev, err := models.NewEvent(name, payload)
	if err != nil {
		t.Fatalf("failed to build %q event: %v", name, err)
	}
	return ev
}
