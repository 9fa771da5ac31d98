package chathub_test

import (
	"testing"
	"time"

	"chatterbox/backend/internal/chathub"
	"chatterbox/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// startHub wires a hub around the given storage mock and runs its loop.
func startHub(st *MockStorage) *chathub.ManagerService {
	hub := chathub.NewManagerService(st)
	go hub.Run()
	return hub
}

// permissiveStorage covers the calls every registration/teardown makes, so
// tests that don't care about them stay quiet.
func permissiveStorage() *MockStorage {
	st := new(MockStorage)
	st.On("DeliverPendingMessages", mock.AnythingOfType("string")).Return([]string{}, nil).Maybe()
	st.On("SetLastSeen", mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil).Maybe()
	return st
}

func register(hub *chathub.ManagerService, c *MockClient) {
	hub.RegisterCh <- c
	time.Sleep(100 * time.Millisecond)
}

func unregister(hub *chathub.ManagerService, c *MockClient) {
	hub.UnregisterCh <- c
	time.Sleep(100 * time.Millisecond)
}

func send(hub *chathub.ManagerService, c *MockClient, ev models.Event) {
	hub.IncomingCh <- chathub.ClientEvent{Client: c, Event: ev}
	time.Sleep(100 * time.Millisecond)
}

func TestManager_RegisterUnregister(t *testing.T) {
	st := permissiveStorage()
	hub := startHub(st)

	clientA := newMockClient("user_a")
	register(hub, clientA)

	_, ok := hub.Registry.Lookup("user_a")
	assert.True(t, ok)

	// Registration broadcasts the full presence snapshot.
	ev := nextEventNamed(t, clientA, chathub.EvPresenceChanged)
	var p models.PresencePayload
	decodePayload(t, ev, &p)
	assert.Equal(t, []string{"user_a"}, p.Online)

	unregister(hub, clientA)
	_, ok = hub.Registry.Lookup("user_a")
	assert.False(t, ok)
	st.AssertCalled(t, "SetLastSeen", "user_a", mock.AnythingOfType("time.Time"))
}

func TestManager_PresenceBroadcastReachesEveryone(t *testing.T) {
	hub := startHub(permissiveStorage())

	clientA := newMockClient("user_a")
	clientB := newMockClient("user_b")
	register(hub, clientA)
	register(hub, clientB)

	// A sees the snapshot that includes B coming online.
	for {
		ev := nextEventNamed(t, clientA, chathub.EvPresenceChanged)
		var p models.PresencePayload
		decodePayload(t, ev, &p)
		if len(p.Online) == 2 {
			assert.Equal(t, []string{"user_a", "user_b"}, p.Online)
			break
		}
	}
}

func TestManager_SupersededConnectionIsClosed(t *testing.T) {
	hub := startHub(permissiveStorage())

	conn1 := newMockClient("user_a")
	conn2 := newMockClient("user_a")
	register(hub, conn1)
	register(hub, conn2)

	ev := nextEventNamed(t, conn1, chathub.EvError)
	var p models.ErrorPayload
	decodePayload(t, ev, &p)
	assert.Equal(t, "session-superseded", p.Code)
	assert.True(t, conn1.Closed())

	got, ok := hub.Registry.Lookup("user_a")
	assert.True(t, ok)
	assert.Equal(t, conn2.GetConnID(), got.GetConnID())

	// The stale connection's late teardown must not knock user_a offline.
	unregister(hub, conn1)
	_, ok = hub.Registry.Lookup("user_a")
	assert.True(t, ok)
}

func TestManager_RoomJoinLeave(t *testing.T) {
	hub := startHub(permissiveStorage())

	clientA := newMockClient("user_a")
	register(hub, clientA)

	send(hub, clientA, mustEvent(t, chathub.EvRoomJoin, models.RoomPayload{RoomID: "room_1"}))
	assert.True(t, hub.InRoom("room_1", clientA))

	send(hub, clientA, mustEvent(t, chathub.EvRoomLeave, models.RoomPayload{RoomID: "room_1"}))
	assert.False(t, hub.InRoom("room_1", clientA))
}

func TestManager_DisconnectLeavesJoinedRooms(t *testing.T) {
	hub := startHub(permissiveStorage())

	clientA := newMockClient("user_a")
	register(hub, clientA)
	send(hub, clientA, mustEvent(t, chathub.EvRoomJoin, models.RoomPayload{RoomID: "room_1"}))

	unregister(hub, clientA)
	assert.False(t, hub.InRoom("room_1", clientA))
}

func TestManager_UnknownEventIsDropped(t *testing.T) {
	hub := startHub(permissiveStorage())

	clientA := newMockClient("user_a")
	register(hub, clientA)

	// Must not crash the loop or emit anything.
	send(hub, clientA, models.Event{Name: "no:such:event"})
	expectNoEventNamed(t, clientA, chathub.EvError)

	_, ok := hub.Registry.Lookup("user_a")
	assert.True(t, ok, "hub loop must survive unknown events")
}

func TestManager_MalformedPayloadIsDropped(t *testing.T) {
	hub := startHub(permissiveStorage())

	clientA := newMockClient("user_a")
	register(hub, clientA)

	send(hub, clientA, models.Event{Name: chathub.EvRoomJoin, Data: []byte(`{"room_id": 42}`)})
	assert.False(t, hub.InRoom("42", clientA))

	_, ok := hub.Registry.Lookup("user_a")
	assert.True(t, ok, "hub loop must survive malformed payloads")
}
