package chathub

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"chatterbox/backend/internal/models"
	"chatterbox/backend/internal/storage"
)

// ClientEvent is one decoded frame from one connection, queued for the hub.
type ClientEvent struct {
	Client Client
	Event  models.Event
}

// ManagerService is the hub: it owns the presence registry and room
// membership, and serializes all event handling on a single Run loop. Each
// incoming event runs to completion before the next one starts, so handlers
// never race each other; the registry and room tables carry their own locks
// only for readers outside the loop (HTTP handlers, tests).
type ManagerService struct {
	Registry *Registry

	// Channels
	IncomingCh   chan ClientEvent
	RegisterCh   chan Client
	UnregisterCh chan Client

	Storage storage.Storage
	Calls   *CallService

	roomsMu sync.RWMutex
	rooms   map[string]map[Client]bool
}

// NewManagerService створює новий хаб разом з його CallService.
func NewManagerService(s storage.Storage) *ManagerService {
	m := &ManagerService{
		Registry:     NewRegistry(),
		IncomingCh:   make(chan ClientEvent),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		Storage:      s,
		rooms:        make(map[string]map[Client]bool),
	}
	m.Calls = NewCallService(m, s)
	return m
}

// Run запускає головний цикл хаба. Run should be called in its own goroutine.
func (m *ManagerService) Run() {
	log.Println("Hub started.")
	for {
		select {
		case c := <-m.RegisterCh:
			m.handleRegister(c)
		case c := <-m.UnregisterCh:
			m.handleUnregister(c)
		case ce := <-m.IncomingCh:
			m.dispatch(ce.Client, ce.Event)
		}
	}
}

// handleRegister admits an authenticated connection: it becomes the user's
// current connection, presence is re-broadcast, and pending messages are
// advanced to delivered exactly once for this registration.
func (m *ManagerService) handleRegister(c Client) {
	displaced := m.Registry.Register(c)
	if displaced != nil {
		// New login wins; tell the old socket why it is going away.
		m.sendEvent(displaced, EvError, models.ErrorPayload{
			Code:    "session-superseded",
			Message: "signed in from another device",
		})
		m.removeFromAllRooms(displaced)
		displaced.Close()
		log.Printf("Superseded connection %s for user %s", displaced.GetConnID(), c.GetUserID())
	}
	log.Printf("Client registered: user=%s conn=%s", c.GetUserID(), c.GetConnID())
	m.broadcastPresence()
	m.deliverPending(c)
}

// handleUnregister tears a connection down. The identity check inside
// Registry.Unregister makes a stale connection's late teardown a no-op for
// presence; room membership is keyed by the connection itself, so that part
// is always cleaned up.
func (m *ManagerService) handleUnregister(c Client) {
	m.removeFromAllRooms(c)
	if m.Registry.Unregister(c) {
		m.Calls.DropSessionsFor(c.GetUserID())
		if err := m.Storage.SetLastSeen(c.GetUserID(), time.Now()); err != nil {
			log.Printf("ERROR: Failed to store last-seen for %s: %v", c.GetUserID(), err)
		}
		log.Printf("Client unregistered: user=%s conn=%s", c.GetUserID(), c.GetConnID())
		m.broadcastPresence()
	}
	c.Close()
}

// dispatch routes one incoming event to its handler. The event-name set is
// closed: call events go to the call state machine, everything else matches
// one case below, and unknown names are dropped.
func (m *ManagerService) dispatch(c Client, ev models.Event) {
	if ct, action, ok := ParseCallEvent(ev.Name); ok {
		m.Calls.Handle(c, ct, action, ev.Data)
		return
	}

	switch ev.Name {
	case EvRoomJoin:
		var p models.RoomPayload
		if !m.decode(c, ev.Name, ev.Data, &p) || p.RoomID == "" {
			return
		}
		m.joinRoom(p.RoomID, c)
	case EvRoomLeave:
		var p models.RoomPayload
		if !m.decode(c, ev.Name, ev.Data, &p) || p.RoomID == "" {
			return
		}
		m.leaveRoom(p.RoomID, c)
	case EvTyping, EvTypingStop:
		m.handleTyping(c, ev.Name, ev.Data)
	case EvMessageSend:
		m.handleSendDirect(c, ev.Data)
	case EvGroupMessageSend:
		m.handleSendGroup(c, ev.Data)
	case EvMessagesSeen:
		m.handleSeen(c, ev.Data)
	case EvMessageReact:
		m.handleReact(c, ev.Data)
	case EvMessageEdit:
		m.handleEdit(c, ev.Data)
	case EvMessageDelete:
		m.handleDelete(c, ev.Data)
	default:
		log.Printf("Dropped unknown event %q from user %s", ev.Name, c.GetUserID())
	}
}

// decode unmarshals an event payload, logging and dropping on malformed JSON.
func (m *ManagerService) decode(c Client, name string, data json.RawMessage, v interface{}) bool {
	if err := json.Unmarshal(data, v); err != nil {
		log.Printf("Dropped malformed %q payload from user %s: %v", name, c.GetUserID(), err)
		return false
	}
	return true
}

func (m *ManagerService) broadcastPresence() {
	m.BroadcastAll(EvPresenceChanged, models.PresencePayload{Online: m.Registry.Online()})
}

// --- Room membership ---

func (m *ManagerService) joinRoom(roomID string, c Client) {
	m.roomsMu.Lock()
	defer m.roomsMu.Unlock()
	if m.rooms[roomID] == nil {
		m.rooms[roomID] = make(map[Client]bool)
	}
	m.rooms[roomID][c] = true
}

func (m *ManagerService) leaveRoom(roomID string, c Client) {
	m.roomsMu.Lock()
	defer m.roomsMu.Unlock()
	if members := m.rooms[roomID]; members != nil {
		delete(members, c)
		if len(members) == 0 {
			delete(m.rooms, roomID)
		}
	}
}

func (m *ManagerService) removeFromAllRooms(c Client) {
	m.roomsMu.Lock()
	defer m.roomsMu.Unlock()
	for roomID, members := range m.rooms {
		delete(members, c)
		if len(members) == 0 {
			delete(m.rooms, roomID)
		}
	}
}

// InRoom reports whether the connection has joined the room.
func (m *ManagerService) InRoom(roomID string, c Client) bool {
	m.roomsMu.RLock()
	defer m.roomsMu.RUnlock()
	return m.rooms[roomID][c]
}
