package chathub

import (
	"log"

	"chatterbox/backend/internal/models"
)

// Delivery is fire-and-forget: an offline target is silently skipped, a slow
// client is dropped rather than queued behind. Durability is the persisted
// Message's job, not the router's; a reconnecting client refetches state.

// EmitToUser delivers one event to a user's current connection, if any.
// Reports whether the user was online.
func (m *ManagerService) EmitToUser(userID, name string, payload interface{}) bool {
	c, ok := m.Registry.Lookup(userID)
	if !ok {
		return false
	}
	m.sendEvent(c, name, payload)
	return true
}

// EmitToRoom delivers one event to every connection joined to the room,
// except connections whose user id is listed in exclude.
func (m *ManagerService) EmitToRoom(roomID, name string, payload interface{}, exclude ...string) {
	ev, err := models.NewEvent(name, payload)
	if err != nil {
		log.Printf("ERROR: Failed to encode %q payload: %v", name, err)
		return
	}

	m.roomsMu.RLock()
	members := make([]Client, 0, len(m.rooms[roomID]))
	for c := range m.rooms[roomID] {
		members = append(members, c)
	}
	m.roomsMu.RUnlock()

	for _, c := range members {
		if excluded(c.GetUserID(), exclude) {
			continue
		}
		trySend(c, ev)
	}
}

// BroadcastAll delivers one event to every currently-registered connection.
func (m *ManagerService) BroadcastAll(name string, payload interface{}) {
	ev, err := models.NewEvent(name, payload)
	if err != nil {
		log.Printf("ERROR: Failed to encode %q payload: %v", name, err)
		return
	}
	for _, c := range m.Registry.Clients() {
		trySend(c, ev)
	}
}

// sendEvent delivers one event to a specific connection handle.
func (m *ManagerService) sendEvent(c Client, name string, payload interface{}) {
	ev, err := models.NewEvent(name, payload)
	if err != nil {
		log.Printf("ERROR: Failed to encode %q payload: %v", name, err)
		return
	}
	trySend(c, ev)
}

// trySend enqueues without blocking. A full send buffer means the client has
// stopped draining; the connection is closed and its read pump will follow up
// with the normal unregister path.
func trySend(c Client, ev models.Event) {
	select {
	case c.GetSendChannel() <- ev:
	default:
		log.Printf("Send buffer full for user %s, dropping connection %s", c.GetUserID(), c.GetConnID())
		c.Close()
	}
}

func excluded(userID string, exclude []string) bool {
	for _, id := range exclude {
		if id == userID {
			return true
		}
	}
	return false
}
