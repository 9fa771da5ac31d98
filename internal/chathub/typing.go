package chathub

import (
	"encoding/json"

	"chatterbox/backend/internal/models"
)

// handleTyping relays an ephemeral typing/stop-typing signal. Nothing is
// persisted and no timers live here: the client auto-emits the stop signal
// after its own idle window, the hub just forwards.
func (m *ManagerService) handleTyping(c Client, name string, data json.RawMessage) {
	var p models.TypingPayload
	if !m.decode(c, name, data, &p) {
		return
	}

	// The sender identity always comes from the connection, never the payload.
	senderID := c.GetUserID()

	switch {
	case p.RoomID != "":
		m.EmitToRoom(p.RoomID, name, models.TypingPayload{
			SenderID: senderID,
			RoomID:   p.RoomID,
		}, senderID)
	case p.TargetID != "" && p.TargetID != senderID:
		m.EmitToUser(p.TargetID, name, models.TypingPayload{SenderID: senderID})
	}
}
