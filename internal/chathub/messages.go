package chathub

import (
	"encoding/json"
	"log"

	"chatterbox/backend/internal/models"
)

// Message handlers. Every message is written to the store before any event
// goes out; that write is the only durability guarantee the hub offers.

func (m *ManagerService) handleSendDirect(c Client, data json.RawMessage) {
	var p models.SendMessagePayload
	if !m.decode(c, EvMessageSend, data, &p) || p.ReceiverID == "" {
		return
	}

	msg := &models.Message{
		SenderID:      c.GetUserID(),
		ReceiverID:    p.ReceiverID,
		Text:          p.Text,
		AttachmentURL: p.AttachmentURL,
		Status:        models.MessageStatusSent,
	}
	if err := m.Storage.SaveMessage(msg); err != nil {
		m.sendEvent(c, EvError, models.ErrorPayload{Code: "internal", Message: "could not save message"})
		return
	}

	// Ack the sender with the persisted entity, then route to the receiver if
	// online. The status stays "sent" until the receiver's next registration
	// runs the delivery updater.
	m.sendEvent(c, EvNewMessage, msg)
	m.EmitToUser(p.ReceiverID, EvNewMessage, msg)
}

func (m *ManagerService) handleSendGroup(c Client, data json.RawMessage) {
	var p models.SendMessagePayload
	if !m.decode(c, EvGroupMessageSend, data, &p) || p.RoomID == "" {
		return
	}
	if !m.InRoom(p.RoomID, c) {
		log.Printf("Dropped group message from %s outside room %s", c.GetUserID(), p.RoomID)
		return
	}

	msg := &models.Message{
		SenderID:      c.GetUserID(),
		RoomID:        p.RoomID,
		Text:          p.Text,
		AttachmentURL: p.AttachmentURL,
		Status:        models.MessageStatusSent,
	}
	if err := m.Storage.SaveMessage(msg); err != nil {
		m.sendEvent(c, EvError, models.ErrorPayload{Code: "internal", Message: "could not save message"})
		return
	}

	m.sendEvent(c, EvNewGroupMessage, msg)
	m.EmitToRoom(p.RoomID, EvNewGroupMessage, msg, c.GetUserID())
}

// handleSeen advances everything unread from one peer to "seen" and sends
// that peer a single read receipt.
func (m *ManagerService) handleSeen(c Client, data json.RawMessage) {
	var p models.SeenPayload
	if !m.decode(c, EvMessagesSeen, data, &p) || p.PeerID == "" {
		return
	}

	updated, err := m.Storage.MarkConversationSeen(c.GetUserID(), p.PeerID)
	if err != nil {
		m.sendEvent(c, EvError, models.ErrorPayload{Code: "internal", Message: "could not update read state"})
		return
	}
	if updated > 0 {
		m.EmitToUser(p.PeerID, EvMessagesSeen, models.SeenNoticePayload{
			ConversationID: c.GetUserID(),
		})
	}
}

func (m *ManagerService) handleReact(c Client, data json.RawMessage) {
	var p models.ReactPayload
	if !m.decode(c, EvMessageReact, data, &p) || p.Emoji == "" {
		return
	}

	msg, ok := m.loadOwnedOrSharedMessage(c, p.MessageID)
	if !ok {
		return
	}

	// One reaction per user: same emoji again toggles it off, a different
	// emoji replaces the previous one.
	userID := c.GetUserID()
	kept := msg.Reactions[:0]
	toggledOff := false
	for _, r := range msg.Reactions {
		if r.UserID != userID {
			kept = append(kept, r)
		} else if r.Emoji == p.Emoji {
			toggledOff = true
		}
	}
	msg.Reactions = kept
	if !toggledOff {
		msg.Reactions = append(msg.Reactions, models.Reaction{UserID: userID, Emoji: p.Emoji})
	}

	if err := m.Storage.SaveMessage(msg); err != nil {
		m.sendEvent(c, EvError, models.ErrorPayload{Code: "internal", Message: "could not save reaction"})
		return
	}
	m.emitMessageUpdate(c, msg)
}

func (m *ManagerService) handleEdit(c Client, data json.RawMessage) {
	var p models.EditPayload
	if !m.decode(c, EvMessageEdit, data, &p) {
		return
	}

	msg, ok := m.loadOwnedOrSharedMessage(c, p.MessageID)
	if !ok {
		return
	}
	if msg.SenderID != c.GetUserID() || msg.Removed {
		log.Printf("Dropped edit of message %d by non-owner %s", p.MessageID, c.GetUserID())
		return
	}

	msg.Text = p.Text
	msg.Edited = true
	if err := m.Storage.SaveMessage(msg); err != nil {
		m.sendEvent(c, EvError, models.ErrorPayload{Code: "internal", Message: "could not save edit"})
		return
	}
	m.emitMessageUpdate(c, msg)
}

func (m *ManagerService) handleDelete(c Client, data json.RawMessage) {
	var p models.DeletePayload
	if !m.decode(c, EvMessageDelete, data, &p) {
		return
	}

	msg, ok := m.loadOwnedOrSharedMessage(c, p.MessageID)
	if !ok {
		return
	}
	if msg.SenderID != c.GetUserID() {
		log.Printf("Dropped delete of message %d by non-owner %s", p.MessageID, c.GetUserID())
		return
	}

	msg.Removed = true
	if err := m.Storage.SaveMessage(msg); err != nil {
		m.sendEvent(c, EvError, models.ErrorPayload{Code: "internal", Message: "could not delete message"})
		return
	}
	m.emitMessageUpdate(c, msg)
}

// loadOwnedOrSharedMessage fetches a message and verifies the acting
// connection participates in its conversation.
func (m *ManagerService) loadOwnedOrSharedMessage(c Client, id uint) (*models.Message, bool) {
	msg, err := m.Storage.GetMessageByID(id)
	if err != nil {
		m.sendEvent(c, EvError, models.ErrorPayload{Code: "internal", Message: "could not load message"})
		return nil, false
	}
	if msg == nil {
		m.sendEvent(c, EvError, models.ErrorPayload{Code: "not-found", Message: "message not found"})
		return nil, false
	}

	userID := c.GetUserID()
	switch {
	case msg.RoomID != "":
		if !m.InRoom(msg.RoomID, c) {
			log.Printf("Dropped message op from %s outside room %s", userID, msg.RoomID)
			return nil, false
		}
	case msg.SenderID != userID && msg.ReceiverID != userID:
		log.Printf("Dropped message op from non-participant %s on message %d", userID, id)
		return nil, false
	}
	return msg, true
}

// emitMessageUpdate republishes a mutated message entity to everyone who can
// see the conversation.
func (m *ManagerService) emitMessageUpdate(c Client, msg *models.Message) {
	if msg.RoomID != "" {
		m.EmitToRoom(msg.RoomID, EvMessageUpdate, msg)
		return
	}
	m.sendEvent(c, EvMessageUpdate, msg)
	other := msg.ReceiverID
	if other == c.GetUserID() {
		other = msg.SenderID
	}
	if other != c.GetUserID() {
		m.EmitToUser(other, EvMessageUpdate, msg)
	}
}
