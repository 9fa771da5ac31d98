package models

import "encoding/json"

// Event is the wire envelope for everything that crosses a websocket,
// in either direction: a name plus a JSON payload.
type Event struct {
	Name string          `json:"event"`
	Data json.RawMessage `json:"data,omitempty"`
}

// NewEvent будує Event, серіалізуючи payload у JSON.
func NewEvent(name string, payload interface{}) (Event, error) {
	if payload == nil {
		return Event{Name: name}, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{Name: name, Data: data}, nil
}

// --- Client → hub payloads ---

type RoomPayload struct {
	RoomID string `json:"room_id"`
}

type TypingPayload struct {
	SenderID string `json:"sender_id,omitempty"` // filled in by the hub, never trusted from the client
	TargetID string `json:"target_id,omitempty"` // direct peer
	RoomID   string `json:"room_id,omitempty"`   // group room
}

type SendMessagePayload struct {
	ReceiverID    string `json:"receiver_id,omitempty"`
	RoomID        string `json:"room_id,omitempty"`
	Text          string `json:"text"`
	AttachmentURL string `json:"attachment_url,omitempty"`
}

type SeenPayload struct {
	PeerID string `json:"peer_id"`
}

type ReactPayload struct {
	MessageID uint   `json:"message_id"`
	Emoji     string `json:"emoji"`
}

type EditPayload struct {
	MessageID uint   `json:"message_id"`
	Text      string `json:"text"`
}

type DeletePayload struct {
	MessageID uint `json:"message_id"`
}

type CallInitiatePayload struct {
	TargetID   string          `json:"target_id"`
	Offer      json.RawMessage `json:"offer"`
	CallerName string          `json:"caller_name,omitempty"`
}

type CallAcceptPayload struct {
	TargetID string          `json:"target_id"`
	Answer   json.RawMessage `json:"answer"`
	CallID   string          `json:"call_id,omitempty"`
}

type CallRejectPayload struct {
	TargetID string `json:"target_id"`
	CallID   string `json:"call_id,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

type CallSignalPayload struct {
	TargetID  string          `json:"target_id"`
	Candidate json.RawMessage `json:"candidate"`
	CallID    string          `json:"call_id,omitempty"`
}

type CallEndPayload struct {
	TargetID string `json:"target_id"`
	CallID   string `json:"call_id,omitempty"`
}

// --- Hub → client payloads ---

type PresencePayload struct {
	Online []string `json:"online"`
}

type DeliveredPayload struct {
	ReceiverID string `json:"receiver_id"`
}

type SeenNoticePayload struct {
	ConversationID string `json:"conversation_id"` // the reader's user id
}

type CallCreatedPayload struct {
	CallID string `json:"call_id"`
}

type CallIncomingPayload struct {
	CallID     string          `json:"call_id"`
	Offer      json.RawMessage `json:"offer"`
	CallerID   string          `json:"caller_id"`
	CallerName string          `json:"caller_name,omitempty"`
}

type CallAcceptedPayload struct {
	CallID string          `json:"call_id,omitempty"`
	Answer json.RawMessage `json:"answer"`
}

type CallRejectedPayload struct {
	CallID string `json:"call_id,omitempty"`
	Reason string `json:"reason,omitempty"`
}

type CallSignalRelayPayload struct {
	CallID    string          `json:"call_id,omitempty"`
	SenderID  string          `json:"sender_id"`
	Candidate json.RawMessage `json:"candidate"`
}

type CallEndedPayload struct {
	CallID  string `json:"call_id,omitempty"`
	EndedBy string `json:"ended_by"`
}

// ErrorPayload carries a named, user-facing failure back to one connection.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
