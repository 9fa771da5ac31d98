package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"gorm.io/gorm"
)

// MessageStatus is the delivery lifecycle state of a message.
// Keep values stable because they are part of the public API.
type MessageStatus string

const (
	MessageStatusSent      MessageStatus = "sent"
	MessageStatusDelivered MessageStatus = "delivered"
	MessageStatusSeen      MessageStatus = "seen"
)

// Reaction is one user's emoji reaction to a message.
type Reaction struct {
	UserID string `json:"user_id"`
	Emoji  string `json:"emoji"`
}

// ReactionList is stored as a JSONB column.
type ReactionList []Reaction

func (r ReactionList) Value() (driver.Value, error) {
	if r == nil {
		return "[]", nil
	}
	b, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (r *ReactionList) Scan(src interface{}) error {
	if src == nil {
		*r = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, r)
	case string:
		return json.Unmarshal([]byte(v), r)
	default:
		return errors.New("unsupported type for ReactionList")
	}
}

// Message represents a saved chat message in the PostgreSQL database.
// The embedded gorm.Model provides ID, CreatedAt, UpdatedAt, and DeletedAt fields,
// which serve as the message ID and timestamps.
type Message struct {
	gorm.Model

	// SenderID is the ID of the user who sent the message.
	SenderID string `gorm:"type:text;not null;index:idx_conv" json:"sender_id"`
	// ReceiverID is the target user for a direct message. Empty for group messages.
	ReceiverID string `gorm:"type:text;index:idx_conv" json:"receiver_id,omitempty"`
	// RoomID is the target group for a group message. Empty for direct messages.
	RoomID string `gorm:"type:text;index" json:"room_id,omitempty"`
	// Text is the main content of the message.
	Text string `gorm:"type:text" json:"text"`
	// AttachmentURL points at an uploaded attachment, if any.
	AttachmentURL string `gorm:"type:text" json:"attachment_url,omitempty"`
	// Status tracks the sent/delivered/seen lifecycle for direct messages.
	Status MessageStatus `gorm:"type:varchar(16);not null;index" json:"status"`
	// Edited marks a message whose text was changed after sending.
	Edited bool `json:"edited"`
	// Removed is the user-visible soft-delete flag. The row stays in place so
	// the other side still sees a "message removed" placeholder.
	Removed   bool         `json:"removed"`
	Reactions ReactionList `gorm:"type:jsonb" json:"reactions"`
}
