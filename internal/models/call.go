package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq" // Необхідний для pq.StringArray
	"gorm.io/gorm"
)

// CallType distinguishes the two media kinds that share one call state machine.
type CallType string

const (
	CallTypeVoice CallType = "voice"
	CallTypeVideo CallType = "video"
)

// Valid reports whether t is one of the known call types.
func (t CallType) Valid() bool {
	return t == CallTypeVoice || t == CallTypeVideo
}

// CallStatus is the lifecycle state of a call attempt.
// Keep values stable because they are part of the public API.
type CallStatus string

const (
	CallStatusInitiated CallStatus = "INITIATED"
	CallStatusOngoing   CallStatus = "ONGOING"
	CallStatusEnded     CallStatus = "ENDED"
	CallStatusRejected  CallStatus = "REJECTED"
	CallStatusMissed    CallStatus = "MISSED"
	CallStatusFailed    CallStatus = "FAILED"
)

// Terminal reports whether the status is final. A terminal record is never
// transitioned again.
func (s CallStatus) Terminal() bool {
	switch s {
	case CallStatusEnded, CallStatusRejected, CallStatusMissed, CallStatusFailed:
		return true
	}
	return false
}

// CallRecord represents one call attempt's lifecycle and metadata.
type CallRecord struct {
	ID           string         `gorm:"primaryKey" json:"id"` // UUID
	Type         CallType       `gorm:"type:varchar(8);not null" json:"type"`
	CallerID     string         `gorm:"type:text;not null;index" json:"caller_id"`
	ReceiverID   string         `gorm:"type:text;not null;index" json:"receiver_id"`
	Participants pq.StringArray `gorm:"type:text[]" json:"participants"`
	Status       CallStatus     `gorm:"type:varchar(16);not null;index" json:"status"`
	StartedAt    *time.Time     `json:"started_at,omitempty"`
	EndedAt      *time.Time     `json:"ended_at,omitempty"`
	// Duration is in seconds; zero when the call never reached ONGOING.
	Duration  int       `json:"duration"`
	EndedBy   string    `gorm:"type:text" json:"ended_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate генерує новий UUID для запису, якщо ID ще не встановлено.
func (c *CallRecord) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}
