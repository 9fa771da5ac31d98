package models_test

import (
	"testing"

	"chatterbox/backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// TestCallRecordBeforeCreate_GeneratesUUID verifies that the BeforeCreate hook generates a valid UUID.
func TestCallRecordBeforeCreate_GeneratesUUID(t *testing.T) {
	rec := &models.CallRecord{
		Type:       models.CallTypeVideo,
		CallerID:   "user_a",
		ReceiverID: "user_b",
		Status:     models.CallStatusInitiated,
	}

	err := rec.BeforeCreate(nil) // nil *gorm.DB is acceptable for this hook
	assert.NoError(t, err)
	assert.NotEmpty(t, rec.ID)

	parsed, parseErr := uuid.Parse(rec.ID)
	assert.NoError(t, parseErr, "CallRecord ID must be a valid UUID string")
	assert.NotEqual(t, uuid.Nil, parsed)
}

// TestCallRecordBeforeCreate_PreservesExistingID verifies that the hook doesn't overwrite an existing ID.
func TestCallRecordBeforeCreate_PreservesExistingID(t *testing.T) {
	existing := uuid.New().String()
	rec := &models.CallRecord{ID: existing}

	err := rec.BeforeCreate(nil)
	assert.NoError(t, err)
	assert.Equal(t, existing, rec.ID)
}

func TestCallStatus_Terminal(t *testing.T) {
	terminal := []models.CallStatus{
		models.CallStatusEnded,
		models.CallStatusRejected,
		models.CallStatusMissed,
		models.CallStatusFailed,
	}
	for _, s := range terminal {
		assert.True(t, s.Terminal(), string(s))
	}

	assert.False(t, models.CallStatusInitiated.Terminal())
	assert.False(t, models.CallStatusOngoing.Terminal())
}

func TestCallType_Valid(t *testing.T) {
	assert.True(t, models.CallTypeVoice.Valid())
	assert.True(t, models.CallTypeVideo.Valid())
	assert.False(t, models.CallType("screen").Valid())
	assert.False(t, models.CallType("").Valid())
}
