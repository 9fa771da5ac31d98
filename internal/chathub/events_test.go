package chathub_test

import (
	"testing"

	"chatterbox/backend/internal/chathub"
	"chatterbox/backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestParseCallEvent(t *testing.T) {
	tests := []struct {
		name       string
		eventName  string
		wantType   models.CallType
		wantAction string
		wantOK     bool
	}{
		{"video initiate", "video:call:initiate", models.CallTypeVideo, "initiate", true},
		{"voice end", "voice:call:end", models.CallTypeVoice, "end", true},
		{"voice signal", "voice:call:signal", models.CallTypeVoice, "signal", true},
		{"unknown media kind", "screen:call:initiate", "", "", false},
		{"not a call event", "message:send", "", "", false},
		{"missing action", "video:call:", "", "", false},
		{"empty", "", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ct, action, ok := chathub.ParseCallEvent(tt.eventName)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantType, ct)
				assert.Equal(t, tt.wantAction, action)
			}
		})
	}
}

func TestCallEventName_RoundTrip(t *testing.T) {
	for _, ct := range []models.CallType{models.CallTypeVoice, models.CallTypeVideo} {
		for _, action := range []string{
			chathub.CallActionInitiate, chathub.CallActionAccept, chathub.CallActionReject,
			chathub.CallActionSignal, chathub.CallActionEnd,
		} {
			name := chathub.CallEventName(ct, action)
			gotType, gotAction, ok := chathub.ParseCallEvent(name)
			assert.True(t, ok, name)
			assert.Equal(t, ct, gotType)
			assert.Equal(t, action, gotAction)
		}
	}
}
