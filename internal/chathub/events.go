package chathub

import (
	"strings"

	"chatterbox/backend/internal/models"
)

// Event names form a closed set; dispatch over them is exhaustive and anything
// outside the set is dropped as a validation failure.
const (
	// hub → all
	EvPresenceChanged = "presence:changed"

	// client → hub
	EvRoomJoin  = "room:join"
	EvRoomLeave = "room:leave"

	// client → hub → target(s)
	EvTyping     = "typing"
	EvTypingStop = "typing:stop"

	// client → hub
	EvMessageSend      = "message:send"
	EvGroupMessageSend = "group:message:send"
	EvMessageReact     = "message:react"
	EvMessageEdit      = "message:edit"
	EvMessageDelete    = "message:delete"
	EvMessagesSeen     = "messages:seen"

	// hub → target(s)
	EvNewMessage        = "message:new"
	EvNewGroupMessage   = "group:message:new"
	EvMessageUpdate     = "message:update"
	EvMessagesDelivered = "messages:delivered"

	// hub → one connection
	EvError = "error"
)

// Call event actions. Full event names are "<type>:call:<action>",
// e.g. "video:call:initiate" or "voice:call:ended". Voice and video run the
// same state machine under their own prefix.
const (
	CallActionInitiate = "initiate"
	CallActionCreated  = "created"
	CallActionIncoming = "incoming"
	CallActionAccept   = "accept"
	CallActionAccepted = "accepted"
	CallActionReject   = "reject"
	CallActionRejected = "rejected"
	CallActionSignal   = "signal"
	CallActionEnd      = "end"
	CallActionEnded    = "ended"
	CallActionError    = "error"
)

// CallEventName builds the namespaced event name for a call action.
func CallEventName(t models.CallType, action string) string {
	return string(t) + ":call:" + action
}

// ParseCallEvent splits a call event name into its call type and action.
// Returns ok=false for anything that is not a call event.
func ParseCallEvent(name string) (models.CallType, string, bool) {
	prefix, action, found := strings.Cut(name, ":call:")
	if !found || action == "" {
		return "", "", false
	}
	t := models.CallType(prefix)
	if !t.Valid() {
		return "", "", false
	}
	return t, action, true
}
