package chathub

import "chatterbox/backend/internal/models"

// Client is the interface for one live, authenticated connection.
// It abstracts the underlying transport, allowing the hub to manage
// different client types uniformly.
type Client interface {
	// GetConnID returns the unique identifier of this particular connection.
	// A user who reconnects gets a new connection id; the registry uses it to
	// tell a stale disconnect apart from the current session.
	GetConnID() string
	// GetUserID returns the authenticated user identity behind the connection.
	GetUserID() string

	// GetSendChannel returns the channel to which the hub sends events
	// intended for this specific client. It is a send-only channel.
	GetSendChannel() chan<- models.Event

	// Run starts the client's read and write pumps, which handle incoming and
	// outgoing events.
	Run()
	// Close gracefully shuts down the client's underlying connection.
	// Safe to call more than once.
	Close()
}
