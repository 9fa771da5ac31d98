package chathub_test

import (
	"testing"

	"chatterbox/backend/internal/chathub"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_RegisterAndLookup(t *testing.T) {
	r := chathub.NewRegistry()
	clientA := newMockClient("user_a")

	_, ok := r.Lookup("user_a")
	assert.False(t, ok, "user must be offline before register")

	displaced := r.Register(clientA)
	assert.Nil(t, displaced)

	got, ok := r.Lookup("user_a")
	assert.True(t, ok)
	assert.Equal(t, clientA.GetConnID(), got.GetConnID())
}

func TestRegistry_LaterConnectionWins(t *testing.T) {
	r := chathub.NewRegistry()
	conn1 := newMockClient("user_a")
	conn2 := newMockClient("user_a")

	r.Register(conn1)
	displaced := r.Register(conn2)

	assert.NotNil(t, displaced)
	assert.Equal(t, conn1.GetConnID(), displaced.GetConnID())

	got, ok := r.Lookup("user_a")
	assert.True(t, ok)
	assert.Equal(t, conn2.GetConnID(), got.GetConnID(), "newest connection must be current")
}

func TestRegistry_StaleUnregisterIsNoOp(t *testing.T) {
	r := chathub.NewRegistry()
	conn1 := newMockClient("user_a")
	conn2 := newMockClient("user_a")

	r.Register(conn1)
	r.Register(conn2)

	// conn1's disconnect handler fires late; it must not remove conn2.
	assert.False(t, r.Unregister(conn1))
	_, ok := r.Lookup("user_a")
	assert.True(t, ok, "user must stay online after stale unregister")

	assert.True(t, r.Unregister(conn2))
	_, ok = r.Lookup("user_a")
	assert.False(t, ok)
}

func TestRegistry_LookupMatchesRegisterHistory(t *testing.T) {
	// lookup(u) returns a connection iff u's most recent register has not been
	// followed by a matching unregister for that same connection.
	r := chathub.NewRegistry()
	conn1 := newMockClient("user_a")
	conn2 := newMockClient("user_a")

	r.Register(conn1)
	assert.True(t, r.Unregister(conn1))
	_, ok := r.Lookup("user_a")
	assert.False(t, ok)

	r.Register(conn1)
	r.Register(conn2)
	r.Unregister(conn1) // stale
	_, ok = r.Lookup("user_a")
	assert.True(t, ok)

	r.Unregister(conn2)
	_, ok = r.Lookup("user_a")
	assert.False(t, ok)
}

func TestRegistry_Online(t *testing.T) {
	r := chathub.NewRegistry()
	r.Register(newMockClient("user_c"))
	r.Register(newMockClient("user_a"))
	r.Register(newMockClient("user_b"))

	assert.Equal(t, []string{"user_a", "user_b", "user_c"}, r.Online())
}
