package live

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConn records written envelopes and optionally fails every write.
type fakeConn struct {
	mu        sync.Mutex
	sent      []Envelope
	failWrite bool
	closed    bool
}

func (f *fakeConn) WriteJSON(v interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrite {
		return errors.New("write failed")
	}
	f.sent = append(f.sent, v.(Envelope))
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) envelopes() []Envelope {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Envelope, len(f.sent))
	copy(out, f.sent)
	return out
}

func (f *fakeConn) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func TestRegistryUnregisterIsIdempotent(t *testing.T) {
	registry := NewRegistry()
	client := NewClient("u1", "teacher", &fakeConn{})

	registry.Register(client)
	require.Equal(t, 1, registry.Count())
	assert.True(t, registry.IsRegistered(client))

	registry.Unregister(client)
	assert.Equal(t, 0, registry.Count())

	// Removing an absent client is a no-op, not an error.
	registry.Unregister(client)
	assert.Equal(t, 0, registry.Count())
	assert.False(t, registry.IsRegistered(client))
}

func TestRegistryBroadcastReachesAllClients(t *testing.T) {
	registry := NewRegistry()
	conns := []*fakeConn{{}, {}, {}}
	for i, conn := range conns {
		registry.Register(NewClient(string(rune('a'+i)), "student", conn))
	}

	registry.Broadcast(Envelope{Event: EventTodaySummary})

	for _, conn := range conns {
		envelopes := conn.envelopes()
		require.Len(t, envelopes, 1)
		assert.Equal(t, EventTodaySummary, envelopes[0].Event)
	}
}

func TestRegistryBroadcastIsolatesDeliveryFailure(t *testing.T) {
	registry := NewRegistry()
	healthy1 := &fakeConn{}
	broken := &fakeConn{failWrite: true}
	healthy2 := &fakeConn{}

	brokenClient := NewClient("broken", "student", broken)
	registry.Register(NewClient("h1", "student", healthy1))
	registry.Register(brokenClient)
	registry.Register(NewClient("h2", "student", healthy2))

	registry.Broadcast(Envelope{Event: EventAttendanceMarked})

	// The failing connection is dropped, the others still get the message.
	assert.Len(t, healthy1.envelopes(), 1)
	assert.Len(t, healthy2.envelopes(), 1)
	assert.Equal(t, 2, registry.Count())
	assert.False(t, registry.IsRegistered(brokenClient))
	assert.True(t, broken.isClosed())
}

func TestRegistryUnicastSurfacesFailure(t *testing.T) {
	registry := NewRegistry()
	conn := &fakeConn{failWrite: true}
	client := NewClient("u1", "student", conn)
	registry.Register(client)

	err := registry.Unicast(client, Envelope{Event: EventMyAttendance})
	assert.Error(t, err)
}
