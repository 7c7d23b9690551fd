package live

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Conn is the transport side of a live client. Satisfied by
// *websocket.Conn from gorilla.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Client is one authenticated live connection.
type Client struct {
	UserID string
	Role   string

	writeMu sync.Mutex
	conn    Conn
}

func NewClient(userID, role string, conn Conn) *Client {
	return &Client{
		UserID: userID,
		Role:   role,
		conn:   conn,
	}
}

// Send writes one envelope to the client. Writes are serialized because
// broadcasts and unicasts may target the same connection concurrently.
func (c *Client) Send(envelope Envelope) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(envelope)
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// Registry tracks the currently subscribed live clients.
type Registry struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[*Client]struct{}),
	}
}

func (r *Registry) Register(client *Client) {
	if client == nil {
		return
	}

	r.mu.Lock()
	r.clients[client] = struct{}{}
	r.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"user_id": client.UserID,
		"role":    client.Role,
	}).Info("Live client registered")
}

// Unregister removes a client. Removing an absent client is a no-op.
func (r *Registry) Unregister(client *Client) {
	if client == nil {
		return
	}

	r.mu.Lock()
	_, registered := r.clients[client]
	delete(r.clients, client)
	r.mu.Unlock()

	if registered {
		logrus.WithField("user_id", client.UserID).Info("Live client unregistered")
	}
}

// IsRegistered reports whether the client is currently subscribed.
func (r *Registry) IsRegistered(client *Client) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.clients[client]
	return ok
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// Broadcast delivers an envelope to every registered client. A delivery
// failure unregisters and closes that one connection without interrupting
// delivery to the rest. The client set is snapshotted first so removals
// cannot corrupt the iteration.
func (r *Registry) Broadcast(envelope Envelope) {
	r.mu.RLock()
	snapshot := make([]*Client, 0, len(r.clients))
	for client := range r.clients {
		snapshot = append(snapshot, client)
	}
	r.mu.RUnlock()

	for _, client := range snapshot {
		if err := client.Send(envelope); err != nil {
			logrus.WithError(err).WithField("user_id", client.UserID).
				Warn("Broadcast delivery failed, dropping client")
			r.Unregister(client)
			client.Close()
		}
	}
}

// Unicast delivers an envelope to exactly one client. Failure is surfaced
// to the caller, which owns that connection's teardown.
func (r *Registry) Unicast(client *Client, envelope Envelope) error {
	return client.Send(envelope)
}
