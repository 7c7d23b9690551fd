package live

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"attendance-svc/src/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthenticator struct {
	identities map[string]*models.Identity
}

func (f *fakeAuthenticator) Authenticate(ctx context.Context, token string) (*models.Identity, error) {
	identity, ok := f.identities[token]
	if !ok {
		return nil, models.ErrUnauthorized
	}
	return identity, nil
}

func newGatewayFixture(t *testing.T) (*Registry, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := NewStore()
	registry := NewRegistry()
	finalizer := NewFinalizer(store, &fakeRoster{}, newFakeRecords(), nil, nil)
	router := NewRouter(store, registry, finalizer)

	auth := &fakeAuthenticator{identities: map[string]*models.Identity{
		"teacher-token": {UserID: "t1", Role: models.RoleTeacher},
	}}
	gateway := NewGateway(auth, registry, router)

	engine := gin.New()
	engine.GET("/ws", gateway.Handle)

	server := httptest.NewServer(engine)
	t.Cleanup(server.Close)
	return registry, server
}

func wsURL(server *httptest.Server, token string) string {
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	if token != "" {
		url += "?token=" + token
	}
	return url
}

func TestGatewayRejectsUnauthenticatedConnection(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{name: "missing token", token: ""},
		{name: "unknown token", token: "bogus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry, server := newGatewayFixture(t)

			conn, _, err := websocket.DefaultDialer.Dial(wsURL(server, tt.token), nil)
			require.NoError(t, err)
			defer conn.Close()

			var envelope Envelope
			require.NoError(t, conn.ReadJSON(&envelope))
			assert.Equal(t, EventError, envelope.Event)
			data, ok := envelope.Data.(map[string]interface{})
			require.True(t, ok)
			assert.Equal(t, "Unauthorized or invalid token", data["message"])

			// One error frame, then the server closes without registering.
			require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
			assert.Error(t, conn.ReadJSON(&envelope))
			assert.Zero(t, registry.Count())
		})
	}
}

func TestGatewayRegistersAuthenticatedConnection(t *testing.T) {
	registry, server := newGatewayFixture(t)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(server, "teacher-token"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		return registry.Count() == 1
	}, time.Second, 10*time.Millisecond)
}

func TestGatewayUnregistersOnClientClose(t *testing.T) {
	registry, server := newGatewayFixture(t)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(server, "teacher-token"), nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return registry.Count() == 1
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())

	assert.Eventually(t, func() bool {
		return registry.Count() == 0
	}, time.Second, 10*time.Millisecond)
}
