package live

import (
	"context"
	"net/http"

	"attendance-svc/src/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Authenticator resolves a bearer token to an identity. Implemented by the
// auth middleware.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.Identity, error)
}

// Gateway upgrades HTTP requests to live-session connections and runs the
// per-connection read loop.
type Gateway struct {
	upgrader websocket.Upgrader
	auth     Authenticator
	registry *Registry
	router   *Router
}

func NewGateway(auth Authenticator, registry *Registry, router *Router) *Gateway {
	return &Gateway{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		auth:     auth,
		registry: registry,
		router:   router,
	}
}

// Handle serves GET /ws. The connection is accepted first, then
// authenticated from the token query parameter; a failed authentication
// gets one ERROR message and the connection is closed without ever being
// registered.
func (g *Gateway) Handle(c *gin.Context) {
	conn, err := g.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	identity, err := g.authenticate(c)
	if err != nil {
		conn.WriteJSON(errorEnvelope("Unauthorized or invalid token"))
		conn.Close()
		return
	}

	client := NewClient(identity.UserID, identity.Role, conn)
	g.registry.Register(client)

	defer func() {
		g.registry.Unregister(client)
		client.Close()
	}()

	ctx := c.Request.Context()
	for {
		var event Inbound
		if err := conn.ReadJSON(&event); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logrus.WithError(err).WithField("user_id", client.UserID).Warn("Live connection error")
			}
			return
		}

		g.router.Route(ctx, client, event)
	}
}

func (g *Gateway) authenticate(c *gin.Context) (*models.Identity, error) {
	token := c.Query("token")
	if token == "" {
		return nil, models.ErrUnauthorized
	}

	return g.auth.Authenticate(c.Request.Context(), token)
}
