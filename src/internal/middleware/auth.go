package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"attendance-svc/src/internal/cache"
	"attendance-svc/src/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

// Claims represents JWT token claims
type Claims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// IdentityStore resolves a user ID to an identity. Implemented by the user
// repository.
type IdentityStore interface {
	GetIdentity(ctx context.Context, userID string) (*models.Identity, error)
}

// AuthMiddleware handles authentication and authorization
type AuthMiddleware struct {
	jwtSecret    string
	cacheService cache.Service
	users        IdentityStore
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(jwtSecret string, cacheService cache.Service, users IdentityStore) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret:    jwtSecret,
		cacheService: cacheService,
		users:        users,
	}
}

// IssueToken creates a signed bearer token for an identity.
func IssueToken(jwtSecret string, ttl time.Duration, identity *models.Identity) (string, error) {
	claims := &Claims{
		UserID: identity.UserID,
		Email:  identity.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}

// RequireAuth validates the bearer token and stores the identity in the
// request context.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := m.extractToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization token is required",
			})
			c.Abort()
			return
		}

		identity, err := m.Authenticate(c.Request.Context(), token)
		if err != nil {
			logrus.WithError(err).Error("Token validation failed")
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		// Store user info in context
		c.Set("user_id", identity.UserID)
		c.Set("user_name", identity.Name)
		c.Set("user_email", identity.Email)
		c.Set("user_role", identity.Role)

		logrus.WithFields(logrus.Fields{
			"user_id":   identity.UserID,
			"user_role": identity.Role,
		}).Debug("User authenticated successfully")

		c.Next()
	}
}

// RequireTeacher checks that the authenticated user has the teacher role.
func (m *AuthMiddleware) RequireTeacher() gin.HandlerFunc {
	return m.requireRole(models.RoleTeacher, "Forbidden, teacher access required")
}

// RequireStudent checks that the authenticated user has the student role.
func (m *AuthMiddleware) RequireStudent() gin.HandlerFunc {
	return m.requireRole(models.RoleStudent, "Forbidden student access required")
}

func (m *AuthMiddleware) requireRole(role, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRoleValue, exists := c.Get("user_role")
		if !exists {
			logrus.Error("User role not found in context - ensure RequireAuth middleware runs first")
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			c.Abort()
			return
		}

		userRole, ok := userRoleValue.(string)
		if !ok || userRole != role {
			userID, _ := c.Get("user_id")
			logrus.WithFields(logrus.Fields{
				"user_id":   userID,
				"user_role": userRole,
				"required":  role,
			}).Warn("User attempted to access endpoint without required role")

			c.JSON(http.StatusForbidden, gin.H{
				"error": message,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// Authenticate resolves a raw bearer token to an identity. Shared by the
// HTTP middleware and the live-session gateway.
func (m *AuthMiddleware) Authenticate(ctx context.Context, tokenString string) (*models.Identity, error) {
	claims, err := m.validateJWTToken(tokenString)
	if err != nil {
		return nil, err
	}

	if claims.UserID == "" || claims.Email == "" {
		return nil, models.ErrUnauthorized
	}

	// Redis first, MongoDB fallback
	if m.cacheService != nil {
		identity, err := m.cacheService.GetIdentity(ctx, claims.UserID)
		if err == nil && identity != nil {
			return identity, nil
		}
	}

	identity, err := m.users.GetIdentity(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	if m.cacheService != nil {
		m.cacheService.CacheIdentity(ctx, identity)
	}

	return identity, nil
}

// extractToken extracts JWT token from Authorization header
func (m *AuthMiddleware) extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		logrus.Error("Authorization header missing")
		return ""
	}

	// Extract token from "Bearer <token>" format
	if !strings.HasPrefix(authHeader, "Bearer ") {
		logrus.Error("Invalid authorization header format")
		return ""
	}

	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		logrus.Error("Empty token")
		return ""
	}

	return token
}

// validateJWTToken parses and validates JWT token (checks signature and expiration)
func (m *AuthMiddleware) validateJWTToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(m.jwtSecret), nil
	})

	if err != nil {
		// JWT library automatically checks expiration
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, models.ErrTokenExpired
		}
		return nil, models.ErrUnauthorized
	}

	if !token.Valid {
		return nil, models.ErrUnauthorized
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, models.ErrUnauthorized
	}

	return claims, nil
}
