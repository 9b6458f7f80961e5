package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/mediconsult-api/internal/model"
	authsvc "github.com/jwalitptl/mediconsult-api/internal/service/auth"
	jwtauth "github.com/jwalitptl/mediconsult-api/pkg/auth"
	"github.com/jwalitptl/mediconsult-api/pkg/httputil"
)

const (
	ContextSession   = "session"
	ContextSessionID = "session_id"
	ContextUserID    = "user_id"
)

// Authenticator resolves a bearer token to a live session.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.Session, error)
}

type AuthMiddleware struct {
	auth Authenticator
}

func NewAuthMiddleware(auth Authenticator) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

// Authenticate verifies the bearer token and loads the session into the context
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httputil.NewErrorResponse("missing authorization header"))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httputil.NewErrorResponse("invalid authorization format"))
			return
		}

		session, err := m.auth.Authenticate(c.Request.Context(), parts[1])
		if err != nil {
			status, msg := http.StatusUnauthorized, "invalid or expired session"
			if !isAuthFailure(err) {
				log.Error().Err(err).Str("request_id", c.GetString(ContextRequestID)).Msg("session lookup failed")
				status, msg = http.StatusInternalServerError, "internal server error"
			}
			c.AbortWithStatusJSON(status, httputil.NewErrorResponse(msg))
			return
		}

		c.Set(ContextSession, session)
		c.Set(ContextSessionID, session.ID)
		c.Set(ContextUserID, session.UserID)
		c.Next()
	}
}

func isAuthFailure(err error) bool {
	return errors.Is(err, jwtauth.ErrInvalidToken) ||
		errors.Is(err, authsvc.ErrSessionNotFound) ||
		errors.Is(err, authsvc.ErrSessionExpired)
}

// RequireAdmin rejects sessions that did not log in as the administrator
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := CurrentSession(c)
		if session == nil || !session.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, httputil.NewErrorResponse("admin access required"))
			return
		}
		c.Next()
	}
}

// RequirePatient rejects the admin session on patient-only routes
func (m *AuthMiddleware) RequirePatient() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := CurrentSession(c)
		if session == nil || session.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, httputil.NewErrorResponse("patient session required"))
			return
		}
		c.Next()
	}
}

// CurrentSession returns the session stored by Authenticate, or nil.
func CurrentSession(c *gin.Context) *model.Session {
	v, ok := c.Get(ContextSession)
	if !ok {
		return nil
	}
	session, _ := v.(*model.Session)
	return session
}
