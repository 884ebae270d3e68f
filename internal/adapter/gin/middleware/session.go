package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"image-classifier-service/internal/usecase/auth"
	apperrors "image-classifier-service/pkg/errors"
	"image-classifier-service/pkg/logger"
)

const (
	currentUserKey = "current_user"
	sessionIDKey   = "session_id"

	// LoginPath is where anonymous callers of gated routes are sent.
	LoginPath = "/login"
)

// SessionCookie describes the cookie that carries the session id.
type SessionCookie struct {
	Name   string
	MaxAge int // seconds
	Secure bool
}

// Set writes the session cookie.
func (s SessionCookie) Set(c *gin.Context, sessionID string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.Name, sessionID, s.MaxAge, "/", "", s.Secure, true)
}

// Clear expires the session cookie.
func (s SessionCookie) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.Name, "", -1, "/", "", s.Secure, true)
}

// Read returns the session id sent by the client, or "".
func (s SessionCookie) Read(c *gin.Context) string {
	v, err := c.Cookie(s.Name)
	if err != nil {
		return ""
	}
	return v
}

// RequireAuth lets authenticated requests through and redirects everyone
// else to the login page.
func RequireAuth(uc auth.Usecase, cookie SessionCookie, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := cookie.Read(c)
		ctx := c.Request.Context()

		u, err := uc.Authenticate(ctx, sid)
		if err != nil {
			var unauth *apperrors.UnauthorizedError
			if errors.As(err, &unauth) {
				c.Redirect(http.StatusFound, LoginPath)
				c.Abort()
				return
			}
			logger.WithContext(ctx, log).Error("session check failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":   "internal_error",
				"message": "An internal error occurred",
			})
			return
		}

		c.Set(currentUserKey, u)
		c.Set(sessionIDKey, sid)
		c.Request = c.Request.WithContext(logger.WithUserID(ctx, u.ID))
		c.Next()
	}
}

// CurrentUser returns the user attached by RequireAuth.
func CurrentUser(c *gin.Context) (*auth.User, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*auth.User)
	return u, ok
}

// SessionID returns the session id attached by RequireAuth.
func SessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}
