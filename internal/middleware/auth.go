package middleware

import (
	"net/http"
	"os"
	"time"

	"kindling/internal/db"
	"kindling/internal/models"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

const SessionCookieName = "kindling_session"

// SessionTTL is the session lifetime; a session under half of it is
// transparently reissued with a fresh cookie (sliding expiration).
const SessionTTL = 30 * 24 * time.Hour

// Identity is the resolved caller for one request. Handlers behind
// AuthRequired may rely on both fields being non-nil.
type Identity struct {
	User    *models.User
	Session *models.Session
}

// LoadIdentity resolves the session cookie on every request. Absent cookie
// means anonymous; a presented but invalid or expired cookie is cleared.
func LoadIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}

		var session models.Session
		if err := db.DB.Preload("User").Where("id = ?", token).First(&session).Error; err != nil {
			ClearSessionCookie(c)
			c.Next()
			return
		}

		if time.Now().After(session.ExpiresAt) {
			db.DB.Delete(&session)
			ClearSessionCookie(c)
			c.Next()
			return
		}

		if time.Until(session.ExpiresAt) < SessionTTL/2 {
			session.ExpiresAt = time.Now().Add(SessionTTL)
			db.DB.Model(&session).Update("expires_at", session.ExpiresAt)
			SetSessionCookie(c, session.ID)
		}

		c.Set(identityKey, &Identity{User: &session.User, Session: &session})
		c.Next()
	}
}

// AuthRequired rejects anonymous callers
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentIdentity(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Unauthorized",
			})
			return
		}
		c.Next()
	}
}

// CurrentIdentity returns the caller's identity, or nil for anonymous.
func CurrentIdentity(c *gin.Context) *Identity {
	if v, exists := c.Get(identityKey); exists {
		return v.(*Identity)
	}
	return nil
}

// MustIdentity is for handlers behind AuthRequired.
func MustIdentity(c *gin.Context) *Identity {
	return c.MustGet(identityKey).(*Identity)
}

func SetSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, token, int(SessionTTL/time.Second), "/", "", secureCookies(), true)
}

func ClearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", secureCookies(), true)
}

func secureCookies() bool {
	return os.Getenv("ENV") == "production"
}
