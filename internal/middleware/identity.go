package middleware

import (
	"net/http"
	"ventlink/internal/db"
	"ventlink/internal/identity"
	"ventlink/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const CheckUserKey = "user"
const IdentityKey = "identity"

// Anonymous visitors are tracked by a long-lived cookie so their votes and
// rate-limit buckets survive across requests.
const anonCookieName = "vl_anon"
const anonCookieMaxAge = 365 * 24 * 3600

// ResolveIdentity yields the voter identity for every request: the session
// user when logged in, otherwise an anonymous id issued via cookie.
func ResolveIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if userID, ok := session.Get("user_id").(uint); ok && userID != 0 {
			var user models.User
			if err := db.DB.First(&user, userID).Error; err == nil {
				c.Set(CheckUserKey, &user)
				c.Set(IdentityKey, identity.Registered(user.ID))
				c.Next()
				return
			}
		}

		anonID, err := c.Cookie(anonCookieName)
		if err != nil || anonID == "" {
			anonID = uuid.NewString()
			c.SetCookie(anonCookieName, anonID, anonCookieMaxAge, "/", "", false, true)
		}
		c.Set(IdentityKey, identity.Anonymous(anonID))
		c.Next()
	}
}

// AuthRequired rejects requests without a logged-in user.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(CheckUserKey); !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			return
		}
		c.Next()
	}
}

// Identity pulls the resolved voter identity off the context.
func Identity(c *gin.Context) identity.Identity {
	if v, exists := c.Get(IdentityKey); exists {
		if id, ok := v.(identity.Identity); ok {
			return id
		}
	}
	return identity.Identity{}
}
