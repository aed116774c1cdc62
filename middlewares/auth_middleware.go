package middlewares

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"uprate/backend/services"
	"uprate/backend/sessions"
	"uprate/backend/utils"
)

const adminKey = "admin_session"

// AdminSession resolves the bearer token, if any, into a typed session.
// Missing, invalid, expired or revoked tokens all resolve to Anonymous.
func AdminSession(secret string, store *sessions.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Admin{Stage: sessions.Anonymous}
		h := c.GetHeader("Authorization")
		if strings.HasPrefix(h, "Bearer ") {
			claims, err := utils.ParseJWT(secret, strings.TrimPrefix(h, "Bearer "))
			if err == nil && !store.IsRevoked(claims.ID) {
				switch claims.Stage {
				case utils.StageGate:
					sess.Stage = sessions.PassedGate
				case utils.StageAdmin:
					sess.Stage = sessions.Authenticated
					sess.UserID = claims.UserID
				}
				sess.TokenID = claims.ID
				if claims.ExpiresAt != nil {
					sess.Expires = claims.ExpiresAt.Time
				}
			}
		}
		c.Set(adminKey, sess)
		c.Next()
	}
}

// Session returns the admin session resolved by AdminSession.
func Session(c *gin.Context) sessions.Admin {
	if v, ok := c.Get(adminKey); ok {
		if s, ok := v.(sessions.Admin); ok {
			return s
		}
	}
	return sessions.Admin{Stage: sessions.Anonymous}
}

// RequireGate lets through visitors who passed the passphrase screen or
// are already signed in.
func RequireGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if Session(c).Stage < sessions.PassedGate {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access denied", "redirect": "/empire/who-are-you"})
			return
		}
		c.Next()
	}
}

// RequireAdmin demands an authenticated session whose user still exists and
// is active.
func RequireAdmin(creds *services.Credentials) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := Session(c)
		if sess.Stage < sessions.PassedGate {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access denied", "redirect": "/empire/who-are-you"})
			return
		}
		if sess.Stage != sessions.Authenticated {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required", "redirect": "/empire/login"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		u, err := creds.Get(ctx, sess.UserID)
		if err != nil || !u.Active {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required", "redirect": "/empire/login"})
			return
		}
		c.Set("user_id", u.ID)
		c.Set("user", u)
		c.Next()
	}
}
