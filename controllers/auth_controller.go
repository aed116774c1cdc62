package controllers

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"uprate/backend/middlewares"
	"uprate/backend/models"
	"uprate/backend/utils"
)

const (
	gateTTL  = 2 * time.Hour
	adminTTL = 24 * time.Hour
)

// Gate checks the console passphrase and issues a short-lived gate token.
func Gate(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.GateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(env.Cfg.GateUsername)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(env.Cfg.GatePassword)) == 1
		if !userOK || !passOK {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access Denied"})
			return
		}
		token, _, err := utils.GenerateJWT(env.Cfg.JWTSecret, utils.StageGate, "", gateTTL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token, "stage": "passed_gate"})
	}
}

// Login needs a gate (or admin) token. Every credential failure gets the
// same response.
func Login(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		ctx, cancel := reqCtx(c)
		defer cancel()
		user, err := env.Credentials.Authenticate(ctx, req.Email, req.Password)
		if err != nil {
			respondErr(c, err, "")
			return
		}
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials."})
			return
		}
		if old := middlewares.Session(c); old.TokenID != "" {
			env.Sessions.Revoke(old.TokenID, old.Expires)
		}
		token, _, err := utils.GenerateJWT(env.Cfg.JWTSecret, utils.StageAdmin, user.ID, adminTTL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
	}
}

// Logout revokes the presented token and drops the caller's visitor state.
func Logout(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := middlewares.Session(c)
		if sess.TokenID != "" {
			env.Sessions.Revoke(sess.TokenID, sess.Expires)
		}
		if sid := c.GetHeader(middlewares.VisitorHeader); sid != "" {
			env.Sessions.Clear(sid)
		}
		if sid, err := c.Cookie(middlewares.VisitorCookie); err == nil && sid != "" {
			env.Sessions.Clear(sid)
			c.SetCookie(middlewares.VisitorCookie, "", -1, "/", "", false, true)
		}
		c.JSON(http.StatusOK, gin.H{"status": "logged_out"})
	}
}

func Me() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, _ := c.Get("user")
		c.JSON(http.StatusOK, u)
	}
}
