package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"uprate/backend/sessions"
)

const (
	VisitorHeader = "X-Session-ID"
	VisitorCookie = "uprate_session"
)

// Visitor attaches a rating-page session id, issuing one when the request
// carries none. The id is echoed in a header and a cookie.
func Visitor(maxAge int) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := c.GetHeader(VisitorHeader)
		if !sessions.ValidID(sid) {
			sid, _ = c.Cookie(VisitorCookie)
		}
		if !sessions.ValidID(sid) {
			sid = sessions.NewID()
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(VisitorCookie, sid, maxAge, "/", "", false, true)
		c.Header(VisitorHeader, sid)
		c.Set("visitor_id", sid)
		c.Next()
	}
}
