/* session.go
 * Contains the session id resolution for frame requests
 */

package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	SessionHeader = "X-Session-ID"
	SessionCookie = "l2match_session"
	sessionMaxAge = 30 * 24 * 60 * 60
)

// sessionID returns the caller's session id from the header, then the cookie, issuing a new id in the cookie when
// the request carries neither
func sessionID(c *gin.Context) string {
	if id := c.GetHeader(SessionHeader); id != "" {
		return id
	}
	if id, err := c.Cookie(SessionCookie); err == nil && id != "" {
		return id
	}

	id := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, id, sessionMaxAge, "/", "", false, true)
	return id
}
