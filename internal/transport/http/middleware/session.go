package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"itemboard/internal/session"
)

const (
	ContextUserIDKey   = "user_id"
	ContextUsernameKey = "username"
	ContextSessionKey  = "session_id"

	// SessionCookie holds the opaque session ID; the session record itself
	// lives server-side.
	SessionCookie = "itemboard_session"

	// FlashCookie carries a one-shot notice to the next rendered page.
	FlashCookie = "itemboard_flash"
)

// RequireSession gates the HTML surface. Without a live session the wrapped
// handler is never invoked: the client is flashed and redirected to the
// login page. With one, the session's username is placed on the context.
func RequireSession(store session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(SessionCookie)
		if err != nil || id == "" {
			rejectUnauthorized(c)
			return
		}

		sess, err := store.Get(c.Request.Context(), id)
		if err != nil {
			rejectUnauthorized(c)
			return
		}

		c.Set(ContextUsernameKey, sess.Username)
		c.Set(ContextSessionKey, sess.ID)
		c.Next()
	}
}

// LoadSession is the non-gating variant used on public pages: it fills in
// the username when a live session exists and stays silent otherwise.
func LoadSession(store session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(SessionCookie)
		if err == nil && id != "" {
			if sess, err := store.Get(c.Request.Context(), id); err == nil {
				c.Set(ContextUsernameKey, sess.Username)
				c.Set(ContextSessionKey, sess.ID)
			}
		}
		c.Next()
	}
}

func rejectUnauthorized(c *gin.Context) {
	c.SetCookie(FlashCookie, "danger:Unauthorized, please log in.", 60, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/login")
	c.Abort()
}
