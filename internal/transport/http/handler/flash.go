package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"itemboard/internal/transport/http/middleware"
)

// Flash is a one-shot notice carried to the next rendered page via a
// short-lived cookie, so it survives the redirect that follows every
// successful form post.
type Flash struct {
	Level   string
	Message string
}

func setFlash(c *gin.Context, level, message string) {
	c.SetCookie(middleware.FlashCookie, level+":"+message, 60, "/", "", false, true)
}

func popFlash(c *gin.Context) *Flash {
	raw, err := c.Cookie(middleware.FlashCookie)
	if err != nil || raw == "" {
		return nil
	}
	c.SetCookie(middleware.FlashCookie, "", -1, "/", "", false, true)

	level, message, found := strings.Cut(raw, ":")
	if !found {
		return &Flash{Level: "info", Message: raw}
	}
	return &Flash{Level: level, Message: message}
}

func usernameFromContext(c *gin.Context) string {
	if v, ok := c.Get(middleware.ContextUsernameKey); ok {
		if username, ok := v.(string); ok {
			return username
		}
	}
	return ""
}
