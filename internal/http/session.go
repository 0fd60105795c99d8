package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const usernameKey = "session.username"

// session resolves the username from the bearer token. Beacons cannot set
// headers, so a token query parameter is accepted too. Without a token the
// request continues anonymously unless required is set; a token that fails
// verification is always rejected.
func (h *Handler) session(required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			if required {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
				return
			}
			c.Next()
			return
		}

		username, err := h.verifier.Username(token)
		if err != nil {
			h.logger.WithField("path", c.FullPath()).Debugf("rejected token: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(usernameKey, username)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return strings.TrimSpace(c.Query("token"))
}

func sessionUsername(c *gin.Context) string {
	return c.GetString(usernameKey)
}
