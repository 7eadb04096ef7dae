package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	HeaderXSessionID = "X-Session-ID"
	ContextSessionID = "session_id"
)

// SessionConfig configures session identification. When JWTSecret is
// set, a bearer token's "sid" claim takes precedence over the header so
// logged-in clients keep one filter session across devices.
type SessionConfig struct {
	JWTSecret string
}

// Session resolves the filter-session id for the request: the JWT "sid"
// claim when present and valid, otherwise the X-Session-ID header,
// otherwise a freshly minted id. The id is echoed back so clients can
// persist it.
func Session(config SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := ""

		if config.JWTSecret != "" {
			if token := bearerToken(c); token != "" {
				sid = sidClaim(token, config.JWTSecret)
			}
		}
		if sid == "" {
			sid = c.GetHeader(HeaderXSessionID)
		}
		if sid == "" {
			sid = uuid.New().String()
		}

		c.Set(ContextSessionID, sid)
		c.Header(HeaderXSessionID, sid)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(auth, "Bearer ")
}

func sidClaim(tokenString, secret string) string {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return ""
	}
	sid, _ := claims["sid"].(string)
	return sid
}
