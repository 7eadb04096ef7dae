package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/bedriftsgrafen/bedriftsgrafen-api/internal/filter"
	"github.com/bedriftsgrafen/bedriftsgrafen-api/internal/middleware"
)

// SessionFrom resolves the request's filter session; the session
// middleware guarantees an id is present.
func SessionFrom(c *gin.Context, sessions *filter.Sessions) *filter.Session {
	return sessions.Get(c.GetString(middleware.ContextSessionID))
}

// NamespaceFrom returns the saved-filter storage namespace for the
// request, which is the session id.
func NamespaceFrom(c *gin.Context) string {
	return c.GetString(middleware.ContextSessionID)
}
