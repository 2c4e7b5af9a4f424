package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/httpapi/models"
)

func isReadOnly(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// Authenticated rejects anonymous requests.
func Authenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}

// AuthenticatedOrReadOnly lets anyone read but requires a user for writes.
func AuthenticatedOrReadOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if isReadOnly(c.Request.Method) {
			c.Next()
			return
		}
		if _, ok := CurrentUser(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}

// AdminOrReadOnly lets anyone read but restricts writes to admins and
// superusers. Anonymous writers get 403, not 401: the resource is visible,
// the operation is simply forbidden.
func AdminOrReadOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if isReadOnly(c.Request.Method) {
			c.Next()
			return
		}
		user, ok := CurrentUser(c)
		if !ok || !isAdmin(user) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

// AdminOrSuperuser guards the user administration endpoints for every method.
func AdminOrSuperuser() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		if !isAdmin(user) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

// CanModifyObject reports whether u may edit or delete content authored by
// authorID. Moderators act on any object; plain users only on their own.
func CanModifyObject(u *models.User, authorID string) bool {
	if u == nil {
		return false
	}
	return u.IsSuperuser || u.IsAdmin() || u.IsModerator() || u.ID == authorID
}

func isAdmin(u *models.User) bool {
	return u.IsSuperuser || u.IsAdmin()
}
