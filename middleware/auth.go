package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/youssefhany/go-eventbook/models"
	"github.com/youssefhany/go-eventbook/services"
	"github.com/youssefhany/go-eventbook/utils"
)

const viewerKey = "viewer"

// bearerToken extracts the token from an Authorization: Bearer header.
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", false
	}
	return parts[1], true
}

func viewerFromToken(tokenStr string) (*services.Viewer, error) {
	sub, role, err := utils.ParseJWT(tokenStr)
	if err != nil {
		return nil, err
	}
	userID, err := primitive.ObjectIDFromHex(sub)
	if err != nil {
		return nil, err
	}
	return &services.Viewer{UserID: userID, Role: role}, nil
}

// Auth verifies the Authorization: Bearer <token> header, validates the JWT
// and stores the resulting viewer in the Gin context for handlers to pick
// up via Viewer().
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := bearerToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization header format must be Bearer {token}"})
			c.Abort()
			return
		}

		viewer, err := viewerFromToken(tokenStr)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		c.Set(viewerKey, viewer)
		c.Next()
	}
}

// OptionalAuth attaches a viewer when a valid token is present but lets the
// request through anonymously otherwise. Used by the public event listing so
// the booked-flag enrichment can run for logged-in browsers.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenStr, ok := bearerToken(c); ok {
			if viewer, err := viewerFromToken(tokenStr); err == nil {
				c.Set(viewerKey, viewer)
			}
		}
		c.Next()
	}
}

// RequireAdmin ensures the authenticated viewer has the admin role.
// Example: router.POST(..., middleware.Auth(), middleware.RequireAdmin(), handler)
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		viewer := Viewer(c)
		if viewer == nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "role not present"})
			c.Abort()
			return
		}
		if viewer.Role != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// Viewer returns the authenticated viewer set by Auth/OptionalAuth, or nil
// for anonymous requests.
func Viewer(c *gin.Context) *services.Viewer {
	v, exists := c.Get(viewerKey)
	if !exists {
		return nil
	}
	viewer, ok := v.(*services.Viewer)
	if !ok {
		return nil
	}
	return viewer
}
