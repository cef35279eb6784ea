package middleware

import "github.com/gin-gonic/gin"

// userIDKey stores the authenticated user's ID in the request context. A
// custom key type avoids collisions with other context values.
const userIDKey = contextKey("userID")

// GetUserIDFromContext retrieves the authenticated user ID set by
// AuthMiddleware. The second return reports whether a user is logged in.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if val, exists := c.Get(string(userIDKey)); exists {
		userID, ok := val.(string)
		return userID, ok
	}

	// Fall back to the request context for callers below the gin layer.
	if val := c.Request.Context().Value(userIDKey); val != nil {
		userID, ok := val.(string)
		return userID, ok
	}

	return "", false
}
