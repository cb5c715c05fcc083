package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"slotify/utils"
)

// RequesterIDKey is the gin context key under which the authenticated
// requester id is stored.
const RequesterIDKey = "requesterID"

// RequireAuth maps a bearer token issued by the external identity subsystem
// onto a requester id. The id is trusted verbatim once the signature checks out.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		requesterID, err := utils.ExtractRequesterID(tokenString)
		if err != nil || requesterID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}

		c.Set(RequesterIDKey, requesterID)
		c.Next()
	}
}

// RequesterID returns the authenticated requester id from the context.
func RequesterID(c *gin.Context) string {
	id, _ := c.Get(RequesterIDKey)
	s, _ := id.(string)
	return s
}
