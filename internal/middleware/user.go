package middleware

import "github.com/gin-gonic/gin"

// DefaultUserID is the single journal owner. There is no account system;
// the header exists so the (user, date) schema stays honest and a second
// client could be pointed at its own journal.
const DefaultUserID = "anonymous"

func UserScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			userID = DefaultUserID
		}
		c.Set("user_id", userID)
		c.Next()
	}
}
