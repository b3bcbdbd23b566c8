package endpoints

import (
	"github.com/gin-gonic/gin"
)

// currentUserID reads the caller identity set by the auth middleware.
func currentUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get("userID")
	if !exists {
		return 0, false
	}
	userID, ok := value.(uint)
	return userID, ok
}
