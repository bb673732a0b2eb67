package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/investify-pos/internal/presentation/http/dto/response"
)

// BranchHeader lets a shared till name its branch when the token does not.
const BranchHeader = "X-Branch-ID"

// BranchMiddleware settles which branch the request works against: the
// cashier's token first, then the header, then the terminal's own branch.
func BranchMiddleware(terminalBranch string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetBranchID(c) != "" {
			c.Next()
			return
		}
		if h := c.GetHeader(BranchHeader); h != "" {
			c.Set(BranchIDKey, h)
		} else if terminalBranch != "" {
			c.Set(BranchIDKey, terminalBranch)
		}
		c.Next()
	}
}

// RequireBranch rejects requests that could not be tied to a branch.
func RequireBranch() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetBranchID(c) == "" {
			response.BadRequest(c, "Branch context required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetBranchID retrieves the branch from the gin context
func GetBranchID(c *gin.Context) string {
	return c.GetString(BranchIDKey)
}
