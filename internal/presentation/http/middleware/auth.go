package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/investify-pos/internal/presentation/http/dto/response"
	"github.com/sangkips/investify-pos/pkg/utils"
)

// Gin context keys set by the auth and branch middleware
const (
	CashierIDKey   = "cashier_id"
	CashierNameKey = "cashier_name"
	RolesKey       = "cashier_roles"
	BranchIDKey    = "branch_id"
	claimsKey      = "claims"
)

// AuthMiddleware creates a JWT authentication middleware
func AuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		name := claims.Name
		if name == "" {
			name = claims.Email
		}
		c.Set(claimsKey, claims)
		c.Set(CashierIDKey, claims.CashierID)
		c.Set(CashierNameKey, name)
		c.Set(RolesKey, claims.Roles)
		if claims.BranchID != "" {
			c.Set(BranchIDKey, claims.BranchID)
		}

		c.Next()
	}
}

// RequireRole creates a middleware that requires one of roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get(claimsKey)
		claims, ok := v.(*utils.JWTClaims)
		if !exists || !ok {
			response.Forbidden(c, "Access denied")
			c.Abort()
			return
		}
		if !claims.HasRole(roles...) {
			response.Forbidden(c, "Insufficient role privileges")
			c.Abort()
			return
		}
		c.Next()
	}
}
