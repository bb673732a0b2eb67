package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/investify-pos/internal/application/service"
	"github.com/sangkips/investify-pos/internal/presentation/http/middleware"
)

// GetCashierID extracts the cashier ID from the Gin context
func GetCashierID(c *gin.Context) *uuid.UUID {
	v, exists := c.Get(middleware.CashierIDKey)
	if !exists {
		return nil
	}
	id, ok := v.(uuid.UUID)
	if !ok || id == uuid.Nil {
		return nil
	}
	return &id
}

// GetCashier builds the session owner from the authenticated request
func GetCashier(c *gin.Context) (service.Cashier, bool) {
	id := GetCashierID(c)
	if id == nil {
		return service.Cashier{}, false
	}
	return service.Cashier{
		ID:     *id,
		Name:   c.GetString(middleware.CashierNameKey),
		Branch: middleware.GetBranchID(c),
	}, true
}

// GetCashierRoles extracts the cashier's roles
func GetCashierRoles(c *gin.Context) []string {
	return c.GetStringSlice(middleware.RolesKey)
}

func parseInt64Param(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
