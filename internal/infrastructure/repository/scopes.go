package repository

import (
	"github.com/google/uuid"
	"github.com/sangkips/investify-pos/internal/domain/enum"
	"gorm.io/gorm"
)

// BranchScope filters journal rows by branch. An empty branch matches all.
func BranchScope(branchID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if branchID == "" {
			return db
		}
		return db.Where("branch_id = ?", branchID)
	}
}

// CashierScope filters by the cashier who created the sale; nil matches all.
func CashierScope(cashierID *uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if cashierID == nil {
			return db
		}
		return db.Where("cashier_id = ?", *cashierID)
	}
}

// StatusScope filters by journal status; nil matches all.
func StatusScope(status *enum.PendingSaleStatus) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if status == nil {
			return db
		}
		return db.Where("status = ?", *status)
	}
}
