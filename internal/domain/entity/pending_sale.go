package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/investify-pos/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PendingSale is the terminal's journal entry for a sale it created at the backend.
// Rows left in Pending or Abandoned are sales nobody completed.
type PendingSale struct {
	ID          uuid.UUID              `gorm:"type:uuid;primary_key" json:"id"`
	SaleID      int64                  `gorm:"not null;uniqueIndex" json:"sale_id"`
	SessionID   uuid.UUID              `gorm:"type:uuid;not null;index" json:"session_id"`
	CashierID   uuid.UUID              `gorm:"type:uuid;not null;index" json:"cashier_id"`
	BranchID    string                 `gorm:"size:100;index" json:"branch_id"`
	Total       decimal.Decimal        `gorm:"type:numeric(14,2);not null" json:"total"`
	Status      enum.PendingSaleStatus `gorm:"default:0;index" json:"status"`
	LastError   *string                `gorm:"type:text" json:"last_error,omitempty"`
	CompletedAt *time.Time             `json:"completed_at,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new journal row
func (p *PendingSale) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PendingSale model
func (PendingSale) TableName() string {
	return "pending_sales"
}
