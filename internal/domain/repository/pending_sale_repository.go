package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/investify-pos/internal/domain/entity"
	"github.com/sangkips/investify-pos/internal/domain/enum"
	"github.com/sangkips/investify-pos/pkg/pagination"
)

// PendingSaleRepository defines the journal of sales created by this terminal
type PendingSaleRepository interface {
	// Record inserts the row, or refreshes total/status when the sale id is already journaled.
	Record(ctx context.Context, sale *entity.PendingSale) error
	GetBySaleID(ctx context.Context, saleID int64) (*entity.PendingSale, error)
	// MarkStatus sets the status; lastErr may be nil.
	MarkStatus(ctx context.Context, saleID int64, status enum.PendingSaleStatus, lastErr *string) error
	// MarkSessionAbandoned flags every still-pending row of the session as abandoned.
	MarkSessionAbandoned(ctx context.Context, sessionID uuid.UUID) (int64, error)
	List(ctx context.Context, params *PendingSaleFilterParams) ([]entity.PendingSale, int64, error)
}

// PendingSaleFilterParams contains filtering parameters for journal queries
type PendingSaleFilterParams struct {
	Pagination *pagination.PaginationParams
	Status     *enum.PendingSaleStatus
	CashierID  *uuid.UUID
	BranchID   string
}
