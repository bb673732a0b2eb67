package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/investify-pos/internal/domain/entity"
	"github.com/sangkips/investify-pos/internal/domain/enum"
	domainRepo "github.com/sangkips/investify-pos/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type pendingSaleRepository struct {
	db *gorm.DB
}

// NewPendingSaleRepository creates a new pending-sale journal repository
func NewPendingSaleRepository(db *gorm.DB) domainRepo.PendingSaleRepository {
	return &pendingSaleRepository{db: db}
}

func (r *pendingSaleRepository) Record(ctx context.Context, sale *entity.PendingSale) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "sale_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"total", "status", "session_id", "updated_at"}),
	}).Create(sale).Error
}

func (r *pendingSaleRepository) GetBySaleID(ctx context.Context, saleID int64) (*entity.PendingSale, error) {
	var sale entity.PendingSale
	err := r.db.WithContext(ctx).Where("sale_id = ?", saleID).First(&sale).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

func (r *pendingSaleRepository) MarkStatus(ctx context.Context, saleID int64, status enum.PendingSaleStatus, lastErr *string) error {
	updates := map[string]interface{}{
		"status":     status,
		"last_error": lastErr,
		"updated_at": time.Now(),
	}
	if status == enum.PendingSaleStatusCompleted {
		updates["completed_at"] = time.Now()
	}
	query := r.db.WithContext(ctx).Model(&entity.PendingSale{}).Where("sale_id = ?", saleID)
	if status == enum.PendingSaleStatusPending {
		// an abandoned sale stays abandoned until it is completed
		query = query.Where("status <> ?", enum.PendingSaleStatusAbandoned)
	}
	return query.Updates(updates).Error
}

func (r *pendingSaleRepository) MarkSessionAbandoned(ctx context.Context, sessionID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Model(&entity.PendingSale{}).
		Where("session_id = ? AND status = ?", sessionID, enum.PendingSaleStatusPending).
		Updates(map[string]interface{}{
			"status":     enum.PendingSaleStatusAbandoned,
			"updated_at": time.Now(),
		})
	return res.RowsAffected, res.Error
}

func (r *pendingSaleRepository) List(ctx context.Context, params *domainRepo.PendingSaleFilterParams) ([]entity.PendingSale, int64, error) {
	var (
		sales []entity.PendingSale
		total int64
	)
	if params == nil {
		params = &domainRepo.PendingSaleFilterParams{}
	}

	query := r.db.WithContext(ctx).Model(&entity.PendingSale{}).
		Scopes(StatusScope(params.Status), CashierScope(params.CashierID), BranchScope(params.BranchID))

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Scopes(params.Pagination.Scope()).
		Order("created_at DESC").
		Find(&sales).Error
	return sales, total, err
}
