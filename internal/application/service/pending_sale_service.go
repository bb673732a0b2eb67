package service

import (
	"context"

	"github.com/sangkips/investify-pos/internal/domain/entity"
	"github.com/sangkips/investify-pos/internal/domain/repository"
	"github.com/sangkips/investify-pos/pkg/pagination"
)

// PendingSaleService exposes the journal of sales this terminal created.
type PendingSaleService struct {
	repo repository.PendingSaleRepository
}

func NewPendingSaleService(repo repository.PendingSaleRepository) *PendingSaleService {
	return &PendingSaleService{repo: repo}
}

// List returns journal rows, newest first.
func (s *PendingSaleService) List(ctx context.Context, params *repository.PendingSaleFilterParams) (*pagination.PaginatedResult[entity.PendingSale], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	rows, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(rows,
		pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)), nil
}
