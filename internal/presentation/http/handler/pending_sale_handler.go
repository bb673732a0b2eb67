package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/investify-pos/internal/application/service"
	"github.com/sangkips/investify-pos/internal/domain/enum"
	"github.com/sangkips/investify-pos/internal/domain/repository"
	"github.com/sangkips/investify-pos/internal/presentation/http/dto/response"
	"github.com/sangkips/investify-pos/internal/presentation/http/middleware"
	"github.com/sangkips/investify-pos/pkg/pagination"
)

// PendingSaleHandler exposes the terminal's sale journal to managers
type PendingSaleHandler struct {
	pendingSaleService *service.PendingSaleService
}

// NewPendingSaleHandler creates a new pending sale handler
func NewPendingSaleHandler(pendingSaleService *service.PendingSaleService) *PendingSaleHandler {
	return &PendingSaleHandler{pendingSaleService: pendingSaleService}
}

// List handles listing journaled sales, newest first
func (h *PendingSaleHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &repository.PendingSaleFilterParams{
		Pagination: &pagination.PaginationParams{Page: page, PerPage: perPage},
		BranchID:   c.DefaultQuery("branch_id", middleware.GetBranchID(c)),
	}
	if s := c.Query("status"); s != "" {
		status, err := enum.ParsePendingSaleStatus(s)
		if err != nil {
			response.BadRequest(c, "Invalid status. Use 'pending', 'completed' or 'abandoned'")
			return
		}
		params.Status = &status
	}
	if s := c.Query("cashier_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			response.BadRequest(c, "Invalid cashier ID")
			return
		}
		params.CashierID = &id
	}

	result, err := h.pendingSaleService.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, 200, "Pending sales retrieved successfully", result)
}
