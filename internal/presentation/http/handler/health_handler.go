package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/investify-pos/internal/application/service"
)

// HealthHandler reports whether the terminal can take sales
type HealthHandler struct {
	service  string
	ping     func() error
	checkout *service.CheckoutService
	printer  *service.PrinterService
}

// NewHealthHandler creates a health handler. ping checks the journal database.
func NewHealthHandler(name string, ping func() error, checkout *service.CheckoutService, printer *service.PrinterService) *HealthHandler {
	return &HealthHandler{service: name, ping: ping, checkout: checkout, printer: printer}
}

func (h *HealthHandler) Check(c *gin.Context) {
	status := http.StatusOK
	body := gin.H{
		"status":   "ok",
		"service":  h.service,
		"database": "ok",
	}
	if h.ping != nil {
		if err := h.ping(); err != nil {
			status = http.StatusServiceUnavailable
			body["status"] = "degraded"
			body["database"] = err.Error()
		}
	}
	if h.checkout != nil {
		body["open_sessions"] = h.checkout.OpenSessions()
	}
	if h.printer != nil {
		body["printer"] = h.printer.GetStatus(c.Request.Context())
	}
	c.JSON(status, body)
}
