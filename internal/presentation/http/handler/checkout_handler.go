package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/investify-pos/internal/application/service"
	"github.com/sangkips/investify-pos/internal/domain/enum"
	"github.com/sangkips/investify-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/investify-pos/internal/presentation/http/dto/response"
)

const streamKeepAlive = 15 * time.Second

// CheckoutHandler handles the till's checkout session requests
type CheckoutHandler struct {
	checkoutService *service.CheckoutService
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// OpenSession starts a checkout for the authenticated cashier
func (h *CheckoutHandler) OpenSession(c *gin.Context) {
	cashier, ok := GetCashier(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	session, err := h.checkoutService.OpenSession(c.Request.Context(), cashier)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Checkout session opened", session.Snapshot())
}

// GetSession returns the current view of a session
func (h *CheckoutHandler) GetSession(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	response.OK(c, "Checkout session retrieved", session.Snapshot())
}

// CloseSession drops a session
func (h *CheckoutHandler) CloseSession(c *gin.Context) {
	cashierID := GetCashierID(c)
	if cashierID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid session ID")
		return
	}

	if err := h.checkoutService.CloseSession(c.Request.Context(), id, *cashierID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Events streams session views as server-sent events
func (h *CheckoutHandler) Events(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	views, cancel := session.Subscribe()
	defer cancel()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	keepAlive := time.NewTicker(streamKeepAlive)
	defer keepAlive.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case v, open := <-views:
			if !open {
				return false
			}
			c.SSEvent("view", v)
			return true
		case <-keepAlive.C:
			c.SSEvent("ping", time.Now().Unix())
			return true
		}
	})
}

// Products searches the session's catalog by name or barcode
func (h *CheckoutHandler) Products(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	if c.Query("refresh") == "true" {
		if err := session.RefreshCatalog(c.Request.Context()); err != nil {
			response.Error(c, err)
			return
		}
	}
	response.OK(c, "Products retrieved successfully", session.Products(c.Query("search")))
}

// Scan adds the product with the scanned barcode
func (h *CheckoutHandler) Scan(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	var req request.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}
	h.respond(c, session, session.ScanBarcode(c.Request.Context(), req.Barcode), "Product scanned")
}

// AddItem adds one unit of a product picked from the catalog
func (h *CheckoutHandler) AddItem(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	var req request.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}
	h.respond(c, session, session.AddProduct(req.ProductID), "Item added")
}

// UpdateQuantity sets the quantity of a cart line
func (h *CheckoutHandler) UpdateQuantity(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	productID, ok := parseInt64Param(c, "productId")
	if !ok {
		response.BadRequest(c, "Invalid product ID")
		return
	}
	var req request.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}
	h.respond(c, session, session.SetQuantity(productID, *req.Quantity), "Quantity updated")
}

// RemoveItem removes a cart line
func (h *CheckoutHandler) RemoveItem(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	productID, ok := parseInt64Param(c, "productId")
	if !ok {
		response.BadRequest(c, "Invalid product ID")
		return
	}
	h.respond(c, session, session.RemoveProduct(productID), "Item removed")
}

func (h *CheckoutHandler) ApplyDiscount(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	var req request.ApplyDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}
	h.respond(c, session, session.ApplyDiscountCode(c.Request.Context(), req.Code), "Discount applied")
}

func (h *CheckoutHandler) RemoveDiscount(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	h.respond(c, session, session.RemoveDiscount(), "Discount removed")
}

// SelectCustomer attaches a loyalty customer found by phone
func (h *CheckoutHandler) SelectCustomer(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	var req request.CustomerLookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}
	h.respond(c, session, session.LookupCustomer(c.Request.Context(), req.Phone), "Customer selected")
}

func (h *CheckoutHandler) ClearCustomer(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	h.respond(c, session, session.ClearCustomer(), "Customer cleared")
}

func (h *CheckoutHandler) RedeemPoints(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	var req request.RedeemPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}
	h.respond(c, session, session.RedeemPoints(*req.Points), "Points updated")
}

// AddPayment takes a tender
func (h *CheckoutHandler) AddPayment(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	var req request.AddPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}
	method, err := enum.ParsePaymentMethod(req.Method)
	if err != nil {
		response.BadRequest(c, "Invalid payment method. Use 'cash', 'mobile_money' or 'card'")
		return
	}
	h.respond(c, session, session.AddPayment(method, req.Amount), "Payment added")
}

func (h *CheckoutHandler) RemovePayment(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	method, err := enum.ParsePaymentMethod(c.Param("method"))
	if err != nil {
		response.BadRequest(c, "Invalid payment method")
		return
	}
	h.respond(c, session, session.RemovePayment(method), "Payment removed")
}

// Submit finalizes the sale at the backend
func (h *CheckoutHandler) Submit(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	// the body is optional
	var req request.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	result, err := session.Submit(c.Request.Context(), req.Notes)
	if err != nil {
		response.ErrorWithData(c, err, session.Snapshot())
		return
	}
	response.OK(c, "Sale completed", gin.H{
		"sale":    result.Sale,
		"receipt": result.Receipt,
		"view":    session.Snapshot(),
	})
}

// DismissBanner clears the session's error banner
func (h *CheckoutHandler) DismissBanner(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	session.DismissBanner()
	response.OK(c, "Banner dismissed", session.Snapshot())
}

func (h *CheckoutHandler) session(c *gin.Context) (*service.Session, bool) {
	cashierID := GetCashierID(c)
	if cashierID == nil {
		response.Unauthorized(c, "User not authenticated")
		return nil, false
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid session ID")
		return nil, false
	}
	session, err := h.checkoutService.GetSession(id, *cashierID)
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	return session, true
}

// respond answers a session command with the resulting view. Failed commands
// still carry the view so the till can show the banner.
func (h *CheckoutHandler) respond(c *gin.Context, session *service.Session, err error, message string) {
	if err != nil {
		response.ErrorWithData(c, err, session.Snapshot())
		return
	}
	response.Success(c, http.StatusOK, message, session.Snapshot())
}
