package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/sangkips/investify-pos/internal/domain/entity"
	"github.com/sangkips/investify-pos/internal/domain/enum"
	"github.com/sangkips/investify-pos/internal/domain/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(context.Background(), Config{BaseURL: srv.URL + "/api/", Token: "secret"}, zerolog.Nop())
	require.NoError(t, err)
	return client
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := NewClient(context.Background(), Config{}, zerolog.Nop())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestCatalogService_GetProductsSendsFilterAndToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products/", r.URL.Path)
		assert.Equal(t, "nairobi", r.URL.Query().Get("branch"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"results":[{"id":4,"name":"Milk","price":"58.00","stock_quantity":2}]}`)
	})

	products, err := NewCatalogService(client).GetProducts(context.Background(), repository.ProductFilter{Branch: "nairobi"})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Milk", products[0].Name)
}

func TestCatalogService_LookupByBarcode(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("barcode") == "missing" {
			_, _ = io.WriteString(w, `[]`)
			return
		}
		_, _ = io.WriteString(w, `[{"id":1,"name":"Other","barcode":"111"},{"id":2,"name":"Bread","barcode":"222","stock_quantity":3}]`)
	})
	svc := NewCatalogService(client)

	p, err := svc.LookupByBarcode(context.Background(), "222", "b1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, int64(2), p.ID)

	p, err = svc.LookupByBarcode(context.Background(), "missing", "b1")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestCustomerService_NotFoundIsNil(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":{"results":[]}}`)
	})

	c, err := NewCustomerService(client).LookupByPhone(context.Background(), "0700000000")
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestDiscountService_ValidateCode(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		switch body["code"] {
		case "TEN":
			_, _ = io.WriteString(w, `{"valid":true,"discount_type":"percentage","value":"10"}`)
		case "OLD":
			_, _ = io.WriteString(w, `{"valid":false,"message":"expired"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"detail":"Not found."}`)
		}
	})
	svc := NewDiscountService(client)

	d, err := svc.ValidateCode(context.Background(), "TEN")
	require.NoError(t, err)
	assert.Equal(t, "TEN", d.Code)
	assert.Equal(t, enum.DiscountTypePercentage, d.DiscountType)
	assert.True(t, decimal.NewFromInt(10).Equal(d.Value))

	_, err = svc.ValidateCode(context.Background(), "OLD")
	assert.ErrorIs(t, err, ErrDiscountRejected)

	_, err = svc.ValidateCode(context.Background(), "NOPE")
	assert.True(t, IsNotFound(err))
}

func TestPaymentService_ErrorKeepsPayload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"amount":["Ensure this value is greater than 0."]}`)
	})

	_, err := NewPaymentService(client).CreatePayment(context.Background(), &entity.CreatePaymentRequest{
		SaleID: 1,
		Method: enum.PaymentMethodCash,
		Amount: decimal.Zero,
	})
	require.Error(t, err)

	var be *Error
	require.ErrorAs(t, err, &be)
	assert.Equal(t, http.StatusBadRequest, be.StatusCode)
	assert.Equal(t, "/api/payments/", be.Path)

	payload, ok := ErrorPayload(err).(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, payload, "amount")
}

func TestSaleService_Lifecycle(t *testing.T) {
	var calls []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		switch r.URL.Path {
		case "/api/sales/":
			var req entity.CreateSaleRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Len(t, req.Items, 1)
			w.WriteHeader(http.StatusCreated)
			_, _ = io.WriteString(w, `{"id":77,"status":"pending"}`)
		case "/api/sales/77/":
			_, _ = io.WriteString(w, `{"data":{"id":77,"status":"completed","total":"90.00","tax":"12.41"}}`)
		default:
			w.WriteHeader(http.StatusOK)
		}
	})
	svc := NewSaleService(client)
	ctx := context.Background()

	sale, err := svc.CreateSale(ctx, &entity.CreateSaleRequest{
		Items: []entity.SaleItemInput{{ProductID: 1, Quantity: 1, UnitPrice: decimal.NewFromInt(100)}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(77), sale.ID)

	require.NoError(t, svc.CompleteSale(ctx, 77))

	final, err := svc.GetSale(ctx, 77)
	require.NoError(t, err)
	assert.Equal(t, "completed", final.Status)

	require.NoError(t, svc.PrintReceipt(ctx, 77))
	assert.Equal(t, []string{
		"POST /api/sales/",
		"POST /api/sales/77/complete/",
		"GET /api/sales/77/",
		"POST /api/sales/77/print-receipt/",
	}, calls)
}
