package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sangkips/investify-pos/internal/domain/entity"
	"github.com/sangkips/investify-pos/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func withCashier(id uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(CashierIDKey, id)
		c.Next()
	}
}

func serve(r *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	jwtManager := utils.NewJWTManager("secret", "investify-api")
	id := uuid.New()
	token, err := jwtManager.GenerateAccessToken(utils.JWTClaims{CashierID: id, Email: "achieng@example.com", BranchID: "westlands", Roles: []string{"cashier"}}, time.Minute)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/me", AuthMiddleware(jwtManager), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"id":     c.MustGet(CashierIDKey).(uuid.UUID).String(),
			"name":   c.GetString(CashierNameKey),
			"branch": GetBranchID(c),
		})
	})
	r.GET("/manager", AuthMiddleware(jwtManager), RequireRole("manager"), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodGet, "/me", map[string]string{"Authorization": "Bearer " + token})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"`+id.String()+`","name":"achieng@example.com","branch":"westlands"}`, w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/me", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/me", map[string]string{"Authorization": "Token " + token}).Code)
	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodGet, "/manager", map[string]string{"Authorization": "Bearer " + token}).Code)
}

func TestBranchMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(BranchMiddleware("nairobi-cbd"))
	r.GET("/", RequireBranch(), func(c *gin.Context) { c.String(http.StatusOK, GetBranchID(c)) })

	assert.Equal(t, "nairobi-cbd", serve(r, http.MethodGet, "/", nil).Body.String())
	assert.Equal(t, "mombasa", serve(r, http.MethodGet, "/", map[string]string{BranchHeader: "mombasa"}).Body.String())

	bare := gin.New()
	bare.Use(BranchMiddleware(""))
	bare.GET("/", RequireBranch(), func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusBadRequest, serve(bare, http.MethodGet, "/", nil).Code)
}

func TestCashierRateLimiter(t *testing.T) {
	rl := NewCashierRateLimiter(RateLimiterConfig{RequestsPerSecond: 0.001, BurstSize: 2})
	defer rl.Stop()

	a, b := uuid.New(), uuid.New()
	r := gin.New()
	r.GET("/a", withCashier(a), rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/b", withCashier(b), rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/a", nil).Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/a", nil).Code)
	limited := serve(r, http.MethodGet, "/a", nil)
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "1", limited.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/b", nil).Code, "limits are per cashier")
	assert.Equal(t, 2, rl.Stats()["active_keys"])
}

type memoryKeys struct {
	mu   sync.Mutex
	keys map[string]*entity.IdempotencyKey
}

func (m *memoryKeys) GetByKey(_ context.Context, key string, cashierID uuid.UUID) (*entity.IdempotencyKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.keys[cashierID.String()+key], nil
}

func (m *memoryKeys) Create(_ context.Context, k *entity.IdempotencyKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[k.CashierID.String()+k.Key] = k
	return nil
}

func (m *memoryKeys) DeleteExpired(context.Context) (int64, error) { return 0, nil }

func TestIdempotency(t *testing.T) {
	repo := &memoryKeys{keys: map[string]*entity.IdempotencyKey{}}
	calls := 0
	status := http.StatusOK

	r := gin.New()
	r.POST("/submit", withCashier(uuid.New()), Idempotency(IdempotencyConfig{Repo: repo, Log: zerolog.Nop()}), func(c *gin.Context) {
		calls++
		c.JSON(status, gin.H{"call": calls})
	})
	key := map[string]string{IdempotencyKeyHeader: "k-1"}

	status = http.StatusBadGateway
	assert.Equal(t, http.StatusBadGateway, serve(r, http.MethodPost, "/submit", key).Code)

	status = http.StatusOK
	first := serve(r, http.MethodPost, "/submit", key)
	assert.JSONEq(t, `{"call":2}`, first.Body.String(), "failed responses are not stored")

	again := serve(r, http.MethodPost, "/submit", key)
	assert.JSONEq(t, `{"call":2}`, again.Body.String())
	assert.Equal(t, "true", again.Header().Get(replayedHeader))
	assert.Equal(t, 2, calls)

	serve(r, http.MethodPost, "/submit", nil)
	assert.Equal(t, 3, calls)
}

func TestIdempotencyRequired(t *testing.T) {
	repo := &memoryKeys{keys: map[string]*entity.IdempotencyKey{}}
	r := gin.New()
	r.POST("/submit", withCashier(uuid.New()), Idempotency(IdempotencyConfig{Repo: repo, Required: true}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodPost, "/submit", nil).Code)
}
