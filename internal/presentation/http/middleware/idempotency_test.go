package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/salesledger/internal/infrastructure/repository"
	"github.com/sangkips/salesledger/internal/presentation/http/handler"
	"github.com/sangkips/salesledger/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIdempotentRouter(config IdempotencyConfig, h gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	sellerID := uuid.New()

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(handler.SellerIDKey, sellerID)
		c.Next()
	})
	router.Use(Idempotency(config))
	router.POST("/sales", h)
	router.GET("/sales", h)
	return router
}

func serve(router *gin.Engine, method, key, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/sales", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestIdempotency_RetryWhileFirstRequestRuns(t *testing.T) {
	repo := repository.NewIdempotencyRepository(testutil.NewTestDB(t))
	entered := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32

	router := newIdempotentRouter(IdempotencyConfig{Repo: repo}, func(c *gin.Context) {
		if calls.Add(1) == 1 {
			close(entered)
			<-release
		}
		c.JSON(http.StatusCreated, gin.H{"sale": "s-1"})
	})

	first := make(chan *httptest.ResponseRecorder, 1)
	go func() { first <- serve(router, http.MethodPost, "k1", `{"quantity":2}`) }()
	<-entered

	retry := serve(router, http.MethodPost, "k1", `{"quantity":2}`)
	assert.Equal(t, http.StatusConflict, retry.Code)

	changed := serve(router, http.MethodPost, "k1", `{"quantity":3}`)
	assert.Equal(t, http.StatusUnprocessableEntity, changed.Code)

	close(release)
	done := <-first
	require.Equal(t, http.StatusCreated, done.Code)

	replay := serve(router, http.MethodPost, "k1", `{"quantity":2}`)
	assert.Equal(t, http.StatusCreated, replay.Code)
	assert.Equal(t, "true", replay.Header().Get(ReplayedHeader))
	assert.Equal(t, done.Body.String(), replay.Body.String())
	assert.Equal(t, int32(1), calls.Load())
}

func TestIdempotency_FailedRequestReleasesKey(t *testing.T) {
	repo := repository.NewIdempotencyRepository(testutil.NewTestDB(t))
	var calls atomic.Int32

	router := newIdempotentRouter(IdempotencyConfig{Repo: repo}, func(c *gin.Context) {
		if calls.Add(1) == 1 {
			c.JSON(http.StatusNotFound, gin.H{"message": "Customer not found"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"sale": "s-1"})
	})

	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodPost, "k1", `{}`).Code)
	assert.Equal(t, http.StatusCreated, serve(router, http.MethodPost, "k1", `{}`).Code)

	replay := serve(router, http.MethodPost, "k1", `{}`)
	assert.Equal(t, http.StatusCreated, replay.Code)
	assert.Equal(t, "true", replay.Header().Get(ReplayedHeader))
	assert.Equal(t, int32(2), calls.Load())
}

func TestIdempotency_BodyLimit(t *testing.T) {
	repo := repository.NewIdempotencyRepository(testutil.NewTestDB(t))
	var calls atomic.Int32

	router := newIdempotentRouter(IdempotencyConfig{Repo: repo, MaxBodySize: 16}, func(c *gin.Context) {
		calls.Add(1)
		c.Status(http.StatusCreated)
	})

	rec := serve(router, http.MethodPost, "k1", strings.Repeat("x", 64))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, http.StatusCreated, serve(router, http.MethodPost, "k2", `{"q":1}`).Code)
	assert.Equal(t, int32(1), calls.Load())
}

func TestIdempotency_RequiredKey(t *testing.T) {
	repo := repository.NewIdempotencyRepository(testutil.NewTestDB(t))
	router := newIdempotentRouter(IdempotencyConfig{Repo: repo, Required: true}, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusBadRequest, serve(router, http.MethodPost, "", `{}`).Code)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "", "").Code)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodPost, "k1", `{}`).Code)
}
