package routes

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/salesledger/internal/application/service"
	"github.com/sangkips/salesledger/internal/config"
	"github.com/sangkips/salesledger/internal/domain/entity"
	"github.com/sangkips/salesledger/internal/infrastructure/repository"
	"github.com/sangkips/salesledger/internal/presentation/http/handler"
	"github.com/sangkips/salesledger/internal/presentation/http/middleware"
	"github.com/sangkips/salesledger/internal/testutil"
	"github.com/sangkips/salesledger/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
	token  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.NewTestDB(t)

	cfg := &config.Config{App: config.AppConfig{Name: "salesledger-test"}}
	jwtManager := utils.NewJWTManager("test-secret", time.Hour)

	uow := repository.NewUnitOfWork(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	sellerRepo := repository.NewSellerRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	profitRepo := repository.NewProfitRepository(db)

	discountService := service.NewDiscountService(repository.NewDiscountRepository(db), true)
	profitService := service.NewProfitService(profitRepo, productRepo, 5*time.Hour)
	customerService := service.NewCustomerService(customerRepo, locationRepo)

	handlers := &Handlers{
		Auth:      handler.NewAuthHandler(service.NewAuthService(sellerRepo, jwtManager)),
		Product:   handler.NewProductHandler(service.NewProductService(uow, productRepo, categoryRepo, repository.NewStockRepository(db))),
		Category:  handler.NewCategoryHandler(service.NewCategoryService(categoryRepo)),
		Customer:  handler.NewCustomerHandler(customerService),
		Discount:  handler.NewDiscountHandler(discountService),
		Profit:    handler.NewProfitHandler(profitService),
		Dashboard: handler.NewDashboardHandler(service.NewDashboardService(productRepo, customerRepo, locationRepo, sellerRepo, saleRepo, profitService)),
		Sale: handler.NewSaleHandler(
			service.NewSaleService(uow, saleRepo, discountService, service.SalesPolicy{}),
			service.NewExportService(saleRepo, profitRepo),
			service.NewImportService(uow, "Imported"),
			1<<20,
		),
	}

	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfigFrom(1000, 1))
	t.Cleanup(limiter.Stop)

	router := Setup(handlers, &Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: repository.NewIdempotencyRepository(db),
		RateLimiter:     limiter,
	})
	return &testServer{t: t, db: db, router: router}
}

func (s *testServer) do(method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func (s *testServer) login(username, password string) {
	s.t.Helper()
	seller := &entity.Seller{Username: username, Email: strings.ToLower(username) + "@example.com"}
	require.NoError(s.t, seller.SetPassword(password))
	require.NoError(s.t, s.db.Create(seller).Error)

	rec := s.do(http.MethodPost, "/api/v1/auth/login", map[string]string{"login": username, "password": password}, nil)
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())

	var out struct {
		AccessToken string `json:"access_token"`
	}
	decode(s.t, rec, &out)
	require.NotEmpty(s.t, out.AccessToken)
	s.token = out.AccessToken
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/metrics", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "salesledger_http_requests_total")
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/api/v1/sales", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/sales", nil, map[string]string{"Authorization": "Bearer nonsense"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	s := newTestServer(t)
	s.login("Alonso", "s3cret")
	s.token = ""

	rec := s.do(http.MethodPost, "/api/v1/auth/login", map[string]string{"login": "Alonso", "password": "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSaleLifecycle(t *testing.T) {
	s := newTestServer(t)
	s.login("Alonso", "s3cret")

	mug := testutil.CreateProduct(t, s.db, "Mug", 2550, 1000, 5)
	customer := testutil.CreateCustomer(t, s.db, "Maria")
	location := testutil.CreateLocation(t, s.db, "Home")

	body := map[string]any{
		"customer_id": customer.ID,
		"location_id": location.ID,
		"status":      "on-delivery",
		"lines":       []map[string]any{{"product_id": mug.ID, "quantity": 2}},
	}
	key := map[string]string{middleware.IdempotencyKeyHeader: "sale-1"}

	rec := s.do(http.MethodPost, "/api/v1/sales", body, key)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var result struct {
		Sale struct {
			ID    string  `json:"id"`
			Total float64 `json:"total"`
		} `json:"sale"`
		Lines []service.LineOutcome `json:"lines"`
	}
	decode(t, rec, &result)
	assert.InDelta(t, 51.0, result.Sale.Total, 0.001)
	require.Len(t, result.Lines, 1)
	assert.Equal(t, service.LineCommitted, result.Lines[0].Outcome)
	assert.Equal(t, 3, testutil.Available(t, s.db, mug))

	t.Run("retry replays", func(t *testing.T) {
		replay := s.do(http.MethodPost, "/api/v1/sales", body, key)
		assert.Equal(t, http.StatusCreated, replay.Code)
		assert.Equal(t, "true", replay.Header().Get(middleware.ReplayedHeader))
		assert.Equal(t, rec.Body.String(), replay.Body.String())
		assert.Equal(t, 3, testutil.Available(t, s.db, mug))
	})

	t.Run("key reuse with another body", func(t *testing.T) {
		other := map[string]any{
			"customer_id": customer.ID,
			"location_id": location.ID,
			"status":      "on-delivery",
			"lines":       []map[string]any{{"product_id": mug.ID, "quantity": 1}},
		}
		conflict := s.do(http.MethodPost, "/api/v1/sales", other, key)
		assert.Equal(t, http.StatusUnprocessableEntity, conflict.Code)
	})

	t.Run("unknown status", func(t *testing.T) {
		bad := map[string]any{
			"customer_id": customer.ID,
			"location_id": location.ID,
			"status":      "shipped",
		}
		assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/v1/sales", bad, nil).Code)
	})

	t.Run("status change", func(t *testing.T) {
		patch := s.do(http.MethodPut, "/api/v1/sales/"+result.Sale.ID+"/status", map[string]string{"status": "paid-in-advance"}, nil)
		require.Equal(t, http.StatusOK, patch.Code, patch.Body.String())
	})

	t.Run("profit summary", func(t *testing.T) {
		summary := s.do(http.MethodGet, "/api/v1/profits/summary", nil, nil)
		require.Equal(t, http.StatusOK, summary.Code)
		var out service.ProfitSummary
		decode(t, summary, &out)
		assert.InDelta(t, 31.0, out.TotalProfit, 0.001)
		assert.Equal(t, int64(1), out.SaleCount)
	})

	t.Run("csv export", func(t *testing.T) {
		export := s.do(http.MethodGet, "/api/v1/sales/export.csv", nil, nil)
		require.Equal(t, http.StatusOK, export.Code)
		assert.Contains(t, export.Header().Get("Content-Disposition"), ".csv")
		lines := strings.Split(strings.TrimSpace(export.Body.String()), "\n")
		require.Len(t, lines, 2)
		assert.Contains(t, lines[1], "Paid-In-Advance")
		assert.True(t, strings.HasSuffix(strings.TrimSpace(lines[1]), "51.00,31.00"))
	})
}

func TestSaleImportUpload(t *testing.T) {
	s := newTestServer(t)
	s.login("Alonso", "s3cret")
	mug := testutil.CreateProduct(t, s.db, "Mug", 2550, 1000, 5)

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("file", "sales.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("Date,Customer,Product,Quantity,Price,Seller\n" +
		"2024-03-01,Pedro,Mug,2,25.50,Alonso\n" +
		"2024-03-01,Pedro,Ghost,1,10,Alonso\n"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sales/import", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.token)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result service.ImportResult
	decode(t, rec, &result)
	assert.Equal(t, 2, result.TotalRows)
	assert.Equal(t, 1, result.Imported)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, service.RowProductNotFound, result.Errors[0].Code)
	assert.Equal(t, 3, result.Errors[0].Row)
	assert.Equal(t, 3, testutil.Available(t, s.db, mug))
}

func TestImportRequiresFile(t *testing.T) {
	s := newTestServer(t)
	s.login("Alonso", "s3cret")

	rec := s.do(http.MethodPost, "/api/v1/sales/import", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportFailureIsNotAnAttachment(t *testing.T) {
	s := newTestServer(t)
	s.login("Alonso", "s3cret")
	require.NoError(t, s.db.Migrator().DropTable(&entity.SaleLine{}, &entity.Sale{}))

	for _, path := range []string{"/api/v1/sales/export.csv", "/api/v1/sales/export.xlsx"} {
		rec := s.do(http.MethodGet, path, nil, nil)
		assert.Equal(t, http.StatusInternalServerError, rec.Code, path)
		assert.Empty(t, rec.Header().Get("Content-Disposition"), path)
		env := decode(t, rec, nil)
		assert.False(t, env.Success)
	}
}

func TestConcurrentRetriesCommitOneSale(t *testing.T) {
	s := newTestServer(t)
	s.login("Alonso", "s3cret")
	mug := testutil.CreateProduct(t, s.db, "Mug", 2550, 1000, 5)
	customer := testutil.CreateCustomer(t, s.db, "Maria")
	location := testutil.CreateLocation(t, s.db, "Home")

	raw, err := json.Marshal(map[string]any{
		"customer_id": customer.ID,
		"location_id": location.ID,
		"status":      "on-delivery",
		"lines":       []map[string]any{{"product_id": mug.ID, "quantity": 2}},
	})
	require.NoError(t, err)

	const retries = 4
	recs := make([]*httptest.ResponseRecorder, retries)
	var wg sync.WaitGroup
	for i := range recs {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/sales", bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+s.token)
		req.Header.Set(middleware.IdempotencyKeyHeader, "sale-1")
		recs[i] = httptest.NewRecorder()

		wg.Add(1)
		go func(rec *httptest.ResponseRecorder, req *http.Request) {
			defer wg.Done()
			s.router.ServeHTTP(rec, req)
		}(recs[i], req)
	}
	wg.Wait()

	executed := 0
	for _, rec := range recs {
		assert.Contains(t, []int{http.StatusCreated, http.StatusConflict}, rec.Code, rec.Body.String())
		if rec.Code == http.StatusCreated && rec.Header().Get(middleware.ReplayedHeader) == "" {
			executed++
		}
	}
	assert.Equal(t, 1, executed)

	var sales int64
	require.NoError(t, s.db.Model(&entity.Sale{}).Count(&sales).Error)
	assert.Equal(t, int64(1), sales)
	assert.Equal(t, 3, testutil.Available(t, s.db, mug))
}
