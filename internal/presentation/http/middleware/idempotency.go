package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/sangkips/salesledger/internal/domain/entity"
	"github.com/sangkips/salesledger/internal/domain/repository"
	"github.com/sangkips/salesledger/internal/presentation/http/dto/response"
	"github.com/sangkips/salesledger/internal/presentation/http/handler"
)

const (
	// IdempotencyKeyHeader is the HTTP header for idempotency keys
	IdempotencyKeyHeader = "Idempotency-Key"
	// ReplayedHeader marks a response served from the idempotency store
	ReplayedHeader = "X-Idempotency-Replayed"
	// IdempotencyKeyTTL is how long keys are valid
	IdempotencyKeyTTL = 24 * time.Hour
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Repo repository.IdempotencyRepository
	// Required rejects POST requests that carry no key
	Required bool
	// MaxBodySize caps the request body read for hashing. Zero means no cap.
	MaxBodySize int64
}

// bodyRecorder wraps gin.ResponseWriter to capture the response body
type bodyRecorder struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the stored response when a seller retries a write
// with the same Idempotency-Key. The key is claimed before the handler runs,
// so a retry that arrives while the first request is in flight gets 409.
// Reusing a key with a different body is rejected. Only 2xx responses are
// kept; any other outcome releases the key.
func Idempotency(config IdempotencyConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		method := c.Request.Method
		if method != http.MethodPost && method != http.MethodPut && method != http.MethodPatch {
			c.Next()
			return
		}

		key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
		if key == "" {
			if config.Required && method == http.MethodPost {
				response.BadRequest(c, IdempotencyKeyHeader+" header is required for this request")
				c.Abort()
				return
			}
			c.Next()
			return
		}

		sellerID := handler.GetSellerID(c)
		if sellerID == nil {
			response.Unauthorized(c, "Seller not authenticated")
			c.Abort()
			return
		}

		hash, err := hashBody(c, config.MaxBodySize)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				response.ErrorWithCode(c, http.StatusRequestEntityTooLarge, "Request body is too large")
			} else {
				response.BadRequest(c, "Unable to read request body")
			}
			c.Abort()
			return
		}

		ctx := c.Request.Context()
		claim := &entity.IdempotencyKey{
			Key:         key,
			SellerID:    *sellerID,
			Endpoint:    method + " " + c.FullPath(),
			RequestHash: hash,
			ExpiresAt:   time.Now().Add(IdempotencyKeyTTL),
		}
		held, err := claimKey(ctx, config.Repo, claim)
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Str("key", key).Msg("failed to claim idempotency key")
			response.InternalServerError(c, "Failed to check idempotency key")
			c.Abort()
			return
		}

		if held != nil {
			switch {
			case held.RequestHash != hash:
				response.ErrorWithCode(c, http.StatusUnprocessableEntity, "Idempotency-Key was already used with a different request")
			case held.IsPending():
				response.ErrorWithCode(c, http.StatusConflict, "A request with this Idempotency-Key is still in progress")
			default:
				c.Header(ReplayedHeader, "true")
				c.Data(held.ResponseCode, "application/json; charset=utf-8", []byte(held.ResponseBody))
			}
			c.Abort()
			return
		}

		// the request context may be gone by the time the handler returns
		store := context.WithoutCancel(ctx)
		completed := false
		defer func() {
			if completed {
				return
			}
			if err := config.Repo.Delete(store, claim.ID); err != nil {
				log.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("failed to release idempotency key")
			}
		}()

		recorder := &bodyRecorder{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = recorder

		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}
		claim.ResponseCode = status
		claim.ResponseBody = recorder.body.String()
		if err := config.Repo.Complete(store, claim); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("failed to store idempotency response")
			return
		}
		completed = true
	}
}

// claimKey inserts a pending key. When the seller already holds a live key
// it returns that key instead and claims nothing.
func claimKey(ctx context.Context, repo repository.IdempotencyRepository, claim *entity.IdempotencyKey) (*entity.IdempotencyKey, error) {
	existing, err := repo.GetByKey(ctx, claim.Key, claim.SellerID)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.IsExpired() {
		if err := repo.DeleteExpired(ctx); err != nil {
			return nil, err
		}
		existing = nil
	}
	if existing != nil {
		return existing, nil
	}

	if err := repo.Create(ctx, claim); err != nil {
		// a concurrent request claimed it first
		winner, getErr := repo.GetByKey(ctx, claim.Key, claim.SellerID)
		if getErr != nil || winner == nil {
			return nil, err
		}
		return winner, nil
	}
	return nil, nil
}

// hashBody digests the request body, at most limit bytes when limit is
// positive, and restores it for the handler
func hashBody(c *gin.Context, limit int64) (string, error) {
	if c.Request.Body == nil {
		return "", nil
	}
	if limit > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return "", err
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:]), nil
}
