package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/salesledger/internal/application/service"
	"github.com/sangkips/salesledger/internal/presentation/http/dto/response"
)

// ProfitHandler exposes the profit reports
type ProfitHandler struct {
	profitService *service.ProfitService
}

// NewProfitHandler creates a new profit handler
func NewProfitHandler(profitService *service.ProfitService) *ProfitHandler {
	return &ProfitHandler{profitService: profitService}
}

// Summary handles the headline profit figures
func (h *ProfitHandler) Summary(c *gin.Context) {
	summary, err := h.profitService.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Profit summary retrieved successfully", summary)
}

// ByProduct handles profit aggregated per product
func (h *ProfitHandler) ByProduct(c *gin.Context) {
	rows, err := h.profitService.ByProduct(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product profit retrieved successfully", rows)
}

// ProductDetail handles one product's ledger history
func (h *ProfitHandler) ProductDetail(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	detail, err := h.profitService.ProductDetail(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product profit detail retrieved successfully", detail)
}

// Recent handles the newest ledger records. limit defaults to 10.
func (h *ProfitHandler) Recent(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	records, err := h.profitService.Recent(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Recent profit retrieved successfully", records)
}

// Daily handles the per-day profit series
func (h *ProfitHandler) Daily(c *gin.Context) {
	series, err := h.profitService.DailySeries(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Daily profit retrieved successfully", series)
}

// Today handles today's feed with the running total
func (h *ProfitHandler) Today(c *gin.Context) {
	feed, err := h.profitService.TodayFeed(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Today's profit retrieved successfully", feed)
}
