package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/salesledger/internal/application/service"
	"github.com/sangkips/salesledger/internal/presentation/http/dto/request"
	"github.com/sangkips/salesledger/internal/presentation/http/dto/response"
)

// DiscountHandler handles discount-related HTTP requests
type DiscountHandler struct {
	discountService *service.DiscountService
}

// NewDiscountHandler creates a new discount handler
func NewDiscountHandler(discountService *service.DiscountService) *DiscountHandler {
	return &DiscountHandler{discountService: discountService}
}

// List handles listing discounts. active=true keeps active discounts only.
func (h *DiscountHandler) List(c *gin.Context) {
	params, _, ok := bindList(c)
	if !ok {
		return
	}
	activeOnly, _ := strconv.ParseBool(c.Query("active"))

	result, err := h.discountService.List(c.Request.Context(), params, activeOnly)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Discounts retrieved successfully", result)
}

// Create handles creating a discount
func (h *DiscountHandler) Create(c *gin.Context) {
	var req request.DiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	discount, err := h.discountService.Create(c.Request.Context(), discountInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Discount created successfully", discount)
}

// Get handles getting a single discount
func (h *DiscountHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	discount, err := h.discountService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Discount retrieved successfully", discount)
}

// Update handles updating a discount
func (h *DiscountHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req request.DiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	discount, err := h.discountService.Update(c.Request.Context(), id, discountInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Discount updated successfully", discount)
}

// Delete handles deleting a discount
func (h *DiscountHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.discountService.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

func discountInput(req *request.DiscountRequest) *service.DiscountInput {
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	return &service.DiscountInput{
		Name:       req.Name,
		Percentage: req.Percentage,
		StartsAt:   req.StartsAt,
		EndsAt:     req.EndsAt,
		Active:     active,
	}
}
