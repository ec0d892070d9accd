package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/salesledger/internal/application/service"
	"github.com/sangkips/salesledger/internal/presentation/http/dto/request"
	"github.com/sangkips/salesledger/internal/presentation/http/dto/response"
)

// CustomerHandler handles customer and delivery location HTTP requests
type CustomerHandler struct {
	customerService *service.CustomerService
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// List handles listing customers
func (h *CustomerHandler) List(c *gin.Context) {
	params, search, ok := bindList(c)
	if !ok {
		return
	}

	result, err := h.customerService.ListCustomers(c.Request.Context(), params, search)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Customers retrieved successfully", result)
}

// Create handles creating a customer
func (h *CustomerHandler) Create(c *gin.Context) {
	var req request.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	customer, err := h.customerService.CreateCustomer(c.Request.Context(), &service.CustomerInput{
		Name:  req.Name,
		Phone: req.Phone,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Customer created successfully", customer)
}

// Get handles getting a single customer
func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	customer, err := h.customerService.GetCustomer(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer retrieved successfully", customer)
}

// Update handles updating a customer
func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req request.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	customer, err := h.customerService.UpdateCustomer(c.Request.Context(), id, &service.CustomerInput{
		Name:  req.Name,
		Phone: req.Phone,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer updated successfully", customer)
}

// Delete handles deleting a customer
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.customerService.DeleteCustomer(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// ListLocations handles listing delivery locations
func (h *CustomerHandler) ListLocations(c *gin.Context) {
	params, search, ok := bindList(c)
	if !ok {
		return
	}

	result, err := h.customerService.ListLocations(c.Request.Context(), params, search)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Locations retrieved successfully", result)
}

// CreateLocation handles creating a delivery location
func (h *CustomerHandler) CreateLocation(c *gin.Context) {
	var req request.LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	location, err := h.customerService.CreateLocation(c.Request.Context(), locationInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Location created successfully", location)
}

// GetLocation handles getting a single delivery location
func (h *CustomerHandler) GetLocation(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	location, err := h.customerService.GetLocation(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Location retrieved successfully", location)
}

// UpdateLocation handles updating a delivery location
func (h *CustomerHandler) UpdateLocation(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req request.LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	location, err := h.customerService.UpdateLocation(c.Request.Context(), id, locationInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Location updated successfully", location)
}

// DeleteLocation handles deleting a delivery location
func (h *CustomerHandler) DeleteLocation(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.customerService.DeleteLocation(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

func locationInput(req *request.LocationRequest) *service.LocationInput {
	return &service.LocationInput{
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
		Kind:    req.Kind,
	}
}
