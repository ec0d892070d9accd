package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/salesledger/internal/presentation/http/dto/request"
	"github.com/sangkips/salesledger/internal/presentation/http/dto/response"
	"github.com/sangkips/salesledger/pkg/pagination"
	"github.com/sangkips/salesledger/pkg/utils"
)

// Context keys set by the auth middleware
const (
	SellerIDKey       = "seller_id"
	SellerUsernameKey = "seller_username"
)

// GetSellerID extracts the authenticated seller ID from the Gin context
func GetSellerID(c *gin.Context) *uuid.UUID {
	val, exists := c.Get(SellerIDKey)
	if !exists {
		return nil
	}
	sellerID, ok := val.(uuid.UUID)
	if !ok {
		return nil
	}
	return &sellerID
}

// GetSellerUsername extracts the authenticated seller's username
func GetSellerUsername(c *gin.Context) string {
	return c.GetString(SellerUsernameKey)
}

// paramID parses a UUID path parameter, answering 400 when it is malformed
func paramID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := utils.ParseUUID(c.Param(name))
	if err != nil {
		response.BadRequest(c, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// bindList reads search and page parameters from the query string
func bindList(c *gin.Context) (*pagination.PaginationParams, string, bool) {
	var req request.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return nil, "", false
	}
	return &pagination.PaginationParams{Page: req.Page, PerPage: req.PerPage}, req.Search, true
}
