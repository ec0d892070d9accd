package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/salesledger/internal/application/service"
	"github.com/sangkips/salesledger/internal/presentation/http/dto/request"
	"github.com/sangkips/salesledger/internal/presentation/http/dto/response"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles seller login
// @Summary Login
// @Description Authenticate a seller by username or email and return an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.LoginRequest true "Login credentials"
// @Success 200 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	output, err := h.authService.Login(c.Request.Context(), &service.LoginInput{
		Login:    req.Login,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Login successful", gin.H{
		"seller":       output.Seller,
		"access_token": output.AccessToken,
		"token_type":   "Bearer",
		"expires_at":   output.ExpiresAt,
	})
}

// GetProfile returns the authenticated seller
func (h *AuthHandler) GetProfile(c *gin.Context) {
	sellerID := GetSellerID(c)
	if sellerID == nil {
		response.Unauthorized(c, "Seller not authenticated")
		return
	}

	seller, err := h.authService.GetProfile(c.Request.Context(), *sellerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Profile retrieved successfully", seller)
}

// ListSellers lists every seller, for the sale form
func (h *AuthHandler) ListSellers(c *gin.Context) {
	sellers, err := h.authService.ListSellers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sellers retrieved successfully", sellers)
}
