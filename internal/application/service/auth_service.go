package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salesledger/internal/domain/entity"
	"github.com/sangkips/salesledger/internal/domain/repository"
	"github.com/sangkips/salesledger/pkg/apperror"
	"github.com/sangkips/salesledger/pkg/utils"
)

// AuthService handles seller authentication
type AuthService struct {
	sellerRepo repository.SellerRepository
	jwtManager *utils.JWTManager
}

// NewAuthService creates a new auth service
func NewAuthService(sellerRepo repository.SellerRepository, jwtManager *utils.JWTManager) *AuthService {
	return &AuthService{
		sellerRepo: sellerRepo,
		jwtManager: jwtManager,
	}
}

// LoginInput represents the login input. Login may be a username or an email.
type LoginInput struct {
	Login    string
	Password string
}

// LoginOutput represents the login output
type LoginOutput struct {
	Seller      *entity.Seller
	AccessToken string
	ExpiresAt   time.Time
}

// Login authenticates a seller and returns an access token
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	seller, err := s.sellerRepo.GetByUsername(ctx, input.Login)
	if err != nil {
		return nil, err
	}
	if seller == nil {
		seller, err = s.sellerRepo.GetByEmail(ctx, input.Login)
		if err != nil {
			return nil, err
		}
	}
	if seller == nil || !seller.CheckPassword(input.Password) {
		return nil, apperror.ErrInvalidCredentials
	}

	token, expiresAt, err := s.jwtManager.GenerateAccessToken(seller.ID, seller.Username)
	if err != nil {
		return nil, err
	}

	return &LoginOutput{
		Seller:      seller,
		AccessToken: token,
		ExpiresAt:   expiresAt,
	}, nil
}

// GetProfile returns the authenticated seller
func (s *AuthService) GetProfile(ctx context.Context, sellerID uuid.UUID) (*entity.Seller, error) {
	seller, err := s.sellerRepo.GetByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if seller == nil {
		return nil, apperror.NewNotFoundError("Seller")
	}
	return seller, nil
}

// ListSellers lists every seller
func (s *AuthService) ListSellers(ctx context.Context) ([]entity.Seller, error) {
	return s.sellerRepo.List(ctx)
}
