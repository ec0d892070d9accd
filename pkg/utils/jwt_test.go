package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	sellerID := uuid.New()

	token, expiresAt, err := m.GenerateAccessToken(sellerID, "alonso")
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, sellerID, claims.SellerID)
	assert.Equal(t, "alonso", claims.Username)
}

func TestJWTManager_RejectsForeignSecretAndExpiry(t *testing.T) {
	token, _, err := NewJWTManager("other", time.Hour).GenerateAccessToken(uuid.New(), "x")
	require.NoError(t, err)
	_, err = NewJWTManager("secret", time.Hour).ValidateAccessToken(token)
	assert.Error(t, err)

	expired, _, err := NewJWTManager("secret", -time.Minute).GenerateAccessToken(uuid.New(), "x")
	require.NoError(t, err)
	_, err = NewJWTManager("secret", time.Hour).ValidateAccessToken(expired)
	assert.Error(t, err)
}
