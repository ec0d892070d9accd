package service

import (
	"testing"
	"time"

	"github.com/sangkips/salesledger/internal/domain/entity"
	"github.com/stretchr/testify/assert"
)

func TestDiscountIsApplicable(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	d := &entity.Discount{Percentage: 10, StartsAt: start, EndsAt: start.Add(48 * time.Hour), Active: true}
	inside := start.Add(time.Hour)
	after := start.Add(72 * time.Hour)

	enforced := NewDiscountService(nil, true)
	assert.True(t, enforced.IsApplicable(d, inside))
	assert.False(t, enforced.IsApplicable(d, after))
	assert.False(t, enforced.IsApplicable(nil, inside))

	relaxed := NewDiscountService(nil, false)
	assert.True(t, relaxed.IsApplicable(d, after))

	inactive := *d
	inactive.Active = false
	assert.False(t, relaxed.IsApplicable(&inactive, inside))
}

func TestDiscountInputValidate(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	valid := &DiscountInput{Name: "spring", Percentage: 15, StartsAt: start, EndsAt: start.Add(time.Hour)}
	assert.NoError(t, valid.validate())

	tooLarge := &DiscountInput{Name: "spring", Percentage: 150, StartsAt: start, EndsAt: start.Add(time.Hour)}
	assert.Error(t, tooLarge.validate())

	backwards := &DiscountInput{Name: "spring", Percentage: 15, StartsAt: start, EndsAt: start.Add(-time.Hour)}
	assert.Error(t, backwards.validate())
}
