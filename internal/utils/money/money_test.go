package money_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tallyops/psa_backend/internal/utils/money"
)

func TestHoursTimesRate(t *testing.T) {
	assert.Equal(t, int64(210000), money.HoursTimesRate(14, 15000))
	assert.Equal(t, int64(3750), money.HoursTimesRate(0.25, 15000))
	// 1.5h at $33.33/hr -> 4999.5 rounds half-up to 5000
	assert.Equal(t, int64(5000), money.HoursTimesRate(1.5, 3333))
}

func TestApplyMarkup(t *testing.T) {
	assert.Equal(t, int64(5500), money.ApplyMarkup(5000, 0.10))
	assert.Equal(t, int64(5750), money.ApplyMarkup(5000, 0.15))
	assert.Equal(t, int64(5000), money.ApplyMarkup(5000, 0))
	// 333 * 1.15 = 382.95 rounds to 383
	assert.Equal(t, int64(383), money.ApplyMarkup(333, 0.15))
}

func TestPercentOf(t *testing.T) {
	assert.Equal(t, int64(2500000), money.PercentOf(10000000, 25))
	assert.Equal(t, int64(3333), money.PercentOf(10000, 33.33))
	assert.Equal(t, int64(0), money.PercentOf(0, 50))
}

func TestRatioPercent(t *testing.T) {
	assert.Equal(t, int64(5), money.RatioPercent(50000, 1000000))
	// 2/3 -> 66.66... rounds to 67, not floored
	assert.Equal(t, int64(67), money.RatioPercent(2, 3))
	assert.Equal(t, int64(0), money.RatioPercent(100, 0))
	assert.Equal(t, int64(100), money.RatioPercent(500, 500))
}
