package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatUSD(t *testing.T) {
	assert.Equal(t, "$88.24", FormatUSD(decimal.RequireFromString("88.2352941")))
	assert.Equal(t, "$1,234.50", FormatUSD(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "$0.00", FormatUSD(decimal.Zero))
}

func TestFormatLocal(t *testing.T) {
	assert.Equal(t, "Rp 1,411,764", FormatLocal(decimal.RequireFromString("1411764.705"), "IDR"))
	assert.Equal(t, "€ 12", FormatLocal(decimal.RequireFromString("12.9"), "eur"))
	assert.Equal(t, "MYR 5", FormatLocal(decimal.NewFromInt(5), "MYR"))
}
