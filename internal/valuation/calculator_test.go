package valuation

import (
	"testing"

	"github.com/set-night/oilbot/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fallback = Quote{PricePerBarrel: decimal.NewFromFloat(75.0)}

func TestClassifyAPIBoundaries(t *testing.T) {
	assert.Equal(t, domain.APIGradeLight, ClassifyAPI(31.2))
	assert.Equal(t, domain.APIGradeMedium, ClassifyAPI(31.1))
	assert.Equal(t, domain.APIGradeMedium, ClassifyAPI(22.3))
	assert.Equal(t, domain.APIGradeHeavy, ClassifyAPI(22.2))

	assert.Equal(t, domain.APIGradeHeavy, ClassifyAPI(0))
	assert.Equal(t, domain.APIGradeLight, ClassifyAPI(100))
}

func TestClassifySulfurBoundaries(t *testing.T) {
	assert.Equal(t, domain.SulfurGradeSweet, ClassifySulfur(0.99))
	assert.Equal(t, domain.SulfurGradeSour, ClassifySulfur(1.0))
	assert.Equal(t, domain.SulfurGradeSweet, ClassifySulfur(0))
}

func TestCategory(t *testing.T) {
	assert.Equal(t, "Light & Sweet", Category(35, 0.2))
	assert.Equal(t, "Medium & Sour", Category(25, 2.5))
	assert.Equal(t, "Heavy & Sweet", Category(10, 0.5))
}

func TestAssessVolumeAndValue(t *testing.T) {
	calc := NewCalculator(decimal.NewFromInt(16000))

	a := calc.Assess(domain.Sample{Name: "Minas", APIGravity: 35, SulfurPercent: 0.1, WeightKg: 159}, fallback)

	assert.InDelta(t, 187.06, a.VolumeLiters, 0.01)
	assert.InDelta(t, 1.1765, a.VolumeBarrels, 0.0001)
	assert.Equal(t, "88.24", a.RoundedUSD().StringFixed(2))
	assert.True(t, a.ValueLocal.Equal(a.ValueUSD.Mul(decimal.NewFromInt(16000))))
	assert.Equal(t, "1411764", a.WholeLocal().String())
	assert.Equal(t, "Light & Sweet", a.Category)
	assert.Equal(t, domain.APIGradeLight, a.APIGrade)
	assert.Equal(t, domain.SulfurGradeSweet, a.SulfurGrade)
	assert.True(t, a.PricePerBarrel.Equal(decimal.NewFromFloat(75)))
	assert.False(t, a.LivePrice)
	assert.Equal(t, "Minas", a.Name)
}

func TestAssessUsesLivePrice(t *testing.T) {
	calc := NewCalculator(decimal.NewFromInt(1))
	live := Quote{PricePerBarrel: decimal.NewFromFloat(80.5), Live: true}

	a := calc.Assess(domain.Sample{Name: "X", WeightKg: 159 * Density}, live)

	assert.InDelta(t, 1.0, a.VolumeBarrels, 1e-9)
	assert.Equal(t, "80.50", a.RoundedUSD().StringFixed(2))
	assert.True(t, a.LivePrice)
}

func TestEvaluateInclusionGate(t *testing.T) {
	calc := NewCalculator(decimal.NewFromInt(16000))
	samples := []domain.Sample{
		{Name: "A", APIGravity: 30, SulfurPercent: 0.5, WeightKg: 10},
		{Name: "", APIGravity: 40, SulfurPercent: 0.1, WeightKg: 10},
		{Name: "C", APIGravity: 20, SulfurPercent: 2, WeightKg: 0},
		{Name: "D", APIGravity: 20, SulfurPercent: 2, WeightKg: 5},
	}

	got := calc.Evaluate(samples, fallback)

	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].Name)
	assert.Equal(t, "D", got[1].Name)
}

func TestEvaluateEmpty(t *testing.T) {
	calc := NewCalculator(decimal.NewFromInt(16000))
	assert.Empty(t, calc.Evaluate(nil, fallback))
}

func TestAccepted(t *testing.T) {
	assert.True(t, Accepted(domain.Sample{Name: "a", WeightKg: 0.1}))
	assert.False(t, Accepted(domain.Sample{Name: "a"}))
	assert.False(t, Accepted(domain.Sample{WeightKg: 1}))
}

func TestTotalsUseDisplayedValues(t *testing.T) {
	calc := NewCalculator(decimal.NewFromInt(16000))
	batch := calc.Evaluate([]domain.Sample{
		{Name: "A", WeightKg: 159},
		{Name: "B", WeightKg: 159},
	}, fallback)

	usd, local := Totals(batch)

	assert.Equal(t, "176.48", usd.StringFixed(2))
	assert.Equal(t, "2823528", local.String())
}
