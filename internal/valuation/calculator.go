// Package valuation grades crude-oil samples and estimates their value.
package valuation

import (
	"github.com/set-night/oilbot/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	// Density of crude oil in kg per liter.
	Density = 0.85
	// LitersPerBarrel is the barrel conversion used for valuation.
	LitersPerBarrel = 159.0

	lightAbove  = 31.1
	heavyBelow  = 22.3
	sourFromPct = 1.0
)

// ClassifyAPI grades API gravity. Both 31.1 and 22.3 are Medium.
func ClassifyAPI(api float64) domain.APIGrade {
	switch {
	case api > lightAbove:
		return domain.APIGradeLight
	case api >= heavyBelow:
		return domain.APIGradeMedium
	default:
		return domain.APIGradeHeavy
	}
}

func ClassifySulfur(sulfurPercent float64) domain.SulfurGrade {
	if sulfurPercent < sourFromPct {
		return domain.SulfurGradeSweet
	}
	return domain.SulfurGradeSour
}

// Category returns the combined label, e.g. "Light & Sweet".
func Category(api, sulfurPercent float64) string {
	return string(ClassifyAPI(api)) + " & " + string(ClassifySulfur(sulfurPercent))
}

// Accepted reports whether a sample passes the inclusion gate.
func Accepted(s domain.Sample) bool {
	return s.Name != "" && s.WeightKg > 0
}

// Quote is the price per barrel used for a valuation.
type Quote struct {
	PricePerBarrel decimal.Decimal
	Live           bool
}

type Calculator struct {
	exchangeRate decimal.Decimal
}

func NewCalculator(exchangeRate decimal.Decimal) *Calculator {
	return &Calculator{exchangeRate: exchangeRate}
}

func (c *Calculator) ExchangeRate() decimal.Decimal {
	return c.exchangeRate
}

// Assess grades and values a single sample. It does not apply the inclusion gate.
func (c *Calculator) Assess(s domain.Sample, q Quote) domain.Assessment {
	liters := s.WeightKg / Density
	barrels := liters / LitersPerBarrel
	usd := decimal.NewFromFloat(barrels).Mul(q.PricePerBarrel)

	return domain.Assessment{
		Sample:         s,
		APIGrade:       ClassifyAPI(s.APIGravity),
		SulfurGrade:    ClassifySulfur(s.SulfurPercent),
		Category:       Category(s.APIGravity, s.SulfurPercent),
		PricePerBarrel: q.PricePerBarrel,
		LivePrice:      q.Live,
		VolumeLiters:   liters,
		VolumeBarrels:  barrels,
		ValueUSD:       usd,
		ValueLocal:     usd.Mul(c.exchangeRate),
	}
}

// Evaluate assesses every accepted sample in input order and silently drops the rest.
func (c *Calculator) Evaluate(samples []domain.Sample, q Quote) []domain.Assessment {
	out := make([]domain.Assessment, 0, len(samples))
	for _, s := range samples {
		if !Accepted(s) {
			continue
		}
		out = append(out, c.Assess(s, q))
	}
	return out
}

// Totals sums the displayed values: USD rounded to cents, local currency
// truncated to whole units.
func Totals(assessments []domain.Assessment) (usd, local decimal.Decimal) {
	usd, local = decimal.Zero, decimal.Zero
	for i := range assessments {
		usd = usd.Add(assessments[i].RoundedUSD())
		local = local.Add(assessments[i].WholeLocal())
	}
	return usd, local
}
