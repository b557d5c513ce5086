package domain

import (
	"github.com/shopspring/decimal"
)

type APIGrade string

const (
	APIGradeLight  APIGrade = "Light"
	APIGradeMedium APIGrade = "Medium"
	APIGradeHeavy  APIGrade = "Heavy"
)

type SulfurGrade string

const (
	SulfurGradeSweet SulfurGrade = "Sweet"
	SulfurGradeSour  SulfurGrade = "Sour"
)

// Sample is one measurement as entered by the user.
type Sample struct {
	Name            string  `json:"name"`
	APIGravity      float64 `json:"api_gravity"`
	SulfurPercent   float64 `json:"sulfur_percent"`
	WeightKg        float64 `json:"weight_kg"`
	LocationName    string  `json:"location_name,omitempty"`
	LocationAddress string  `json:"location_address,omitempty"`
	PhotoFileID     string  `json:"photo_file_id,omitempty"` // Telegram file ID
}

// Assessment is a sample together with its grades and valuation.
// It is built once by the valuation calculator and never modified.
type Assessment struct {
	Sample

	APIGrade       APIGrade
	SulfurGrade    SulfurGrade
	Category       string
	PricePerBarrel decimal.Decimal
	LivePrice      bool
	VolumeLiters   float64
	VolumeBarrels  float64
	ValueUSD       decimal.Decimal
	ValueLocal     decimal.Decimal
}

// RoundedUSD is the USD value as displayed and exported.
func (a *Assessment) RoundedUSD() decimal.Decimal {
	return a.ValueUSD.Round(2)
}

// WholeLocal is the local currency value truncated to whole units.
func (a *Assessment) WholeLocal() decimal.Decimal {
	return a.ValueLocal.Truncate(0)
}
