package handler

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/set-night/oilbot/internal/domain"
)

// commandArgs strips the leading "/command" (or "/command@bot") token.
func commandArgs(text string) string {
	text = strings.TrimSpace(text)
	i := strings.IndexAny(text, " \n\t")
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(text[i+1:])
}

// ParseSample reads "key=value" pairs separated by ";" or new lines.
// Numbers accept a decimal comma. Omitted fields stay zero, so an input
// without a name or weight is kept in the batch but never valued.
func ParseSample(args string) (domain.Sample, error) {
	var s domain.Sample

	fields := strings.FieldsFunc(args, func(r rune) bool { return r == ';' || r == '\n' })
	for _, field := range fields {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			return domain.Sample{}, fmt.Errorf("%w: %q", domain.ErrUnknownField, field)
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		var err error
		switch key {
		case "name", "nama":
			s.Name = value
		case "api":
			s.APIGravity, err = parseBounded(key, value, 0, 100)
		case "sulfur", "belerang":
			s.SulfurPercent, err = parseBounded(key, value, 0, 100)
		case "weight", "berat":
			s.WeightKg, err = parseBounded(key, value, 0, math.MaxFloat64)
		case "place", "location", "tempat":
			s.LocationName = value
		case "address", "alamat":
			s.LocationAddress = value
		default:
			return domain.Sample{}, fmt.Errorf("%w: %q", domain.ErrUnknownField, key)
		}
		if err != nil {
			return domain.Sample{}, err
		}
	}

	return s, nil
}

func parseBounded(key, value string, min, max float64) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", "."), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s=%q", domain.ErrInvalidNumber, key, value)
	}
	if v < min || v > max {
		return 0, fmt.Errorf("%w: %s=%s", domain.ErrOutOfRange, key, value)
	}
	return v, nil
}
