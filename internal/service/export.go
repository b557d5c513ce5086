package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/set-night/oilbot/internal/domain"
)

// HistoryCSVHeader returns the export header. Photos are never exported.
func HistoryCSVHeader(currency string) []string {
	return []string{
		"Sampel", "API", "Sulfur (%)", "Berat (kg)", "Kategori",
		"Harga/barel ($)", "Volume (barel)", "Estimasi Nilai ($)",
		fmt.Sprintf("Estimasi Nilai (%s)", CurrencySymbol(currency)),
		"Tempat", "Alamat",
	}
}

// WriteHistoryCSV writes history as UTF-8 CSV with a header row, using the
// same rounding as the chat views.
func WriteHistoryCSV(w io.Writer, history []domain.Assessment, currency string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(HistoryCSVHeader(currency)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i := range history {
		a := &history[i]
		record := []string{
			a.Name,
			formatFloat(a.APIGravity),
			formatFloat(a.SulfurPercent),
			formatFloat(a.WeightKg),
			a.Category,
			a.PricePerBarrel.StringFixed(2),
			strconv.FormatFloat(a.VolumeBarrels, 'f', 2, 64),
			a.RoundedUSD().StringFixed(2),
			a.WholeLocal().String(),
			a.LocationName,
			a.LocationAddress,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
