package handler

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/set-night/oilbot/internal/config"
	"github.com/set-night/oilbot/internal/domain"
	"github.com/set-night/oilbot/internal/service"
	tg "github.com/set-night/oilbot/internal/telegram"
	"github.com/set-night/oilbot/internal/valuation"
	"github.com/shopspring/decimal"
)

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// renderPrice describes the quote in USD and in the local currency.
func renderPrice(q valuation.Quote, ticker string, rate decimal.Decimal, currency string) string {
	var sb strings.Builder
	if q.Live {
		sb.WriteString(fmt.Sprintf("💲 *Harga minyak (%s):* %s per barel\n", tg.EscapeMarkdown(ticker), service.FormatUSD(q.PricePerBarrel)))
	} else {
		sb.WriteString(msgPriceFallback + "\n")
		sb.WriteString(fmt.Sprintf("💲 *Harga cadangan:* %s per barel\n", service.FormatUSD(q.PricePerBarrel)))
	}
	sb.WriteString(fmt.Sprintf("💱 %s per barel (kurs %s)",
		service.FormatLocal(q.PricePerBarrel.Mul(rate), currency),
		service.FormatLocal(rate, currency),
	))
	return sb.String()
}

// renderBatch lists the raw inputs of the current batch and marks the ones
// that will not be valued.
func renderBatch(draft []domain.Sample) string {
	if len(draft) == 0 {
		return "📭 Belum ada sampel. Tambahkan dengan /sample."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🧪 *Input sampel* (%d)\n\n", len(draft)))
	for i, s := range draft {
		name := s.Name
		if name == "" {
			name = "(tanpa nama)"
		}
		sb.WriteString(fmt.Sprintf("%d. *%s* · API %s · Sulfur %s%% · %s kg",
			i+1, tg.EscapeMarkdown(name), formatNumber(s.APIGravity), formatNumber(s.SulfurPercent), formatNumber(s.WeightKg)))
		if s.PhotoFileID != "" {
			sb.WriteString(" 📷")
		}
		if !valuation.Accepted(s) {
			sb.WriteString(" ⚠️ diabaikan")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func renderAssessment(sb *strings.Builder, n int, a *domain.Assessment, currency string) {
	sb.WriteString(fmt.Sprintf("*%d. %s*\n", n, tg.EscapeMarkdown(a.Name)))
	sb.WriteString(fmt.Sprintf("API %s · Sulfur %s%% · %s kg\n",
		formatNumber(a.APIGravity), formatNumber(a.SulfurPercent), formatNumber(a.WeightKg)))
	sb.WriteString(fmt.Sprintf("Kategori: %s\n", a.Category))
	sb.WriteString(fmt.Sprintf("Volume: %.2f L / %.4f barel\n", a.VolumeLiters, a.VolumeBarrels))
	sb.WriteString(fmt.Sprintf("Nilai: %s · %s\n", service.FormatUSD(a.RoundedUSD()), service.FormatLocal(a.WholeLocal(), currency)))
	if a.LocationName != "" || a.LocationAddress != "" {
		loc := strings.Trim(a.LocationName+", "+a.LocationAddress, ", ")
		sb.WriteString(fmt.Sprintf("📍 %s\n", tg.EscapeMarkdown(loc)))
	}
}

func renderTotals(sb *strings.Builder, assessments []domain.Assessment, currency string) {
	usd, local := valuation.Totals(assessments)
	sb.WriteString(fmt.Sprintf("💰 *Total:* %s · %s", service.FormatUSD(usd), service.FormatLocal(local, currency)))
}

// renderAnalysis is the result table of the current batch.
func renderAnalysis(assessments []domain.Assessment, q valuation.Quote, currency string) string {
	if len(assessments) == 0 {
		return "📭 Tidak ada sampel valid. Sampel perlu nama dan berat > 0."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📊 *Hasil Analisis* (%d sampel)\n", len(assessments)))
	if q.Live {
		sb.WriteString(fmt.Sprintf("Harga: %s per barel\n\n", service.FormatUSD(q.PricePerBarrel)))
	} else {
		sb.WriteString(fmt.Sprintf("%s\nHarga: %s per barel\n\n", msgPriceFallback, service.FormatUSD(q.PricePerBarrel)))
	}

	for i := range assessments {
		renderAssessment(&sb, i+1, &assessments[i], currency)
		sb.WriteString("\n")
	}
	renderTotals(&sb, assessments, currency)
	return sb.String()
}

// historyPages returns the page count for a history of n rows, at least 1.
func historyPages(n int) int {
	pages := int(math.Ceil(float64(n) / float64(config.HistoryRowsPerMessage)))
	if pages == 0 {
		pages = 1
	}
	return pages
}

// renderHistoryPage renders one zero-based page of history; out-of-range pages
// are clamped. Totals always cover the whole history.
func renderHistoryPage(history []domain.Assessment, page int, currency string) (string, int) {
	totalPages := historyPages(len(history))
	if len(history) == 0 {
		return "📭 Riwayat masih kosong.", totalPages
	}
	if page >= totalPages {
		page = totalPages - 1
	}
	if page < 0 {
		page = 0
	}

	start := page * config.HistoryRowsPerMessage
	end := min(start+config.HistoryRowsPerMessage, len(history))

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🗂 *Riwayat Sampel* (%d)\n\n", len(history)))
	for i := start; i < end; i++ {
		a := &history[i]
		sb.WriteString(fmt.Sprintf("%d. *%s* · %s · %s · %s\n",
			i+1, tg.EscapeMarkdown(a.Name), a.Category,
			service.FormatUSD(a.RoundedUSD()), service.FormatLocal(a.WholeLocal(), currency)))
	}
	sb.WriteString("\n")
	renderTotals(&sb, history, currency)
	return sb.String(), totalPages
}

func photoCaption(a *domain.Assessment, currency string) string {
	caption := fmt.Sprintf("%s · %s · %s · %s", a.Name, a.Category,
		service.FormatUSD(a.RoundedUSD()), service.FormatLocal(a.WholeLocal(), currency))
	if a.LocationName != "" {
		caption += "\n📍 " + a.LocationName
	}
	return caption
}
