package config

import "time"

const (
	// Price source names accepted in PRICE_SOURCES
	PriceSourceChart     = "chart"
	PriceSourceQuotePage = "page"

	// Telegram limits
	MaxTelegramMessageLen = 4096

	// Idle session sweep interval
	SessionSweepInterval = 10 * time.Minute

	// Rate limit window
	RateLimitWindow = time.Minute

	// Maximum number of sample inputs kept in one batch
	MaxBatchSamples = 50

	// Rows shown per /history message before splitting
	HistoryRowsPerMessage = 20

	// Export
	HistoryExportFilename = "history_sampel.csv"

	// Charts
	ChartWidth  = 700
	ChartHeight = 400
)
