package repository

import (
	"context"
	"io/fs"
	"os"
	"testing"
	"time"

	oilbot "github.com/set-night/oilbot"
	"github.com/set-night/oilbot/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestPostgresStore needs a disposable database in TEST_DATABASE_URL.
func newTestPostgresStore(t *testing.T) *PostgresStore {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	migrationsFS, err := fs.Sub(oilbot.MigrationsFS, "migrations")
	require.NoError(t, err)
	require.NoError(t, RunMigrations(url, migrationsFS))

	ctx := context.Background()
	pool, err := NewPool(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return NewPostgresStore(pool)
}

func TestPostgresStoreRoundTrip(t *testing.T) {
	store := newTestPostgresStore(t)
	ctx := context.Background()
	chatID := time.Now().UnixNano()
	t.Cleanup(func() { store.Delete(context.Background(), chatID) })

	s, err := store.Load(ctx, chatID)
	require.NoError(t, err)
	assert.False(t, s.LoggedIn)

	s.LoggedIn = true
	s.Username = "admin"
	s.Draft = []domain.Sample{{Name: "A", APIGravity: 33, SulfurPercent: 0.4, WeightKg: 100}}
	require.NoError(t, store.Save(ctx, s))

	entry := domain.Assessment{
		Sample:         domain.Sample{Name: "A", APIGravity: 33, SulfurPercent: 0.4, WeightKg: 100},
		APIGrade:       domain.APIGradeLight,
		SulfurGrade:    domain.SulfurGradeSweet,
		Category:       "Light & Sweet",
		PricePerBarrel: decimal.RequireFromString("75"),
		ValueUSD:       decimal.RequireFromString("55.49"),
		ValueLocal:     decimal.RequireFromString("887840"),
	}
	s.Draft = []domain.Sample{}
	require.NoError(t, store.SaveWithHistory(ctx, s, []domain.Assessment{entry, entry}))

	got, err := store.Load(ctx, chatID)
	require.NoError(t, err)
	assert.True(t, got.LoggedIn)
	assert.Empty(t, got.Draft)
	require.Len(t, got.History, 2)
	assert.Equal(t, domain.APIGradeLight, got.History[0].APIGrade)
	assert.True(t, got.History[0].ValueUSD.Equal(entry.ValueUSD))

	require.NoError(t, store.ClearHistory(ctx, chatID))
	got, err = store.Load(ctx, chatID)
	require.NoError(t, err)
	assert.Empty(t, got.History)
}
