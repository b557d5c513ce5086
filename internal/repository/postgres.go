package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/set-night/oilbot/internal/domain"
)

// PostgresStore keeps sessions and their history in Postgres so they survive
// restarts. Schema: migrations/000001_sessions.up.sql.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (p *PostgresStore) Load(ctx context.Context, chatID int64) (*domain.Session, error) {
	s := &domain.Session{ChatID: chatID}
	var draft []byte

	err := p.db.QueryRow(ctx,
		`SELECT logged_in, username, notes, draft, last_seen FROM sessions WHERE chat_id = $1`,
		chatID,
	).Scan(&s.LoggedIn, &s.Username, &s.Notes, &draft, &s.LastSeen)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.NewSession(chatID, time.Now()), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if err := json.Unmarshal(draft, &s.Draft); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	if s.Draft == nil {
		s.Draft = []domain.Sample{}
	}

	s.History, err = p.history(ctx, chatID)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (p *PostgresStore) history(ctx context.Context, chatID int64) ([]domain.Assessment, error) {
	rows, err := p.db.Query(ctx, `
		SELECT name, api_gravity, sulfur_percent, weight_kg, location_name, location_address,
		       photo_file_id, api_grade, sulfur_grade, category, price_per_barrel, live_price,
		       volume_liters, volume_barrels, value_usd, value_local
		FROM history_entries WHERE chat_id = $1 ORDER BY seq`, chatID)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	history := []domain.Assessment{}
	for rows.Next() {
		var a domain.Assessment
		var apiGrade, sulfurGrade string
		if err := rows.Scan(
			&a.Name, &a.APIGravity, &a.SulfurPercent, &a.WeightKg, &a.LocationName, &a.LocationAddress,
			&a.PhotoFileID, &apiGrade, &sulfurGrade, &a.Category, &a.PricePerBarrel, &a.LivePrice,
			&a.VolumeLiters, &a.VolumeBarrels, &a.ValueUSD, &a.ValueLocal,
		); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		a.APIGrade = domain.APIGrade(apiGrade)
		a.SulfurGrade = domain.SulfurGrade(sulfurGrade)
		history = append(history, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return history, nil
}

func (p *PostgresStore) Save(ctx context.Context, s *domain.Session) error {
	return upsertSession(ctx, p.db, s)
}

// execer is satisfied by both the pool and a transaction.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func upsertSession(ctx context.Context, db execer, s *domain.Session) error {
	draft := s.Draft
	if draft == nil {
		draft = []domain.Sample{}
	}
	raw, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}

	_, err = db.Exec(ctx, `
		INSERT INTO sessions (chat_id, logged_in, username, notes, draft, last_seen)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (chat_id) DO UPDATE SET
			logged_in = EXCLUDED.logged_in,
			username  = EXCLUDED.username,
			notes     = EXCLUDED.notes,
			draft     = EXCLUDED.draft,
			last_seen = EXCLUDED.last_seen`,
		s.ChatID, s.LoggedIn, s.Username, s.Notes, string(raw), s.LastSeen,
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (p *PostgresStore) SaveWithHistory(ctx context.Context, s *domain.Session, entries []domain.Assessment) error {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := upsertSession(ctx, tx, s); err != nil {
		return err
	}

	if len(entries) > 0 {
		batch := &pgx.Batch{}
		for _, a := range entries {
			batch.Queue(`
				INSERT INTO history_entries (
					id, chat_id, name, api_gravity, sulfur_percent, weight_kg, location_name,
					location_address, photo_file_id, api_grade, sulfur_grade, category,
					price_per_barrel, live_price, volume_liters, volume_barrels, value_usd, value_local
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
				uuid.New(), s.ChatID, a.Name, a.APIGravity, a.SulfurPercent, a.WeightKg, a.LocationName,
				a.LocationAddress, a.PhotoFileID, string(a.APIGrade), string(a.SulfurGrade), a.Category,
				a.PricePerBarrel, a.LivePrice, a.VolumeLiters, a.VolumeBarrels, a.ValueUSD, a.ValueLocal,
			)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert history: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (p *PostgresStore) ClearHistory(ctx context.Context, chatID int64) error {
	if _, err := p.db.Exec(ctx, `DELETE FROM history_entries WHERE chat_id = $1`, chatID); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

func (p *PostgresStore) Delete(ctx context.Context, chatID int64) error {
	if _, err := p.db.Exec(ctx, `DELETE FROM sessions WHERE chat_id = $1`, chatID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (p *PostgresStore) DeleteIdle(ctx context.Context, before time.Time) (int, error) {
	tag, err := p.db.Exec(ctx, `DELETE FROM sessions WHERE last_seen < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("delete idle sessions: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
