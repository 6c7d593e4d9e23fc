package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"boardroom/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS rooms (
    id         TEXT PRIMARY KEY,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS game_states (
    room_id    TEXT PRIMARY KEY REFERENCES rooms(id),
    state      JSONB NOT NULL,
    version    BIGINT NOT NULL DEFAULT 1,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS game_setups (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL,
    description TEXT,
    data        JSONB NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// setMaxRetries bounds how often a conflicting write is retried against a
// fresh version read before giving up with ErrVersionConflict.
const setMaxRetries = 2

// PostgresStore is the durable GameStore/SetupStore backend.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate applies the store schema. Idempotent.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.db.Exec(ctx, schema)
	return err
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *PostgresStore) Get(ctx context.Context, roomID string) (*domain.GameState, int64, error) {
	var raw []byte
	var version int64
	err := s.db.QueryRow(ctx,
		`SELECT state, version FROM game_states WHERE room_id = $1`, roomID,
	).Scan(&raw, &version)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, err
	}
	var state domain.GameState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, 0, err
	}
	return &state, version, nil
}

func (s *PostgresStore) Init(ctx context.Context, roomID string, state *domain.GameState) (int64, error) {
	raw, err := json.Marshal(state)
	if err != nil {
		return 0, err
	}
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		`INSERT INTO rooms (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`, roomID); err != nil {
		return 0, err
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO game_states (room_id, state, version) VALUES ($1, $2, 1)
		 ON CONFLICT (room_id) DO UPDATE SET state = EXCLUDED.state, version = 1, updated_at = now()`,
		roomID, raw); err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return 1, nil
}

// Set writes the state if the stored version still matches expectedVersion.
// On conflict it re-reads the latest version and retries a bounded number of
// times before reporting ErrVersionConflict.
func (s *PostgresStore) Set(ctx context.Context, roomID string, state *domain.GameState, expectedVersion int64) (int64, error) {
	raw, err := json.Marshal(state)
	if err != nil {
		return 0, err
	}
	for attempt := 0; attempt <= setMaxRetries; attempt++ {
		version, err := s.trySet(ctx, roomID, raw, expectedVersion)
		if err == nil {
			return version, nil
		}
		if !errors.Is(err, ErrVersionConflict) {
			return 0, err
		}
		latest, readErr := s.currentVersion(ctx, roomID)
		if readErr != nil {
			return 0, readErr
		}
		expectedVersion = latest
	}
	return 0, ErrVersionConflict
}

func (s *PostgresStore) trySet(ctx context.Context, roomID string, raw []byte, expectedVersion int64) (int64, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var current int64
	err = tx.QueryRow(ctx,
		`SELECT version FROM game_states WHERE room_id = $1 FOR UPDATE`, roomID,
	).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		if _, err := tx.Exec(ctx,
			`INSERT INTO rooms (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`, roomID); err != nil {
			return 0, err
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO game_states (room_id, state, version) VALUES ($1, $2, 1)`, roomID, raw); err != nil {
			return 0, err
		}
		if err := tx.Commit(ctx); err != nil {
			return 0, err
		}
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	if expectedVersion != 0 && current != expectedVersion {
		return 0, ErrVersionConflict
	}
	var next int64
	if err := tx.QueryRow(ctx,
		`UPDATE game_states SET state = $2, version = version + 1, updated_at = now()
		 WHERE room_id = $1 RETURNING version`, roomID, raw,
	).Scan(&next); err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return next, nil
}

func (s *PostgresStore) currentVersion(ctx context.Context, roomID string) (int64, error) {
	var version int64
	err := s.db.QueryRow(ctx,
		`SELECT version FROM game_states WHERE room_id = $1`, roomID,
	).Scan(&version)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	return version, err
}

func (s *PostgresStore) ListRooms(ctx context.Context) ([]RoomInfo, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, created_at FROM rooms ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var infos []RoomInfo
	for rows.Next() {
		var info RoomInfo
		if err := rows.Scan(&info.ID, &info.CreatedAt); err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

func (s *PostgresStore) SaveSetup(ctx context.Context, rec SetupRecord) (SetupRecord, error) {
	if rec.ID == "" {
		rec.ID = "setup-" + uuid.NewString()
	}
	raw, err := json.Marshal(rec.Data)
	if err != nil {
		return SetupRecord{}, err
	}
	var createdAt time.Time
	err = s.db.QueryRow(ctx,
		`INSERT INTO game_setups (id, name, description, data) VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		rec.ID, rec.Name, rec.Description, raw,
	).Scan(&createdAt)
	if err != nil {
		return SetupRecord{}, err
	}
	rec.CreatedAt = createdAt
	return rec, nil
}

func (s *PostgresStore) GetSetup(ctx context.Context, id string) (SetupRecord, error) {
	rec := SetupRecord{ID: id}
	var raw []byte
	err := s.db.QueryRow(ctx,
		`SELECT name, COALESCE(description, ''), data, created_at FROM game_setups WHERE id = $1`, id,
	).Scan(&rec.Name, &rec.Description, &raw, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return SetupRecord{}, ErrNotFound
	}
	if err != nil {
		return SetupRecord{}, err
	}
	if err := json.Unmarshal(raw, &rec.Data); err != nil {
		return SetupRecord{}, err
	}
	return rec, nil
}

func (s *PostgresStore) ListSetups(ctx context.Context) ([]SetupRecord, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name, COALESCE(description, ''), data, created_at
		 FROM game_setups ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []SetupRecord
	for rows.Next() {
		var rec SetupRecord
		var raw []byte
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Description, &raw, &rec.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &rec.Data); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
