package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"invest-forecast/internal/storage"
)

const schema = `CREATE TABLE IF NOT EXISTS simulation_runs (
	id         UUID PRIMARY KEY,
	symbol     TEXT NOT NULL DEFAULT '',
	payload    JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
)`

// Store persists runs as JSONB rows.
type Store struct {
	db *sql.DB
}

// Open connects with the lib/pq driver and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	connector, err := pq.NewConnector(dsn)
	if err != nil {
		return nil, errors.Wrap(err, "parse database url")
	}
	db := sql.OpenDB(connector)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, describe(err, "ping database")
	}
	return db, nil
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the runs table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return describe(err, "create simulation_runs")
	}
	return nil
}

func (s *Store) Save(ctx context.Context, run *storage.Run) error {
	if run == nil {
		return errors.New("nil run")
	}
	payload, err := json.Marshal(run)
	if err != nil {
		return errors.Wrap(err, "encode run")
	}

	const query = `INSERT INTO simulation_runs (id, symbol, payload, created_at)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (id) DO UPDATE SET payload = EXCLUDED.payload`

	if _, err := s.db.ExecContext(ctx, query, run.ID, run.Symbol, payload, run.CreatedAt); err != nil {
		return describe(err, "save run")
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id uuid.UUID) (*storage.Run, error) {
	const query = `SELECT payload FROM simulation_runs WHERE id = $1`

	var payload []byte
	err := s.db.QueryRowContext(ctx, query, id).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, errors.Wrap(storage.ErrNotFound, id.String())
	}
	if err != nil {
		return nil, describe(err, "load run")
	}

	var run storage.Run
	if err := json.Unmarshal(payload, &run); err != nil {
		return nil, errors.Wrap(err, "decode run")
	}
	return &run, nil
}

// describe adds the SQLSTATE name to driver errors.
func describe(err error, msg string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return errors.Wrapf(err, "%s (%s)", msg, pqErr.Code.Name())
	}
	return errors.Wrap(err, msg)
}

var _ storage.RunStore = (*Store)(nil)
