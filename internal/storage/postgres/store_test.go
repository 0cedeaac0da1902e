package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invest-forecast/internal/accumulate"
	"invest-forecast/internal/model"
	"invest-forecast/internal/storage"
)

func TestDescribe(t *testing.T) {
	err := describe(&pq.Error{Code: "42P01", Message: "relation does not exist"}, "load run")
	assert.Contains(t, err.Error(), "undefined_table")

	plain := describe(errors.New("boom"), "save run")
	assert.Equal(t, "save run: boom", plain.Error())
}

func TestOpen_BadURL(t *testing.T) {
	_, err := Open(context.Background(), "postgres://%zz")
	assert.Error(t, err)
}

// TestStore_RoundTrip needs a database: DATABASE_URL=postgres://... go test ./...
func TestStore_RoundTrip(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := Open(ctx, dsn)
	require.NoError(t, err)
	defer db.Close()

	s := NewStore(db)
	require.NoError(t, s.Migrate(ctx))

	run := storage.NewRun("BBCA.JK",
		model.SimulationParameters{MonthlyIncome: 1000, SavingFraction: 0.5, SavingMonths: 1, HorizonMonths: 1},
		model.ForecastPair{Prices: []float64{4}, Inflation: []float64{0}},
		&accumulate.Result{LotSize: 100, Ledger: []accumulate.LedgerEntry{{Month: 1, CashBalance: 100, LotPrice: 400, LotsOwned: 1, PortfolioValue: 400}}})
	require.NoError(t, s.Save(ctx, run))

	got, err := s.Get(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, run.Result.Ledger, got.Result.Ledger)

	_, err = s.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
