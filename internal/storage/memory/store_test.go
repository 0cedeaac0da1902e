package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invest-forecast/internal/accumulate"
	"invest-forecast/internal/model"
	"invest-forecast/internal/storage"
)

func TestStore_SaveGet(t *testing.T) {
	s := NewStore(time.Hour)
	run := storage.NewRun("BBCA.JK", model.SimulationParameters{HorizonMonths: 1}, model.ForecastPair{}, &accumulate.Result{LotSize: 100})

	require.NoError(t, s.Save(context.Background(), run))
	got, err := s.Get(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, run, got)

	_, err = s.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, storage.ErrNotFound)

	assert.Error(t, s.Save(context.Background(), nil))
}

func TestStore_Expiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	s := NewStore(time.Minute)
	s.now = func() time.Time { return now }

	run := storage.NewRun("", model.SimulationParameters{}, model.ForecastPair{}, nil)
	require.NoError(t, s.Save(context.Background(), run))

	now = now.Add(2 * time.Minute)
	_, err := s.Get(context.Background(), run.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.Equal(t, 1, s.purge())
}

func TestStore_CleanupStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewStore(0).Cleanup(ctx, time.Millisecond)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup did not stop")
	}
}
