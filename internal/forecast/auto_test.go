package forecast

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuto_ForecastsLinearTrend(t *testing.T) {
	a := NewAuto(DefaultConfig())
	m, err := a.Select(context.Background(), trend(24, 100, 5))
	require.NoError(t, err)
	assert.Equal(t, Order{P: 0, D: 1, Q: 0}, m.Order)

	out, err := a.Forecast(context.Background(), trend(24, 100, 5), 4)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{220, 225, 230, 235}, out, 1e-6)
}

func TestAuto_ForecastLengthAndFiniteness(t *testing.T) {
	x := ar1Series(120, 0.7, 4200, 3)
	for _, crit := range []string{"aic", "aicc", "bic"} {
		t.Run(crit, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Criterion = crit
			out, err := NewAuto(cfg).Forecast(context.Background(), x, 36)
			require.NoError(t, err)
			require.Len(t, out, 36)
			for _, v := range out {
				assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
			}
		})
	}
}

func TestAuto_ShortHistoryStillFits(t *testing.T) {
	x := []float64{0.0051, 0.0043, 0.0038, 0.0044, 0.0029, 0.0031, 0.0047, 0.0052, 0.0036, 0.0028, 0.0035, 0.0041}
	out, err := NewAuto(DefaultConfig()).Forecast(context.Background(), x, 6)
	require.NoError(t, err)
	assert.Len(t, out, 6)
}

func TestAuto_RejectsConstantHistory(t *testing.T) {
	_, err := NewAuto(DefaultConfig()).Forecast(context.Background(), []float64{5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5}, 3)
	assert.ErrorIs(t, err, ErrInsufficientVariation)
}

func TestAuto_RejectsNonFiniteHistory(t *testing.T) {
	x := trend(15, 1, 1)
	x[4] = math.NaN()
	_, err := NewAuto(DefaultConfig()).Forecast(context.Background(), x, 3)
	assert.ErrorIs(t, err, ErrNoModel)
}

func TestAuto_HonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewAuto(DefaultConfig()).Forecast(ctx, ar1Series(60, 0.5, 10, 1), 3)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAuto_RespectsOrderBounds(t *testing.T) {
	cfg := Config{MaxP: 1, MaxD: 0, MaxQ: 0}
	m, err := NewAuto(cfg).Select(context.Background(), ar1Series(200, 0.6, 0, 11))
	require.NoError(t, err)
	assert.LessOrEqual(t, m.Order.P, 1)
	assert.Zero(t, m.Order.D)
	assert.Zero(t, m.Order.Q)
}
