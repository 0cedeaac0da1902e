package forecast

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ar1Series(n int, phi, mu float64, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, n)
	prev := 0.0
	for i := range out {
		prev = phi*prev + rng.NormFloat64()
		out[i] = mu + prev
	}
	return out
}

func trend(n int, start, slope float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + slope*float64(i)
	}
	return out
}

func TestFit_RecoversAR1(t *testing.T) {
	x := ar1Series(500, 0.6, 50, 42)
	m, err := Fit(x, Order{P: 1})
	require.NoError(t, err)
	require.Len(t, m.AR, 1)
	assert.InDelta(t, 0.6, m.AR[0], 0.15)
	assert.InDelta(t, 50, m.Mean, 1)
	assert.InDelta(t, 1, m.Variance, 0.3)
	assert.False(t, math.IsInf(m.AIC, 0))
}

func TestFit_MAModel(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	n := 400
	x := make([]float64, n)
	prevE := 0.0
	for i := range x {
		e := rng.NormFloat64()
		x[i] = 10 + e + 0.5*prevE
		prevE = e
	}
	m, err := Fit(x, Order{Q: 1})
	require.NoError(t, err)
	require.Len(t, m.MA, 1)
	assert.InDelta(t, 0.5, m.MA[0], 0.2)
	assert.Len(t, m.Residuals(), n)
}

func TestFit_RejectsShortHistory(t *testing.T) {
	_, err := Fit(trend(11, 1, 1), Order{P: 1, D: 1})
	assert.ErrorIs(t, err, errTooShort)

	_, err = Fit(trend(20, 1, 1), Order{P: -1})
	assert.ErrorIs(t, err, errBadOrder)
}

func TestModel_PredictIntegratesTrend(t *testing.T) {
	x := trend(24, 100, 5)
	m, err := Fit(x, Order{D: 1})
	require.NoError(t, err)

	out, err := m.Predict(3)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{220, 225, 230}, out, 1e-9)
}

func TestModel_PredictSecondDifference(t *testing.T) {
	x := make([]float64, 20)
	for i := range x {
		f := float64(i)
		x[i] = f * f
	}
	m, err := Fit(x, Order{D: 2})
	require.NoError(t, err)
	assert.Zero(t, m.Mean)

	// no constant term at d=2: the last first difference (37) carries forward
	out, err := m.Predict(2)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{361 + 37, 361 + 74}, out, 1e-9)
}

func TestModel_PredictErrors(t *testing.T) {
	var m *Model
	_, err := m.Predict(1)
	assert.ErrorIs(t, err, errNotFitted)

	fitted, err := Fit(trend(15, 1, 1), Order{D: 1})
	require.NoError(t, err)
	_, err = fitted.Predict(0)
	assert.Error(t, err)
}

func TestKPSS(t *testing.T) {
	cycle := []float64{1, 1, -1, -1}
	periodic := make([]float64, 60)
	for i := range periodic {
		periodic[i] = cycle[i%4]
	}
	assert.True(t, kpssStationary(periodic))
	assert.False(t, kpssStationary(trend(24, 100, 5)))
	assert.True(t, kpssStationary([]float64{3, 3, 3, 3}))
}

func TestSolve(t *testing.T) {
	x, ok := solve([][]float64{{2, 1}, {1, 3}}, []float64{3, 5})
	require.True(t, ok)
	assert.InDeltaSlice(t, []float64{0.8, 1.4}, x, 1e-12)

	_, ok = solve([][]float64{{1, 2}, {2, 4}}, []float64{1, 2})
	assert.False(t, ok)
}
