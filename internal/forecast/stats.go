package forecast

import "math"

func mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	s := 0.0
	for _, v := range x {
		s += v
	}
	return s / float64(len(x))
}

func variance(x []float64) float64 {
	if len(x) < 2 {
		return 0
	}
	mu := mean(x)
	s := 0.0
	for _, v := range x {
		d := v - mu
		s += d * d
	}
	return s / float64(len(x)-1)
}

// diff returns the first difference x[t] - x[t-1].
func diff(x []float64) []float64 {
	if len(x) < 2 {
		return nil
	}
	out := make([]float64, len(x)-1)
	for i := 1; i < len(x); i++ {
		out[i-1] = x[i] - x[i-1]
	}
	return out
}

func isConstant(x []float64) bool {
	for _, v := range x[1:] {
		if v != x[0] {
			return false
		}
	}
	return true
}

func allFinite(x []float64) bool {
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// autocov returns the lag-k autocovariance of already demeaned e, normalised by n.
func autocov(e []float64, k int) float64 {
	s := 0.0
	for t := k; t < len(e); t++ {
		s += e[t] * e[t-k]
	}
	return s / float64(len(e))
}

// kpssLevelCritical is the 5% critical value of the KPSS level-stationarity statistic.
const kpssLevelCritical = 0.463

// kpssStationary runs a KPSS test for level stationarity at 5%,
// with the short Bartlett bandwidth trunc(3*sqrt(n)/13).
func kpssStationary(x []float64) bool {
	n := len(x)
	if n < 3 || isConstant(x) {
		return true
	}
	mu := mean(x)
	e := make([]float64, n)
	for i, v := range x {
		e[i] = v - mu
	}

	partial, eta := 0.0, 0.0
	for _, v := range e {
		partial += v
		eta += partial * partial
	}
	eta /= float64(n) * float64(n)

	lags := int(3 * math.Sqrt(float64(n)) / 13)
	s2 := autocov(e, 0)
	for l := 1; l <= lags; l++ {
		w := 1 - float64(l)/float64(lags+1)
		s2 += 2 * w * autocov(e, l)
	}
	if s2 <= 0 {
		return true
	}
	return eta/s2 < kpssLevelCritical
}

// solve solves a*x = b by Gaussian elimination with partial pivoting.
// It returns false for a singular system. a and b are modified.
func solve(a [][]float64, b []float64) ([]float64, bool) {
	n := len(b)
	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) < 1e-12 {
			return nil, false
		}
		a[col], a[pivot] = a[pivot], a[col]
		b[col], b[pivot] = b[pivot], b[col]
		for r := col + 1; r < n; r++ {
			f := a[r][col] / a[col][col]
			for c := col; c < n; c++ {
				a[r][c] -= f * a[col][c]
			}
			b[r] -= f * b[col]
		}
	}
	x := make([]float64, n)
	for r := n - 1; r >= 0; r-- {
		s := b[r]
		for c := r + 1; c < n; c++ {
			s -= a[r][c] * x[c]
		}
		x[r] = s / a[r][r]
	}
	return x, true
}

// leastSquares regresses y on the columns of rows (one row per observation).
func leastSquares(rows [][]float64, y []float64) ([]float64, bool) {
	if len(rows) == 0 {
		return nil, false
	}
	k := len(rows[0])
	if k == 0 {
		return []float64{}, true
	}
	xtx := make([][]float64, k)
	for i := range xtx {
		xtx[i] = make([]float64, k)
	}
	xty := make([]float64, k)
	for r, row := range rows {
		for i := 0; i < k; i++ {
			xty[i] += row[i] * y[r]
			for j := 0; j < k; j++ {
				xtx[i][j] += row[i] * row[j]
			}
		}
	}
	return solve(xtx, xty)
}
