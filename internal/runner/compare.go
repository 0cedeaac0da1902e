package runner

import (
	"context"

	"golang.org/x/sync/errgroup"

	"invest-forecast/internal/accumulate"
	"invest-forecast/internal/analysis"
)

// compareLimit caps concurrent runs in one comparison.
const compareLimit = 4

type Comparison struct {
	Symbol  string
	Outcome *Outcome
	Err     error
}

// Compare runs base once per distinct symbol in parallel. Each symbol fails
// on its own; the result follows the first occurrence order of symbols. The
// inflation history is fetched once and shared.
func (r *Runner) Compare(ctx context.Context, symbols []string, base Request) ([]Comparison, error) {
	if err := base.Params.Validate(); err != nil {
		return nil, err
	}
	inflation, err := r.inflationHistory(ctx, base)
	if err != nil {
		return nil, err
	}

	symbols = distinct(symbols)
	out := make([]Comparison, len(symbols))
	// every goroutine records its failure in out and returns nil
	var g errgroup.Group
	g.SetLimit(compareLimit)
	for i, sym := range symbols {
		g.Go(func() error {
			req := base
			req.Symbol = sym
			req.PriceHistory = nil
			req.InflationHistory = inflation
			res, err := r.Run(ctx, req)
			out[i] = Comparison{Symbol: sym, Outcome: res, Err: err}
			return nil
		})
	}
	g.Wait()
	return out, nil
}

func distinct(symbols []string) []string {
	seen := make(map[string]bool, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// Rank orders the successful comparisons by final wealth.
func Rank(cs []Comparison) []analysis.Ranked {
	bySymbol := make(map[string]accumulate.Summary, len(cs))
	for _, c := range cs {
		if c.Err == nil && c.Outcome != nil {
			bySymbol[c.Symbol] = c.Outcome.Summary
		}
	}
	return analysis.RankByWealth(bySymbol)
}
