package analysis

import (
	"sort"

	"invest-forecast/internal/accumulate"
)

type Ranked struct {
	Symbol  string             `json:"symbol"`
	Rank    int                `json:"rank"`
	Summary accumulate.Summary `json:"summary"`
}

// RankByWealth orders symbols by final wealth, highest first. Ties keep
// symbol order.
func RankByWealth(bySymbol map[string]accumulate.Summary) []Ranked {
	out := make([]Ranked, 0, len(bySymbol))
	for sym, s := range bySymbol {
		out = append(out, Ranked{Symbol: sym, Summary: s})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Summary.FinalWealth != out[j].Summary.FinalWealth {
			return out[i].Summary.FinalWealth > out[j].Summary.FinalWealth
		}
		return out[i].Symbol < out[j].Symbol
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
