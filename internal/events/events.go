// Package events announces finished simulations to other services.
package events

import (
	"context"
	"time"
)

const TopicSimulationCompleted = "simulation_completed"

type SimulationCompleted struct {
	RunID               string    `json:"run_id"`
	Symbol              string    `json:"symbol,omitempty"`
	HorizonMonths       int       `json:"horizon_months"`
	FinalPortfolioValue float64   `json:"final_portfolio_value"`
	FinalWealth         float64   `json:"final_wealth"`
	TotalLots           int       `json:"total_lots"`
	CreatedAt           time.Time `json:"created_at"`
}

type Publisher interface {
	Publish(ctx context.Context, event SimulationCompleted) error
	Close() error
}

// Noop drops every event.
type Noop struct{}

func (Noop) Publish(context.Context, SimulationCompleted) error { return nil }

func (Noop) Close() error { return nil }
