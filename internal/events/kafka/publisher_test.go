package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invest-forecast/internal/events"
)

func TestMessage(t *testing.T) {
	at := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	msg, err := Message(events.SimulationCompleted{
		RunID:               "5c1f",
		Symbol:              "BBCA.JK",
		HorizonMonths:       36,
		FinalPortfolioValue: 1250000,
		CreatedAt:           at,
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("5c1f"), msg.Key)
	assert.Equal(t, at, msg.Time)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "simulation_completed", string(msg.Headers[0].Value))

	var got map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, "BBCA.JK", got["symbol"])
	assert.EqualValues(t, 36, got["horizon_months"])
}

func TestNewPublisher_DefaultTopic(t *testing.T) {
	p := NewPublisher([]string{"localhost:9092"}, "")
	assert.Equal(t, events.TopicSimulationCompleted, p.writer.Topic)
	assert.NoError(t, p.Close())
}
