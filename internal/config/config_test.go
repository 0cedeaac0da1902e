package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invest-forecast/internal/model"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MergesProfile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "profiles/base.yaml", `
simulation:
  name: base
  monthly_income: 1000000
  saving_percent: 20
  saving_months: 12
  horizon_months: 24
`)
	writeFile(t, dir, "inflasi.xlsx", "placeholder")
	path := writeFile(t, dir, "config.yaml", `
profile_file: profiles/base.yaml
simulation:
  horizon_months: 36
asset:
  symbol: BBCA.JK
inflation:
  file: inflasi.xlsx
forecast:
  timeout: 5s
  retries: 0
`)

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "base", c.Simulation.Name)
	assert.Equal(t, 1000000.0, c.Simulation.MonthlyIncome)
	assert.Equal(t, 36, c.Simulation.HorizonMonths)
	assert.Equal(t, model.DefaultLotSize, c.Simulation.LotSize)
	assert.Equal(t, filepath.Join(dir, "inflasi.xlsx"), c.Inflation.File)
	assert.True(t, c.Inflation.IsPercent())
	assert.Equal(t, "Inflasi (%)", c.Inflation.Column)
	assert.Equal(t, "10y", c.Asset.Range)
	assert.Equal(t, "1mo", c.Asset.Interval)
	assert.Equal(t, 5, c.Forecast.MaxP)
	assert.Equal(t, 2, c.Forecast.MaxD)
	assert.Equal(t, "aic", c.Forecast.Criterion)
	assert.Equal(t, 5*time.Second, c.Forecast.Timeout)
	assert.Equal(t, 0, c.Forecast.RetryCount())

	p := c.Simulation.Params()
	assert.InDelta(t, 0.2, p.SavingFraction, 1e-12)
	assert.Equal(t, 12, p.SavingMonths)
}

func TestLoad_MissingProfile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "profile_file: nope.yaml\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := &Config{
			Simulation: SimulationConfig{MonthlyIncome: 5000000, SavingPercent: 10, SavingMonths: 6, HorizonMonths: 12},
			Asset:      AssetConfig{Symbol: "TLKM.JK"},
			Inflation:  InflationConfig{File: "inflasi.xlsx"},
		}
		c.ApplyDefaults()
		return c
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero horizon", func(c *Config) { c.Simulation.HorizonMonths = 0 }},
		{"negative saving months", func(c *Config) { c.Simulation.SavingMonths = -1 }},
		{"percent above 100", func(c *Config) { c.Simulation.SavingPercent = 120 }},
		{"negative income", func(c *Config) { c.Simulation.MonthlyIncome = -1 }},
		{"negative lot size", func(c *Config) { c.Simulation.LotSize = -100 }},
		{"no asset", func(c *Config) { c.Asset = AssetConfig{} }},
		{"no inflation file", func(c *Config) { c.Inflation.File = "" }},
		{"bad criterion", func(c *Config) { c.Forecast.Criterion = "hqic" }},
		{"negative order", func(c *Config) { c.Forecast.MaxQ = -1 }},
		{"negative retries", func(c *Config) { n := -1; c.Forecast.Retries = &n }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}

	var nilCfg *Config
	assert.Error(t, nilCfg.Validate())
}

func TestValidate_WrapsParameterErrors(t *testing.T) {
	c := &Config{Simulation: SimulationConfig{HorizonMonths: -3}}
	assert.ErrorIs(t, c.Validate(), model.ErrInvalidParameters)
}

func TestMergeSimulation(t *testing.T) {
	base := SimulationConfig{Name: "a", MonthlyIncome: 1, SavingPercent: 10, SavingMonths: 2, HorizonMonths: 3, LotSize: 100}
	got := MergeSimulation(base, SimulationConfig{SavingPercent: 50, LotSize: 1})
	assert.Equal(t, SimulationConfig{Name: "a", MonthlyIncome: 1, SavingPercent: 50, SavingMonths: 2, HorizonMonths: 3, LotSize: 1}, got)
}

func TestInflationConfig_Percent(t *testing.T) {
	off := false
	assert.False(t, InflationConfig{Percent: &off}.IsPercent())
	assert.True(t, InflationConfig{}.IsPercent())
}

func TestLoad_ExampleConfig(t *testing.T) {
	c, err := LoadUnchecked(filepath.Join("..", "..", "examples", "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "Karyawan muda", c.Simulation.Name)
	assert.Equal(t, 36, c.Simulation.HorizonMonths)
	assert.Equal(t, 24, c.Simulation.SavingMonths)
	assert.Equal(t, "BBCA.JK", c.Asset.Symbol)
}
