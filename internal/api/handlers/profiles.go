package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"invest-forecast/internal/api/models"
	"invest-forecast/internal/config"
)

var ErrUnknownProfile = errors.New("unknown profile")

// ProfileHandler serves the saver presets stored as YAML files in one directory
type ProfileHandler struct {
	dir string
	l   *zap.Logger
}

// NewProfileHandler uses dir, or ./examples/profiles when dir is empty.
func NewProfileHandler(dir string, l *zap.Logger) *ProfileHandler {
	if dir == "" {
		dir = filepath.Join(".", "examples", "profiles")
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	if l == nil {
		l = zap.NewNop()
	}
	l.Info("profile directory", zap.String("dir", dir))
	return &ProfileHandler{dir: dir, l: l}
}

// ListProfiles handles GET /api/v1/profiles
func (h *ProfileHandler) ListProfiles(c *gin.Context) {
	profiles := []models.ProfileInfo{}

	entries, err := os.ReadDir(h.dir)
	if err != nil {
		h.l.Warn("failed to read profile directory", zap.String("dir", h.dir), zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"profiles": profiles})
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".yaml")
		info, err := h.info(id)
		if err != nil {
			h.l.Warn("skipping profile", zap.String("file", entry.Name()), zap.Error(err))
			continue
		}
		profiles = append(profiles, *info)
	}

	c.JSON(http.StatusOK, gin.H{"profiles": profiles})
}

// Load returns the simulation block of profile id.
func (h *ProfileHandler) Load(id string) (config.SimulationConfig, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return config.SimulationConfig{}, errors.Wrapf(ErrUnknownProfile, "%q", id)
	}
	path := filepath.Join(h.dir, id+".yaml")
	sim, err := config.LoadProfile(path)
	if os.IsNotExist(errors.Cause(err)) {
		return config.SimulationConfig{}, errors.Wrapf(ErrUnknownProfile, "%q", id)
	}
	return sim, err
}

func (h *ProfileHandler) info(id string) (*models.ProfileInfo, error) {
	sim, err := h.Load(id)
	if err != nil {
		return nil, err
	}
	name := sim.Name
	if name == "" {
		name = id
	}
	return &models.ProfileInfo{
		ID:   id,
		Name: name,
		File: filepath.Join(h.dir, id+".yaml"),
		Params: models.ProfileSpecs{
			MonthlyIncome: sim.MonthlyIncome,
			SavingPercent: sim.SavingPercent,
			SavingMonths:  sim.SavingMonths,
			HorizonMonths: sim.HorizonMonths,
			LotSize:       sim.LotSize,
		},
	}, nil
}
