package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"intraday-arb/internal/api/models"
	"intraday-arb/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

var errPresetNotFound = errors.New("preset not found")

var presetExts = []string{".yaml", ".yml", ".toml"}

// PresetHandler serves scan presets from a directory of YAML/TOML files.
type PresetHandler struct {
	dir string
	log zerolog.Logger
}

func NewPresetHandler(dir string, log zerolog.Logger) *PresetHandler {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return &PresetHandler{dir: dir, log: log}
}

// ListPresets handles GET /api/v1/presets
func (h *PresetHandler) ListPresets(c *gin.Context) {
	presets := []models.PresetInfo{}

	entries, err := os.ReadDir(h.dir)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			h.log.Warn().Err(err).Str("dir", h.dir).Msg("read preset dir")
		}
		c.JSON(http.StatusOK, gin.H{"presets": presets})
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || !isPresetFile(entry.Name()) {
			continue
		}
		path := filepath.Join(h.dir, entry.Name())
		scan, err := config.LoadScanPreset(path)
		if err != nil {
			h.log.Warn().Err(err).Str("file", path).Msg("skipping invalid preset")
			continue
		}
		presets = append(presets, models.PresetInfo{
			ID:          presetID(entry.Name()),
			Name:        scan.Name,
			Description: scan.Description,
			File:        entry.Name(),
			Scan:        scan,
		})
	}

	c.JSON(http.StatusOK, gin.H{"presets": presets})
}

// Resolve loads the preset with the given id.
func (h *PresetHandler) Resolve(id string) (config.ScanConfig, error) {
	if id == "" || filepath.Base(id) != id || strings.HasPrefix(id, ".") {
		return config.ScanConfig{}, fmt.Errorf("%w: %q", errPresetNotFound, id)
	}
	for _, ext := range presetExts {
		path := filepath.Join(h.dir, id+ext)
		if _, err := os.Stat(path); err == nil {
			return config.LoadScanPreset(path)
		}
	}
	return config.ScanConfig{}, fmt.Errorf("%w: %q", errPresetNotFound, id)
}

func isPresetFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range presetExts {
		if ext == e {
			return true
		}
	}
	return false
}

// presetID strips the extension: "tight.yaml" -> "tight".
func presetID(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}
