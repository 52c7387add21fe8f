// Package artifact writes collection results as JSON files for the
// downstream modeling steps.
package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"cfb-pipeline/internal/config"

	"github.com/rs/zerolog"
)

type Writer struct {
	dir    string
	logger zerolog.Logger
}

func NewWriter(cfg *config.Config, logger zerolog.Logger) (*Writer, error) {
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", cfg.OutputDir, err)
	}
	return &Writer{dir: cfg.OutputDir, logger: logger}, nil
}

// SaveJSON writes v to <dir>/<name>.json. The write goes through a temp
// file and rename so an interrupted run never leaves a torn artifact.
func (w *Writer) SaveJSON(name string, v any) error {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}

	path := filepath.Join(w.dir, name+".json")
	tmp := path + ".tmp"

	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}

	w.logger.Debug().Str("path", path).Int("bytes", len(payload)).Msg("artifact written")
	return nil
}
