package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"RatePulse/internal/domain/models"
	domrepo "RatePulse/internal/domain/repository"
)

const (
	peerSnapshotFile = "peer_snapshot.json"
	forecastFile     = "forecast.json"
	scenariosFile    = "scenarios.json"
)

// FileWriter persists the derived payloads of a run as pretty-printed JSON
// under a single output directory.
type FileWriter struct {
	dir string
}

func NewFileWriter(dir string) *FileWriter {
	return &FileWriter{dir: dir}
}

func (w *FileWriter) WriteResult(res *models.Result) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := w.writeJSON(peerSnapshotFile, res.Peers); err != nil {
		return err
	}
	if err := w.writeJSON(forecastFile, res.Forecast); err != nil {
		return err
	}
	return w.writeJSON(scenariosFile, res.Scenarios)
}

func (w *FileWriter) writeJSON(name string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	b = append(b, '\n')
	if err := os.WriteFile(filepath.Join(w.dir, name), b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

var _ domrepo.PayloadWriter = (*FileWriter)(nil)
