package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"RatePulse/internal/domain/models"
	domrepo "RatePulse/internal/domain/repository"
)

// FileSnapshot reads the live competitor snapshot from a JSON array file.
// Unlike the history log this file is required: any failure is returned.
type FileSnapshot struct {
	path string
}

func NewFileSnapshot(path string) *FileSnapshot {
	return &FileSnapshot{path: path}
}

func (s *FileSnapshot) Accounts(ctx context.Context) ([]models.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var accounts []models.Account
	if err := json.Unmarshal(b, &accounts); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return accounts, nil
}

var _ domrepo.SnapshotSource = (*FileSnapshot)(nil)
