package repository

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"RatePulse/internal/domain/models"
	domrepo "RatePulse/internal/domain/repository"
	xlogger "RatePulse/pkg/logger"
	"RatePulse/pkg/util"
)

// FileHistory reads the append-only newline-delimited JSON history log.
// A missing file is an empty history; malformed lines are skipped.
type FileHistory struct {
	path string
	log  *xlogger.Logger
}

func NewFileHistory(path string, log *xlogger.Logger) *FileHistory {
	return &FileHistory{path: path, log: log}
}

// historyLine is the wire form of one log line; timestamps are accepted in
// RFC3339, date-only, or unix-seconds form since upstream writers varied.
type historyLine struct {
	Timestamp string               `json:"timestamp"`
	Rows      []models.SnapshotRow `json:"rows"`
}

func (h *FileHistory) Entries(ctx context.Context) ([]models.SnapshotEntry, error) {
	f, err := os.Open(h.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	defer f.Close()

	var entries []models.SnapshotEntry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var raw historyLine
		if err := json.Unmarshal(line, &raw); err != nil {
			if h.log != nil {
				h.log.Debug("history: dropped malformed line", xlogger.Error(err))
			}
			continue
		}
		ts, ok := util.ParseTime(raw.Timestamp)
		if !ok {
			if h.log != nil {
				h.log.Debug("history: dropped line with bad timestamp", xlogger.String("timestamp", raw.Timestamp))
			}
			continue
		}
		entries = append(entries, models.SnapshotEntry{Timestamp: ts, Rows: raw.Rows})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan history: %w", err)
	}
	return entries, nil
}

var _ domrepo.HistorySource = (*FileHistory)(nil)
