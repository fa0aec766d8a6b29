package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/itmurugan/marketbrief/internal/digest/pipeline"
)

// WriteSnapshot saves the raw pipeline result as a dated JSON file, e.g.
// data/portfolio-news-2026-08-31.json, and returns the written path.
func WriteSnapshot(dir, name string, res *pipeline.Result) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s-news-%s.json", name, res.FetchedAt.Format("2006-01-02")))

	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write snapshot %s: %w", path, err)
	}
	return path, nil
}
