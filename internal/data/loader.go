package data

import (
	"encoding/json"
	"fmt"
	"os"

	"huddleboard/internal/models"
)

// Load reads and parses the reservations dataset from disk. A missing or
// malformed file returns an empty dataset alongside the error so callers
// can serve an empty dashboard instead of crashing.
func Load(path string) (*models.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return &models.Dataset{}, fmt.Errorf("failed to read dataset %s: %w", path, err)
	}

	var dataset models.Dataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		return &models.Dataset{}, fmt.Errorf("invalid JSON in dataset %s: %w", path, err)
	}

	return &dataset, nil
}
