// Package publish assembles the per-pool week schedules into the dataset the
// map frontend consumes and writes it out atomically.
package publish

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/family-swim-sf/internal/schedule"
	"github.com/jonathan/family-swim-sf/internal/schemas"
)

// SchemaPath is the JSON Schema the dataset is validated against before any
// file write.
const SchemaPath = "schemas/family_swim_data.schema.json"

// Dataset maps pool name to its weekly family swim schedule.
type Dataset map[string]schedule.WeekSchedule

// Add inserts one pool's schedule. Incomplete weeks are refused: a partial
// extraction is never published. Pools whose refresh failed outright are the
// caller's problem; the pipeline falls back to their cached week when it can.
func (d Dataset) Add(pool string, week schedule.WeekSchedule) error {
	if !week.Complete() {
		return fmt.Errorf("refusing to publish incomplete week for %s", pool)
	}
	d[pool] = week
	return nil
}

// Encode renders the dataset as indented JSON.
func (d Dataset) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode dataset: %w", err)
	}
	return data, nil
}

// Validate checks the encoded dataset against the wire schema.
func Validate(data []byte) error {
	schemaPath := schemas.ResolveSchemaPath(SchemaPath)
	if schemaPath == "" {
		return fmt.Errorf("schema not found: %s", SchemaPath)
	}
	schemaContent, err := os.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to read schema: %w", err)
	}
	return schemas.ValidateJSONString(string(schemaContent), string(data))
}

// Write validates the dataset and writes it to outputPath through a temp
// file and rename, so readers of the published file never see a partial
// write.
func Write(d Dataset, outputPath string) error {
	data, err := d.Encode()
	if err != nil {
		return err
	}
	if err := Validate(data); err != nil {
		return fmt.Errorf("dataset failed schema validation: %w", err)
	}

	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".publish-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write dataset: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, outputPath); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to move dataset into place: %w", err)
	}
	return nil
}
