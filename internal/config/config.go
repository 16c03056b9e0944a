// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/family-swim-sf/internal/schedule"
)

// Pool configures one tracked pool.
type Pool struct {
	// Name is the display name, e.g. "Balboa Pool".
	Name string `json:"name" validate:"required"`
	// FacilityURL is the city facility page listing the pool's documents.
	FacilityURL string `json:"facility_url" validate:"required,url"`
	// SecretSwimNote, when set, marks the pool as having an unadvertised
	// family-friendly option during lap swim, published under this note.
	SecretSwimNote string `json:"secret_swim_note,omitempty"`
}

// Config represents the agent configuration loaded from a JSON file.
// Missing values use defaults or must be provided via CLI flags.
type Config struct {
	Pools []Pool `json:"pools" validate:"omitempty,dive"`

	// Behavior
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	CacheDir    string `json:"cache_dir,omitempty"`    // Directory for downloaded PDFs
	OutputPath  string `json:"output_path,omitempty"`  // Published dataset path
	Timezone    string `json:"timezone,omitempty"`     // Civic timezone for date-based selection
	UseBrowser  bool   `json:"use_browser,omitempty"`  // Allow headless browser fallback
	Verbose     bool   `json:"verbose,omitempty"`      // Print detailed debug information
}

var validate = validator.New()

// DefaultConfig returns the configuration for the city's pools with
// unadvertised swim rules as published.
func DefaultConfig() Config {
	return Config{
		Pools: []Pool{
			{Name: "Balboa Pool", FacilityURL: "https://sfrecpark.org/Facilities/Facility/Details/Balboa-Pool-218", SecretSwimNote: string(schedule.NoteParentChildSwimOnSteps)},
			{Name: "Hamilton Pool", FacilityURL: "https://sfrecpark.org/Facilities/Facility/Details/Hamilton-Pool-220", SecretSwimNote: string(schedule.NoteFamilySwimInSmallPool)},
			{Name: "Garfield Pool", FacilityURL: "https://sfrecpark.org/Facilities/Facility/Details/Garfield-Pool-219", SecretSwimNote: string(schedule.NoteParentChildSwimInSmallPool)},
			{Name: "Rossi Pool", FacilityURL: "https://sfrecpark.org/Facilities/Facility/Details/Rossi-Pool-226"},
			{Name: "Sava Pool", FacilityURL: "https://sfrecpark.org/Facilities/Facility/Details/Sava-Pool-227"},
			{Name: "Mission Pool", FacilityURL: "https://sfrecpark.org/Facilities/Facility/Details/Mission-Community-Pool-222"},
			{Name: "Coffman Pool", FacilityURL: "https://sfrecpark.org/Facilities/Facility/Details/Coffman-Pool-215"},
			{Name: "North Beach Pool", FacilityURL: "https://sfrecpark.org/Facilities/Facility/Details/North-Beach-Pool-224"},
			{Name: "MLK Pool", FacilityURL: "https://sfrecpark.org/Facilities/Facility/Details/Martin-Luther-King-Jr-Pool-221"},
		},
		CacheDir:   filepath.Join(os.TempDir(), "family-swim-sf"),
		OutputPath: "map_data/latest_family_swim_data.json",
		Timezone:   "America/Los_Angeles",
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values. Every configured
// secret swim note must be one of the closed session kinds; the published
// dataset never invents new categories.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	for _, pool := range c.Pools {
		if pool.SecretSwimNote != "" && !schedule.IsKnownNoteKind(pool.SecretSwimNote) {
			return fmt.Errorf("config error: unknown secret swim note %q for %s", pool.SecretSwimNote, pool.Name)
		}
	}
	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return fmt.Errorf("config error: unknown timezone %q", c.Timezone)
		}
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults. This is used to apply config file values on top of the built-in
// pool list.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if len(result.Pools) == 0 {
		result.Pools = defaults.Pools
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.CacheDir == "" {
		result.CacheDir = defaults.CacheDir
	}
	if result.OutputPath == "" {
		result.OutputPath = defaults.OutputPath
	}
	if result.Timezone == "" {
		result.Timezone = defaults.Timezone
	}
	if !result.UseBrowser {
		result.UseBrowser = defaults.UseBrowser
	}
	if !result.Verbose {
		result.Verbose = defaults.Verbose
	}

	return result
}

// PoolNames returns the configured pool names in order.
func (c *Config) PoolNames() []string {
	names := make([]string, 0, len(c.Pools))
	for _, pool := range c.Pools {
		names = append(names, pool.Name)
	}
	return names
}
