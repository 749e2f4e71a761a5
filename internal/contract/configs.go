package contract

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/huangsam/cadence/schema"
)

// Default values for configuration.
const (
	// DefaultSinceYear drops releases older than this year; earlier releases
	// predate the rc-based release process and skew every aggregate.
	DefaultSinceYear = 2022

	// DefaultOutputDir is where chart files are written.
	DefaultOutputDir = "charts"

	// DefaultBumpMarker identifies version-bump commits to exclude from
	// per-release commit counts.
	DefaultBumpMarker = "chore: bump version"

	// MinRCCount is the minimum number of rc tags a release needs to be
	// comparable; a single rc gives no span to measure.
	MinRCCount = 2
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// Config holds the runtime configuration for a scan.
// This struct remains the "final, validated" config.
type Config struct {
	RepoPath    string
	SinceYear   int
	ExcludeTags []string
	OutputDir   string
	BumpMarker  string
	Output      schema.OutputMode
	OutputFile  string
	Fetch       bool
	PerRelease  bool
	Width       int // Terminal width override (0 = auto-detect)

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	RepoPathStr string

	SinceYear        int    `mapstructure:"since-year"`
	ExcludeTags      string `mapstructure:"exclude-tags"`
	OutputDir        string `mapstructure:"output-dir"`
	BumpMarker       string `mapstructure:"bump-marker"`
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Fetch            bool   `mapstructure:"fetch"`
	PerRelease       bool   `mapstructure:"per-release"`
	Width            int    `mapstructure:"width"`
	Color            string `mapstructure:"color"`
	CacheBackend     string `mapstructure:"cache-backend"`
	CacheDBConnect   string `mapstructure:"cache-db-connect"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.ExcludeTags != nil {
		clone.ExcludeTags = make([]string, len(c.ExcludeTags))
		copy(clone.ExcludeTags, c.ExcludeTags)
	}
	return &clone
}

// ProcessAndValidate performs all complex parsing and validation on the raw
// inputs and updates the final Config struct.
func ProcessAndValidate(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	return resolveRepoPath(ctx, cfg, client, input)
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Fetch = input.Fetch
	cfg.PerRelease = input.PerRelease
	cfg.Width = input.Width

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. SinceYear Validation ---
	if input.SinceYear < 1970 || input.SinceYear > 9999 {
		return fmt.Errorf("since-year must be a four-digit year (received %d)", input.SinceYear)
	}
	cfg.SinceYear = input.SinceYear

	// --- 2. Output Validation ---
	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}

	// --- 3. Output Directory and Bump Marker ---
	cfg.OutputDir = input.OutputDir
	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDir
	}
	cfg.BumpMarker = input.BumpMarker
	if cfg.BumpMarker == "" {
		cfg.BumpMarker = DefaultBumpMarker
	}

	// --- 4. Excluded Tags Processing ---
	cfg.ExcludeTags = nil
	if input.ExcludeTags != "" {
		for _, p := range strings.Split(input.ExcludeTags, ",") {
			trimmed := strings.TrimSpace(p)
			if trimmed != "" {
				cfg.ExcludeTags = append(cfg.ExcludeTags, trimmed)
			}
		}
	}

	return nil
}

// validateBackendConfigs validates cache and history backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	// --- History Backend Validation ---
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if cfg.HistoryBackend != "" {
		if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
			return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
		}
		cfg.HistoryDBConnect = input.HistoryDBConnect
		if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
			return err
		}

		// Cache and history must not share a SQLite file.
		if cfg.CacheBackend == schema.SQLiteBackend && cfg.HistoryBackend == schema.SQLiteBackend {
			cacheDBPath := cfg.CacheDBConnect
			if cacheDBPath == "" {
				cacheDBPath = GetCacheDBFilePath()
			}
			historyDBPath := cfg.HistoryDBConnect
			if historyDBPath == "" {
				historyDBPath = GetHistoryDBFilePath()
			}
			if cacheDBPath == historyDBPath {
				return fmt.Errorf("cache and history storage must use different SQLite database files. Both resolve to %q", cacheDBPath)
			}
		}
	}

	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection
// strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// resolveRepoPath resolves the positional repo path to the repository root.
func resolveRepoPath(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	contextPath := input.RepoPathStr
	if contextPath == "" {
		contextPath = "."
	}
	absContextPath, err := filepath.Abs(contextPath)
	if err != nil {
		return err
	}
	absContextPath = filepath.Clean(absContextPath)

	root, err := client.GetRepoRoot(ctx, absContextPath)
	if err != nil {
		return fmt.Errorf("cannot resolve repository at %q: %w", contextPath, err)
	}
	cfg.RepoPath = root
	return nil
}
