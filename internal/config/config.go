package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config is the root configuration for clock, stored in ~/.clock/config.json.
// The file supports single-line // comments for documentation purposes.
type Config struct {
	Storage StorageConfig `json:"storage"`
	Targets TargetsConfig `json:"targets"`
	Advisor AdvisorConfig `json:"advisor"`
}

// StorageConfig selects where events are persisted.
type StorageConfig struct {
	// Backend is "file" (JSON day files) or "sqlite".
	Backend string `json:"backend"`
	// Path is the data directory (file) or database file (sqlite).
	// Empty = a location under the clock home directory.
	Path string `json:"path"`
}

// TargetsConfig holds the goals progress is measured against.
type TargetsConfig struct {
	DailyMinutes   int `json:"daily_minutes"`
	MonthlyMinutes int `json:"monthly_minutes"`
}

// AdvisorConfig configures the optional tips service.
type AdvisorConfig struct {
	// Endpoint is the HTTP URL tips are requested from. Empty disables tips.
	Endpoint string `json:"endpoint"`
	Model    string `json:"model"`
	// APIKeyEnv names the environment variable holding the bearer token.
	APIKeyEnv   string  `json:"api_key_env"`
	Temperature float64 `json:"temperature"`
}

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"

	// HomeEnv overrides the clock home directory (~/.clock).
	HomeEnv = "CLOCK_HOME"

	DefaultDailyMinutes   = 480
	DefaultMonthlyMinutes = 9600
	DefaultAdvisorKeyEnv  = "CLOCK_ADVISOR_KEY"
	DefaultTemperature    = 0.9
)

// defaultConfig returns a Config pre-filled with sensible defaults.
func defaultConfig() Config {
	return Config{
		Storage: StorageConfig{Backend: BackendFile},
		Targets: TargetsConfig{
			DailyMinutes:   DefaultDailyMinutes,
			MonthlyMinutes: DefaultMonthlyMinutes,
		},
		Advisor: AdvisorConfig{
			APIKeyEnv:   DefaultAdvisorKeyEnv,
			Temperature: DefaultTemperature,
		},
	}
}

// configTemplate is the annotated config written on first run.
// Lines whose trimmed content starts with // are stripped before JSON parsing,
// allowing human-readable documentation inside the file.
const configTemplate = `// clock configuration – ~/.clock/config.json
//
// All settings are optional; the built-in defaults shown below work out of
// the box. Edit this file to customise clock behaviour.
{
  // ── Event storage ─────────────────────────────────────────────────────────
  "storage": {
    // "file"   – one human-readable JSON file per day (default)
    // "sqlite" – a single SQLite database file
    "backend": "file",

    // Data directory (file) or database path (sqlite).
    // Leave empty for ~/.clock/data or ~/.clock/clock.db.
    "path": ""
  },

  // ── Targets used for progress bars ───────────────────────────────────────
  "targets": {
    "daily_minutes": 480,
    "monthly_minutes": 9600
  },

  // ── Tips service ─────────────────────────────────────────────────────────
  "advisor": {
    // HTTP endpoint returning short tips for recent activity.
    // Leave empty to disable: clock tip
    "endpoint": "",
    "model": "",

    // Name of the environment variable holding the bearer token.
    "api_key_env": "CLOCK_ADVISOR_KEY",
    "temperature": 0.9
  }
}
`

// HomeDir returns the clock home directory, ~/.clock unless CLOCK_HOME is set.
func HomeDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".clock"), nil
}

// stripLineComments removes lines whose leading non-whitespace content starts
// with //. Only full-line comments are handled; inline comments are not stripped.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// Load reads config.json from the clock home directory, creating it with
// annotated defaults on first run.
func Load() (Config, error) {
	home, err := HomeDir()
	if err != nil {
		return defaultConfig(), err
	}
	cfg, err := LoadFrom(filepath.Join(home, "config.json"))
	if err != nil {
		return cfg, err
	}
	cfg.resolvePaths(home)
	return cfg, nil
}

// LoadFrom reads the config at path. A missing file is created from the
// annotated template and yields the defaults.
func LoadFrom(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
		return defaultConfig(), nil
	}
	if err != nil {
		return defaultConfig(), fmt.Errorf("reading config file %s: %w", path, err)
	}

	cleaned := stripLineComments(data)
	var cfg Config
	if err := json.Unmarshal(cleaned, &cfg); err != nil {
		return defaultConfig(), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}

	// Fill zero-value fields with built-in defaults so callers always get
	// a usable Config even if the user only partially fills in the file.
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = BackendFile
	}
	if cfg.Targets.DailyMinutes == 0 {
		cfg.Targets.DailyMinutes = DefaultDailyMinutes
	}
	if cfg.Targets.MonthlyMinutes == 0 {
		cfg.Targets.MonthlyMinutes = DefaultMonthlyMinutes
	}
	if cfg.Advisor.APIKeyEnv == "" {
		cfg.Advisor.APIKeyEnv = DefaultAdvisorKeyEnv
	}
	if cfg.Advisor.Temperature == 0 {
		cfg.Advisor.Temperature = DefaultTemperature
	}

	if err := cfg.validate(); err != nil {
		return defaultConfig(), fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Storage.Backend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("unknown storage backend %q (want %q or %q)", c.Storage.Backend, BackendFile, BackendSQLite)
	}
	if c.Targets.DailyMinutes < 0 || c.Targets.MonthlyMinutes < 0 {
		return fmt.Errorf("targets must not be negative")
	}
	return nil
}

// resolvePaths fills an empty storage path with the backend's default
// location under home.
func (c *Config) resolvePaths(home string) {
	if c.Storage.Path != "" {
		return
	}
	if c.Storage.Backend == BackendSQLite {
		c.Storage.Path = filepath.Join(home, "clock.db")
		return
	}
	c.Storage.Path = filepath.Join(home, "data")
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
