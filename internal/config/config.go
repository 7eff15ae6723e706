package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Dataset contains defaults for CSV loading.
type Dataset struct {
	Path        string `toml:"path"`
	JSONColumn  string `toml:"json_column"`
	ImageColumn string `toml:"image_column"`
}

// Scoring contains the similarity threshold used to classify fields.
type Scoring struct {
	Threshold int `toml:"threshold"`
}

// Render contains annotation output settings.
type Render struct {
	FontSize  float64  `toml:"font_size"`
	FontPaths []string `toml:"font_paths"`
	OutputDir string   `toml:"output_dir"`
}

// Fetch contains settings for remote image retrieval.
type Fetch struct {
	TimeoutSeconds int    `toml:"timeout_seconds"`
	UserAgent      string `toml:"user_agent"`
}

// Server contains the dashboard bind address.
type Server struct {
	Bind string `toml:"bind"`
}

// Reports contains the benchmark report store location.
type Reports struct {
	Dir string `toml:"dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	File   string `toml:"file"`
}

// Config encapsulates all configuration values for podverify.
//
// Configuration sections by subsystem:
//   - Dataset: default CSV path and column names
//   - Scoring: match threshold for extracted-vs-reference comparison
//   - Render: font selection and annotated image output
//   - Fetch: HTTP timeout and user agent for image downloads
//   - Server: dashboard bind address
//   - Reports: benchmark run database location
//   - Logging: log format, level, and optional file destination
type Config struct {
	Dataset Dataset `toml:"dataset"`
	Scoring Scoring `toml:"scoring"`
	Render  Render  `toml:"render"`
	Fetch   Fetch   `toml:"fetch"`
	Server  Server  `toml:"server"`
	Reports Reports `toml:"reports"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/podverify/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized, with PODVERIFY_* environment
// variables applied on top of file values.
func Load(path string) (*Config, string, bool, error) {
	// Best-effort .env overlay for PODVERIFY_* variables.
	_ = godotenv.Load()

	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath("~/.config/podverify/config.toml")
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("podverify.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories podverify writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Reports.Dir, c.Render.OutputDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	sample := sampleConfig

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
