package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/anmol3478/podverification/internal/config"
	"github.com/anmol3478/podverification/internal/dataset"
	"github.com/anmol3478/podverification/internal/imagesource"
	"github.com/anmol3478/podverification/internal/logging"
	"github.com/anmol3478/podverification/internal/report"
)

type commandContext struct {
	configFlag *string

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configExists = exists
	})
	return c.config, c.configErr
}

// cliLogger builds a logger writing to the command's stderr so diagnostics
// never interleave with table or JSON output. A configured logging.file wins
// over stderr.
func (c *commandContext) cliLogger(cmd *cobra.Command) *slog.Logger {
	cfg, err := c.ensureConfig()
	if err != nil || cfg == nil {
		return logging.NewNop()
	}
	if cfg.Logging.File != "" {
		if logger, err := logging.NewFromConfig(cfg); err == nil {
			return logger
		}
	}
	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Writer: cmd.ErrOrStderr(),
	})
	if err != nil {
		return logging.NewNop()
	}
	return logger
}

// datasetPath resolves the dataset argument, falling back to the configured
// default path.
func (c *commandContext) datasetPath(args []string) (string, error) {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return config.ExpandPath(args[0])
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return "", err
	}
	if cfg.Dataset.Path != "" {
		return cfg.Dataset.Path, nil
	}
	return "", errors.New("dataset path is required (pass it as an argument or set dataset.path in the config)")
}

// openDataset loads the CSV with the configured column names; non-empty
// overrides win over the config.
func (c *commandContext) openDataset(path, jsonColumn, imageColumn string, logger *slog.Logger) (*dataset.Table, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(jsonColumn) == "" {
		jsonColumn = cfg.Dataset.JSONColumn
	}
	if strings.TrimSpace(imageColumn) == "" {
		imageColumn = cfg.Dataset.ImageColumn
	}
	return dataset.Load(path, dataset.Options{
		JSONColumn:  jsonColumn,
		ImageColumn: imageColumn,
		Logger:      logger,
	})
}

// newLoader builds an image loader honouring the configured fetch settings.
func (c *commandContext) newLoader(logger *slog.Logger) (*imagesource.Loader, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	client := &http.Client{Timeout: time.Duration(cfg.Fetch.TimeoutSeconds) * time.Second}
	return imagesource.New(
		imagesource.WithHTTPClient(client),
		imagesource.WithUserAgent(cfg.Fetch.UserAgent),
		imagesource.WithLogger(logger),
	), nil
}

// withStore opens the report store for the duration of fn.
func (c *commandContext) withStore(fn func(*report.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := report.Open(cfg.Reports.Dir)
	if err != nil {
		return fmt.Errorf("open report store: %w", err)
	}
	defer store.Close()
	return fn(store)
}

// resolveThreshold maps the flag value onto the configured default; negative
// means unset.
func (c *commandContext) resolveThreshold(flag int) (int, error) {
	if flag < 0 {
		cfg, err := c.ensureConfig()
		if err != nil {
			return 0, err
		}
		return cfg.Scoring.Threshold, nil
	}
	if flag > 100 {
		return 0, fmt.Errorf("threshold must be between 0 and 100, got %d", flag)
	}
	return flag, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
