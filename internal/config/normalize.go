package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeDataset(); err != nil {
		return err
	}
	if err := c.normalizeRender(); err != nil {
		return err
	}
	c.normalizeFetch()
	c.normalizeServer()
	if err := c.normalizeReports(); err != nil {
		return err
	}
	return c.normalizeLogging()
}

func (c *Config) normalizeDataset() error {
	c.Dataset.JSONColumn = strings.TrimSpace(c.Dataset.JSONColumn)
	if c.Dataset.JSONColumn == "" {
		c.Dataset.JSONColumn = defaultJSONColumn
	}
	c.Dataset.ImageColumn = strings.TrimSpace(c.Dataset.ImageColumn)
	if c.Dataset.ImageColumn == "" {
		c.Dataset.ImageColumn = defaultImageColumn
	}
	c.Dataset.Path = strings.TrimSpace(c.Dataset.Path)
	if c.Dataset.Path != "" {
		expanded, err := expandPath(c.Dataset.Path)
		if err != nil {
			return fmt.Errorf("dataset.path: %w", err)
		}
		c.Dataset.Path = expanded
	}
	return nil
}

func (c *Config) normalizeRender() error {
	if c.Render.FontSize == 0 {
		c.Render.FontSize = defaultFontSize
	}
	if strings.TrimSpace(c.Render.OutputDir) == "" {
		c.Render.OutputDir = defaultRenderOutputDir
	}
	outputDir, err := expandPath(c.Render.OutputDir)
	if err != nil {
		return fmt.Errorf("render.output_dir: %w", err)
	}
	c.Render.OutputDir = outputDir

	if len(c.Render.FontPaths) > 0 {
		paths := make([]string, 0, len(c.Render.FontPaths))
		for _, fontPath := range c.Render.FontPaths {
			trimmed := strings.TrimSpace(fontPath)
			if trimmed == "" {
				continue
			}
			expanded, err := expandPath(trimmed)
			if err != nil {
				return fmt.Errorf("render.font_paths: %w", err)
			}
			paths = append(paths, expanded)
		}
		c.Render.FontPaths = paths
	}
	return nil
}

func (c *Config) normalizeFetch() {
	if c.Fetch.TimeoutSeconds == 0 {
		c.Fetch.TimeoutSeconds = defaultFetchTimeoutSeconds
	}
	c.Fetch.UserAgent = strings.TrimSpace(c.Fetch.UserAgent)
	if c.Fetch.UserAgent == "" {
		c.Fetch.UserAgent = defaultFetchUserAgent
	}
}

func (c *Config) normalizeServer() {
	if value, ok := os.LookupEnv("PODVERIFY_BIND"); ok && strings.TrimSpace(value) != "" {
		c.Server.Bind = value
	}
	c.Server.Bind = strings.TrimSpace(c.Server.Bind)
	if c.Server.Bind == "" {
		c.Server.Bind = defaultServerBind
	}
}

func (c *Config) normalizeReports() error {
	if value, ok := os.LookupEnv("PODVERIFY_REPORTS_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Reports.Dir = value
	}
	if strings.TrimSpace(c.Reports.Dir) == "" {
		c.Reports.Dir = defaultReportsDir
	}
	dir, err := expandPath(c.Reports.Dir)
	if err != nil {
		return fmt.Errorf("reports.dir: %w", err)
	}
	c.Reports.Dir = dir
	return nil
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	if value, ok := os.LookupEnv("PODVERIFY_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.File = strings.TrimSpace(c.Logging.File)
	if c.Logging.File != "" {
		path, err := expandPath(c.Logging.File)
		if err != nil {
			return fmt.Errorf("logging.file: %w", err)
		}
		c.Logging.File = path
	}
	return nil
}
