package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDataset(); err != nil {
		return err
	}
	if err := c.validateScoring(); err != nil {
		return err
	}
	if err := c.validateRender(); err != nil {
		return err
	}
	if err := c.validateFetch(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateReports(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateDataset() error {
	if strings.TrimSpace(c.Dataset.JSONColumn) == "" {
		return errors.New("dataset.json_column must be set")
	}
	return nil
}

func (c *Config) validateScoring() error {
	if c.Scoring.Threshold < 0 || c.Scoring.Threshold > 100 {
		return fmt.Errorf("scoring.threshold must be between 0 and 100, got %d", c.Scoring.Threshold)
	}
	return nil
}

func (c *Config) validateRender() error {
	if c.Render.FontSize <= 0 {
		return errors.New("render.font_size must be positive")
	}
	if strings.TrimSpace(c.Render.OutputDir) == "" {
		return errors.New("render.output_dir must be set")
	}
	return nil
}

func (c *Config) validateFetch() error {
	if c.Fetch.TimeoutSeconds <= 0 {
		return errors.New("fetch.timeout_seconds must be positive")
	}
	if strings.TrimSpace(c.Fetch.UserAgent) == "" {
		return errors.New("fetch.user_agent must be set")
	}
	return nil
}

func (c *Config) validateServer() error {
	if strings.TrimSpace(c.Server.Bind) == "" {
		return errors.New("server.bind must be set")
	}
	return nil
}

func (c *Config) validateReports() error {
	if strings.TrimSpace(c.Reports.Dir) == "" {
		return errors.New("reports.dir must be set")
	}
	return nil
}
