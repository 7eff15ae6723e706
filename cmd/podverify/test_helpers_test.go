package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/anmol3478/podverification/internal/config"
	"github.com/anmol3478/podverification/internal/testsupport"
)

type cliTestEnv struct {
	cfg         *config.Config
	configPath  string
	datasetPath string
	imagePath   string
	baseDir     string
}

// setupCLITestEnv writes a config file and a three-row dataset: a fully
// populated record pointing at a local PNG, one without an image locator, and
// one with an unparseable payload.
func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	imagePath := filepath.Join(base, "pod.png")
	testsupport.WritePNG(t, imagePath, 80, 60)

	datasetPath := testsupport.WriteDataset(t, base,
		fullPayload(imagePath),
		`{"structured_info":{"recipient_name":{"text":"Vikram Shah"}},"reference_info":{"recipient_name":"Vikram Shah"}}`,
		`{"structured_info":`,
	)

	cfg := testsupport.NewConfig(t, testsupport.WithDataset(datasetPath))

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:         cfg,
		configPath:  configPath,
		datasetPath: datasetPath,
		imagePath:   imagePath,
		baseDir:     base,
	}
}

func fullPayload(imageURL string) string {
	return fmt.Sprintf(`{"image_url":%q,`+
		`"structured_info":{`+
		`"courier_partner":{"text":"Blue Dart","box_2d":[100,120,380,190]},`+
		`"awb_number":{"text":"AWB123456","box_2d":[420,120,700,190]},`+
		`"recipient_name":{"text":"Asha Rao"}},`+
		`"reference_info":{"courier_partner":"Blue Dart","recipient_name":"Asha Rao"}}`,
		imageURL)
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[dataset]\npath = %q\n\n[render]\noutput_dir = %q\n\n[reports]\ndir = %q\n\n[server]\nbind = %q\n",
		cfg.Dataset.Path,
		cfg.Render.OutputDir,
		cfg.Reports.Dir,
		cfg.Server.Bind,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
