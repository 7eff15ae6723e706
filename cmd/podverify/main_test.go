package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestViewCommandTable(t *testing.T) {
	env := setupCLITestEnv(t)

	stdout, _, err := runCLI(t, []string{"view", env.datasetPath}, env.configPath)
	if err != nil {
		t.Fatalf("view failed: %v", err)
	}
	requireContains(t, stdout, "Row 1 of 3 (threshold 50)")
	requireContains(t, stdout, "Courier Partner")
	requireContains(t, stdout, "Awb Number")
	requireContains(t, stdout, "match")
	requireContains(t, stdout, env.imagePath)
	requireContains(t, stdout, "Extracted info:")
}

func TestViewCommandJSON(t *testing.T) {
	env := setupCLITestEnv(t)

	stdout, _, err := runCLI(t, []string{"view", env.datasetPath, "--row", "1", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("view --json failed: %v", err)
	}

	var view struct {
		Row     int `json:"row"`
		Rows    int `json:"rows"`
		Results []struct {
			Field  string `json:"field"`
			Status string `json:"status"`
		} `json:"results"`
	}
	if err := json.Unmarshal([]byte(stdout), &view); err != nil {
		t.Fatalf("decode view JSON: %v\noutput: %s", err, stdout)
	}
	if view.Row != 1 || view.Rows != 3 {
		t.Fatalf("unexpected position: row %d of %d", view.Row, view.Rows)
	}
	if len(view.Results) != 9 {
		t.Fatalf("expected 9 scored fields, got %d", len(view.Results))
	}
	for _, res := range view.Results {
		if res.Field == "recipient_name" && res.Status != "match" {
			t.Fatalf("recipient_name status = %s, want match", res.Status)
		}
	}
}

func TestViewCommandDatasetFromConfig(t *testing.T) {
	env := setupCLITestEnv(t)

	stdout, _, err := runCLI(t, []string{"view", "--row", "1"}, env.configPath)
	if err != nil {
		t.Fatalf("view without dataset argument failed: %v", err)
	}
	requireContains(t, stdout, "Row 2 of 3 (threshold 50)")
	requireContains(t, stdout, "Vikram Shah")
}

func TestViewCommandRejectsBadInput(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"view", env.datasetPath, "--row", "9"}, env.configPath); err == nil {
		t.Fatal("expected out-of-range row to fail")
	}
	if _, _, err := runCLI(t, []string{"view", env.datasetPath, "--threshold", "150"}, env.configPath); err == nil {
		t.Fatal("expected out-of-range threshold to fail")
	}
	if _, _, err := runCLI(t, []string{"view"}, ""); err == nil {
		t.Fatal("expected missing dataset path to fail")
	}
}

func TestRenderCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	outDir := filepath.Join(env.baseDir, "rendered")

	stdout, _, err := runCLI(t, []string{"render", env.datasetPath, "--output", outDir, "--original"}, env.configPath)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	requireContains(t, stdout, "Annotated image written to")
	requireContains(t, stdout, "Original image written to")
	requireContains(t, stdout, "Boxes drawn: 2")

	annotated := filepath.Join(outDir, "row-0000-annotated.png")
	if _, err := os.Stat(annotated); err != nil {
		t.Fatalf("annotated image missing: %v", err)
	}
	original := filepath.Join(outDir, "row-0000-original.png")
	if _, err := os.Stat(original); err != nil {
		t.Fatalf("original image missing: %v", err)
	}
}

func TestRenderCommandWithoutLocator(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"render", env.datasetPath, "--row", "1"}, env.configPath)
	if err == nil {
		t.Fatal("expected render without an image locator to fail")
	}
	requireContains(t, err.Error(), "no image locator")
}

func TestRootHelpListsCommands(t *testing.T) {
	stdout, _, err := runCLI(t, []string{"--help"}, "")
	if err != nil {
		t.Fatalf("help failed: %v", err)
	}
	for _, name := range []string{"view", "render", "bench", "serve", "config"} {
		requireContains(t, stdout, name)
	}
}
