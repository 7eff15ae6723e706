package main

import (
	"encoding/json"
	"testing"
)

func TestBenchCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	stdout, _, err := runCLI(t, []string{"bench", env.datasetPath}, env.configPath)
	if err != nil {
		t.Fatalf("bench failed: %v", err)
	}
	requireContains(t, stdout, "Dataset: "+env.datasetPath)
	requireContains(t, stdout, "Rows: 3 (skipped 1), threshold 50")
	requireContains(t, stdout, "Courier Partner")
	requireContains(t, stdout, "Hallucination %")
}

func TestBenchCommandJSON(t *testing.T) {
	env := setupCLITestEnv(t)

	stdout, _, err := runCLI(t, []string{"bench", env.datasetPath, "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("bench --json failed: %v", err)
	}

	var run struct {
		Rows        int `json:"rows"`
		SkippedRows int `json:"skipped_rows"`
		Threshold   int `json:"threshold"`
		Fields      []struct {
			Field string `json:"field"`
			Total int    `json:"total"`
			Match int    `json:"match"`
			Null  int    `json:"null"`
		} `json:"fields"`
	}
	if err := json.Unmarshal([]byte(stdout), &run); err != nil {
		t.Fatalf("decode run JSON: %v\noutput: %s", err, stdout)
	}
	if run.Rows != 3 || run.SkippedRows != 1 || run.Threshold != 50 {
		t.Fatalf("unexpected run summary: %+v", run)
	}
	if len(run.Fields) != 8 {
		t.Fatalf("expected 8 field rows, got %d", len(run.Fields))
	}
	for _, field := range run.Fields {
		if field.Field == "recipient_name" && (field.Match != 2 || field.Null != 1) {
			t.Fatalf("recipient_name buckets: %+v", field)
		}
	}
}

func TestBenchSaveHistoryShowRemove(t *testing.T) {
	env := setupCLITestEnv(t)

	stdout, _, err := runCLI(t, []string{"bench", env.datasetPath, "--save", "--threshold", "70"}, env.configPath)
	if err != nil {
		t.Fatalf("bench --save failed: %v", err)
	}
	requireContains(t, stdout, "Saved report")

	stdout, _, err = runCLI(t, []string{"bench", "history", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("bench history --json failed: %v", err)
	}
	var runs []struct {
		ID        string `json:"id"`
		Rows      int    `json:"rows"`
		Threshold int    `json:"threshold"`
	}
	if err := json.Unmarshal([]byte(stdout), &runs); err != nil {
		t.Fatalf("decode history JSON: %v\noutput: %s", err, stdout)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 saved report, got %d", len(runs))
	}
	if runs[0].Rows != 3 || runs[0].Threshold != 70 {
		t.Fatalf("unexpected saved run: %+v", runs[0])
	}

	stdout, _, err = runCLI(t, []string{"bench", "history"}, env.configPath)
	if err != nil {
		t.Fatalf("bench history failed: %v", err)
	}
	requireContains(t, stdout, runs[0].ID[:8])
	requireContains(t, stdout, "dataset.csv")

	shortID := runs[0].ID[:8]
	stdout, _, err = runCLI(t, []string{"bench", "show", shortID}, env.configPath)
	if err != nil {
		t.Fatalf("bench show failed: %v", err)
	}
	requireContains(t, stdout, "Report "+shortID)
	requireContains(t, stdout, "Rows: 3 (skipped 1), threshold 70")
	requireContains(t, stdout, "Courier Partner")

	stdout, _, err = runCLI(t, []string{"bench", "rm", shortID}, env.configPath)
	if err != nil {
		t.Fatalf("bench rm failed: %v", err)
	}
	requireContains(t, stdout, "Removed report "+shortID)

	stdout, _, err = runCLI(t, []string{"bench", "history"}, env.configPath)
	if err != nil {
		t.Fatalf("bench history after rm failed: %v", err)
	}
	requireContains(t, stdout, "No saved reports")
}

func TestBenchShowUnknownReport(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"bench", "show", "ffffffff"}, env.configPath); err == nil {
		t.Fatal("expected unknown report id to fail")
	}
}

func TestBenchRejectsBadThreshold(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"bench", env.datasetPath, "--threshold", "150"}, env.configPath); err == nil {
		t.Fatal("expected out-of-range threshold to fail")
	}
}
