package dataset_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/anmol3478/podverification/internal/dataset"
	"github.com/anmol3478/podverification/internal/faults"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dataset.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	return path
}

func TestLoadResolvesColumns(t *testing.T) {
	path := writeCSV(t, "id,output,image_url\n1,{\"a\":1},https://img/1.jpg\n2,{\"b\":2},https://img/2.jpg\n")
	table, err := dataset.Load(path, dataset.Options{
		JSONColumn:  dataset.DefaultJSONColumn,
		ImageColumn: dataset.DefaultImageColumn,
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if table.RowCount() != 2 {
		t.Fatalf("RowCount = %d, want 2", table.RowCount())
	}
	if table.JSONColumn() != "output" {
		t.Fatalf("JSONColumn = %q", table.JSONColumn())
	}
	if !table.HasImageColumn() || table.ImageColumn() != "image_url" {
		t.Fatalf("image column not resolved: %q", table.ImageColumn())
	}
	cell, err := table.JSONCell(1)
	if err != nil {
		t.Fatalf("JSONCell: %v", err)
	}
	if cell != `{"b":2}` {
		t.Fatalf("JSONCell(1) = %q", cell)
	}
	if got := table.ImageCell(0); got != "https://img/1.jpg" {
		t.Fatalf("ImageCell(0) = %q", got)
	}
	cols := table.Columns()
	if len(cols) != 3 || cols[0] != "id" {
		t.Fatalf("Columns = %v", cols)
	}
}

func TestLoadHeaderMatchesCaseInsensitive(t *testing.T) {
	path := writeCSV(t, "Output\n{}\n")
	table, err := dataset.Load(path, dataset.Options{JSONColumn: "output"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if table.JSONColumn() != "Output" {
		t.Fatalf("JSONColumn = %q, want header spelling", table.JSONColumn())
	}
}

func TestLoadStripsBOM(t *testing.T) {
	path := writeCSV(t, "\uFEFFoutput,image_url\n{},x.png\n")
	table, err := dataset.Load(path, dataset.Options{JSONColumn: "output"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if table.Columns()[0] != "output" {
		t.Fatalf("BOM not stripped from header: %v", table.Columns())
	}
}

func TestLoadExplicitColumnIndex(t *testing.T) {
	path := writeCSV(t, "a,b,c\n1,{\"x\":1},3\n")
	table, err := dataset.Load(path, dataset.Options{JSONColumn: "#2"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cell, err := table.JSONCell(0)
	if err != nil {
		t.Fatalf("JSONCell: %v", err)
	}
	if cell != `{"x":1}` {
		t.Fatalf("JSONCell(0) = %q", cell)
	}
}

func TestLoadMissingJSONColumn(t *testing.T) {
	path := writeCSV(t, "id,payload\n1,{}\n")
	_, err := dataset.Load(path, dataset.Options{JSONColumn: "output"})
	if !errors.Is(err, faults.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "available") || !strings.Contains(msg, "payload") {
		t.Fatalf("expected available columns in %q", msg)
	}
}

func TestLoadMissingImageColumnWarnsOnly(t *testing.T) {
	path := writeCSV(t, "output\n{}\n")
	table, err := dataset.Load(path, dataset.Options{JSONColumn: "output", ImageColumn: "image_url"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if table.HasImageColumn() {
		t.Fatal("image column must not resolve")
	}
	if got := table.ImageCell(0); got != "" {
		t.Fatalf("ImageCell = %q, want empty", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := dataset.Load(filepath.Join(t.TempDir(), "nope.csv"), dataset.Options{})
	if !errors.Is(err, faults.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := writeCSV(t, "")
	_, err := dataset.Load(path, dataset.Options{})
	if !errors.Is(err, faults.ErrParse) {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestJSONCellOutOfRange(t *testing.T) {
	path := writeCSV(t, "output\n{}\n")
	table, err := dataset.Load(path, dataset.Options{JSONColumn: "output"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := table.JSONCell(5); !errors.Is(err, faults.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := table.JSONCell(-1); !errors.Is(err, faults.ErrValidation) {
		t.Fatalf("expected validation error for negative index, got %v", err)
	}
}

func TestRaggedRowsReadAsEmpty(t *testing.T) {
	path := writeCSV(t, "id,output\n1\n2,{\"ok\":true}\n")
	table, err := dataset.Load(path, dataset.Options{JSONColumn: "output"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cell, err := table.JSONCell(0)
	if err != nil {
		t.Fatalf("JSONCell: %v", err)
	}
	if cell != "" {
		t.Fatalf("short row cell = %q, want empty", cell)
	}
}
