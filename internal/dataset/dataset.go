package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/anmol3478/podverification/internal/faults"
)

const component = "dataset"

// Default column names, overridable per load.
const (
	DefaultJSONColumn  = "output"
	DefaultImageColumn = "image_url"
)

// Options selects which dataset columns to read.
type Options struct {
	// JSONColumn names the column carrying the record payload. Accepts a
	// header name (case-insensitive) or a 1-based "#N" index.
	JSONColumn string
	// ImageColumn names the fallback image locator column. A configured name
	// that is missing from the header only produces a warning; set it empty
	// to skip the lookup entirely.
	ImageColumn string
	// Logger receives the missing-image-column warning.
	Logger *slog.Logger
}

// Table is a loaded dataset: a header plus data rows addressed by index.
type Table struct {
	Path string

	columns  []string
	rows     [][]string
	jsonIdx  int
	jsonName string
	imageIdx int
}

// Load reads the CSV at path and resolves the configured columns. The JSON
// column is required; loading fails with a configuration error naming the
// available columns when it cannot be resolved.
func Load(path string, opts Options) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, faults.Wrap(faults.ErrNotFound, component, "load", fmt.Sprintf("dataset %s not found", path), err)
		}
		return nil, faults.Wrap(faults.ErrConfiguration, component, "load", "open dataset", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, faults.Wrap(faults.ErrParse, component, "load", "read dataset", err)
	}
	if len(rows) == 0 {
		return nil, faults.Wrap(faults.ErrParse, component, "load", "empty dataset", nil)
	}

	header := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = cleanCell(cell)
	}

	jsonColumn := strings.TrimSpace(opts.JSONColumn)
	if jsonColumn == "" {
		jsonColumn = DefaultJSONColumn
	}
	jsonIdx, err := resolveColumn(header, jsonColumn)
	if err != nil {
		detail := fmt.Sprintf("JSON column %q not found, available: %s", jsonColumn, strings.Join(header, ", "))
		return nil, faults.Wrap(faults.ErrConfiguration, component, "load", detail, nil)
	}

	imageColumn := strings.TrimSpace(opts.ImageColumn)
	imageIdx := -1
	if imageColumn != "" {
		if idx, err := resolveColumn(header, imageColumn); err == nil {
			imageIdx = idx
		} else if opts.Logger != nil {
			opts.Logger.Warn("image source column not found, relying on image_url in the record JSON",
				"column", imageColumn)
		}
	}

	return &Table{
		Path:     path,
		columns:  header,
		rows:     rows[1:],
		jsonIdx:  jsonIdx,
		jsonName: columnName(header, jsonIdx),
		imageIdx: imageIdx,
	}, nil
}

// RowCount returns the number of data rows.
func (t *Table) RowCount() int {
	return len(t.rows)
}

// Columns returns the cleaned header in file order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// JSONColumn reports the resolved payload column name.
func (t *Table) JSONColumn() string {
	return t.jsonName
}

// HasImageColumn reports whether a fallback image column resolved.
func (t *Table) HasImageColumn() bool {
	return t.imageIdx >= 0
}

// ImageColumn reports the resolved fallback column name, empty when absent.
func (t *Table) ImageColumn() string {
	if t.imageIdx < 0 {
		return ""
	}
	return columnName(t.columns, t.imageIdx)
}

// JSONCell returns the cleaned payload cell for a row. Rows shorter than the
// payload column read as empty, which callers treat as a missing record.
func (t *Table) JSONCell(row int) (string, error) {
	if row < 0 || row >= len(t.rows) {
		detail := fmt.Sprintf("row %d out of range, dataset has %d rows", row, len(t.rows))
		return "", faults.Wrap(faults.ErrValidation, component, "cell", detail, nil)
	}
	cells := t.rows[row]
	if t.jsonIdx >= len(cells) {
		return "", nil
	}
	return cleanCell(cells[t.jsonIdx]), nil
}

// ImageCell returns the fallback locator cell for a row, empty when the
// column is absent or the row has no value there.
func (t *Table) ImageCell(row int) string {
	if t.imageIdx < 0 || row < 0 || row >= len(t.rows) {
		return ""
	}
	cells := t.rows[row]
	if t.imageIdx >= len(cells) {
		return ""
	}
	return cleanCell(cells[t.imageIdx])
}

func cleanCell(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "\uFEFF")
	return v
}

// resolveColumn matches a header name case-insensitively, falling back to
// 1-based "#N" indexes.
func resolveColumn(header []string, name string) (int, error) {
	for i, col := range header {
		if strings.EqualFold(col, name) {
			return i, nil
		}
	}
	if strings.HasPrefix(name, "#") {
		idx, err := parseColumnIndex(name)
		if err != nil {
			return -1, err
		}
		if idx >= len(header) {
			return -1, fmt.Errorf("column index %s is out of range", name)
		}
		return idx, nil
	}
	return -1, fmt.Errorf("column %q not found", name)
}

func parseColumnIndex(token string) (int, error) {
	trimmed := strings.TrimSpace(strings.TrimPrefix(token, "#"))
	idx, err := strconv.Atoi(trimmed)
	if err != nil {
		return -1, fmt.Errorf("invalid column index %q", token)
	}
	if idx <= 0 {
		return -1, fmt.Errorf("column indices are 1-based: %q", token)
	}
	return idx - 1, nil
}

func columnName(header []string, idx int) string {
	if idx >= 0 && idx < len(header) && header[idx] != "" {
		return header[idx]
	}
	return fmt.Sprintf("#%d", idx+1)
}
