package bench

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/anmol3478/podverification/internal/dataset"
	"github.com/anmol3478/podverification/internal/record"
	"github.com/anmol3478/podverification/internal/scoring"
)

// StatsFields lists the fields the overall view aggregates. Handwritten notes
// are free-form text, so match percentages mean nothing for them and they are
// left out.
var StatsFields = []string{
	record.FieldTextQualityScore,
	record.FieldCourierPartner,
	record.FieldAWBNumber,
	record.FieldRecipientName,
	record.FieldRecipientAddress,
	record.FieldRecipientSignature,
	record.FieldRecipientStamp,
	record.FieldDeliveryDate,
}

// FieldStats aggregates one field across every dataset row. The three status
// buckets always sum to Total.
type FieldStats struct {
	Field            string  `json:"field"`
	Total            int     `json:"total"`
	Match            int     `json:"match"`
	Hallucination    int     `json:"hallucination"`
	Null             int     `json:"null"`
	MatchPct         float64 `json:"match_pct"`
	HallucinationPct float64 `json:"hallucination_pct"`
	NullPct          float64 `json:"null_pct"`
}

// Run is one overall-statistics pass over a dataset.
type Run struct {
	ID          string       `json:"id"`
	CreatedAt   time.Time    `json:"created_at"`
	DatasetPath string       `json:"dataset_path"`
	Rows        int          `json:"rows"`
	SkippedRows int          `json:"skipped_rows"`
	JSONColumn  string       `json:"json_column"`
	Threshold   int          `json:"threshold"`
	Fields      []FieldStats `json:"fields"`
}

// Options configures a statistics pass.
type Options struct {
	Threshold int
	Logger    *slog.Logger
}

// Compute aggregates match statistics for the benchmark fields across every
// dataset row. Rows whose payload is missing or unparseable are logged,
// counted as skipped, and score null for every field, so each field's
// buckets still sum to the row count.
func Compute(table *dataset.Table, opts Options) *Run {
	run := &Run{
		ID:          uuid.NewString(),
		CreatedAt:   time.Now().UTC(),
		DatasetPath: table.Path,
		Rows:        table.RowCount(),
		JSONColumn:  table.JSONColumn(),
		Threshold:   opts.Threshold,
	}

	tallies := make(map[string]*FieldStats, len(StatsFields))
	for _, field := range StatsFields {
		tallies[field] = &FieldStats{Field: field}
	}

	for row := 0; row < table.RowCount(); row++ {
		rec := parseRow(table, row, opts.Logger)
		if rec == nil {
			run.SkippedRows++
		}
		for _, res := range scoring.EvaluateRecord(rec, opts.Threshold) {
			stats, ok := tallies[res.Field]
			if !ok {
				continue
			}
			stats.Total++
			switch res.Status {
			case scoring.StatusMatch:
				stats.Match++
			case scoring.StatusHallucination:
				stats.Hallucination++
			default:
				stats.Null++
			}
		}
	}

	run.Fields = make([]FieldStats, 0, len(StatsFields))
	for _, field := range StatsFields {
		stats := tallies[field]
		stats.MatchPct = percent(stats.Match, stats.Total)
		stats.HallucinationPct = percent(stats.Hallucination, stats.Total)
		stats.NullPct = percent(stats.Null, stats.Total)
		run.Fields = append(run.Fields, *stats)
	}
	return run
}

// parseRow returns the row's record, or nil when the row cannot be scored.
func parseRow(table *dataset.Table, row int, logger *slog.Logger) *record.Record {
	cell, err := table.JSONCell(row)
	if err != nil {
		if logger != nil {
			logger.Warn("skipping unreadable row", "row", row, "error", err)
		}
		return nil
	}
	if cell == "" {
		if logger != nil {
			logger.Warn("skipping row with empty payload", "row", row)
		}
		return nil
	}
	rec, err := record.Parse([]byte(cell))
	if err != nil {
		if logger != nil {
			logger.Warn("skipping row with invalid JSON", "row", row, "error", err)
		}
		return nil
	}
	return rec
}

func percent(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total) * 100
}
