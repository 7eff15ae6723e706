package bench_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/anmol3478/podverification/internal/bench"
	"github.com/anmol3478/podverification/internal/dataset"
	"github.com/anmol3478/podverification/internal/record"
)

func loadTable(t *testing.T, content string) *dataset.Table {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bench.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	table, err := dataset.Load(path, dataset.Options{JSONColumn: "output"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return table
}

func statsFor(t *testing.T, run *bench.Run, field string) bench.FieldStats {
	t.Helper()
	for _, stats := range run.Fields {
		if stats.Field == field {
			return stats
		}
	}
	t.Fatalf("field %s missing from run", field)
	return bench.FieldStats{}
}

func TestComputeBuckets(t *testing.T) {
	match := `"{""structured_info"": {""courier_partner"": {""text"": ""DTDC""}}, ""reference_info"": {""courier_partner"": ""DTDC""}}"`
	hallucination := `"{""structured_info"": {""courier_partner"": {""text"": ""Xpressbees""}}, ""reference_info"": {""courier_partner"": ""DTDC""}}"`
	content := "id,output\n" +
		"1," + match + "\n" +
		"2," + hallucination + "\n" +
		"3,\n" +
		"4,not json\n"

	table := loadTable(t, content)
	run := bench.Compute(table, bench.Options{Threshold: 50})

	if run.Rows != 4 {
		t.Fatalf("Rows = %d, want 4", run.Rows)
	}
	if run.SkippedRows != 2 {
		t.Fatalf("SkippedRows = %d, want 2", run.SkippedRows)
	}
	if run.Threshold != 50 || run.JSONColumn != "output" {
		t.Fatalf("run metadata = %+v", run)
	}
	if run.ID == "" {
		t.Fatal("expected a run id")
	}
	if run.CreatedAt.IsZero() {
		t.Fatal("expected a timestamp")
	}

	courier := statsFor(t, run, record.FieldCourierPartner)
	if courier.Total != 4 || courier.Match != 1 || courier.Hallucination != 1 || courier.Null != 2 {
		t.Fatalf("courier stats = %+v", courier)
	}
	if courier.MatchPct != 25 || courier.HallucinationPct != 25 || courier.NullPct != 50 {
		t.Fatalf("courier percentages = %+v", courier)
	}

	// a field absent from every row lands fully in the null bucket
	awb := statsFor(t, run, record.FieldAWBNumber)
	if awb.Null != 4 || awb.Match != 0 || awb.Hallucination != 0 {
		t.Fatalf("awb stats = %+v", awb)
	}
}

func TestComputeBucketsAlwaysSumToRows(t *testing.T) {
	content := "id,output\n" +
		`1,"{""structured_info"": {""awb_number"": {""text"": ""A1""}}, ""reference_info"": {""awb_number"": ""A1""}}"` + "\n" +
		"2,broken\n" +
		"3,\n"
	table := loadTable(t, content)
	run := bench.Compute(table, bench.Options{Threshold: 50})

	if len(run.Fields) != len(bench.StatsFields) {
		t.Fatalf("fields = %d, want %d", len(run.Fields), len(bench.StatsFields))
	}
	for _, stats := range run.Fields {
		if sum := stats.Match + stats.Hallucination + stats.Null; sum != run.Rows {
			t.Fatalf("%s buckets sum to %d, want %d", stats.Field, sum, run.Rows)
		}
		pctSum := stats.MatchPct + stats.HallucinationPct + stats.NullPct
		if math.Abs(pctSum-100) > 0.01 {
			t.Fatalf("%s percentages sum to %v", stats.Field, pctSum)
		}
	}
}

func TestComputeExcludesHandwrittenNotes(t *testing.T) {
	table := loadTable(t, "output\n{}\n")
	run := bench.Compute(table, bench.Options{Threshold: 50})
	for _, stats := range run.Fields {
		if stats.Field == record.FieldHandwrittenNotes {
			t.Fatal("handwritten_notes must not be aggregated")
		}
	}
	if len(run.Fields) != 8 {
		t.Fatalf("fields = %d, want 8", len(run.Fields))
	}
}

func TestComputeEmptyDataset(t *testing.T) {
	table := loadTable(t, "output\n")
	run := bench.Compute(table, bench.Options{Threshold: 50})
	if run.Rows != 0 || run.SkippedRows != 0 {
		t.Fatalf("run = %+v", run)
	}
	for _, stats := range run.Fields {
		if stats.Total != 0 || stats.MatchPct != 0 {
			t.Fatalf("stats = %+v, want zeros", stats)
		}
	}
}
