package scoring

import (
	"math"

	"github.com/anmol3478/podverification/internal/record"
)

// DefaultThreshold is the similarity cutoff applied when no override is given.
const DefaultThreshold = 50

// Status classifies one field comparison.
type Status string

const (
	// StatusMatch means both sides were present and scored at or above the
	// threshold.
	StatusMatch Status = "match"
	// StatusHallucination means both sides were present but scored below the
	// threshold.
	StatusHallucination Status = "hallucination"
	// StatusNull means at least one side was absent; the threshold never
	// applies.
	StatusNull Status = "null"
)

// Result is the outcome of scoring a single field. Extracted and Reference
// carry the compared display values; a nil pointer marks an absent side.
type Result struct {
	Field     string  `json:"field"`
	Status    Status  `json:"status"`
	Score     int     `json:"score"`
	Extracted *string `json:"extracted"`
	Reference *string `json:"reference"`
}

// Evaluate scores one extracted field against its reference value. Either
// side absent forces StatusNull with score zero; otherwise the normalized
// similarity decides between match and hallucination at the given threshold,
// match inclusive.
func Evaluate(field string, extracted *record.FieldValue, reference any, threshold int) Result {
	res := Result{Field: field, Status: StatusNull}
	extractedText, extractedOK := extracted.StringValue()
	referenceText, referenceOK := referenceString(reference)
	if extractedOK {
		res.Extracted = &extractedText
	}
	if referenceOK {
		res.Reference = &referenceText
	}
	if !extractedOK || !referenceOK {
		return res
	}
	res.Score = Similarity(extractedText, referenceText)
	if res.Score >= threshold {
		res.Status = StatusMatch
	} else {
		res.Status = StatusHallucination
	}
	return res
}

// EvaluateRecord scores every canonical field of the record in order. Missing
// structured or reference info never errors; the affected fields score null.
func EvaluateRecord(rec *record.Record, threshold int) []Result {
	var info *record.StructuredInfo
	var refs map[string]any
	if rec != nil {
		info = rec.StructuredInfo
		refs = rec.ReferenceInfo
	}
	results := make([]Result, 0, len(record.Fields))
	for _, field := range record.Fields {
		results = append(results, Evaluate(field, info.Field(field), refs[field], threshold))
	}
	return results
}

func referenceString(value any) (string, bool) {
	if value == nil {
		return "", false
	}
	if f, ok := value.(float64); ok && math.IsNaN(f) {
		return "", false
	}
	return record.FormatScalar(value), true
}
