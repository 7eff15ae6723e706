// Package scoring compares extracted field values against reference values.
//
// Both sides are normalized (trimmed, lowercased) and scored with a
// longest-common-subsequence ratio scaled to 0-100, truncating toward zero.
// A score at or above the threshold classifies the field as a match, below it
// as a hallucination. When either side is absent the field is null and the
// threshold never applies.
//
// The ratio is symmetric: scoring a against b always equals scoring b
// against a.
package scoring
