package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/anmol3478/podverification/internal/faults"
)

// PreviewLimit bounds how much raw payload text parse diagnostics include.
const PreviewLimit = 500

// Canonical field names in extraction order.
const (
	FieldTextQualityScore   = "text_quality_score"
	FieldCourierPartner     = "courier_partner"
	FieldAWBNumber          = "awb_number"
	FieldRecipientName      = "recipient_name"
	FieldRecipientAddress   = "recipient_address"
	FieldRecipientSignature = "recipient_signature"
	FieldRecipientStamp     = "recipient_stamp"
	FieldDeliveryDate       = "delivery_date"
	FieldHandwrittenNotes   = "handwritten_notes"
)

// Fields lists every extracted field in canonical order.
var Fields = []string{
	FieldTextQualityScore,
	FieldCourierPartner,
	FieldAWBNumber,
	FieldRecipientName,
	FieldRecipientAddress,
	FieldRecipientSignature,
	FieldRecipientStamp,
	FieldDeliveryDate,
	FieldHandwrittenNotes,
}

// Record is the envelope carried in a dataset row's JSON column.
type Record struct {
	ImageURL       string          `json:"image_url,omitempty"`
	StructuredInfo *StructuredInfo `json:"structured_info,omitempty"`
	ReferenceInfo  map[string]any  `json:"reference_info,omitempty"`
}

// StructuredInfo holds the extracted delivery-proof fields. Every field is
// optional; absent fields stay nil.
type StructuredInfo struct {
	TextQualityScore   *FieldValue `json:"text_quality_score,omitempty"`
	CourierPartner     *FieldValue `json:"courier_partner,omitempty"`
	AWBNumber          *FieldValue `json:"awb_number,omitempty"`
	RecipientName      *FieldValue `json:"recipient_name,omitempty"`
	RecipientAddress   *FieldValue `json:"recipient_address,omitempty"`
	RecipientSignature *FieldValue `json:"recipient_signature,omitempty"`
	RecipientStamp     *FieldValue `json:"recipient_stamp,omitempty"`
	DeliveryDate       *FieldValue `json:"delivery_date,omitempty"`
	HandwrittenNotes   *FieldValue `json:"handwritten_notes,omitempty"`
}

// ValueKind distinguishes the two payload shapes a field can carry.
type ValueKind int

const (
	// KindScalar covers bare values and objects without a "text" key.
	KindScalar ValueKind = iota
	// KindLocated covers objects carrying a "text" key, optionally with a
	// "box_2d" detection box.
	KindLocated
)

// FieldValue is one extracted field, resolved at parse time into either a
// scalar payload or a located text with an optional detection box.
type FieldValue struct {
	Kind ValueKind
	// Scalar holds the decoded payload for KindScalar values.
	Scalar any
	// Text holds the located text; nil when the source value was JSON null.
	Text *string
	// Box holds the raw box_2d components in source order. Components are in
	// the 0-1000 normalized coordinate space and may have any arity; geometry
	// validation happens at render time.
	Box []float64
	// BoxPresent reports whether the source object carried a box_2d key.
	BoxPresent bool
	// BoxNumeric reports whether every box_2d component decoded as a number.
	BoxNumeric bool

	raw json.RawMessage
}

// NewScalar builds a bare scalar field value.
func NewScalar(value any) *FieldValue {
	return &FieldValue{Kind: KindScalar, Scalar: value}
}

// NewLocated builds a located field value with an optional detection box.
func NewLocated(text string, box ...float64) *FieldValue {
	v := &FieldValue{Kind: KindLocated, Text: &text}
	if len(box) > 0 {
		v.Box = append([]float64(nil), box...)
		v.BoxPresent = true
		v.BoxNumeric = true
	}
	return v
}

// UnmarshalJSON resolves the payload shape. Objects with a "text" key become
// located values; everything else, including objects without that key, stays a
// scalar payload.
func (v *FieldValue) UnmarshalJSON(data []byte) error {
	v.raw = append(v.raw[:0], data...)
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return err
		}
		if textRaw, ok := obj["text"]; ok {
			v.Kind = KindLocated
			if err := v.decodeText(textRaw); err != nil {
				return err
			}
			if boxRaw, ok := obj["box_2d"]; ok {
				v.BoxPresent = true
				v.Box, v.BoxNumeric = decodeBox(boxRaw)
			}
			return nil
		}
	}
	var generic any
	if err := json.Unmarshal(trimmed, &generic); err != nil {
		return err
	}
	v.Kind = KindScalar
	v.Scalar = generic
	return nil
}

// MarshalJSON round-trips the original payload when the value came from JSON.
func (v FieldValue) MarshalJSON() ([]byte, error) {
	if len(v.raw) > 0 {
		return append([]byte(nil), v.raw...), nil
	}
	if v.Kind == KindLocated {
		obj := map[string]any{"text": any(nil)}
		if v.Text != nil {
			obj["text"] = *v.Text
		}
		if v.BoxPresent {
			obj["box_2d"] = v.Box
		}
		return json.Marshal(obj)
	}
	return json.Marshal(v.Scalar)
}

func (v *FieldValue) decodeText(raw json.RawMessage) error {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		v.Text = &s
		return nil
	}
	// Non-string text values (numbers, booleans) are kept as their printed
	// form so scoring and labels still have something to show.
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return err
	}
	s = FormatScalar(generic)
	v.Text = &s
	return nil
}

func decodeBox(raw json.RawMessage) ([]float64, bool) {
	var generic []any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, false
	}
	box := make([]float64, 0, len(generic))
	for _, comp := range generic {
		num, ok := comp.(float64)
		if !ok {
			return nil, false
		}
		box = append(box, num)
	}
	return box, true
}

// StringValue returns the comparable text for the field and whether the
// extracted side is present at all. Located values compare by their text;
// scalar values by their printed form.
func (v *FieldValue) StringValue() (string, bool) {
	if v == nil {
		return "", false
	}
	if v.Kind == KindLocated {
		if v.Text == nil {
			return "", false
		}
		return *v.Text, true
	}
	if v.Scalar == nil {
		return "", false
	}
	return FormatScalar(v.Scalar), true
}

// Field returns the named field value, nil for absent or unknown names.
func (s *StructuredInfo) Field(name string) *FieldValue {
	if s == nil {
		return nil
	}
	switch name {
	case FieldTextQualityScore:
		return s.TextQualityScore
	case FieldCourierPartner:
		return s.CourierPartner
	case FieldAWBNumber:
		return s.AWBNumber
	case FieldRecipientName:
		return s.RecipientName
	case FieldRecipientAddress:
		return s.RecipientAddress
	case FieldRecipientSignature:
		return s.RecipientSignature
	case FieldRecipientStamp:
		return s.RecipientStamp
	case FieldDeliveryDate:
		return s.DeliveryDate
	case FieldHandwrittenNotes:
		return s.HandwrittenNotes
	}
	return nil
}

// Parse decodes one JSON-column cell into a Record. Empty payloads and invalid
// JSON come back as parse errors carrying a truncated preview of the input.
func Parse(data []byte) (*Record, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, faults.Wrap(faults.ErrParse, "record", "parse", "empty payload", nil)
	}
	var rec Record
	if err := json.Unmarshal([]byte(trimmed), &rec); err != nil {
		detail := fmt.Sprintf("invalid JSON: %s", Preview(trimmed, PreviewLimit))
		return nil, faults.Wrap(faults.ErrParse, "record", "parse", detail, err)
	}
	return &rec, nil
}

// Preview truncates raw payload text for diagnostics, counting characters
// rather than bytes.
func Preview(raw string, limit int) string {
	runes := []rune(raw)
	if limit <= 0 || len(runes) <= limit {
		return raw
	}
	return string(runes[:limit]) + "..."
}

// FormatScalar renders a decoded JSON value the way it should read in labels
// and comparisons. Whole-number floats print without an exponent or trailing
// zeros.
func FormatScalar(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// DisplayName renders a snake_case field name for table headers and labels.
func DisplayName(field string) string {
	return cases.Title(language.Und).String(strings.ReplaceAll(field, "_", " "))
}
