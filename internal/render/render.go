package render

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/anmol3478/podverification/internal/fonts"
	"github.com/anmol3478/podverification/internal/record"
)

const (
	// boxScale is the normalized coordinate space detection boxes arrive in.
	boxScale = 1000
	// strokeWidth is the box outline width in pixels.
	strokeWidth = 3
	// labelTextLimit caps how much detected text a label shows.
	labelTextLimit = 15
)

// PaletteColor pairs a display name with its drawing color.
type PaletteColor struct {
	Name string
	RGBA color.RGBA
}

// Palette is the fixed box color cycle. Values follow the common HTML/X11
// definitions for the eight names.
var Palette = []PaletteColor{
	{"red", color.RGBA{R: 255, A: 255}},
	{"green", color.RGBA{G: 128, A: 255}},
	{"blue", color.RGBA{B: 255, A: 255}},
	{"yellow", color.RGBA{R: 255, G: 255, A: 255}},
	{"purple", color.RGBA{R: 128, B: 128, A: 255}},
	{"orange", color.RGBA{R: 255, G: 165, A: 255}},
	{"cyan", color.RGBA{G: 255, B: 255, A: 255}},
	{"magenta", color.RGBA{R: 255, B: 255, A: 255}},
}

// Rect is a processed box in image pixel coordinates.
type Rect struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// DrawnBox describes one rendered detection.
type DrawnBox struct {
	Field string `json:"field"`
	Rect  Rect   `json:"rect"`
	Color string `json:"color"`
	Label string `json:"label"`
}

// Skip explains why a located field produced no box.
type Skip struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Report summarizes one annotation pass.
type Report struct {
	Drawn   []DrawnBox `json:"drawn"`
	Skipped []Skip     `json:"skipped"`
}

// Options configures annotation.
type Options struct {
	// Face is the label face; resolved via fonts.Load when unset.
	Face fonts.Face
	// Logger receives per-field diagnostics for invalid and degenerate boxes.
	Logger *slog.Logger
}

// Annotate draws every valid detection box of the structured info onto a copy
// of src and returns it with a report of what was drawn and what was skipped.
// The source image is never modified, and annotation never fails: problem
// fields are reported and skipped.
func Annotate(src image.Image, info *record.StructuredInfo, opts Options) (image.Image, Report) {
	var report Report
	if src == nil || info == nil {
		return src, report
	}
	face := opts.Face
	if face.Face == nil {
		face = fonts.Load(fonts.Options{Logger: opts.Logger})
	}

	dc := gg.NewContextForImage(src)
	width := dc.Width()
	height := dc.Height()
	dc.SetFontFace(face.Face)

	metrics := face.Face.Metrics()
	ascent := metrics.Ascent.Ceil()
	labelHeight := ascent + metrics.Descent.Ceil()

	colorIndex := 0
	for _, field := range record.Fields {
		value := info.Field(field)
		if value == nil || value.Kind != record.KindLocated {
			continue
		}
		if !value.BoxPresent {
			report.Skipped = append(report.Skipped, Skip{Field: field, Reason: "no box_2d"})
			continue
		}
		if !value.BoxNumeric {
			report.Skipped = append(report.Skipped, Skip{Field: field, Reason: "box_2d not numeric"})
			warn(opts.Logger, "skipping field with non-numeric box_2d", field)
			continue
		}
		if len(value.Box) != 4 {
			reason := fmt.Sprintf("box_2d has %d components", len(value.Box))
			report.Skipped = append(report.Skipped, Skip{Field: field, Reason: reason})
			warn(opts.Logger, "skipping field with incomplete box_2d", field)
			continue
		}
		rect, ok := Transform(value.Box, width, height)
		if !ok {
			reason := fmt.Sprintf("no area after clamping to %dx%d", width, height)
			report.Skipped = append(report.Skipped, Skip{Field: field, Reason: reason})
			if opts.Logger != nil {
				opts.Logger.Warn("skipping zero-area box", "field", field,
					"x1", rect.X1, "y1", rect.Y1, "x2", rect.X2, "y2", rect.Y2)
			}
			continue
		}

		entry := Palette[colorIndex%len(Palette)]
		colorIndex++

		dc.SetColor(entry.RGBA)
		dc.SetLineWidth(strokeWidth)
		dc.DrawRectangle(float64(rect.X1), float64(rect.Y1), float64(rect.X2-rect.X1), float64(rect.Y2-rect.Y1))
		dc.Stroke()

		text := ""
		if value.Text != nil {
			text = *value.Text
		}
		label := Label(field, text)
		labelWidth := font.MeasureString(face.Face, label).Ceil()

		bgY := rect.Y1 - labelHeight - 2
		if bgY < 0 {
			bgY = 0
		}
		dc.DrawRectangle(float64(rect.X1), float64(bgY), float64(labelWidth+4), float64(labelHeight+2))
		dc.Fill()
		dc.SetRGB(0, 0, 0)
		dc.DrawString(label, float64(rect.X1+2), float64(bgY+1+ascent))

		report.Drawn = append(report.Drawn, DrawnBox{
			Field: field,
			Rect:  rect,
			Color: entry.Name,
			Label: label,
		})
	}
	return dc.Image(), report
}

// Transform maps a 0-1000 normalized box onto a width x height image:
// components scale positionally ([x1 y1 x2 y2]) and truncate toward zero,
// corners are reordered so x1<=x2 and y1<=y2, and the result is clamped to
// the image bounds. ok is false when the clamped box has no area; the
// processed coordinates are still returned for diagnostics.
func Transform(box []float64, width, height int) (Rect, bool) {
	if len(box) != 4 {
		return Rect{}, false
	}
	x1 := int(box[0] / boxScale * float64(width))
	y1 := int(box[1] / boxScale * float64(height))
	x2 := int(box[2] / boxScale * float64(width))
	y2 := int(box[3] / boxScale * float64(height))
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	rect := Rect{
		X1: clamp(x1, 0, width),
		Y1: clamp(y1, 0, height),
		X2: clamp(x2, 0, width),
		Y2: clamp(y2, 0, height),
	}
	if rect.X1 >= rect.X2 || rect.Y1 >= rect.Y2 {
		return rect, false
	}
	return rect, true
}

// Label builds the box caption: the field name plus the first 15 characters
// of the detected text, with an ellipsis only when the text was truncated.
func Label(field, text string) string {
	runes := []rune(text)
	if len(runes) > labelTextLimit {
		return field + ": " + string(runes[:labelTextLimit]) + "..."
	}
	return field + ": " + text
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func warn(logger *slog.Logger, msg, field string) {
	if logger != nil {
		logger.Warn(msg, "field", field)
	}
}
