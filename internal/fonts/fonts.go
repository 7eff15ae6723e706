package fonts

import (
	"log/slog"
	"os"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// DefaultSize is the point size used for scalable label faces.
const DefaultSize = 15

// Well-known locations tried after any explicitly configured paths. Mirrors
// the usual Arial/DejaVu lookup order across platforms.
var systemPaths = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/TTF/DejaVuSans.ttf",
	"/Library/Fonts/Arial.ttf",
	"/System/Library/Fonts/Supplemental/Arial.ttf",
	`C:\Windows\Fonts\arial.ttf`,
	`C:\Windows\Fonts\Arial.ttf`,
}

// Options configures face resolution.
type Options struct {
	// Paths lists TTF files to try before the well-known system locations.
	Paths []string
	// Size is the point size for scalable faces; DefaultSize when zero.
	Size float64
	// Logger, when set, receives one diagnostic if every TTF candidate fails.
	Logger *slog.Logger
}

// Face is the resolved annotation face.
type Face struct {
	font.Face
	// Path names the TTF file the face came from, empty for the built-in
	// bitmap fallback.
	Path string
	// Fallback reports that no TTF candidate loaded and label metrics are
	// approximate.
	Fallback bool
}

// Load resolves the first usable face from the configured candidates. It
// never fails: when no TTF loads, the built-in bitmap face is returned.
func Load(opts Options) Face {
	size := opts.Size
	if size <= 0 {
		size = DefaultSize
	}
	candidates := make([]string, 0, len(opts.Paths)+len(systemPaths))
	candidates = append(candidates, opts.Paths...)
	candidates = append(candidates, systemPaths...)
	for _, path := range candidates {
		if path == "" {
			continue
		}
		face, err := loadTTF(path, size)
		if err != nil {
			continue
		}
		return Face{Face: face, Path: path}
	}
	if opts.Logger != nil {
		opts.Logger.Warn("no TTF font available, using bitmap fallback", "candidates", len(candidates))
	}
	return Face{Face: basicfont.Face7x13, Fallback: true}
}

func loadTTF(path string, size float64) (font.Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	parsed, err := truetype.Parse(data)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(parsed, &truetype.Options{Size: size}), nil
}
