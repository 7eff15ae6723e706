package imagesource

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/dustin/go-humanize"

	"github.com/anmol3478/podverification/internal/faults"
	"github.com/anmol3478/podverification/internal/logging"
)

const component = "imagesource"

// DefaultTimeout bounds remote image fetches.
const DefaultTimeout = 10 * time.Second

// DefaultUserAgent is sent on remote fetches. Several CDNs reject requests
// that carry no browser-like agent.
const DefaultUserAgent = "Mozilla/5.0"

// Kind reports where an image came from.
type Kind string

const (
	KindRemote Kind = "remote"
	KindLocal  Kind = "local"
)

// Meta describes a loaded image.
type Meta struct {
	Kind        Kind          `json:"kind"`
	Locator     string        `json:"locator"`
	ContentType string        `json:"content_type,omitempty"`
	Bytes       int64         `json:"bytes"`
	Width       int           `json:"width"`
	Height      int           `json:"height"`
	Latency     time.Duration `json:"latency,omitempty"`
}

// Loader resolves image locators to image bytes and decoded images.
type Loader struct {
	httpClient *http.Client
	userAgent  string
	logger     *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(l *Loader) {
		if client != nil {
			l.httpClient = client
		}
	}
}

// WithUserAgent overrides the agent header sent on remote fetches.
func WithUserAgent(agent string) Option {
	return func(l *Loader) {
		if agent = strings.TrimSpace(agent); agent != "" {
			l.userAgent = agent
		}
	}
}

// WithLogger attaches a logger for fetch diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// New creates a Loader with the default timeout and user agent.
func New(opts ...Option) *Loader {
	loader := &Loader{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		userAgent:  DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(loader)
	}
	return loader
}

// Load resolves a locator to a decoded image. Locators with an http or https
// scheme are fetched with a single GET; everything else is treated as a local
// file path. Failures are tagged so callers can distinguish missing files,
// upstream fetch problems, and undecodable payloads.
func (l *Loader) Load(ctx context.Context, locator string) (image.Image, Meta, error) {
	data, meta, err := l.Raw(ctx, locator)
	if err != nil {
		return nil, meta, err
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		message := "undecodable image payload"
		if meta.Kind == KindLocal {
			message = "undecodable image file"
		}
		return nil, meta, faults.Wrap(faults.ErrDecode, component, "decode", message, err)
	}
	bounds := img.Bounds()
	meta.Width = bounds.Dx()
	meta.Height = bounds.Dy()
	return img, meta, nil
}

// Raw resolves a locator to its undecoded image bytes, for passthrough
// serving. The returned meta carries no dimensions.
func (l *Loader) Raw(ctx context.Context, locator string) ([]byte, Meta, error) {
	locator = strings.TrimSpace(locator)
	if locator == "" {
		return nil, Meta{}, faults.Wrap(faults.ErrValidation, component, "load", "empty image locator", nil)
	}
	if strings.HasPrefix(locator, "http://") || strings.HasPrefix(locator, "https://") {
		return l.fetchBytes(ctx, locator)
	}
	return l.readFile(ctx, locator)
}

func (l *Loader) fetchBytes(ctx context.Context, locator string) ([]byte, Meta, error) {
	meta := Meta{Kind: KindRemote, Locator: locator}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
	if err != nil {
		return nil, meta, faults.Wrap(faults.ErrFetch, component, "fetch", "build request", err)
	}
	req.Header.Set("User-Agent", l.userAgent)

	requestStart := time.Now()
	resp, err := l.httpClient.Do(req)
	meta.Latency = time.Since(requestStart)
	if err != nil {
		detail := fmt.Sprintf("execute request (latency=%v)", meta.Latency)
		return nil, meta, faults.Wrap(faults.ErrFetch, component, "fetch", detail, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := fmt.Sprintf("unexpected status %d (latency=%v)", resp.StatusCode, meta.Latency)
		return nil, meta, faults.Wrap(faults.ErrFetch, component, "fetch", detail, nil)
	}
	meta.ContentType = resp.Header.Get("Content-Type")
	if !strings.HasPrefix(meta.ContentType, "image/") {
		detail := fmt.Sprintf("content type %q is not an image", meta.ContentType)
		return nil, meta, faults.Wrap(faults.ErrFetch, component, "fetch", detail, nil)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, meta, faults.Wrap(faults.ErrFetch, component, "fetch", "read response body", err)
	}
	meta.Bytes = int64(len(data))
	if l.logger != nil {
		logging.WithContext(ctx, l.logger).Debug("fetched remote image",
			"locator", locator,
			"size", humanize.IBytes(uint64(meta.Bytes)),
			"latency", meta.Latency)
	}
	return data, meta, nil
}

func (l *Loader) readFile(ctx context.Context, path string) ([]byte, Meta, error) {
	meta := Meta{Kind: KindLocal, Locator: path}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, meta, faults.Wrap(faults.ErrNotFound, component, "open", "image file not found", err)
		}
		return nil, meta, faults.Wrap(faults.ErrFetch, component, "open", "stat image file", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, meta, faults.Wrap(faults.ErrFetch, component, "open", "read image file", err)
	}
	meta.Bytes = int64(len(data))
	meta.ContentType = http.DetectContentType(data)
	if l.logger != nil {
		logging.WithContext(ctx, l.logger).Debug("opened local image",
			"locator", path,
			"size", humanize.IBytes(uint64(meta.Bytes)))
	}
	return data, meta, nil
}
