package imagesource_test

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anmol3478/podverification/internal/faults"
	"github.com/anmol3478/podverification/internal/imagesource"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestLoadRemoteImage(t *testing.T) {
	payload := pngBytes(t, 4, 2)
	var gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "image/png")
		w.Write(payload)
	}))
	defer srv.Close()

	loader := imagesource.New()
	img, meta, err := loader.Load(context.Background(), srv.URL+"/pod.png")
	require.NoError(t, err)
	require.NotNil(t, img)

	assert.Equal(t, imagesource.KindRemote, meta.Kind)
	assert.Equal(t, "image/png", meta.ContentType)
	assert.Equal(t, int64(len(payload)), meta.Bytes)
	assert.Equal(t, 4, meta.Width)
	assert.Equal(t, 2, meta.Height)
	assert.Equal(t, imagesource.DefaultUserAgent, gotAgent)
}

func TestLoadRemoteStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, _, err := imagesource.New().Load(context.Background(), srv.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, faults.ErrFetch)
	assert.Contains(t, err.Error(), "404")
}

func TestLoadRemoteWrongContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html>not an image</html>"))
	}))
	defer srv.Close()

	_, _, err := imagesource.New().Load(context.Background(), srv.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, faults.ErrFetch)
	assert.Contains(t, err.Error(), "not an image")
}

func TestLoadRemoteUndecodablePayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("definitely not a png"))
	}))
	defer srv.Close()

	_, _, err := imagesource.New().Load(context.Background(), srv.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, faults.ErrDecode)
}

func TestLoadRemoteCanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(pngBytes(t, 1, 1))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := imagesource.New().Load(ctx, srv.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, faults.ErrFetch)
}

func TestLoadLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pod.png")
	require.NoError(t, os.WriteFile(path, pngBytes(t, 3, 3), 0o644))

	img, meta, err := imagesource.New().Load(context.Background(), path)
	require.NoError(t, err)
	require.NotNil(t, img)
	assert.Equal(t, imagesource.KindLocal, meta.Kind)
	assert.Equal(t, 3, meta.Width)
	assert.Equal(t, 3, meta.Height)
	assert.Positive(t, meta.Bytes)
}

func TestLoadLocalMissingFile(t *testing.T) {
	_, _, err := imagesource.New().Load(context.Background(), filepath.Join(t.TempDir(), "nope.png"))
	require.Error(t, err)
	assert.ErrorIs(t, err, faults.ErrNotFound)
}

func TestLoadLocalUndecodableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.png")
	require.NoError(t, os.WriteFile(path, []byte("junk"), 0o644))

	_, _, err := imagesource.New().Load(context.Background(), path)
	require.Error(t, err)
	assert.ErrorIs(t, err, faults.ErrDecode)
}

func TestLoadEmptyLocator(t *testing.T) {
	_, _, err := imagesource.New().Load(context.Background(), "   ")
	require.Error(t, err)
	assert.ErrorIs(t, err, faults.ErrValidation)
}

func TestRawRemotePassesBytesThrough(t *testing.T) {
	payload := pngBytes(t, 2, 2)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(payload)
	}))
	defer srv.Close()

	data, meta, err := imagesource.New().Raw(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, payload, data)
	assert.Equal(t, "image/png", meta.ContentType)
	assert.Zero(t, meta.Width)
}

func TestRawLocalSniffsContentType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pod.png")
	require.NoError(t, os.WriteFile(path, pngBytes(t, 2, 2), 0o644))

	data, meta, err := imagesource.New().Raw(context.Background(), path)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.Equal(t, "image/png", meta.ContentType)
	assert.Equal(t, imagesource.KindLocal, meta.Kind)
}
