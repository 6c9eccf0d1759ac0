package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"image"
	"image/color"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/cache"
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/config"
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/observability"
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/pipeline"
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/raster"
)

func solidRasterizer() raster.Rasterizer {
	return raster.Func(func(_ context.Context, _ []byte, width int) (image.Image, error) {
		img := image.NewNRGBA(image.Rect(0, 0, width, 2))
		for y := 0; y < 2; y++ {
			for x := 0; x < width; x++ {
				img.SetNRGBA(x, y, color.NRGBA{B: 200, A: 255})
			}
		}
		return img, nil
	})
}

func newTestServer(t *testing.T, r raster.Rasterizer, cfg config.ServerConfig) *Server {
	t.Helper()
	c, err := cache.NewFileCache(afero.NewMemMapFs(), "/cache")
	if err != nil {
		t.Fatal(err)
	}
	logger := log.New(io.Discard)
	runner := pipeline.NewRunner(c, nil, r, logger)
	base := pipeline.DefaultOptions()
	base.PixelWidth = 4
	return New(runner, base, cfg, logger)
}

func do(s *Server, method, target, body string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var got errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("error body is not JSON: %v (%q)", err, rec.Body.String())
	}
	return got
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, solidRasterizer(), config.ServerConfig{})
	rec := do(s, http.MethodGet, "/healthz", "", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("response has no request ID")
	}
}

func TestRequestIDEchoed(t *testing.T) {
	s := newTestServer(t, solidRasterizer(), config.ServerConfig{})
	rec := do(s, http.MethodGet, "/healthz", "", http.Header{RequestIDHeader: {"abc-123"}})

	if got, want := rec.Header().Get(RequestIDHeader), "abc-123"; got != want {
		t.Errorf("request ID = %q, want %q", got, want)
	}
}

func TestVersion(t *testing.T) {
	s := newTestServer(t, solidRasterizer(), config.ServerConfig{})
	rec := do(s, http.MethodGet, "/v1/version", "", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var info map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatal(err)
	}
	if info["version"] == "" {
		t.Errorf("version missing in %v", info)
	}
}

func TestStats(t *testing.T) {
	s := newTestServer(t, solidRasterizer(), config.ServerConfig{})
	if rec := do(s, http.MethodGet, "/v1/stats", "", nil); rec.Code != http.StatusNotFound {
		t.Errorf("stats without counters: status = %d, want 404", rec.Code)
	}

	observability.Reset()
	t.Cleanup(observability.Reset)
	counters := observability.NewCounters()
	observability.Install(counters)
	s.WithStats(counters)

	if rec := do(s, http.MethodPost, "/v1/render", "<svg/>", nil); rec.Code != http.StatusOK {
		t.Fatalf("render: status = %d, body %s", rec.Code, rec.Body.String())
	}
	rec := do(s, http.MethodGet, "/v1/stats", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("stats: status = %d", rec.Code)
	}
	var got observability.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Builds != 1 || got.Bricks == 0 {
		t.Errorf("stats after one render = %+v", got)
	}
	if got.Requests != 2 {
		t.Errorf("requests = %d, want 2", got.Requests)
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		contentType string
		contains    string
	}{
		{"default svg", "", "image/svg+xml", "<svg"},
		{"json", "?format=json", "application/json", `"bricks"`},
		{"png", "?format=png&scale=2", "image/png", "\x89PNG"},
		{"single mode", "?format=svg&mode=1x1", "image/svg+xml", "1x1 bricks"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, solidRasterizer(), config.ServerConfig{})
			rec := do(s, http.MethodPost, "/v1/render"+tt.query, "logo", nil)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body.String())
			}
			if got := rec.Header().Get("Content-Type"); got != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", got, tt.contentType)
			}
			if !strings.Contains(rec.Body.String(), tt.contains) {
				t.Errorf("body does not contain %q", tt.contains)
			}
		})
	}
}

func TestRenderCacheHeader(t *testing.T) {
	s := newTestServer(t, solidRasterizer(), config.ServerConfig{})

	first := do(s, http.MethodPost, "/v1/render", "logo", nil)
	if got, want := first.Header().Get("X-Cache"), "miss"; got != want {
		t.Errorf("first X-Cache = %q, want %q", got, want)
	}
	second := do(s, http.MethodPost, "/v1/render", "logo", nil)
	if got, want := second.Header().Get("X-Cache"), "hit"; got != want {
		t.Errorf("second X-Cache = %q, want %q", got, want)
	}
	if first.Body.String() != second.Body.String() {
		t.Error("cached artifact differs from the rendered one")
	}

	refreshed := do(s, http.MethodPost, "/v1/render?refresh=true", "logo", nil)
	if got, want := refreshed.Header().Get("X-Cache"), "miss"; got != want {
		t.Errorf("refreshed X-Cache = %q, want %q", got, want)
	}
}

func TestRenderErrors(t *testing.T) {
	failing := raster.Func(func(context.Context, []byte, int) (image.Image, error) {
		return nil, stderrors.New("boom")
	})

	tests := []struct {
		name       string
		rasterizer raster.Rasterizer
		maxBody    int64
		query      string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"bad format", nil, 0, "?format=gif", "logo", http.StatusBadRequest, "INVALID_FORMAT"},
		{"bad mode", nil, 0, "?mode=3x3", "logo", http.StatusBadRequest, "INVALID_MODE"},
		{"bad integer", nil, 0, "?pixel-width=wide", "logo", http.StatusBadRequest, "INVALID_INPUT"},
		{"bad bool", nil, 0, "?full=maybe", "logo", http.StatusBadRequest, "INVALID_INPUT"},
		{"negative tolerance", nil, 0, "?tolerance=-1", "logo", http.StatusBadRequest, "INVALID_INPUT"},
		{"empty body", nil, 0, "", "", http.StatusBadRequest, "INVALID_INPUT"},
		{"too large", nil, 4, "", "too large", http.StatusRequestEntityTooLarge, "INVALID_INPUT"},
		{"full needs svg", nil, 0, "?full=true", "logo", http.StatusUnprocessableEntity, "UNSUPPORTED"},
		{"rasterizer failure", failing, 0, "", "logo", http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.rasterizer
			if r == nil {
				r = solidRasterizer()
			}
			s := newTestServer(t, r, config.ServerConfig{MaxBodyBytes: tt.maxBody})
			rec := do(s, http.MethodPost, "/v1/render"+tt.query, tt.body, nil)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			got := decodeError(t, rec)
			if got.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.RequestID == "" {
				t.Error("error body has no request ID")
			}
		})
	}
}

func TestRenderMethodNotAllowed(t *testing.T) {
	s := newTestServer(t, solidRasterizer(), config.ServerConfig{})
	rec := do(s, http.MethodGet, "/v1/render", "", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestParseOptions(t *testing.T) {
	base := pipeline.DefaultOptions()
	q, _ := url.ParseQuery("format=png&pixel-width=32&tolerance=0&prune-studs=1&title-fraction=0.5&palette=4&palette-method=kmeans&mode=2x2")

	got, err := parseOptions(q, base)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Formats) != 1 || got.Formats[0] != pipeline.FormatPNG {
		t.Errorf("Formats = %v, want [png]", got.Formats)
	}
	if got.PixelWidth != 32 {
		t.Errorf("PixelWidth = %d, want 32", got.PixelWidth)
	}
	if got.Tolerance != 0 {
		t.Errorf("Tolerance = %d, want 0", got.Tolerance)
	}
	if !got.PruneStuds {
		t.Error("PruneStuds should be set")
	}
	if got.TitleFraction != 0.5 {
		t.Errorf("TitleFraction = %v, want 0.5", got.TitleFraction)
	}
	if got.Palette != 4 || got.PaletteMethod != "kmeans" {
		t.Errorf("palette = %d/%q, want 4/kmeans", got.Palette, got.PaletteMethod)
	}
	if got.Mode != "2x2" {
		t.Errorf("Mode = %q, want 2x2", got.Mode)
	}
	if got.BlockWidth != base.BlockWidth {
		t.Errorf("BlockWidth = %d, want base %d", got.BlockWidth, base.BlockWidth)
	}
}
