package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/df07/go-band-raytracer/pkg/config"
	"github.com/df07/go-band-raytracer/pkg/ppm"
	"github.com/df07/go-band-raytracer/pkg/scene"
)

// fakePublisher records published images
type fakePublisher struct {
	names []string
	sizes []int
	err   error
}

func (f *fakePublisher) Publish(ctx context.Context, name string, data []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.names = append(f.names, name)
	f.sizes = append(f.sizes, len(data))
	return "renders/" + name, nil
}

func newTestServer(publisher Publisher) http.Handler {
	return NewServer(0, config.Default(), publisher).Handler()
}

func get(t *testing.T, handler http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	rec := get(t, newTestServer(nil), "/api/health")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("Expected status ok, got %q", body["status"])
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("Expected CORS header")
	}
}

func TestHandleScenes(t *testing.T) {
	rec := get(t, newTestServer(nil), "/api/scenes")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var scenes []scene.SceneInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &scenes); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if len(scenes) != len(scene.Names()) {
		t.Fatalf("Expected %d scenes, got %d", len(scene.Names()), len(scenes))
	}
	found := false
	for _, info := range scenes {
		if info.ID == "default" {
			found = true
			if info.Primitives != 4 {
				t.Errorf("Expected 4 primitives in default scene, got %d", info.Primitives)
			}
		}
	}
	if !found {
		t.Error("Default scene not listed")
	}
}

func TestHandleRender(t *testing.T) {
	rec := get(t, newTestServer(nil), "/api/render?scene=single&width=20&samples=2&depth=3&bands=4&seed=1")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != ppm.ContentType {
		t.Errorf("Expected content type %s, got %s", ppm.ContentType, ct)
	}
	body := rec.Body.String()
	if !strings.HasPrefix(body, "P3\n20 11\n255\n") {
		t.Errorf("Unexpected PPM header %q", body[:min(len(body), 20)])
	}
	if lines := strings.Count(body, "\n"); lines != 3+20*11 {
		t.Errorf("Expected %d lines, got %d", 3+20*11, lines)
	}
	if rec.Header().Get(RenderKeyHeader) != "" {
		t.Error("Expected no render key without a publisher")
	}
	if rec.Header().Get("X-Render-Id") == "" {
		t.Error("Expected a render ID header")
	}
}

func TestHandleRender_MatchesAcrossBandCounts(t *testing.T) {
	handler := newTestServer(nil)
	one := get(t, handler, "/api/render?width=20&samples=2&depth=4&bands=1&seed=3")
	four := get(t, handler, "/api/render?width=20&samples=2&depth=4&bands=4&seed=3")

	if one.Code != http.StatusOK || four.Code != http.StatusOK {
		t.Fatalf("Expected 200s, got %d and %d", one.Code, four.Code)
	}
	if one.Body.String() != four.Body.String() {
		t.Error("Image depends on band count")
	}
}

func TestHandleRender_BadRequests(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"non-numeric width", "width=abc"},
		{"width too small", "width=1"},
		{"zero samples", "samples=0&width=20"},
		{"negative depth", "depth=-1&width=20"},
		{"negative seed", "seed=-5&width=20"},
		{"uneven bands", "width=20&bands=3"},
		{"unknown scene", "scene=cornell&width=20&samples=1"},
		{"too many samples", "width=20&samples=1001"},
		{"too deep", "width=20&depth=101"},
		{"over sample budget", "width=4096&samples=1000"},
	}

	handler := newTestServer(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, handler, "/api/render?"+tt.query)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body["error"] == "" {
				t.Errorf("Expected JSON error body, got %q", rec.Body.String())
			}
		})
	}
}

func TestHandleRender_Publishes(t *testing.T) {
	publisher := &fakePublisher{}
	rec := get(t, newTestServer(publisher), "/api/render?scene=default&width=8&samples=1&bands=2")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(publisher.names) != 1 {
		t.Fatalf("Expected one publish, got %d", len(publisher.names))
	}
	if !strings.HasPrefix(publisher.names[0], "default/") || !strings.HasSuffix(publisher.names[0], ".ppm") {
		t.Errorf("Unexpected object name %q", publisher.names[0])
	}
	if publisher.sizes[0] != rec.Body.Len() {
		t.Errorf("Published %d bytes but served %d", publisher.sizes[0], rec.Body.Len())
	}
	if key := rec.Header().Get(RenderKeyHeader); key != "renders/"+publisher.names[0] {
		t.Errorf("Expected render key header for %q, got %q", publisher.names[0], key)
	}
}

func TestHandleRender_PublishFailure(t *testing.T) {
	publisher := &fakePublisher{err: errors.New("bucket unavailable")}
	rec := get(t, newTestServer(publisher), "/api/render?width=8&samples=1&bands=2")

	if rec.Code != http.StatusBadGateway {
		t.Errorf("Expected 502, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "bucket unavailable") {
		t.Errorf("Expected publish error in body, got %q", rec.Body.String())
	}
}

func TestParseIntParam(t *testing.T) {
	tests := []struct {
		query   string
		want    int
		wantErr bool
	}{
		{"", 7, false},
		{"n=3", 3, false},
		{"n=10", 10, false},
		{"n=11", 0, true},
		{"n=0", 0, true},
		{"n=x", 0, true},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
		got, err := parseIntParam(req.URL.Query(), "n", 7, 1, 10)
		if (err != nil) != tt.wantErr {
			t.Errorf("%q: error = %v, wantErr %v", tt.query, err, tt.wantErr)
		}
		if err == nil && got != tt.want {
			t.Errorf("%q: got %d, want %d", tt.query, got, tt.want)
		}
	}
}

func TestStatusFor(t *testing.T) {
	if statusFor(config.ErrInvalid) != http.StatusBadRequest {
		t.Error("Invalid configuration should be a client error")
	}
	if statusFor(scene.ErrUnknownScene) != http.StatusBadRequest {
		t.Error("Unknown scene should be a client error")
	}
	if statusFor(scene.ErrInvalidScene) != http.StatusInternalServerError {
		t.Error("Broken built-in scene should be a server error")
	}
}
