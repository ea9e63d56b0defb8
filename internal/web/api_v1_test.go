package web

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rook-computer/dyncover/internal/cover"
	"github.com/rook-computer/dyncover/internal/state"
	"github.com/rook-computer/dyncover/internal/theme"
)

func newTestMux() http.Handler {
	return NewDefaultMux(APIV1Config{})
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apiError {
	t.Helper()
	var e apiError
	if err := json.Unmarshal(rec.Body.Bytes(), &e); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return e
}

func TestHealth(t *testing.T) {
	h := newTestMux()
	rec := do(t, h, http.MethodGet, "/api/v1/health", "")
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != `{"ok":true}` {
		t.Fatalf("GET health: %d %s", rec.Code, rec.Body.String())
	}
	if rec := do(t, h, http.MethodPost, "/api/v1/health", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST health: %d", rec.Code)
	}
}

func TestSettings(t *testing.T) {
	rec := do(t, newTestMux(), http.MethodGet, "/api/v1/settings", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var got cover.Settings
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(cover.DefaultSettings(), got); diff != "" {
		t.Fatalf("settings mismatch (-want +got):\n%s", diff)
	}
}

func TestCoverGet(t *testing.T) {
	rec := do(t, newTestMux(), http.MethodGet, "/api/v1/cover?title=The+Hobbit&author=J.+R.+R.+Tolkien", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("content type %q", ct)
	}
	if seed := rec.Header().Get("X-Cover-Seed"); seed != "921" {
		t.Errorf("seed header %q", seed)
	}
	if p := rec.Header().Get("X-Cover-Pattern"); p != "1110011001100110" {
		t.Errorf("pattern header %q", p)
	}
	if cc := rec.Header().Get("Cache-Control"); !strings.HasPrefix(cc, "public") {
		t.Errorf("cache control %q", cc)
	}
	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 84 || b.Dy() != 84 {
		t.Fatalf("bounds %v", b)
	}
}

func TestCoverGetOverrides(t *testing.T) {
	rec := do(t, newTestMux(), http.MethodGet, "/api/v1/cover?title=Emma&size=120&mode=solid&accentColor=navy", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Cover-Pattern") != "" {
		t.Error("solid cover reported a pattern")
	}
	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 120 {
		t.Fatalf("bounds %v", b)
	}
	if r, g, b, _ := img.At(0, 0).RGBA(); r != 0 || g != 0 || b>>8 != 128 {
		t.Fatalf("corner = %d,%d,%d, want navy", r>>8, g>>8, b>>8)
	}
}

func TestCoverGetErrors(t *testing.T) {
	tests := []struct {
		query string
		code  string
	}{
		{"title=Emma&colour=red", "invalid_request"},
		{"title=Emma&fontSize=big", "invalid_request"},
		{"title=Emma&maxLines=0", "invalid_settings"},
		{"title=Emma&size=0", "invalid_settings"},
		{"title=Emma&size=5000", "invalid_settings"},
	}
	h := newTestMux()
	for _, tc := range tests {
		rec := do(t, h, http.MethodGet, "/api/v1/cover?"+tc.query, "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status %d", tc.query, rec.Code)
			continue
		}
		if e := decodeError(t, rec); e.Error != tc.code || e.Message == "" {
			t.Errorf("%s: error %+v, want %s", tc.query, e, tc.code)
		}
	}
}

func TestCoverFontSizeBound(t *testing.T) {
	h := newTestMux()
	for _, size := range []string{"257", "1000", "1000000"} {
		rec := do(t, h, http.MethodGet, "/api/v1/cover?author=J.R.R.+Tolkien&fontSize="+size, "")
		if rec.Code != http.StatusBadRequest || decodeError(t, rec).Error != "invalid_settings" {
			t.Errorf("fontSize=%s: %d %s", size, rec.Code, rec.Body.String())
		}
	}
	rec := do(t, h, http.MethodPost, "/api/v1/cover", `{"author":"J.R.R. Tolkien","settings":{"fontSize":1000}}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("POST fontSize=1000: %d", rec.Code)
	}

	rec = do(t, h, http.MethodGet, "/api/v1/cover?author=J.R.R.+Tolkien&fontSize="+strconv.Itoa(cover.MaxFontSize), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("fontSize=%d: %d %s", cover.MaxFontSize, rec.Code, rec.Body.String())
	}
}

func TestCoverPostMatchesGet(t *testing.T) {
	h := newTestMux()
	get := do(t, h, http.MethodGet, "/api/v1/cover?title=Dune&author=Frank+Herbert&callnumber=PS3558.E63&fontSize=8", "")
	post := do(t, h, http.MethodPost, "/api/v1/cover",
		`{"title":"Dune","author":"Frank Herbert","callNumber":"PS3558.E63","settings":{"fontSize":8}}`)
	if get.Code != http.StatusOK || post.Code != http.StatusOK {
		t.Fatalf("status get=%d post=%d: %s", get.Code, post.Code, post.Body.String())
	}
	if !bytes.Equal(get.Body.Bytes(), post.Body.Bytes()) {
		t.Fatal("GET and POST rendered different covers")
	}
}

func TestCoverPostErrors(t *testing.T) {
	h := newTestMux()
	tests := []struct {
		body   string
		status int
	}{
		{`{"title":"Emma","isbn":"123"}`, http.StatusBadRequest},
		{`{"title":"Emma","settings":{"colour":"red"}}`, http.StatusBadRequest},
		{`{"title":`, http.StatusBadRequest},
		{`{"title":"` + strings.Repeat("x", 70<<10) + `"}`, http.StatusRequestEntityTooLarge},
	}
	for _, tc := range tests {
		rec := do(t, h, http.MethodPost, "/api/v1/cover", tc.body)
		if rec.Code != tc.status {
			t.Errorf("body %.40q: status %d, want %d", tc.body, rec.Code, tc.status)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cover", strings.NewReader("title=Emma"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("form body: status %d", rec.Code)
	}
}

func TestCoverMethodAndPath(t *testing.T) {
	h := newTestMux()
	if rec := do(t, h, http.MethodPut, "/api/v1/cover", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("PUT: %d", rec.Code)
	}
	rec := do(t, h, http.MethodGet, "/nope", "")
	if rec.Code != http.StatusNotFound || decodeError(t, rec).Error != "not_found" {
		t.Errorf("unknown path: %d %s", rec.Code, rec.Body.String())
	}
}

func TestCoverWithoutIdentifiersIsNotCached(t *testing.T) {
	rec := do(t, newTestMux(), http.MethodGet, "/api/v1/cover?author=Anonymous", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "no-store" {
		t.Fatalf("cache control %q", cc)
	}
}

func TestDevCORS(t *testing.T) {
	h := WithDevCORS(newTestMux())
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/cover", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight status %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("allow origin %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/cover?title=Emma", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Header().Get("Access-Control-Expose-Headers"), "X-Cover-Seed") {
		t.Fatalf("cover with origin: %d %v", rec.Code, rec.Header())
	}

	rec = do(t, h, http.MethodGet, "/api/v1/health", "")
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("request without origin got allow origin %q", got)
	}
}

func TestHTTPServerLifecycle(t *testing.T) {
	s := NewHTTPServer(ServerConfig{ListenAddr: "127.0.0.1:0"})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := s.Start(ctx); err != nil {
		t.Fatal(err)
	}
	resp, err := http.Get("http://" + s.ListenAddr() + "/api/v1/health")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health status %d", resp.StatusCode)
	}
	if err := s.Stop(); err != nil {
		t.Fatal(err)
	}
	if err := s.Start(ctx); err == nil {
		t.Fatal("restart after Stop succeeded")
	}
}

func TestDefaultServerConfigFromEnv(t *testing.T) {
	t.Setenv(EnvListenAddr, "")
	t.Setenv(EnvDevMode, "true")
	t.Setenv(EnvThemesDir, "/srv/themes")
	t.Setenv(EnvTheme, "bootstrap5")
	cfg, err := DefaultServerConfigFromEnv(":9000")
	if err != nil {
		t.Fatal(err)
	}
	want := ServerConfig{ListenAddr: ":9000", DevMode: true, ThemesDir: "/srv/themes", Theme: "bootstrap5"}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}

	t.Setenv(EnvDevMode, "maybe")
	if _, err := DefaultServerConfigFromEnv(":9000"); err == nil {
		t.Fatal("invalid bool accepted")
	}
}

func TestStatus(t *testing.T) {
	stats := state.NewStore()
	fonts := theme.NewResolver("", "")
	fonts.Fallback = ""
	h := NewDefaultMux(APIV1Config{Deps: APIV1Deps{Stats: stats, Fonts: fonts}})

	if rec := do(t, h, http.MethodGet, "/api/v1/cover?title=Emma&author=Jane+Austen", ""); rec.Code != http.StatusOK {
		t.Fatalf("cover status %d", rec.Code)
	}
	rec := do(t, h, http.MethodGet, "/api/v1/status", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var got struct {
		Phase   string `json:"phase"`
		Renders struct {
			Rendered int64            `json:"rendered"`
			Skipped  map[string]int64 `json:"skipped"`
		} `json:"renders"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	// Without a fallback the default font is missing, so title and author
	// are skipped.
	if got.Phase != "booting" || got.Renders.Rendered != 1 || got.Renders.Skipped["skipped: no font"] != 2 {
		t.Fatalf("status body: %s", rec.Body.String())
	}

	if rec := do(t, newTestMux(), http.MethodGet, "/api/v1/status", ""); rec.Code != http.StatusNotImplemented {
		t.Fatalf("status without store: %d", rec.Code)
	}
}
