package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/rook-computer/dyncover/internal/cover"
	"github.com/rook-computer/dyncover/internal/render"
)

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

// coverRequest is the POST /cover body. Settings is decoded on top of the
// server defaults.
type coverRequest struct {
	Title      string          `json:"title"`
	Author     string          `json:"author"`
	CallNumber string          `json:"callNumber"`
	Settings   json.RawMessage `json:"settings,omitempty"`
}

// Query parameters of GET /cover that are not settings.
var itemParams = map[string]bool{
	"title":      true,
	"author":     true,
	"callnumber": true,
	"callNumber": true,
}

func apiV1Router(deps APIV1Deps) http.Handler {
	deps = deps.withDefaults()
	mux := http.NewServeMux()
	mux.HandleFunc("/health", handleHealth)
	mux.HandleFunc("/settings", func(w http.ResponseWriter, r *http.Request) { handleSettings(w, r, deps) })
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) { handleStatus(w, r, deps) })
	mux.HandleFunc("/cover", func(w http.ResponseWriter, r *http.Request) { handleCover(w, r, deps) })
	return mux
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func handleSettings(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, deps.Settings)
}

func handleStatus(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	if deps.Stats == nil {
		writeAPIError(w, http.StatusNotImplemented, "not_implemented", "stats not configured")
		return
	}
	writeJSON(w, http.StatusOK, deps.Stats.Snapshot())
}

func handleCover(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	var (
		item     cover.Item
		settings cover.Settings
		err      error
	)
	switch r.Method {
	case http.MethodGet:
		item, settings, err = coverFromQuery(r, deps.Settings)
	case http.MethodPost:
		item, settings, err = coverFromBody(w, r, deps)
	default:
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeAPIError(w, http.StatusRequestEntityTooLarge, "body_too_large", err.Error())
			return
		}
		writeAPIError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	gen, err := cover.NewGenerator(settings, deps.Fonts, deps.Factory)
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_settings", err.Error())
		return
	}
	gen.Logger = deps.Logger

	res, err := gen.Render(item)
	if err != nil {
		if errors.Is(err, render.ErrCanvasSize) {
			writeAPIError(w, http.StatusBadRequest, "invalid_settings", err.Error())
			return
		}
		deps.Logger.Errorf("web", "render cover %q: %v", item.Title, err)
		if deps.Stats != nil {
			deps.Stats.RecordFailure(err)
		}
		writeAPIError(w, http.StatusInternalServerError, "render_failed", err.Error())
		return
	}

	if deps.Stats != nil {
		deps.Stats.RecordRender(res.Report.Skipped())
	}

	h := w.Header()
	h.Set("Content-Type", "image/png")
	h.Set("Content-Length", strconv.Itoa(len(res.PNG)))
	h.Set("X-Cover-Seed", strconv.FormatInt(res.Seed, 10))
	if res.Pattern != "" {
		h.Set("X-Cover-Pattern", res.Pattern)
	}
	if item.Title != "" || item.CallNumber != "" {
		h.Set("Cache-Control", "public, max-age=86400")
	} else {
		h.Set("Cache-Control", "no-store")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.PNG)
}

// coverFromQuery reads the item from title, author and callnumber; every
// other parameter must name a setting.
func coverFromQuery(r *http.Request, base cover.Settings) (cover.Item, cover.Settings, error) {
	q := r.URL.Query()
	item := cover.Item{
		Title:      q.Get("title"),
		Author:     q.Get("author"),
		CallNumber: q.Get("callnumber"),
	}
	if item.CallNumber == "" {
		item.CallNumber = q.Get("callNumber")
	}

	overrides := make(map[string]string)
	for key, values := range q {
		if itemParams[key] {
			continue
		}
		if !cover.IsKey(key) {
			return item, base, errors.New("unknown parameter " + strconv.Quote(key))
		}
		overrides[key] = values[len(values)-1]
	}
	settings, err := base.ApplyOverrides(overrides)
	return item, settings, err
}

func coverFromBody(w http.ResponseWriter, r *http.Request, deps APIV1Deps) (cover.Item, cover.Settings, error) {
	ct := r.Header.Get("Content-Type")
	if ct != "" && !strings.HasPrefix(ct, "application/json") {
		return cover.Item{}, deps.Settings, errors.New("content type must be application/json")
	}
	var req coverRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, deps.MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return cover.Item{}, deps.Settings, err
	}
	settings, err := deps.Settings.Merge(req.Settings)
	if err != nil {
		return cover.Item{}, deps.Settings, err
	}
	item := cover.Item{Title: req.Title, Author: req.Author, CallNumber: req.CallNumber}
	return item, settings, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, apiError{Error: code, Message: message})
}
