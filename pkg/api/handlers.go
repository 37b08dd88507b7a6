package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/gridkit/pkg/buildinfo"
	"github.com/matzehuels/gridkit/pkg/cache"
	"github.com/matzehuels/gridkit/pkg/errors"
	"github.com/matzehuels/gridkit/pkg/grid"
	"github.com/matzehuels/gridkit/pkg/pipeline"
	"github.com/matzehuels/gridkit/pkg/preset"
)

// =============================================================================
// Health
// =============================================================================

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: buildinfo.Version})
}

// =============================================================================
// Render
// =============================================================================

// handleRenderQuery renders from query parameters:
// viewport (required), zoom, type, format, width, height, background,
// grid_size, refresh.
func (s *Server) handleRenderQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	raw := q.Get("viewport")
	if raw == "" {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidViewport, "viewport is required"))
		return
	}
	vp, err := grid.ParseViewport(raw)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := pipeline.Options{Viewport: vp, GridType: grid.GridType(q.Get("type"))}
	if opts.Zoom, err = floatParam(q, "zoom", errors.ErrCodeInvalidZoom); err != nil {
		s.writeError(w, r, err)
		return
	}
	if opts.GridSize, err = floatParam(q, "grid_size", errors.ErrCodeInvalidInput); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := applyOutputParams(&opts, q); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.render(w, r, opts)
}

// handleRenderBody renders from a JSON pipeline.Options body. Exactly one
// format may be requested.
func (s *Server) handleRenderBody(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	if err := decodeBody(w, r, &opts); err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(opts.Formats) > 1 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidFormat, "one format per request, got %d", len(opts.Formats)))
		return
	}
	s.render(w, r, opts)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, opts pipeline.Options) {
	if opts.Theme == (grid.Theme{}) {
		opts.Theme = s.opts.Theme
	}
	if opts.Background == "" {
		opts.Background = s.opts.Background
	}
	if len(opts.Formats) == 0 {
		opts.Formats = []string{pipeline.FormatSVG}
	}
	opts.Logger = s.log

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	format := strings.ToLower(strings.TrimSpace(opts.Formats[0]))
	artifactKey := s.runner.Keyer.ArtifactKey(result.OverlayHash, opts.ArtifactKeyOpts(format))
	etag := fmt.Sprintf(`"%s-%s"`, cache.Hash([]byte(artifactKey))[:16], format)

	h := w.Header()
	h.Set("Content-Type", pipeline.ContentTypes[format])
	h.Set("ETag", etag)
	h.Set("Cache-Control", "public, max-age=86400")
	h.Set("X-Grid-Elements", strconv.Itoa(result.Stats.Elements))
	if result.CacheInfo.RenderHit {
		h.Set("X-Cache", "HIT")
	} else {
		h.Set("X-Cache", "MISS")
	}

	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

// applyOutputParams reads format, width, height, background and refresh.
func applyOutputParams(opts *pipeline.Options, q url.Values) error {
	if f := q.Get("format"); f != "" {
		if strings.Contains(f, ",") {
			return errors.New(errors.ErrCodeInvalidFormat, "one format per request")
		}
		opts.Formats = []string{f}
	}
	var err error
	if opts.Width, err = floatParam(q, "width", errors.ErrCodeInvalidSize); err != nil {
		return err
	}
	if opts.Height, err = floatParam(q, "height", errors.ErrCodeInvalidSize); err != nil {
		return err
	}
	if bg := q.Get("background"); bg != "" {
		opts.Background = bg
	}
	if class := q.Get("class"); class != "" {
		opts.Class = class
	}
	if opts.Refresh, err = boolParam(q, "refresh", opts.Refresh); err != nil {
		return err
	}
	if opts.Summary, err = boolParam(q, "summary", opts.Summary); err != nil {
		return err
	}
	return nil
}

// boolParam parses an optional boolean query parameter, returning def when
// it is absent.
func boolParam(q url.Values, name string, def bool) (bool, error) {
	v := q.Get(name)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid %s %q", name, v)
	}
	return b, nil
}

func floatParam(q url.Values, name string, code errors.Code) (float64, error) {
	v := q.Get(name)
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errors.Wrap(code, err, "invalid %s %q", name, v)
	}
	return f, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}

// =============================================================================
// Presets
// =============================================================================

type presetList struct {
	Presets []*preset.Preset `json:"presets"`
}

func (s *Server) handleListPresets(w http.ResponseWriter, r *http.Request) {
	presets, err := s.presets.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if presets == nil {
		presets = []*preset.Preset{}
	}
	writeJSON(w, http.StatusOK, presetList{Presets: presets})
}

func (s *Server) handleSavePreset(w http.ResponseWriter, r *http.Request) {
	var p preset.Preset
	if err := decodeBody(w, r, &p); err != nil {
		s.writeError(w, r, err)
		return
	}
	// Identity is assigned by the store.
	p.ID = ""
	if err := s.presets.Save(r.Context(), &p); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/v1/presets/"+url.PathEscape(p.Name))
	writeJSON(w, http.StatusCreated, &p)
}

func (s *Server) handleGetPreset(w http.ResponseWriter, r *http.Request) {
	p, err := s.presets.GetByName(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeletePreset(w http.ResponseWriter, r *http.Request) {
	if err := s.presets.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRenderPreset(w http.ResponseWriter, r *http.Request) {
	p, err := s.presets.GetByName(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts := p.Options()
	if err := applyOutputParams(&opts, r.URL.Query()); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.render(w, r, opts)
}
