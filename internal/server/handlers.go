package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jplusplus/nwcharts/pkg/buildinfo"
	"github.com/jplusplus/nwcharts/pkg/cache"
	"github.com/jplusplus/nwcharts/pkg/chart"
	"github.com/jplusplus/nwcharts/pkg/errors"
	"github.com/jplusplus/nwcharts/pkg/pipeline"
	"github.com/jplusplus/nwcharts/pkg/render"
	"github.com/jplusplus/nwcharts/pkg/style"
)

// ChartResponse is the body of POST /v1/charts.
type ChartResponse struct {
	ID        string            `json:"id"`
	Chart     string            `json:"chart"`
	Width     float64           `json:"width"`
	Height    float64           `json:"height"`
	Locations map[string]string `json:"locations"`
	Cached    []string          `json:"cached,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleStyles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"styles": style.Builtins()})
}

func (s *Server) handleTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"types": chart.Types()})
}

// handleRender renders one format and writes the file.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = render.FormatPNG
	}
	f, err := render.NormalizeFormat(format)
	if err != nil {
		s.writeError(w, err)
		return
	}
	opts.Formats = []string{f}

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	mime, err := render.MIMEType(f)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", mime)
	w.Header().Set("X-Cache", cacheStatus(res.CacheInfo.AllHit()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[f])
}

// handleCreateChart renders, saves under a new id and keeps the definition.
func (s *Server) handleCreateChart(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if fs := r.URL.Query().Get("formats"); fs != "" {
		opts.Formats = strings.Split(fs, ",")
	}
	id := uuid.NewString()
	opts.Key = id

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.runner.Cache.Set(r.Context(), s.runner.Keyer.DefinitionKey(id), opts.Definition, cache.TTLDefinition); err != nil {
		s.logger.Warn("could not keep definition", "id", id, "error", err)
	}
	writeJSON(w, http.StatusCreated, ChartResponse{
		ID:        id,
		Chart:     res.Kind,
		Width:     res.Width,
		Height:    res.Height,
		Locations: res.Locations,
		Cached:    res.CacheInfo.Hits,
	})
}

// handleGetChart returns a definition kept by handleCreateChart.
func (s *Server) handleGetChart(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		s.writeError(w, errors.New(errors.ErrCodeNotFound, "no chart %q", id))
		return
	}
	data, ok, err := s.runner.Cache.Get(r.Context(), s.runner.Keyer.DefinitionKey(id))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !ok {
		s.writeError(w, errors.New(errors.ErrCodeNotFound, "no chart %q", id))
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// options reads the body and query parameters of a render request.
func (s *Server) options(w http.ResponseWriter, r *http.Request) (pipeline.Options, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		return pipeline.Options{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read definition")
	}
	q := r.URL.Query()
	opts := pipeline.Options{
		Definition: body,
		Kind:       q.Get("chart"),
		Style:      q.Get("style"),
		Language:   q.Get("language"),
		Logger:     s.logger,
	}
	if opts.Width, err = floatParam(q.Get("width")); err != nil {
		return opts, err
	}
	if opts.Height, err = floatParam(q.Get("height")); err != nil {
		return opts, err
	}
	if opts.Factor, err = floatParam(q.Get("factor")); err != nil {
		return opts, err
	}
	if opts.Transparent, err = boolParam(q.Get("transparent")); err != nil {
		return opts, err
	}
	if opts.Refresh, err = boolParam(q.Get("refresh")); err != nil {
		return opts, err
	}
	return opts, nil
}

func floatParam(v string) (float64, error) {
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "not a number: %q", v)
	}
	return f, nil
}

func boolParam(v string) (bool, error) {
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeInvalidInput, err, "not a boolean: %q", v)
	}
	return b, nil
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

// statusCode maps error codes to HTTP statuses.
func statusCode(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidLanguage, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidStyle, errors.ErrCodeInvalidChartType, errors.ErrCodeInvalidUnits,
		errors.ErrCodeInvalidKey, errors.ErrCodeInvalidBaseMap, errors.ErrCodeDuplicateTime,
		errors.ErrCodeStyleNotFound, errors.ErrCodeRegionNotFound:
		return http.StatusBadRequest
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case errors.ErrCodeStorage, errors.ErrCodeNetwork:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusCode(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, errorResponse{
		Error: errors.UserMessage(err),
		Code:  string(errors.GetCode(err)),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
