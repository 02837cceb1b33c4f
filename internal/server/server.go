// Package server exposes the layout pipeline over HTTP.
//
// Routes:
//
//	POST   /v1/layouts                compose a topology, store the layout
//	GET    /v1/layouts/{id}           fetch a stored layout as JSON
//	GET    /v1/layouts/{id}/{format}  render a stored layout
//	DELETE /v1/layouts/{id}           forget a stored layout
//	GET    /healthz                   liveness
//
// Topologies are posted as JSON ({"topology": ..., "options": ...}) or as a
// raw TOML document with Content-Type application/toml.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	errs "github.com/matzehuels/loopgrid/pkg/errors"
	"github.com/matzehuels/loopgrid/pkg/graph"
	pkgio "github.com/matzehuels/loopgrid/pkg/io"
	"github.com/matzehuels/loopgrid/pkg/observability"
	"github.com/matzehuels/loopgrid/pkg/pipeline"
	"github.com/matzehuels/loopgrid/pkg/store"
)

// DefaultMaxBodyBytes bounds request bodies when Config.MaxBodyBytes is zero.
const DefaultMaxBodyBytes = 1 << 20

// Config holds the server dependencies.
type Config struct {
	Runner *pipeline.Runner
	Store  store.Store
	Logger *log.Logger

	// TTL is applied to stored layouts. Zero keeps them forever.
	TTL time.Duration

	// MaxBodyBytes bounds POST bodies.
	MaxBodyBytes int64

	// Defaults seeds the options of every request.
	Defaults pipeline.Options
}

// Server handles the HTTP API.
type Server struct {
	runner   *pipeline.Runner
	store    store.Store
	logger   *log.Logger
	ttl      time.Duration
	maxBody  int64
	defaults pipeline.Options
	router   chi.Router
}

// New builds a server and its routes.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.Store == nil {
		cfg.Store = store.NewMemoryStore()
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.Defaults.Unit == 0 {
		cfg.Defaults = pipeline.DefaultOptions()
	}
	s := &Server{
		runner:   cfg.Runner,
		store:    cfg.Store,
		logger:   cfg.Logger,
		ttl:      cfg.TTL,
		maxBody:  cfg.MaxBodyBytes,
		defaults: cfg.Defaults,
	}
	s.router = s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1/layouts", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Get("/{id}", s.handleGet)
		r.Get("/{id}/{format}", s.handleRender)
		r.Delete("/{id}", s.handleDelete)
	})
	return r
}

// observe logs each request and reports it to the HTTP hooks. Responses are
// reported by route pattern so ids do not explode metric cardinality.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, route, status, time.Since(start))
		s.logger.Debug("http", "method", r.Method, "route", route, "status", status,
			"duration", time.Since(start), "request_id", middleware.GetReqID(r.Context()))
	})
}

// =============================================================================
// Handlers
// =============================================================================

// createRequest is the JSON body of POST /v1/layouts.
type createRequest struct {
	Topology *pkgio.Document   `json:"topology"`
	Options  *pipeline.Options `json:"options,omitempty"`
}

// layoutResponse describes a stored layout.
type layoutResponse struct {
	ID           string            `json:"id"`
	TopologyHash string            `json:"topology_hash"`
	Name         string            `json:"name"`
	Width        int               `json:"width"`
	Height       int               `json:"height"`
	Cached       bool              `json:"cached"`
	Diagnostics  []string          `json:"diagnostics,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	ExpiresAt    time.Time         `json:"expires_at,omitzero"`
	Links        map[string]string `json:"links"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	doc, opts, err := s.decodeCreate(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	loop, err := doc.Loop()
	if err != nil {
		s.writeError(w, err)
		return
	}

	l, hit, err := s.runner.Layout(r.Context(), loop, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	hash, err := loop.Hash()
	if err != nil {
		s.writeError(w, errs.Wrap(errs.ErrCodeInternal, err, "hash topology"))
		return
	}

	rec := store.New(l, hash, s.ttl)
	if err := s.store.Put(r.Context(), rec); err != nil {
		s.writeError(w, errs.Wrap(errs.ErrCodeStore, err, "store layout"))
		return
	}
	s.logger.Info("stored layout", "id", rec.ID, "loop", loop.Name, "cached", hit)

	resp := describe(rec)
	resp.Cached = hit
	w.Header().Set("Location", "/v1/layouts/"+rec.ID)
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) decodeCreate(r *http.Request) (pkgio.Document, pipeline.Options, error) {
	opts := s.defaults
	body := http.MaxBytesReader(nil, r.Body, s.maxBody)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/toml" {
		doc, err := pkgio.ReadDocument(body, pkgio.FormatTOML)
		if err != nil {
			return pkgio.Document{}, opts, err
		}
		if err := applyQuery(&opts, r); err != nil {
			return pkgio.Document{}, opts, err
		}
		return doc, opts, opts.ValidateAndSetDefaults()
	}

	var req createRequest
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return pkgio.Document{}, opts, errs.New(errs.ErrCodeInvalidInput, "request body exceeds %d bytes", s.maxBody)
		}
		return pkgio.Document{}, opts, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode request")
	}
	if req.Topology == nil {
		return pkgio.Document{}, opts, errs.New(errs.ErrCodeInvalidInput, "topology is required")
	}
	if req.Options != nil {
		opts = *req.Options
	}
	return *req.Topology, opts, opts.ValidateAndSetDefaults()
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	rec, err := s.lookup(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		layoutResponse
		Layout graph.Layout `json:"layout"`
	}{describe(rec), rec.Layout})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, err)
		return
	}
	rec, err := s.lookup(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	opts := s.defaults
	opts.Formats = []string{format}
	if err := applyQuery(&opts, r); err != nil {
		s.writeError(w, err)
		return
	}
	artifacts, hit, err := s.runner.RenderWithCacheInfo(r.Context(), rec.Layout, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", pipeline.ContentType(format))
	w.Header().Set("X-Cache", cacheHeader(hit))
	if format != pipeline.FormatSVG && format != pipeline.FormatJSON && format != pipeline.FormatText {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", rec.ID+pipeline.Extension(format)))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := store.ValidateID(id); err != nil {
		s.writeError(w, errs.New(errs.ErrCodeNotFound, "layout %q not found", id))
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, errs.Wrap(errs.ErrCodeStore, err, "delete layout"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) lookup(r *http.Request) (*store.Record, error) {
	id := chi.URLParam(r, "id")
	if store.ValidateID(id) != nil {
		return nil, errs.New(errs.ErrCodeNotFound, "layout %q not found", id)
	}
	rec, err := s.store.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errs.New(errs.ErrCodeNotFound, "layout %q not found", id)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStore, err, "load layout")
	}
	return rec, nil
}

// =============================================================================
// Helpers
// =============================================================================

// applyQuery overlays unit, labels, containers and drop_zones query values.
func applyQuery(opts *pipeline.Options, r *http.Request) error {
	q := r.URL.Query()
	if v := q.Get("unit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return errs.New(errs.ErrCodeInvalidInput, "unit must be a positive integer, got %q", v)
		}
		opts.Unit = n
	}
	for key, dst := range map[string]*bool{
		"labels":     &opts.ShowLabels,
		"containers": &opts.Containers,
		"drop_zones": &opts.DropZones,
	} {
		v := q.Get(key)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errs.New(errs.ErrCodeInvalidInput, "%s must be a boolean, got %q", key, v)
		}
		*dst = b
	}
	return nil
}

func describe(rec *store.Record) layoutResponse {
	links := map[string]string{"self": "/v1/layouts/" + rec.ID}
	for _, f := range pipeline.Formats {
		links[f] = "/v1/layouts/" + rec.ID + "/" + f
	}
	return layoutResponse{
		ID:           rec.ID,
		TopologyHash: rec.TopologyHash,
		Name:         rec.Layout.Name,
		Width:        rec.Layout.Width,
		Height:       rec.Layout.Height,
		Diagnostics:  rec.Layout.Diagnostics,
		CreatedAt:    rec.CreatedAt,
		ExpiresAt:    rec.ExpiresAt,
		Links:        links,
	}
}

func cacheHeader(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := errs.HTTPStatus(err)
	if errs.Is(err, errs.ErrCodeMalformedTopology) {
		status = http.StatusUnprocessableEntity
	}
	if errors.Is(err, context.Canceled) {
		status = 499
	}
	if status >= 500 {
		s.logger.Error("request failed", "err", err)
	}

	var body errorBody
	body.Error.Code = string(errs.GetCode(err))
	if body.Error.Code == "" {
		body.Error.Code = string(errs.ErrCodeInternal)
	}
	body.Error.Message = errs.UserMessage(err)
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
