// Package server exposes the launch dashboard over HTTP: the HTML page, a JSON
// API, SVG charts and a WebSocket that recomputes views as controls change.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/a-h/templ"
	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"spacex-dash/charts"
	"spacex-dash/launches"
	"spacex-dash/templates"
)

const pageTitle = "SpaceX Launch Records Dashboard"

// DatasetLoader produces a fresh dataset for reloads.
type DatasetLoader interface {
	Load(ctx context.Context) (*launches.Dataset, error)
}

type Options struct {
	Policy         launches.Policy
	Charts         charts.Options
	SliderStep     float64
	AllowedOrigins []string
}

// Server serves one dataset at a time. Reload swaps in a new dataset without
// touching the old one, so requests in flight keep a consistent view.
type Server struct {
	data   atomic.Pointer[launches.Dataset]
	loader DatasetLoader
	opts   Options
	log    *zap.Logger
	hub    *hub
	router chi.Router
}

// New wires the routes around ds. loader may be nil, in which case reloads fail.
func New(ds *launches.Dataset, loader DatasetLoader, opts Options, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Charts.Width == 0 || opts.Charts.Height == 0 {
		opts.Charts = charts.DefaultOptions
	}
	if opts.SliderStep <= 0 {
		opts.SliderStep = 1000
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}

	s := &Server{loader: loader, opts: opts, log: log}
	s.data.Store(ds)
	s.hub = newHub(s)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/", s.index)
	r.Get("/healthz", s.healthz)
	r.Get("/fragments/charts", s.chartsFragment)
	r.Get("/charts/pie.svg", s.pieSVG)
	r.Get("/charts/scatter.svg", s.scatterSVG)
	r.Get("/ws/controls", s.hub.ServeHTTP)
	r.Route("/api", func(r chi.Router) {
		r.Get("/view", s.view)
		r.Get("/sites", s.sites)
		r.Get("/dataset", s.dataset)
		r.Post("/reload", s.reload)
	})
	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Dataset returns the dataset currently being served.
func (s *Server) Dataset() *launches.Dataset {
	return s.data.Load()
}

// Reload loads a new dataset. On failure the current dataset stays in place.
func (s *Server) Reload(ctx context.Context) error {
	if s.loader == nil {
		return errors.New("no dataset loader configured")
	}
	ds, err := s.loader.Load(ctx)
	if err != nil {
		s.log.Error("dataset reload failed, keeping previous dataset", zap.Error(err))
		return err
	}
	s.data.Store(ds)
	s.log.Info("dataset reloaded", zap.Int("records", ds.Len()))
	return nil
}

// Close drops every WebSocket client.
func (s *Server) Close() {
	s.hub.closeAll()
}

// Compute recomputes the view for cs against the current dataset.
func (s *Server) Compute(cs launches.ControlState) launches.View {
	return launches.Compute(s.Dataset(), cs, s.opts.Policy)
}

// renderCharts returns both charts of v as SVG markup.
func (s *Server) renderCharts(v launches.View) (string, string, error) {
	var pie, scatter bytes.Buffer
	if err := charts.Pie(&pie, v, s.opts.Charts); err != nil {
		return "", "", fmt.Errorf("render pie: %w", err)
	}
	if err := charts.Scatter(&scatter, v, s.opts.Charts); err != nil {
		return "", "", fmt.Errorf("render scatter: %w", err)
	}
	return pie.String(), scatter.String(), nil
}

func (s *Server) chartsData(v launches.View) (templates.ChartsData, error) {
	pie, scatter, err := s.renderCharts(v)
	if err != nil {
		return templates.ChartsData{}, err
	}
	return templates.ChartsData{
		PieTitle:     v.PieTitle,
		PieSVG:       pie,
		PieNoData:    v.PieNoData,
		ScatterTitle: v.ScatterTitle,
		ScatterSVG:   scatter,
		Points:       len(v.Points),
	}, nil
}

// --- controls ---------------------------------------------------------------

// parseControls reads site, min and max from the query string. Missing bounds
// default to the dataset bounds and out-of-range bounds are clamped.
func parseControls(r *http.Request, ds *launches.Dataset) (launches.ControlState, error) {
	q := r.URL.Query()
	cs := launches.DefaultControls(ds)

	if site := strings.TrimSpace(q.Get("site")); site != "" {
		cs.Site = site
	}
	cs.Search = q.Get("q")

	if v := q.Get("min"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cs, fmt.Errorf("min: %w", err)
		}
		cs.Payload.Low = f
	}
	if v := q.Get("max"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cs, fmt.Errorf("max: %w", err)
		}
		cs.Payload.High = f
	}
	return cs.Normalize(ds)
}

func toTemplateOptions(opts []launches.SiteOption) []templates.SiteOption {
	out := make([]templates.SiteOption, len(opts))
	for i, o := range opts {
		out[i] = templates.SiteOption{Label: o.Label, Value: o.Value}
	}
	return out
}

// --- route handlers ---------------------------------------------------------

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	ds := s.Dataset()
	cs, err := parseControls(r, ds)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	chartsData, err := s.chartsData(launches.Compute(ds, cs, s.opts.Policy))
	if err != nil {
		s.log.Error("render dashboard charts", zap.Error(err))
		http.Error(w, "could not render charts", http.StatusInternalServerError)
		return
	}

	data := templates.DashboardPageData{
		Title:       pageTitle,
		RecordCount: ds.Len(),
		Options:     toTemplateOptions(launches.SearchSites(ds, cs.Search)),
		Selected:    cs.Site,
		Slider: templates.SliderData{
			Min:     ds.MinPayload(),
			Max:     ds.MaxPayload(),
			Step:    s.opts.SliderStep,
			Low:     cs.Payload.Low,
			High:    cs.Payload.High,
			MinMark: humanize.Comma(int64(ds.MinPayload())),
			MaxMark: humanize.Comma(int64(ds.MaxPayload())),
		},
		Charts: chartsData,
	}
	templ.Handler(templates.DashboardPage(data)).ServeHTTP(w, r)
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	jsonResp(w, http.StatusOK, map[string]any{"status": "ok", "records": s.Dataset().Len()})
}

func (s *Server) chartsFragment(w http.ResponseWriter, r *http.Request) {
	ds := s.Dataset()
	cs, err := parseControls(r, ds)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	data, err := s.chartsData(launches.Compute(ds, cs, s.opts.Policy))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	templ.Handler(templates.ChartsFragment(data)).ServeHTTP(w, r)
}

func (s *Server) pieSVG(w http.ResponseWriter, r *http.Request) {
	s.svg(w, r, charts.Pie)
}

func (s *Server) scatterSVG(w http.ResponseWriter, r *http.Request) {
	s.svg(w, r, charts.Scatter)
}

func (s *Server) svg(w http.ResponseWriter, r *http.Request, render func(io.Writer, launches.View, charts.Options) error) {
	ds := s.Dataset()
	cs, err := parseControls(r, ds)
	if err != nil {
		jsonErr(w, http.StatusBadRequest, err.Error())
		return
	}
	var buf bytes.Buffer
	if err := render(&buf, launches.Compute(ds, cs, s.opts.Policy), s.opts.Charts); err != nil {
		jsonErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(buf.Bytes()) //nolint:errcheck
}

func (s *Server) view(w http.ResponseWriter, r *http.Request) {
	ds := s.Dataset()
	cs, err := parseControls(r, ds)
	if err != nil {
		jsonErr(w, http.StatusBadRequest, err.Error())
		return
	}
	jsonResp(w, http.StatusOK, launches.Compute(ds, cs, s.opts.Policy))
}

func (s *Server) sites(w http.ResponseWriter, r *http.Request) {
	jsonResp(w, http.StatusOK, launches.SearchSites(s.Dataset(), r.URL.Query().Get("q")))
}

// DatasetResponse describes the dataset behind the controls.
type DatasetResponse struct {
	Records    int               `json:"records"`
	MinPayload float64           `json:"min_payload"`
	MaxPayload float64           `json:"max_payload"`
	SliderStep float64           `json:"slider_step"`
	Marks      map[string]string `json:"marks"`
	Sites      []string          `json:"sites"`
	Policy     launches.Policy   `json:"policy"`
}

func (s *Server) dataset(w http.ResponseWriter, r *http.Request) {
	ds := s.Dataset()
	lo, hi := int64(ds.MinPayload()), int64(ds.MaxPayload())
	jsonResp(w, http.StatusOK, DatasetResponse{
		Records:    ds.Len(),
		MinPayload: ds.MinPayload(),
		MaxPayload: ds.MaxPayload(),
		SliderStep: s.opts.SliderStep,
		Marks: map[string]string{
			strconv.FormatInt(lo, 10): strconv.FormatInt(lo, 10),
			strconv.FormatInt(hi, 10): strconv.FormatInt(hi, 10),
		},
		Sites:  ds.Sites(),
		Policy: s.opts.Policy,
	})
}

func (s *Server) reload(w http.ResponseWriter, r *http.Request) {
	if err := s.Reload(r.Context()); err != nil {
		jsonErr(w, http.StatusBadGateway, err.Error())
		return
	}
	jsonResp(w, http.StatusOK, map[string]any{"status": "reloaded", "records": s.Dataset().Len()})
}

// --- helpers ----------------------------------------------------------------

func jsonResp(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, status int, msg string) {
	jsonResp(w, status, map[string]string{"error": msg})
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Debug("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
