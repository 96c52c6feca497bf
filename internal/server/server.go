// Package server is the browser viewer: a form selecting a scene, a chart of
// its trapezoidal map and the log of the build that produced it.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/0x0FACED/go-trapmap/internal/scene"
	"github.com/0x0FACED/go-trapmap/pkg/config"
	"github.com/0x0FACED/go-trapmap/pkg/generator"
	"github.com/0x0FACED/go-trapmap/pkg/geom"
	"github.com/0x0FACED/go-trapmap/pkg/logger"
	"github.com/0x0FACED/go-trapmap/pkg/render"
	"github.com/0x0FACED/go-trapmap/pkg/trapmap"
	"github.com/0x0FACED/go-trapmap/static"
)

type Server struct {
	cfg     config.Config
	log     *logger.ZapLogger
	metrics *metrics
	router  chi.Router

	mu    sync.Mutex
	last  *scene.Scene
	runID string
}

// New wires the routes. log receives request and server records; every build
// gets its own capturing logger whose output is shown on the page.
func New(cfg config.Config, log *logger.ZapLogger) *Server {
	if log == nil {
		log = logger.NewNop()
	}
	reg := prometheus.NewRegistry()
	s := &Server{
		cfg:     cfg,
		log:     log.Named("server"),
		metrics: newMetrics(reg),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/", s.handleIndex)
	r.Post("/", s.handleIndex)
	r.Get("/dag.svg", s.handleDAGSVG)
	r.Get("/dag.dot", s.handleDAGDOT)
	r.Get("/api/locate", s.handleLocate)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	s.router = r
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("[server] listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return ctx.Err()
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("[http] request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("took", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// request is what the form submits.
type request struct {
	scene config.Scene
	query *geom.Point
	x, y  string
}

func (s *Server) parseRequest(r *http.Request) (request, error) {
	req := request{scene: s.cfg.Scene}
	// Scenes are never read from disk on behalf of a browser.
	req.scene.WKTFile = ""
	if r.Method != http.MethodPost {
		return req, nil
	}
	if err := r.ParseForm(); err != nil {
		return req, err
	}

	if g := r.FormValue("generator"); g != "" {
		req.scene.Generator = g
	}
	var err error
	if v := r.FormValue("size"); v != "" {
		if req.scene.Size, err = strconv.Atoi(v); err != nil {
			return req, fmt.Errorf("size: %w", err)
		}
	}
	if v := r.FormValue("seed"); v != "" {
		if req.scene.Seed, err = strconv.ParseInt(v, 10, 64); err != nil {
			return req, fmt.Errorf("seed: %w", err)
		}
	}

	if req.scene.Size > s.cfg.Server.MaxSize {
		return req, fmt.Errorf("size %d above the limit of %d", req.scene.Size, s.cfg.Server.MaxSize)
	}
	cfg := s.cfg
	cfg.Scene = req.scene
	if err := cfg.Validate(); err != nil {
		return req, err
	}

	req.x, req.y = strings.TrimSpace(r.FormValue("x")), strings.TrimSpace(r.FormValue("y"))
	if req.x != "" && req.y != "" {
		p, err := parsePoint(req.x, req.y)
		if err != nil {
			return req, err
		}
		req.query = &p
	}
	return req, nil
}

func parsePoint(xs, ys string) (geom.Point, error) {
	x, err := strconv.ParseFloat(xs, 64)
	if err != nil {
		return geom.Point{}, fmt.Errorf("x: %w", err)
	}
	y, err := strconv.ParseFloat(ys, 64)
	if err != nil {
		return geom.Point{}, fmt.Errorf("y: %w", err)
	}
	return geom.Point{X: x, Y: y}, nil
}

// handleIndex builds the requested scene and writes the page: form, chart and
// the captured build log.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	runID := uuid.NewString()
	buildLog, err := logger.New(logger.Options{Level: "debug"})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	buildLog = buildLog.With(zap.String("run", runID))
	defer buildLog.ClearLogs()

	sc, err := scene.Build(r.Context(), req.scene, buildLog)
	if err != nil {
		s.metrics.builds.WithLabelValues("error").Inc()
		s.log.Warn("[server] build failed", zap.String("run", runID), zap.Error(err))
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	st := sc.Structure.Stats()
	s.metrics.builds.WithLabelValues("ok").Inc()
	s.metrics.buildDuration.Observe(sc.Elapsed.Seconds())
	s.metrics.nodes.Observe(float64(st.Nodes))
	s.metrics.depth.Observe(float64(st.Depth))

	s.mu.Lock()
	s.last, s.runID = sc, runID
	s.mu.Unlock()

	result := fmt.Sprintf("run %s: %d trapezoids, %d nodes, depth %d", runID, st.Trapezoids, st.Nodes, st.Depth)
	var hit *trapmap.Trapezoid
	if req.query != nil {
		t, err := sc.Structure.Locate(*req.query)
		if err != nil {
			s.metrics.locates.WithLabelValues("outside").Inc()
			result += fmt.Sprintf("; %v is outside the map", *req.query)
		} else {
			s.metrics.locates.WithLabelValues("ok").Inc()
			hit = &t
			result += fmt.Sprintf("; %v lies in face %d (T%d)", *req.query, t.Face(), t.ID)
		}
	}

	fmt.Fprintln(w, static.Part1)
	fmt.Fprintf(w, static.Form, generatorOptions(req.scene.Generator), req.scene.Size, req.scene.Seed,
		html.EscapeString(req.x), html.EscapeString(req.y))
	fmt.Fprintf(w, "<div id=\"result\">%s</div>\n", html.EscapeString(result))

	if err := sceneChart(sc, req.query, hit).Render(w); err != nil {
		s.log.Error("[server] chart render failed", zap.Error(err))
	}

	fmt.Fprintln(w, static.Part2)
	fmt.Fprintln(w, buildLog.HTML())
	fmt.Fprintln(w, static.Part3)
}

func generatorOptions(selected string) string {
	var b strings.Builder
	for _, name := range generator.Names {
		attr := ""
		if name == selected {
			attr = " selected"
		}
		fmt.Fprintf(&b, "<option value=%q%s>%s</option>", name, attr, name)
	}
	return b.String()
}

func (s *Server) lastScene() (*scene.Scene, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.runID
}

func (s *Server) handleDAGDOT(w http.ResponseWriter, r *http.Request) {
	sc, _ := s.lastScene()
	if sc == nil {
		http.Error(w, "nothing built yet", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	fmt.Fprint(w, render.ToDOT(sc.Structure, render.Options{Detailed: r.URL.Query().Has("detailed")}))
}

func (s *Server) handleDAGSVG(w http.ResponseWriter, r *http.Request) {
	sc, _ := s.lastScene()
	if sc == nil {
		http.Error(w, "nothing built yet", http.StatusNotFound)
		return
	}
	svg, err := render.RenderSVG(r.Context(), render.ToDOT(sc.Structure, render.Options{}))
	if err != nil {
		s.log.Error("[server] svg render failed", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(svg)
}

type locateResponse struct {
	Run       string        `json:"run"`
	Face      int           `json:"face"`
	Trapezoid int           `json:"trapezoid"`
	Top       string        `json:"top"`
	Bottom    string        `json:"bottom"`
	Corners   [4][2]float64 `json:"corners"`
}

// handleLocate answers ?x=&y= against the last built structure.
func (s *Server) handleLocate(w http.ResponseWriter, r *http.Request) {
	sc, runID := s.lastScene()
	if sc == nil {
		http.Error(w, "nothing built yet", http.StatusNotFound)
		return
	}
	p, err := parsePoint(r.URL.Query().Get("x"), r.URL.Query().Get("y"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	t, err := sc.Structure.Locate(p)
	if err != nil {
		s.metrics.locates.WithLabelValues("outside").Inc()
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	s.metrics.locates.WithLabelValues("ok").Inc()

	resp := locateResponse{
		Run:       runID,
		Face:      int(t.Face()),
		Trapezoid: int(t.ID),
		Top:       t.Top.String(),
		Bottom:    t.Bottom.String(),
	}
	for i, c := range t.Corners() {
		resp.Corners[i] = [2]float64{c.X, c.Y}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
