// Package server exposes a running engine over HTTP for out-of-process
// renderers: snapshot endpoints for the ring stack, a navigation
// endpoint for pointer events, and a websocket that pushes a fresh
// snapshot on every state change.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/timothyvelberg/ringmenu/pkg/config"
	"github.com/timothyvelberg/ringmenu/pkg/engine"
	"github.com/timothyvelberg/ringmenu/pkg/errors"
	"github.com/timothyvelberg/ringmenu/pkg/hittest"
	"github.com/timothyvelberg/ringmenu/pkg/node"
	"github.com/timothyvelberg/ringmenu/pkg/render"
)

const shutdownTimeout = 5 * time.Second

// Server serves one engine instance.
type Server struct {
	addr   string
	eng    *engine.Engine
	logger *log.Logger
	hub    *hub
}

// New wires a server around an engine. The hub subscribes to engine
// changes immediately.
func New(cfg config.ServerConfig, eng *engine.Engine, logger *log.Logger) *Server {
	s := &Server{
		addr:   cfg.Addr,
		eng:    eng,
		logger: logger,
		hub:    newHub(logger),
	}
	eng.OnChange(func() {
		s.hub.broadcast(s.snapshot())
	})
	return s
}

// Router builds the HTTP surface.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/rings", s.handleRings)
		r.Get("/rings.svg", s.handleRingsSVG)
		r.Get("/hit", s.handleHit)
		r.Post("/navigate", s.handleNavigate)
		r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
			s.hub.serve(w, r, s.snapshot())
		})
	})
	return r
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.Router()}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

func (s *Server) snapshot() []byte {
	data, err := render.RenderJSON(s.eng.GetRingConfigurations())
	if err != nil {
		s.logger.Error("snapshot encode failed", "error", err)
		return []byte("[]")
	}
	return data
}

func (s *Server) handleRings(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(s.snapshot())
}

func (s *Server) handleRingsSVG(w http.ResponseWriter, r *http.Request) {
	opts := []render.RenderOption{render.WithLabels()}
	if cz := queryFloat(r, "close_zone", 0); cz > 0 {
		opts = append(opts, render.WithCloseZone(cz))
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(render.RenderSVG(s.eng.GetRingConfigurations(), opts...))
}

func (s *Server) handleHit(w http.ResponseWriter, r *http.Request) {
	p := hittest.Point{X: queryFloat(r, "x", 0), Y: queryFloat(r, "y", 0)}
	center := hittest.Point{X: queryFloat(r, "cx", 0), Y: queryFloat(r, "cy", 0)}

	hit, ok := s.eng.GetItemAt(p, center)
	writeJSON(w, http.StatusOK, map[string]any{"hit": ok, "item": hit})
}

// navigateRequest is one pointer or navigation event.
type navigateRequest struct {
	Op     string `json:"op"` // expand, folder, back, into, collapse, hover, select, click
	Level  int    `json:"level"`
	Index  int    `json:"index"`
	Button string `json:"button,omitempty"`
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var req navigateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "decoding request: %v", err))
		return
	}

	ctx := r.Context()
	var closeMenu bool
	var err error

	switch req.Op {
	case "expand":
		err = s.eng.ExpandCategory(ctx, req.Level, req.Index, true)
	case "folder":
		err = s.eng.NavigateIntoFolder(ctx, req.Level, req.Index)
	case "into":
		s.eng.NavigateInto(ctx, req.Level, req.Index)
	case "back":
		s.eng.NavigateBack(ctx)
	case "collapse":
		err = s.eng.CollapseToRing(ctx, req.Level)
	case "hover":
		s.eng.HoverNode(ctx, req.Level, req.Index)
	case "select":
		s.eng.SelectNode(req.Level, req.Index)
	case "click":
		closeMenu, err = s.eng.Click(ctx, req.Level, req.Index, parseButton(req.Button))
	default:
		err = errors.New(errors.ErrCodeInvalidInput, "unsupported op %q", req.Op)
	}

	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "close": closeMenu})
}

func parseButton(s string) node.Button {
	switch s {
	case "right":
		return node.ButtonRight
	case "middle":
		return node.ButtonMiddle
	case "boundary":
		return node.ButtonBoundary
	default:
		return node.ButtonLeft
	}
}

func queryFloat(r *http.Request, key string, fallback float64) float64 {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidIndex, errors.ErrCodeInvalidConfig:
		status = http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeRingNotFound:
		status = http.StatusNotFound
	}
	writeJSON(w, status, map[string]any{"error": err.Error(), "code": errors.GetCode(err)})
}
