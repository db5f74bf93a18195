package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/tabula"
	"github.com/aretw0/tabula/internal/logging"
	"github.com/aretw0/tabula/pkg/domain"
	"github.com/aretw0/tabula/pkg/registry"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server implements ServerInterface over a table registry.
type Server struct {
	Registry *registry.Registry
	Streams  *StreamManager

	logger   *slog.Logger
	gatherer prometheus.Gatherer
}

// Ensure Server implements ServerInterface
var _ ServerInterface = (*Server)(nil)

// Option configures the HTTP server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithGatherer sets the metrics source exposed on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// NewServer creates a server over reg.
func NewServer(reg *registry.Registry, opts ...Option) *Server {
	s := &Server{
		Registry: reg,
		logger:   logging.NewNop(),
		gatherer: prometheus.DefaultGatherer,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams = NewStreamManager(s.logger)
	return s
}

// NewHandler creates a new HTTP handler for the tables in reg.
func NewHandler(reg *registry.Registry, opts ...Option) http.Handler {
	server := NewServer(reg, opts...)
	r := chi.NewRouter()

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})
	r.Handle("/metrics", promhttp.HandlerFor(server.gatherer, promhttp.HandlerOpts{}))

	handler := HandlerFromMux(server, r)
	return enableCORS(handler)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Tabula API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// Grid is the response of GET /tables/{name}/rows.
type Grid struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if doc, err := GetSwagger(); err == nil && doc.Info != nil {
		apiVersion = doc.Info.Version
	} else if err != nil {
		s.logger.Error("Failed to load OpenAPI document", "err", err)
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "tabula-http",
		"version":     strings.TrimSpace(tabula.Version),
		"api_version": apiVersion,
	})
}

// ListTables handles the GET /tables request.
func (s *Server) ListTables(w http.ResponseWriter, r *http.Request) {
	tables := s.Registry.List()
	out := make([]registry.Summary, 0, len(tables))
	for _, t := range tables {
		out = append(out, t.Summary())
	}
	writeJSON(w, http.StatusOK, out)
}

// GetTable handles the GET /tables/{name} request.
func (s *Server) GetTable(w http.ResponseWriter, r *http.Request, name string) {
	t, ok := s.lookup(w, name)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, t.Summary())
}

// GetTableState handles the GET /tables/{name}/state request.
func (s *Server) GetTableState(w http.ResponseWriter, r *http.Request, name string) {
	t, ok := s.lookup(w, name)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, t.State())
}

// PatchTableState handles the PATCH /tables/{name}/state request.
func (s *Server) PatchTableState(w http.ResponseWriter, r *http.Request, name string) {
	t, ok := s.lookup(w, name)
	if !ok {
		return
	}
	patch, ok := s.decodeState(w, r)
	if !ok {
		return
	}
	s.logger.Debug("Patching table state", "table", t.Name, "keys", patch.Keys())
	writeJSON(w, http.StatusOK, t.Patch(patch))
}

// ReplaceTableState handles the PUT /tables/{name}/state request.
func (s *Server) ReplaceTableState(w http.ResponseWriter, r *http.Request, name string) {
	t, ok := s.lookup(w, name)
	if !ok {
		return
	}
	state, ok := s.decodeState(w, r)
	if !ok {
		return
	}
	s.logger.Debug("Replacing table state", "table", t.Name, "keys", state.Keys())
	writeJSON(w, http.StatusOK, t.Replace(state))
}

// ResetTableState handles the POST /tables/{name}/state/reset request.
func (s *Server) ResetTableState(w http.ResponseWriter, r *http.Request, name string) {
	t, ok := s.lookup(w, name)
	if !ok {
		return
	}
	s.logger.Debug("Resetting table state", "table", t.Name)
	writeJSON(w, http.StatusOK, t.Reset())
}

// GetTableRows handles the GET /tables/{name}/rows request.
func (s *Server) GetTableRows(w http.ResponseWriter, r *http.Request, name string) {
	t, ok := s.lookup(w, name)
	if !ok {
		return
	}
	headers, rows := t.Grid()
	if rows == nil {
		rows = [][]string{}
	}
	writeJSON(w, http.StatusOK, Grid{Headers: headers, Rows: rows})
}

// SubscribeTableEvents handles the GET /tables/{name}/events request (SSE).
func (s *Server) SubscribeTableEvents(w http.ResponseWriter, r *http.Request, name string, params SubscribeTableEventsParams) {
	t, ok := s.lookup(w, name)
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		s.logger.Error("SubscribeTableEvents: Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	watch := make([]string, 0, len(params.Watch))
	for _, key := range params.Watch {
		if key = strings.TrimSpace(key); key != "" {
			watch = append(watch, key)
		}
	}

	s.logger.Info("SSE: Subscribing to table", "table", t.Name, "watch", watch)
	ch, cancel := s.Streams.Subscribe(t)
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE: Client disconnected", "table", t.Name)
			return
		case diff, ok := <-ch:
			if !ok {
				return
			}
			if !diff.Touches(watch...) {
				continue
			}
			payload, err := json.Marshal(diff)
			if err != nil {
				s.logger.Error("SSE: Failed to encode diff", "table", t.Name, "err", err)
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
	}
}

func (s *Server) lookup(w http.ResponseWriter, name string) (*registry.Table, bool) {
	t, err := s.Registry.Get(name)
	if errors.Is(err, domain.ErrTableNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return nil, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		s.logger.Error("Table lookup failed", "table", name, "err", err)
		return nil, false
	}
	return t, true
}

func (s *Server) decodeState(w http.ResponseWriter, r *http.Request) (domain.State, bool) {
	var state domain.State
	if err := json.NewDecoder(r.Body).Decode(&state); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		s.logger.Warn("Invalid state body", "err", err)
		return nil, false
	}
	if state == nil {
		state = domain.State{}
	}
	return state, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Response encode failed", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
