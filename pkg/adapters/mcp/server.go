package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/tabula"
	"github.com/aretw0/tabula/internal/logging"
	"github.com/aretw0/tabula/internal/presentation/tui"
	"github.com/aretw0/tabula/pkg/domain"
	"github.com/aretw0/tabula/pkg/registry"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// TablesURI is the resource listing every registered table.
const TablesURI = "tabula://tables"

// Set modes accepted by set_table_state.
const (
	ModePatch   = "patch"
	ModeReplace = "replace"
	ModeReset   = "reset"
)

// ErrInvalidMode is returned when set_table_state receives an unknown mode.
var ErrInvalidMode = errors.New("invalid mode")

// TableList is the result of list_tables.
type TableList struct {
	Tables []registry.Summary `json:"tables" jsonschema_description:"Registered tables ordered by name"`
}

// TableState is the result of get_table_state and set_table_state.
type TableState struct {
	Table string       `json:"table" jsonschema_description:"Table name"`
	State domain.State `json:"state" jsonschema_description:"State currently in effect"`
}

// RenderedTable is the result of render_table.
type RenderedTable struct {
	Table    string     `json:"table" jsonschema_description:"Table name"`
	Headers  []string   `json:"headers" jsonschema_description:"Visible column headers"`
	Rows     [][]string `json:"rows" jsonschema_description:"Cells resolved to display text"`
	Markdown string     `json:"markdown" jsonschema_description:"The grid as a markdown table"`
}

type tableArgs struct {
	Name string `json:"name"`
}

type setStateArgs struct {
	Name  string       `json:"name"`
	State domain.State `json:"state"`
	Mode  string       `json:"mode"`
}

// Server exposes a table registry as an MCP server.
type Server struct {
	registry  *registry.Registry
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the MCP server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(reg *registry.Registry, opts ...Option) *Server {
	s := &Server{
		registry:  reg,
		mcpServer: server.NewMCPServer("tabula-mcp", strings.TrimSpace(tabula.Version)),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and blocks until
// ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_tables",
		mcp.WithDescription("List the registered tables with their visible columns and current state."),
		mcp.WithOutputSchema[TableList](),
	), mcp.NewStructuredToolHandler(s.handleListTables))

	s.mcpServer.AddTool(mcp.NewTool("get_table_state",
		mcp.WithDescription("Get the state currently in effect for a table."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Table name or ID")),
		mcp.WithOutputSchema[TableState](),
	), mcp.NewStructuredToolHandler(s.handleGetTableState))

	s.mcpServer.AddTool(mcp.NewTool("set_table_state",
		mcp.WithDescription("Change a table's state. 'patch' sets the given keys, 'replace' swaps the whole state, 'reset' returns to the initial state."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Table name or ID")),
		mcp.WithObject("state", mcp.Description("State keys such as sorting, globalFilter, pagination or columnVisibility")),
		mcp.WithString("mode", mcp.Enum(ModePatch, ModeReplace, ModeReset), mcp.Description("How to apply the state (default patch)")),
		mcp.WithOutputSchema[TableState](),
	), mcp.NewStructuredToolHandler(s.handleSetTableState))

	s.mcpServer.AddTool(mcp.NewTool("render_table",
		mcp.WithDescription("Render a table's visible columns and rows to text."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Table name or ID")),
		mcp.WithOutputSchema[RenderedTable](),
	), mcp.NewStructuredToolHandler(s.handleRenderTable))
}

func (s *Server) handleListTables(ctx context.Context, request mcp.CallToolRequest, _ map[string]any) (TableList, error) {
	tables := s.registry.List()
	out := TableList{Tables: make([]registry.Summary, 0, len(tables))}
	for _, t := range tables {
		out.Tables = append(out.Tables, t.Summary())
	}
	return out, nil
}

func (s *Server) handleGetTableState(ctx context.Context, request mcp.CallToolRequest, args tableArgs) (TableState, error) {
	t, err := s.registry.Get(args.Name)
	if err != nil {
		return TableState{}, err
	}
	return TableState{Table: t.Name, State: t.State()}, nil
}

func (s *Server) handleSetTableState(ctx context.Context, request mcp.CallToolRequest, args setStateArgs) (TableState, error) {
	t, err := s.registry.Get(args.Name)
	if err != nil {
		return TableState{}, err
	}

	state := args.State
	if state == nil {
		state = domain.State{}
	}

	var next domain.State
	switch args.Mode {
	case "", ModePatch:
		next = t.Patch(state)
	case ModeReplace:
		next = t.Replace(state)
	case ModeReset:
		next = t.Reset()
	default:
		return TableState{}, fmt.Errorf("%q: %w", args.Mode, ErrInvalidMode)
	}

	s.logger.Debug("MCP: Table state set", "table", t.Name, "mode", args.Mode, "keys", state.Keys())
	return TableState{Table: t.Name, State: next}, nil
}

func (s *Server) handleRenderTable(ctx context.Context, request mcp.CallToolRequest, args tableArgs) (RenderedTable, error) {
	t, err := s.registry.Get(args.Name)
	if err != nil {
		return RenderedTable{}, err
	}

	headers, rows := t.Grid()
	if rows == nil {
		rows = [][]string{}
	}
	return RenderedTable{
		Table:    t.Name,
		Headers:  headers,
		Rows:     rows,
		Markdown: tui.Markdown(t.Summary().Title, headers, rows),
	}, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(TablesURI, "Registered Tables",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		list, _ := s.handleListTables(ctx, mcp.CallToolRequest{}, nil)
		jsonBytes, err := json.Marshal(list)
		if err != nil {
			return nil, fmt.Errorf("failed to encode tables: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      TablesURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
