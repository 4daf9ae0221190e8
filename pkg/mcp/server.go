package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/shelf/pkg/organize"
	"github.com/macropower/shelf/pkg/rule"
	"github.com/macropower/shelf/pkg/version"
)

const shutdownTimeout = 5 * time.Second

// Defaults holds values used when a tool call leaves an option unset.
type Defaults struct {
	CreateTarget bool
	Cascade      bool
}

// Server implements the MCP server for shelf.
type Server struct {
	tracer   trace.Tracer
	org      *organize.Organizer
	server   *mcp.Server
	address  string
	rules    []*rule.Rule
	defaults Defaults
}

// ServerOpt configures a [Server].
type ServerOpt func(*Server)

// WithRules sets extra rename rules, tried after a call's custom pattern.
func WithRules(rules ...*rule.Rule) ServerOpt {
	return func(s *Server) {
		s.rules = rules
	}
}

// WithDefaults sets the values used for options a tool call leaves unset.
func WithDefaults(d Defaults) ServerOpt {
	return func(s *Server) {
		s.defaults = d
	}
}

// NewServer creates a new MCP server instance. An empty address serves over
// stdio.
func NewServer(address string, org *organize.Organizer, opts ...ServerOpt) *Server {
	impl := &mcp.Implementation{
		Name:    name,
		Version: version.GetVersion(),
	}

	s := &Server{
		tracer:   otel.Tracer("mcp"),
		org:      org,
		address:  address,
		server:   mcp.NewServer(impl, &mcp.ServerOptions{Instructions: instructions}),
		defaults: Defaults{CreateTarget: true, Cascade: true},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.registerTools()

	return s
}

func (s *Server) Server() *mcp.Server {
	return s.server
}

// Serve starts the MCP server and blocks until ctx is canceled or the
// transport fails. An empty address serves over stdio.
func (s *Server) Serve(ctx context.Context) error {
	slog.InfoContext(ctx, "starting MCP server", slog.String("address", s.address))

	if s.address == "" {
		return s.serveStdio(ctx)
	}

	err := s.serveHTTP(ctx)
	if err != nil {
		return fmt.Errorf("serve HTTP: %w", err)
	}

	return nil
}

func (s *Server) serveHTTP(ctx context.Context) error {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)

	server := &http.Server{
		Addr:    s.address,
		Handler: handler,

		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		err := server.Shutdown(shutdownCtx)
		if err != nil {
			slog.ErrorContext(ctx, "shutdown MCP server", slog.Any("error", err))
		}
	}()

	err := server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("MCP server failed: %w", err)
	}

	return nil
}

func (s *Server) serveStdio(ctx context.Context) error {
	t := mcp.NewLoggingTransport(mcp.NewStdioTransport(), os.Stderr)

	err := s.server.Run(ctx, t)
	if err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}

	return nil
}
