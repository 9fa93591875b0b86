// Package mcpserver exposes the flight-search tools over the Model
// Context Protocol, on stdio or streamable HTTP.
package mcpserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/skyhop/flightmcp/log"
	"github.com/skyhop/flightmcp/search"
)

const (
	// ServerName is the MCP implementation name reported on initialize.
	ServerName = "flight-search"
	// ServerVersion is the implementation version reported on initialize.
	ServerVersion = "1.0.0"
)

// TransportMode selects how the server talks to its client.
type TransportMode string

const (
	// TransportModeSTDIO serves a single client over stdin/stdout.
	TransportModeSTDIO TransportMode = "stdio"
	// TransportModeHTTP serves the streamable HTTP transport on 127.0.0.1.
	TransportModeHTTP TransportMode = "http"
)

// Config holds the MCP server configuration.
type Config struct {
	Mode TransportMode
	Port int
}

// Server wires the orchestrator's tools into an MCP server.
type Server struct {
	mcpServer    *mcp.Server
	orchestrator *search.Orchestrator
	mode         TransportMode
	port         int

	mu           sync.Mutex
	listener     net.Listener
	httpSrv      *http.Server
	stdioSession *mcp.ServerSession
	stdioDone    chan struct{}
	running      bool
}

// NewServer creates the MCP server and registers the flight tools.
func NewServer(cfg Config, orchestrator *search.Orchestrator) (*Server, error) {
	if orchestrator == nil {
		return nil, fmt.Errorf("orchestrator is required")
	}
	if cfg.Mode == "" {
		cfg.Mode = TransportModeSTDIO
	}

	s := &Server{
		orchestrator: orchestrator,
		mode:         cfg.Mode,
		port:         cfg.Port,
	}

	mcpSrv := mcp.NewServer(&mcp.Implementation{
		Name:    ServerName,
		Version: ServerVersion,
	}, nil)
	s.registerTools(mcpSrv)
	s.mcpServer = mcpSrv

	return s, nil
}

// Start begins serving on the configured transport. STDIO mode serves in
// a background goroutine; use Wait to block until the session ends.
func (s *Server) Start(ctx context.Context) error {
	switch s.mode {
	case TransportModeSTDIO:
		return s.startSTDIO(ctx)
	case TransportModeHTTP:
		return s.startHTTP(ctx)
	default:
		return fmt.Errorf("unknown transport mode: %s", s.mode)
	}
}

func (s *Server) startSTDIO(ctx context.Context) error {
	s.mu.Lock()
	s.running = true
	s.stdioDone = make(chan struct{})
	s.mu.Unlock()

	log.Infof(ctx, "MCP server started on stdio")

	go func() {
		defer close(s.stdioDone)

		session, err := s.mcpServer.Connect(ctx, &mcp.StdioTransport{}, nil)
		if err != nil {
			log.Errorf(ctx, "failed to connect stdio transport: %v", err)
			return
		}

		s.mu.Lock()
		s.stdioSession = session
		s.mu.Unlock()

		if err := session.Wait(); err != nil {
			log.Debugf(ctx, "stdio session ended: %v", err)
		}

		s.mu.Lock()
		s.running = false
		s.stdioSession = nil
		s.mu.Unlock()
	}()

	return nil
}

func (s *Server) startHTTP(ctx context.Context) error {
	addr := fmt.Sprintf("127.0.0.1:%d", s.port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcpServer
	}, nil)

	mux := http.NewServeMux()
	mux.Handle("/mcp", handler)

	s.mu.Lock()
	s.listener = listener
	s.httpSrv = &http.Server{Handler: mux}
	s.port = listener.Addr().(*net.TCPAddr).Port
	s.running = true
	s.mu.Unlock()

	log.Infof(ctx, "MCP server listening on %s/mcp", listener.Addr())

	go func() {
		if err := s.httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Errorf(ctx, "MCP server error: %v", err)
		}
	}()

	return nil
}

// Wait blocks until the stdio session ends. HTTP mode returns immediately.
func (s *Server) Wait() {
	s.mu.Lock()
	done := s.stdioDone
	s.mu.Unlock()

	if done != nil {
		<-done
	}
}

// Stop shuts the server down gracefully.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if s.httpSrv != nil {
		if err := s.httpSrv.Shutdown(ctx); err != nil {
			log.Warnf(ctx, "error shutting down MCP HTTP server: %v", err)
		}
	}
	if s.listener != nil {
		s.listener.Close()
	}
	if s.stdioSession != nil {
		if err := s.stdioSession.Close(); err != nil {
			log.Warnf(ctx, "error closing stdio session: %v", err)
		}
	}
	return nil
}

// Port returns the bound port in HTTP mode, zero otherwise.
func (s *Server) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port
}
