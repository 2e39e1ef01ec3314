package mcp

import (
	"context"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/varsearch-cli/internal/core/ports/driving"
)

// Version is the MCP server version.
const Version = "0.1.0"

// Server is the MCP server for the variant engine.
type Server struct {
	engine driving.EngineService
	server *mcp.Server
}

// NewServer creates a new MCP server for the given engine.
func NewServer(engine driving.EngineService) (*Server, error) {
	if engine == nil {
		return nil, ErrMissingEngine
	}

	impl := &mcp.Implementation{
		Name:    "varsearch",
		Version: Version,
	}

	s := &Server{
		engine: engine,
		server: mcp.NewServer(impl, nil),
	}

	s.registerTools()

	return s, nil
}

// Run starts the MCP server over stdio.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP starts the MCP server over HTTP on the specified address.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown when context is cancelled
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background()) //nolint:errcheck
	}()

	err := httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Connect serves one session over the given transport. Used to embed
// the engine in-process, e.g. over in-memory transports.
func (s *Server) Connect(ctx context.Context, transport mcp.Transport) (*mcp.ServerSession, error) {
	return s.server.Connect(ctx, transport, nil)
}
