package mcp

import (
	"context"
	"sync"

	"incident-lens/internal/dataset"
	"incident-lens/internal/stats"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

// Options carries the defaults tools fall back to when an argument is omitted.
type Options struct {
	Version     string
	Load        dataset.Options
	Granularity stats.Granularity
	TopN        int
	Charts      bool
}

// Server holds the state for the MCP server. The loaded dataset is the only
// mutable state; every view is recomputed from it per call.
type Server struct {
	opts Options

	mu sync.RWMutex
	ds dataset.Dataset
}

// NewServer creates a new MCP server over an initial dataset.
func NewServer(ds dataset.Dataset, opts Options) *Server {
	if opts.Version == "" {
		opts.Version = "dev"
	}
	opts.Granularity = stats.ParseGranularity(string(opts.Granularity))
	if opts.TopN <= 0 {
		opts.TopN = 10
	}
	return &Server{opts: opts, ds: ds}
}

// Dataset returns the currently loaded dataset.
func (s *Server) Dataset() dataset.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ds
}

func (s *Server) replace(ds dataset.Dataset) {
	s.mu.Lock()
	s.ds = ds
	s.mu.Unlock()
}

// Protocol builds the SDK server with every tool registered.
func (s *Server) Protocol() *sdk.Server {
	server := sdk.NewServer(&sdk.Implementation{Name: "incident-lens", Version: s.opts.Version}, nil)
	s.registerTools(server)
	return server
}

// Serve runs the server over stdio until the client disconnects or ctx ends.
func (s *Server) Serve(ctx context.Context) error {
	ds := s.Dataset()
	log.Info().
		Str("dataset", ds.ID.String()).
		Str("provenance", string(ds.Provenance)).
		Int("records", len(ds.Records)).
		Msg("Starting MCP server on stdio")

	return s.Protocol().Run(ctx, &sdk.StdioTransport{})
}
