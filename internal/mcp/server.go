package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/server"

	"github.com/shuvrobasu/repo-view-extract/internal/export"
	"github.com/shuvrobasu/repo-view-extract/internal/indexer"
	"github.com/shuvrobasu/repo-view-extract/internal/ingest"
	"github.com/shuvrobasu/repo-view-extract/internal/metrics"
	"github.com/shuvrobasu/repo-view-extract/internal/query"
	"github.com/shuvrobasu/repo-view-extract/internal/store"
	"github.com/shuvrobasu/repo-view-extract/internal/view"
	"github.com/shuvrobasu/repo-view-extract/pkg/types"
)

const (
	// ServerName is the MCP server name
	ServerName = "repo-view-extract"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with the browsing components.
type Server struct {
	mcp     *server.MCPServer
	store   *store.Store
	cache   *metrics.Cache
	indexer *indexer.Indexer
	engine  *query.Engine
	view    *view.View
}

// NewServer creates an MCP server over the records at path. When fromDir is
// true, path is scanned as a directory tree instead of read as a JSON dump.
// The load is synchronous; the server is ready to answer as soon as it
// returns, with deeper metrics filling in behind it.
func NewServer(ctx context.Context, path string, fromDir bool) (*Server, error) {
	records, err := loadRecords(ctx, path, fromDir)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}

	st := store.New()
	st.Replace(records)
	cache := metrics.New(st)

	s := &Server{
		mcp:     server.NewMCPServer(ServerName, ServerVersion),
		store:   st,
		cache:   cache,
		indexer: indexer.New(st, cache),
		engine:  query.New(st, cache),
		view:    view.New(cache),
	}
	s.view.SetMatches(allIndices(st.Len()))
	s.registerTools()

	return s, nil
}

// Serve warms the cache in the background, then serves MCP on stdio and
// blocks until the client disconnects.
func (s *Server) Serve(ctx context.Context) error {
	_ = s.indexer.Start(ctx, quietNotifier{})
	defer s.indexer.Cancel()
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(loadRecordsTool(), s.handleLoadRecords)
	s.mcp.AddTool(listRecordsTool(), s.handleListRecords)
	s.mcp.AddTool(getRecordTool(), s.handleGetRecord)
	s.mcp.AddTool(filterRecordsTool(), s.handleFilterRecords)
	s.mcp.AddTool(searchRecordsTool(), s.handleSearchRecords)
	s.mcp.AddTool(clearFilterTool(), s.handleClearFilter)
	s.mcp.AddTool(getStatisticsTool(), s.handleGetStatistics)
	s.mcp.AddTool(exportRecordsTool(), s.handleExportRecords)
	s.mcp.AddTool(getStatusTool(), s.handleGetStatus)
}

func (s *Server) exporter() *export.Exporter {
	return export.New(s.store)
}

func loadRecords(ctx context.Context, path string, fromDir bool) ([]types.Record, error) {
	if fromDir {
		return ingest.ScanDir(ctx, path, nil)
	}
	return ingest.LoadFile(ctx, path, nil)
}

func allIndices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// quietNotifier discards indexer callbacks; over stdio there is nowhere to
// surface them.
type quietNotifier struct{}

func (quietNotifier) IndexProgress(indexer.Progress)    {}
func (quietNotifier) IndexCompleted(indexer.Statistics) {}
func (quietNotifier) IndexCancelled(indexer.Statistics) {}
