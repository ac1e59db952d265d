package mcpServer

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type searchInput struct {
	Query   string `json:"query" jsonschema:"the search text"`
	IndexId string `json:"index_id" jsonschema:"which index to search, e.g. disk_gemini-embedding-001"`
	TopK    int    `json:"top_k,omitempty" jsonschema:"how many results to return (default 5)"`
}

type searchResult struct {
	Rank           int     `json:"rank"`
	Content        string  `json:"content"`
	SourceDocument string  `json:"source_document"`
	Score          float64 `json:"similarity_score"`
}

type searchOutput struct {
	Results []searchResult `json:"results"`
	Count   int            `json:"count"`
}

type listIndexesInput struct{}

type indexInfo struct {
	IndexId    string `json:"index_id"`
	ModelId    string `json:"model_id"`
	BackendId  string `json:"backend_id"`
	Dimension  int    `json:"dimension"`
	ChunkCount int    `json:"chunk_count"`
}

type listIndexesOutput struct {
	Indexes []indexInfo `json:"indexes"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "semantic_search",
		Description: "Search an index by meaning and return the most similar document chunks",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_indexes",
		Description: "List every index currently available for search",
	}, s.handleListIndexes)
}

func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input searchInput,
) (*mcp.CallToolResult, searchOutput, error) {
	topK := input.TopK
	if topK <= 0 {
		topK = 5
	}

	results, err := s.engine.Query(ctx, input.Query, input.IndexId, topK)
	if err != nil {
		s.logger.Warn("MCP search failed", "index", input.IndexId, "err", err)
		return nil, searchOutput{}, err
	}

	output := searchOutput{
		Results: make([]searchResult, len(results)),
		Count:   len(results),
	}
	for i, r := range results {
		output.Results[i] = searchResult{
			Rank:           r.Rank,
			Content:        r.Content,
			SourceDocument: r.SourceDocument,
			Score:          r.Score,
		}
	}
	return nil, output, nil
}

func (s *Server) handleListIndexes(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ listIndexesInput,
) (*mcp.CallToolResult, listIndexesOutput, error) {
	manifests, err := s.registry.List(ctx)
	if err != nil {
		return nil, listIndexesOutput{}, err
	}

	output := listIndexesOutput{Indexes: make([]indexInfo, len(manifests))}
	for i, m := range manifests {
		output.Indexes[i] = indexInfo{
			IndexId:    m.IndexId(),
			ModelId:    m.ModelId,
			BackendId:  m.BackendId,
			Dimension:  m.Dimension,
			ChunkCount: m.ChunkCount,
		}
	}
	return nil, output, nil
}
