package queryEngine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/akolanti/SemanticSearchAPI/internal/config"
	"github.com/akolanti/SemanticSearchAPI/internal/domain/searchModel"
	"github.com/akolanti/SemanticSearchAPI/internal/metrics"
	"github.com/akolanti/SemanticSearchAPI/internal/search/embedding"
	"github.com/akolanti/SemanticSearchAPI/internal/search/vectorIndex"
	"github.com/akolanti/SemanticSearchAPI/pkg/logger_i"
)

type IndexResolver interface {
	Resolve(ctx context.Context, indexId string) (vectorIndex.Index, error)
}

type EmbedderSource interface {
	Get(ctx context.Context, modelId string) (embedding.Embedder, error)
}

// Engine answers semantic queries against registered indices. Queries always
// embed with the model the index was built with, never a caller-chosen one.
type Engine struct {
	registry  IndexResolver
	embedders EmbedderSource
	logger    *logger_i.Logger
}

func New(registry IndexResolver, embedders EmbedderSource) *Engine {
	return &Engine{
		registry:  registry,
		embedders: embedders,
		logger:    logger_i.NewLogger("QueryEngine"),
	}
}

// Query validates, resolves the index, embeds the text and returns up to
// topK ranked results. Ranks are 1-based and dense.
func (e *Engine) Query(ctx context.Context, text string, indexId string, topK int) ([]searchModel.SearchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, config.QueryTimeout)
	defer cancel()

	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: query text is blank", searchModel.ErrEmptyQuery)
	}
	if topK < 1 {
		return nil, fmt.Errorf("%w: got %d", searchModel.ErrInvalidTopK, topK)
	}

	idx, err := e.registry.Resolve(ctx, indexId)
	if err != nil {
		metrics.IncrementSearchCount(indexId, "error")
		return nil, err
	}

	embedder, err := e.embedders.Get(ctx, idx.Manifest().ModelId)
	if err != nil {
		metrics.IncrementSearchCount(indexId, "error")
		return nil, err
	}
	queryVector, err := embedder.GetEmbedding(ctx, text)
	if err != nil {
		metrics.IncrementSearchCount(indexId, "error")
		return nil, err
	}

	searchStart := time.Now()
	scored, err := idx.Search(ctx, queryVector, topK)
	metrics.CaptureStageMetrics("vector_search", time.Since(searchStart))
	if err != nil {
		metrics.IncrementSearchCount(indexId, "error")
		return nil, err
	}

	results := make([]searchModel.SearchResult, len(scored))
	for i, s := range scored {
		results[i] = searchModel.SearchResult{
			Rank:           i + 1,
			Content:        s.Chunk.Text,
			SourceDocument: s.Chunk.SourceDocument,
			Score:          s.Score,
		}
	}

	metrics.IncrementSearchCount(indexId, "success")
	e.logger.With(config.TRACE_ID_KEY, ctx.Value(config.TRACE_ID_KEY)).Debug("Query answered", "index", indexId, "results", len(results))
	return results, nil
}

// BatchQuery runs every slot independently and preserves input order. A slot
// that fails reports its own error, the rest of the batch still answers.
func (e *Engine) BatchQuery(ctx context.Context, texts []string, indexId string, topK int) []searchModel.QueryOutcome {
	outcomes := make([]searchModel.QueryOutcome, len(texts))

	var wg sync.WaitGroup
	for i, text := range texts {
		wg.Add(1)
		go func(slot int, text string) {
			defer wg.Done()
			results, err := e.Query(ctx, text, indexId, topK)
			outcomes[slot] = searchModel.QueryOutcome{Results: results, Err: err}
		}(i, text)
	}
	wg.Wait()

	return outcomes
}
