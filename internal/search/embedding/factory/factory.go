package factory

import (
	"context"
	"fmt"

	"github.com/akolanti/SemanticSearchAPI/internal/config"
	"github.com/akolanti/SemanticSearchAPI/internal/domain/searchModel"
	"github.com/akolanti/SemanticSearchAPI/internal/search/embedding"
	"github.com/akolanti/SemanticSearchAPI/internal/search/embedding/googleEmbedding"
	"github.com/akolanti/SemanticSearchAPI/internal/search/embedding/openaiEmbedding"
)

// New maps a catalog model id onto its provider client. The manager calls
// this at most once per model id.
func New(ctx context.Context, modelId string) (embedding.Embedder, error) {
	switch modelId {
	case config.GoogleEmbeddingModel:
		return googleEmbedding.GetClient(ctx, config.GoogleAPIKey)
	case config.OpenAIEmbeddingModelSmall, config.OpenAIEmbeddingModelLarge:
		return openaiEmbedding.GetClient(ctx, modelId, config.OpenAIAPIKey)
	default:
		return nil, fmt.Errorf("%w: no client for model %q", searchModel.ErrModelUnavailable, modelId)
	}
}
