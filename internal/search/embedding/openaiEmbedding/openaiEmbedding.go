package openaiEmbedding

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/akolanti/SemanticSearchAPI/internal/config"
	"github.com/akolanti/SemanticSearchAPI/internal/customHttpClient"
	"github.com/akolanti/SemanticSearchAPI/internal/domain/searchModel"
	"github.com/akolanti/SemanticSearchAPI/internal/metrics"
	"github.com/akolanti/SemanticSearchAPI/internal/search/embedding"
	"github.com/akolanti/SemanticSearchAPI/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var logger *logger_i.Logger
var loggerOnce sync.Once

type client struct {
	openAi    openai.Client
	model     string
	dimension int
}

// GetClient builds an OpenAI embedding client for one of the two supported
// text-embedding-3 variants. The SDK retries transient failures on its own.
func GetClient(ctx context.Context, modelId string, apikey string) (embedding.Embedder, error) {
	loggerOnce.Do(func() {
		logger = logger_i.NewLogger("openai_embedding")
	})

	if apikey == "" {
		return nil, fmt.Errorf("%w: OPENAI_API_KEY is not set", searchModel.ErrModelUnavailable)
	}

	var dim int
	switch modelId {
	case config.OpenAIEmbeddingModelSmall:
		dim = config.OpenAISmallDimension
	case config.OpenAIEmbeddingModelLarge:
		dim = config.OpenAILargeDimension
	default:
		return nil, fmt.Errorf("%w: %q is not an OpenAI embedding model", searchModel.ErrModelUnavailable, modelId)
	}

	logger.Info("OpenAI Embedding client created", "model", modelId)
	return &client{
		openAi: openai.NewClient(
			option.WithAPIKey(apikey),
			option.WithHTTPClient(customHttpClient.GetPooledClient()),
		),
		model:     modelId,
		dimension: dim,
	}, nil
}

func (c *client) ModelId() string {
	return c.model
}

func (c *client) Dimension() int {
	return c.dimension
}

func (c *client) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	vectors, err := c.embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (c *client) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	return c.embed(ctx, chunks)
}

func (c *client) embed(ctx context.Context, texts []string) ([][]float32, error) {
	log := logger.With(config.TRACE_ID_KEY, ctx.Value(config.TRACE_ID_KEY))

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("openai_embedding", time.Since(start)) }()

	resp, err := c.openAi.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model: openai.EmbeddingModel(c.model),
	})
	if err != nil {
		log.Error("Error getting Embeddings from OpenAI", "model", c.model, "error", err.Error())
		return nil, fmt.Errorf("%w: %v", searchModel.ErrModelUnavailable, err)
	}
	if len(resp.Data) != len(texts) {
		log.Error("OpenAI returned a short embedding list", "want", len(texts), "got", len(resp.Data))
		return nil, fmt.Errorf("%w: expected %d embeddings, got %d", searchModel.ErrModelUnavailable, len(texts), len(resp.Data))
	}

	// Results carry explicit indexes, input order is not guaranteed
	vectors := make([][]float32, len(texts))
	for _, d := range resp.Data {
		vec := make([]float32, len(d.Embedding))
		for i, v := range d.Embedding {
			vec[i] = float32(v)
		}
		vectors[d.Index] = vec
	}
	return vectors, nil
}
