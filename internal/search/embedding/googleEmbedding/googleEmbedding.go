package googleEmbedding

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
	"google.golang.org/genai"
)

var logger *logger_i.Logger
var loggerOnce sync.Once

// Gemini supports variable output dimensionality, we pin it so every index
// built with this model stays queryable.
var dimension = config.GoogleEmbeddingDimension

type client struct {
	genAi *genai.Client
	model string
}

// GetClient dials the Gemini API. The connection lives until ctx ends, the
// embedding manager caches the returned client per model id.
func GetClient(ctx context.Context, apikey string) (embedding.Embedder, error) {
	loggerOnce.Do(func() {
		logger = logger_i.NewLogger("google_embedding")
	})

	if apikey == "" {
		return nil, fmt.Errorf("%w: GOOGLE_API_KEY is not set", searchModel.ErrModelUnavailable)
	}

	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apikey,
		HTTPClient: customHttpClient.GetPooledClient(),
	})
	if err != nil {
		logger.Error("Error creating Google Embedding client:", "error", err)
		return nil, fmt.Errorf("%w: google client: %v", searchModel.ErrModelUnavailable, err)
	}

	instance := &client{genAi: c, model: config.GoogleEmbeddingModel}
	logger.Info("Google Embedding client created")
	go closeClient(ctx, instance)
	return instance, nil
}

func closeClient(ctx context.Context, c *client) {
	<-ctx.Done()
	logger.Info("Closing Google Embedding client")
	c.genAi = nil
}

func (c *client) ModelId() string {
	return c.model
}

func (c *client) Dimension() int {
	return int(dimension)
}

func (c *client) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	log := logger.With(config.TRACE_ID_KEY, ctx.Value(config.TRACE_ID_KEY))

	result, err := c.doCall(ctx, genai.Text(query), "RETRIEVAL_QUERY")
	if err != nil {
		log.Error("Error getting Embedding from Google", "error", err.Error())
		return nil, fmt.Errorf("%w: %v", searchModel.ErrModelUnavailable, err)
	}
	return result.Embeddings[0].Values, nil
}

func (c *client) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	log := logger.With(config.TRACE_ID_KEY, ctx.Value(config.TRACE_ID_KEY))

	res, err := c.doCall(ctx, getContent(chunks), "RETRIEVAL_DOCUMENT")
	if err != nil || res == nil {
		if doRetry(err, log) {
			log.Debug("Retrying in 5 seconds")
			time.Sleep(5 * time.Second)

			res, err = c.doCall(ctx, getContent(chunks), "RETRIEVAL_DOCUMENT")
		}
		if err != nil || res == nil {
			log.Error("Error getting Embeddings from Google", "error", err)
			return nil, fmt.Errorf("%w: %v", searchModel.ErrModelUnavailable, err)
		}
	}

	embeddingResults := make([][]float32, 0, len(res.Embeddings))
	for _, r := range res.Embeddings {
		embeddingResults = append(embeddingResults, r.Values)
	}
	return embeddingResults, nil
}

func (c *client) doCall(ctx context.Context, content []*genai.Content, taskType string) (*genai.EmbedContentResponse, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("google_embedding", time.Since(start)) }()

	return c.genAi.Models.EmbedContent(ctx, c.model, content, &genai.EmbedContentConfig{
		OutputDimensionality: &dimension,
		TaskType:             taskType,
	})
}
