package embedding

import (
	"context"
	"fmt"
	"sync"

	"github.com/akolanti/SemanticSearchAPI/internal/config"
	"github.com/akolanti/SemanticSearchAPI/internal/domain/searchModel"
	"golang.org/x/sync/singleflight"
)

// Embedder turns text into vectors. BatchEmbedding preserves input order and
// costs one API round trip per call, never one per chunk.
type Embedder interface {
	GetEmbedding(ctx context.Context, query string) ([]float32, error)
	BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error)
	ModelId() string
	Dimension() int
}

// ModelInfo is one catalog entry, served as-is on the models endpoint.
type ModelInfo struct {
	Id        string `json:"id"`
	Provider  string `json:"provider"`
	Dimension int    `json:"dimension"`
}

// The catalog is closed, adding a model means adding it here and wiring a
// factory below.
var catalog = []ModelInfo{
	{Id: config.GoogleEmbeddingModel, Provider: "google", Dimension: int(config.GoogleEmbeddingDimension)},
	{Id: config.OpenAIEmbeddingModelSmall, Provider: "openai", Dimension: config.OpenAISmallDimension},
	{Id: config.OpenAIEmbeddingModelLarge, Provider: "openai", Dimension: config.OpenAILargeDimension},
}

func SupportedModels() []ModelInfo {
	out := make([]ModelInfo, len(catalog))
	copy(out, catalog)
	return out
}

// Dimension reports the fixed output dimensionality of a catalog model.
func Dimension(modelId string) (int, error) {
	for _, m := range catalog {
		if m.Id == modelId {
			return m.Dimension, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown model %q", searchModel.ErrModelUnavailable, modelId)
}

// Factory builds the live client for one catalog model.
type Factory func(ctx context.Context, modelId string) (Embedder, error)

// Manager hands out one lazily created client per model id. First loads are
// single-flighted so concurrent requests share the same dial.
type Manager struct {
	rootCtx context.Context
	factory Factory

	group singleflight.Group
	mu    sync.RWMutex
	cache map[string]Embedder
}

// NewManager wires the production factories. rootCtx bounds the lifetime of
// every client the manager creates.
func NewManager(rootCtx context.Context, factory Factory) *Manager {
	return &Manager{
		rootCtx: rootCtx,
		factory: factory,
		cache:   map[string]Embedder{},
	}
}

func (m *Manager) Get(ctx context.Context, modelId string) (Embedder, error) {
	if _, err := Dimension(modelId); err != nil {
		return nil, err
	}

	m.mu.RLock()
	cached, ok := m.cache[modelId]
	m.mu.RUnlock()
	if ok {
		return cached, nil
	}

	v, err, _ := m.group.Do(modelId, func() (any, error) {
		m.mu.RLock()
		cached, ok := m.cache[modelId]
		m.mu.RUnlock()
		if ok {
			return cached, nil
		}

		// Clients outlive this request, they tear down with the root context
		emb, err := m.factory(m.rootCtx, modelId)
		if err != nil {
			return nil, fmt.Errorf("%w: creating client for %q: %v", searchModel.ErrModelUnavailable, modelId, err)
		}

		m.mu.Lock()
		m.cache[modelId] = emb
		m.mu.Unlock()
		return emb, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Embedder), nil
}
