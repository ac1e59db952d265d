package memoryIndex

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/akolanti/SemanticSearchAPI/internal/config"
	"github.com/akolanti/SemanticSearchAPI/internal/domain/searchModel"
	"github.com/akolanti/SemanticSearchAPI/internal/search/vectorIndex"
)

// index is the exact-scan in-memory backend. Vectors live as one flattened
// normalized slice, a full Build swaps the whole state under the lock.
type index struct {
	modelId   string
	mu        sync.RWMutex
	dimension int
	chunks    []searchModel.Chunk
	flat      []float32
	createdAt time.Time
}

func New(modelId string) vectorIndex.Index {
	return &index{modelId: modelId}
}

// Load always misses - this backend has no durable form.
func Load(modelId string) (vectorIndex.Index, error) {
	return nil, fmt.Errorf("%w: memory index %q does not survive restarts", searchModel.ErrIndexNotFound, searchModel.IndexId(modelId, config.BackendMemory))
}

func (m *index) Build(ctx context.Context, chunks []searchModel.Chunk, vectors [][]float32) error {
	dim, err := vectorIndex.ValidateBuild(chunks, vectors)
	if err != nil {
		return err
	}

	owned := make([]searchModel.Chunk, len(chunks))
	copy(owned, chunks)
	flat := vectorIndex.FlattenNormalized(vectors, dim)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.dimension = dim
	m.chunks = owned
	m.flat = flat
	m.createdAt = time.Now().UTC()
	return nil
}

func (m *index) Search(ctx context.Context, queryVector []float32, k int) ([]searchModel.ScoredChunk, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.dimension == 0 {
		return nil, fmt.Errorf("%w: index %q has not been built", searchModel.ErrIndexNotFound, searchModel.IndexId(m.modelId, config.BackendMemory))
	}
	return vectorIndex.ScanTopK(m.chunks, m.flat, m.dimension, queryVector, k)
}

func (m *index) Manifest() searchModel.IndexManifest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return searchModel.IndexManifest{
		ModelId:    m.modelId,
		BackendId:  config.BackendMemory,
		Dimension:  m.dimension,
		ChunkCount: len(m.chunks),
		CreatedAt:  m.createdAt,
	}
}
