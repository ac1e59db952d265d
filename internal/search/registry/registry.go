package registry

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/akolanti/SemanticSearchAPI/internal/config"
	"github.com/akolanti/SemanticSearchAPI/internal/domain/searchModel"
	"github.com/akolanti/SemanticSearchAPI/internal/metrics"
	"github.com/akolanti/SemanticSearchAPI/internal/search/chunker"
	"github.com/akolanti/SemanticSearchAPI/internal/search/embedding"
	"github.com/akolanti/SemanticSearchAPI/internal/search/vectorIndex"
	"github.com/akolanti/SemanticSearchAPI/internal/search/vectorIndex/diskIndex"
	"github.com/akolanti/SemanticSearchAPI/internal/search/vectorIndex/memoryIndex"
	"github.com/akolanti/SemanticSearchAPI/internal/search/vectorIndex/qdrantIndex"
	"github.com/akolanti/SemanticSearchAPI/pkg/logger_i"
	"golang.org/x/sync/singleflight"
)

// DocumentSource is the slice of the document store a build needs.
type DocumentSource interface {
	Snapshot(ctx context.Context) ([]searchModel.Document, error)
}

// EmbedderSource hands out embedding clients by model id.
type EmbedderSource interface {
	Get(ctx context.Context, modelId string) (embedding.Embedder, error)
}

// Registry owns every live index instance. Builds construct a fresh instance
// off to the side and swap it in atomically, searches in flight keep reading
// the old generation until they finish.
type Registry struct {
	rootCtx   context.Context
	docs      DocumentSource
	embedders EmbedderSource
	baseDir   string
	chunkCfg  chunker.Config
	logger    *logger_i.Logger

	newBackend  func(ctx context.Context, backendId string, modelId string) (vectorIndex.Index, error)
	loadBackend func(ctx context.Context, backendId string, modelId string) (vectorIndex.Index, error)

	group singleflight.Group
	mu    sync.RWMutex
	live  map[string]vectorIndex.Index
}

func New(rootCtx context.Context, docs DocumentSource, embedders EmbedderSource, baseDir string, chunkCfg chunker.Config) *Registry {
	r := &Registry{
		rootCtx:   rootCtx,
		docs:      docs,
		embedders: embedders,
		baseDir:   baseDir,
		chunkCfg:  chunkCfg,
		logger:    logger_i.NewLogger("IndexRegistry"),
		live:      map[string]vectorIndex.Index{},
	}
	r.newBackend = r.defaultNewBackend
	r.loadBackend = r.defaultLoadBackend
	return r
}

func validBackend(backendId string) bool {
	switch backendId {
	case config.BackendMemory, config.BackendDisk, config.BackendQdrant:
		return true
	}
	return false
}

// parseIndexId splits {backend}_{model}. Model ids may contain underscores,
// the backend never does.
func parseIndexId(indexId string) (modelId string, backendId string, err error) {
	parts := strings.SplitN(indexId, "_", 2)
	if len(parts) != 2 || !validBackend(parts[0]) {
		return "", "", fmt.Errorf("%w: %q is not a known index id", searchModel.ErrIndexNotFound, indexId)
	}
	return parts[1], parts[0], nil
}

// List merges the manifests persisted on disk with every live instance.
// A live instance wins over its stale on-disk manifest.
func (r *Registry) List(ctx context.Context) ([]searchModel.IndexManifest, error) {
	manifests, err := diskIndex.ListManifests(r.baseDir)
	if err != nil {
		return nil, err
	}

	byId := map[string]searchModel.IndexManifest{}
	for _, m := range manifests {
		byId[m.IndexId()] = m
	}

	r.mu.RLock()
	for id, idx := range r.live {
		byId[id] = idx.Manifest()
	}
	r.mu.RUnlock()

	out := make([]searchModel.IndexManifest, 0, len(byId))
	for _, m := range byId {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IndexId() < out[j].IndexId() })
	return out, nil
}

// Resolve returns the live index for an id, loading it from its backend on
// first use. Concurrent resolves of the same id share one load.
func (r *Registry) Resolve(ctx context.Context, indexId string) (vectorIndex.Index, error) {
	modelId, backendId, err := parseIndexId(indexId)
	if err != nil {
		return nil, err
	}
	if _, err := embedding.Dimension(modelId); err != nil {
		return nil, fmt.Errorf("%w: %q is not a known index id", searchModel.ErrIndexNotFound, indexId)
	}

	r.mu.RLock()
	idx, ok := r.live[indexId]
	r.mu.RUnlock()
	if ok {
		return idx, nil
	}

	v, err, _ := r.group.Do(indexId, func() (any, error) {
		r.mu.RLock()
		idx, ok := r.live[indexId]
		r.mu.RUnlock()
		if ok {
			return idx, nil
		}

		loaded, err := r.loadBackend(ctx, backendId, modelId)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.live[indexId] = loaded
		r.mu.Unlock()
		r.logger.Info("Index loaded", "index", indexId, "chunks", loaded.Manifest().ChunkCount)
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(vectorIndex.Index), nil
}

// Build runs the full pipeline for one (model, backend) pair: snapshot the
// documents, chunk, batch-embed, build a fresh backend instance, persist it,
// then swap it in as the live generation.
func (r *Registry) Build(ctx context.Context, modelId string, backendId string) (searchModel.BuildStats, error) {
	started := time.Now()
	loggr := r.logger.With(config.TRACE_ID_KEY, ctx.Value(config.TRACE_ID_KEY))

	if !validBackend(backendId) {
		return searchModel.BuildStats{}, fmt.Errorf("%w: unknown backend %q", searchModel.ErrInvalidConfiguration, backendId)
	}
	embedder, err := r.embedders.Get(ctx, modelId)
	if err != nil {
		return searchModel.BuildStats{}, err
	}

	docs, err := r.docs.Snapshot(ctx)
	if err != nil {
		return searchModel.BuildStats{}, err
	}
	if len(docs) == 0 {
		return searchModel.BuildStats{}, fmt.Errorf("%w: no documents to index", searchModel.ErrEmptyInput)
	}

	chunkStart := time.Now()
	var chunks []searchModel.Chunk
	for _, doc := range docs {
		docChunks, err := chunker.Split(doc.Name, doc.Text, r.chunkCfg)
		if err != nil {
			return searchModel.BuildStats{}, err
		}
		chunks = append(chunks, docChunks...)
	}
	metrics.CaptureStageMetrics("chunking", time.Since(chunkStart))
	if len(chunks) == 0 {
		return searchModel.BuildStats{}, fmt.Errorf("%w: documents contain no text", searchModel.ErrEmptyInput)
	}
	loggr.Info("Corpus chunked", "documents", len(docs), "chunks", len(chunks))

	embedStart := time.Now()
	vectors, err := r.embedAll(ctx, embedder, chunks)
	if err != nil {
		return searchModel.BuildStats{}, err
	}
	metrics.CaptureStageMetrics("embedding", time.Since(embedStart))

	fresh, err := r.newBackend(r.rootCtx, backendId, modelId)
	if err != nil {
		return searchModel.BuildStats{}, err
	}

	buildStart := time.Now()
	if err := fresh.Build(ctx, chunks, vectors); err != nil {
		return searchModel.BuildStats{}, err
	}
	metrics.CaptureStageMetrics("index_build", time.Since(buildStart))

	if persistent, ok := fresh.(vectorIndex.Persistent); ok {
		persistStart := time.Now()
		if err := persistent.Persist(ctx); err != nil {
			return searchModel.BuildStats{}, err
		}
		metrics.CaptureStageMetrics("persist", time.Since(persistStart))
	}

	indexId := searchModel.IndexId(modelId, backendId)
	r.mu.Lock()
	r.live[indexId] = fresh
	r.mu.Unlock()

	stats := searchModel.BuildStats{
		DocumentsProcessed: len(docs),
		ChunksCreated:      len(chunks),
		Dimension:          fresh.Manifest().Dimension,
		ElapsedSeconds:     time.Since(started).Seconds(),
	}
	loggr.Info("Index built", "index", indexId, "chunks", stats.ChunksCreated, "elapsedSeconds", stats.ElapsedSeconds)
	return stats, nil
}

func (r *Registry) embedAll(ctx context.Context, embedder embedding.Embedder, chunks []searchModel.Chunk) ([][]float32, error) {
	vectors := make([][]float32, 0, len(chunks))
	for start := 0; start < len(chunks); start += config.EmbeddingBatchSize {
		end := min(start+config.EmbeddingBatchSize, len(chunks))

		texts := make([]string, 0, end-start)
		for _, c := range chunks[start:end] {
			texts = append(texts, c.Text)
		}

		batch, err := embedder.BatchEmbedding(ctx, texts)
		if err != nil {
			return nil, err
		}
		if len(batch) != len(texts) {
			return nil, fmt.Errorf("%w: embedder returned %d vectors for %d chunks", searchModel.ErrDimensionMismatch, len(batch), len(texts))
		}
		vectors = append(vectors, batch...)
	}
	return vectors, nil
}

func (r *Registry) defaultNewBackend(ctx context.Context, backendId string, modelId string) (vectorIndex.Index, error) {
	switch backendId {
	case config.BackendMemory:
		return memoryIndex.New(modelId), nil
	case config.BackendDisk:
		return diskIndex.New(r.baseDir, modelId), nil
	case config.BackendQdrant:
		return qdrantIndex.New(ctx, modelId)
	}
	return nil, fmt.Errorf("%w: unknown backend %q", searchModel.ErrInvalidConfiguration, backendId)
}

func (r *Registry) defaultLoadBackend(ctx context.Context, backendId string, modelId string) (vectorIndex.Index, error) {
	switch backendId {
	case config.BackendMemory:
		return memoryIndex.Load(modelId)
	case config.BackendDisk:
		return diskIndex.Load(r.baseDir, modelId)
	case config.BackendQdrant:
		dim, err := embedding.Dimension(modelId)
		if err != nil {
			return nil, err
		}
		return qdrantIndex.Load(r.rootCtx, modelId, dim)
	}
	return nil, fmt.Errorf("%w: unknown backend %q", searchModel.ErrIndexNotFound, backendId)
}
