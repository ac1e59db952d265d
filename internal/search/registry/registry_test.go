package registry

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/akolanti/SemanticSearchAPI/internal/config"
	"github.com/akolanti/SemanticSearchAPI/internal/domain/searchModel"
	"github.com/akolanti/SemanticSearchAPI/internal/search/chunker"
	"github.com/akolanti/SemanticSearchAPI/internal/search/embedding"
	"github.com/akolanti/SemanticSearchAPI/internal/search/vectorIndex"
)

type mockDocs struct {
	docs []searchModel.Document
	err  error
}

func (m *mockDocs) Snapshot(ctx context.Context) ([]searchModel.Document, error) {
	return m.docs, m.err
}

// mockEmbedder hashes text into a small deterministic vector.
type mockEmbedder struct {
	model      string
	batchCalls int32
	maxBatch   int32
}

func textVector(text string) []float32 {
	var a, b, c float32
	for i, r := range text {
		switch i % 3 {
		case 0:
			a += float32(r)
		case 1:
			b += float32(r)
		case 2:
			c += float32(r)
		}
	}
	return []float32{a + 1, b + 1, c + 1}
}

func (m *mockEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	return textVector(query), nil
}

func (m *mockEmbedder) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	atomic.AddInt32(&m.batchCalls, 1)
	if int32(len(chunks)) > atomic.LoadInt32(&m.maxBatch) {
		atomic.StoreInt32(&m.maxBatch, int32(len(chunks)))
	}
	out := make([][]float32, len(chunks))
	for i, c := range chunks {
		out[i] = textVector(c)
	}
	return out, nil
}

func (m *mockEmbedder) ModelId() string { return m.model }
func (m *mockEmbedder) Dimension() int  { return 3 }

type mockEmbedders struct {
	embedder *mockEmbedder
}

func (m *mockEmbedders) Get(ctx context.Context, modelId string) (embedding.Embedder, error) {
	if _, err := embedding.Dimension(modelId); err != nil {
		return nil, err
	}
	return m.embedder, nil
}

func newTestRegistry(t *testing.T, docs []searchModel.Document) (*Registry, *mockEmbedder) {
	t.Helper()
	emb := &mockEmbedder{model: config.GoogleEmbeddingModel}
	r := New(
		context.Background(),
		&mockDocs{docs: docs},
		&mockEmbedders{embedder: emb},
		t.TempDir(),
		chunker.Config{ChunkSize: config.ChunkSize, Overlap: config.ChunkOverlap},
	)
	return r, emb
}

func mammalDocs() []searchModel.Document {
	return []searchModel.Document{
		{Name: "animals.txt", Text: "Cats are mammals. Dogs are mammals too.", SizeBytes: 39},
	}
}

func TestBuildMemoryIndex(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRegistry(t, mammalDocs())

	stats, err := r.Build(ctx, config.GoogleEmbeddingModel, config.BackendMemory)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if stats.DocumentsProcessed != 1 || stats.ChunksCreated < 1 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
	if stats.Dimension != 3 {
		t.Errorf("Expected dimension 3, got %d", stats.Dimension)
	}

	idx, err := r.Resolve(ctx, searchModel.IndexId(config.GoogleEmbeddingModel, config.BackendMemory))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	results, err := idx.Search(ctx, textVector("cats"), 1)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("Expected 1 result, got %d", len(results))
	}
}

func TestBuildValidation(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown model", func(t *testing.T) {
		r, _ := newTestRegistry(t, mammalDocs())
		_, err := r.Build(ctx, "fasttext-300", config.BackendMemory)
		if !errors.Is(err, searchModel.ErrModelUnavailable) {
			t.Errorf("Expected ErrModelUnavailable, got %v", err)
		}
	})

	t.Run("unknown backend", func(t *testing.T) {
		r, _ := newTestRegistry(t, mammalDocs())
		_, err := r.Build(ctx, config.GoogleEmbeddingModel, "elasticsearch")
		if !errors.Is(err, searchModel.ErrInvalidConfiguration) {
			t.Errorf("Expected ErrInvalidConfiguration, got %v", err)
		}
	})

	t.Run("no documents", func(t *testing.T) {
		r, _ := newTestRegistry(t, nil)
		_, err := r.Build(ctx, config.GoogleEmbeddingModel, config.BackendMemory)
		if !errors.Is(err, searchModel.ErrEmptyInput) {
			t.Errorf("Expected ErrEmptyInput, got %v", err)
		}
	})
}

func TestBuildBatchesEmbeddings(t *testing.T) {
	ctx := context.Background()

	// Enough text to force several hundred chunks
	text := strings.Repeat("The quick brown fox jumps over the lazy dog near the river bank. ", 400)
	r, emb := newTestRegistry(t, []searchModel.Document{{Name: "big.txt", Text: text}})
	r.chunkCfg = chunker.Config{ChunkSize: 80, Overlap: 10}

	stats, err := r.Build(ctx, config.GoogleEmbeddingModel, config.BackendMemory)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if stats.ChunksCreated <= config.EmbeddingBatchSize {
		t.Fatalf("Test corpus too small to exercise batching: %d chunks", stats.ChunksCreated)
	}

	wantCalls := (stats.ChunksCreated + config.EmbeddingBatchSize - 1) / config.EmbeddingBatchSize
	if int(emb.batchCalls) != wantCalls {
		t.Errorf("Expected %d batch calls, got %d", wantCalls, emb.batchCalls)
	}
	if emb.maxBatch > config.EmbeddingBatchSize {
		t.Errorf("Batch exceeded limit: %d", emb.maxBatch)
	}
}

func TestResolveUnknownIds(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRegistry(t, mammalDocs())

	for _, id := range []string{
		"memory_" + config.GoogleEmbeddingModel, // valid shape, never built
		"bogus_" + config.GoogleEmbeddingModel,  // unknown backend
		"memory_fasttext-300",                   // unknown model
		"garbage",
	} {
		if _, err := r.Resolve(ctx, id); !errors.Is(err, searchModel.ErrIndexNotFound) {
			t.Errorf("Resolve(%q): expected ErrIndexNotFound, got %v", id, err)
		}
	}
}

func TestResolveLoadsPersistedDiskIndex(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRegistry(t, mammalDocs())

	if _, err := r.Build(ctx, config.GoogleEmbeddingModel, config.BackendDisk); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	// A second registry over the same directory simulates a process restart
	fresh := New(ctx, &mockDocs{}, &mockEmbedders{embedder: &mockEmbedder{}}, r.baseDir, r.chunkCfg)
	idx, err := fresh.Resolve(ctx, searchModel.IndexId(config.GoogleEmbeddingModel, config.BackendDisk))
	if err != nil {
		t.Fatalf("Resolve after restart failed: %v", err)
	}
	if idx.Manifest().ChunkCount < 1 {
		t.Errorf("Loaded index is empty: %+v", idx.Manifest())
	}
}

func TestResolveSingleFlight(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRegistry(t, mammalDocs())

	if _, err := r.Build(ctx, config.GoogleEmbeddingModel, config.BackendDisk); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	fresh := New(ctx, &mockDocs{}, &mockEmbedders{embedder: &mockEmbedder{}}, r.baseDir, r.chunkCfg)
	var loads int32
	inner := fresh.loadBackend
	fresh.loadBackend = func(ctx context.Context, backendId string, modelId string) (vectorIndex.Index, error) {
		atomic.AddInt32(&loads, 1)
		return inner(ctx, backendId, modelId)
	}

	indexId := searchModel.IndexId(config.GoogleEmbeddingModel, config.BackendDisk)
	var wg sync.WaitGroup
	instances := make([]vectorIndex.Index, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			idx, err := fresh.Resolve(ctx, indexId)
			if err != nil {
				t.Errorf("Resolve failed: %v", err)
				return
			}
			instances[slot] = idx
		}(i)
	}
	wg.Wait()

	if loads != 1 {
		t.Errorf("Expected 1 backend load, got %d", loads)
	}
	for i := 1; i < len(instances); i++ {
		if instances[i] != instances[0] {
			t.Error("Concurrent resolves returned different instances")
			break
		}
	}
}

func TestRebuildSwapsAtomically(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRegistry(t, mammalDocs())

	if _, err := r.Build(ctx, config.GoogleEmbeddingModel, config.BackendMemory); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	indexId := searchModel.IndexId(config.GoogleEmbeddingModel, config.BackendMemory)
	old, err := r.Resolve(ctx, indexId)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	// Searches against the old generation keep working while rebuilds swap
	// new instances in underneath.
	done := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				if _, err := old.Search(ctx, textVector("dogs"), 1); err != nil {
					t.Errorf("Search on old generation failed: %v", err)
					return
				}
			}
		}()
	}

	for i := 0; i < 5; i++ {
		if _, err := r.Build(ctx, config.GoogleEmbeddingModel, config.BackendMemory); err != nil {
			t.Errorf("Rebuild failed: %v", err)
		}
	}
	close(done)
	wg.Wait()

	fresh, err := r.Resolve(ctx, indexId)
	if err != nil {
		t.Fatalf("Resolve after rebuild failed: %v", err)
	}
	if fresh == old {
		t.Error("Expected a new instance after rebuild")
	}
}

func TestListMergesLiveAndPersisted(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRegistry(t, mammalDocs())

	if _, err := r.Build(ctx, config.GoogleEmbeddingModel, config.BackendMemory); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if _, err := r.Build(ctx, config.GoogleEmbeddingModel, config.BackendDisk); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	manifests, err := r.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(manifests) != 2 {
		t.Fatalf("Expected 2 manifests, got %d", len(manifests))
	}
	// Sorted by index id: disk_* before memory_*
	if manifests[0].BackendId != config.BackendDisk || manifests[1].BackendId != config.BackendMemory {
		t.Errorf("Unexpected ordering: %+v", manifests)
	}
}
