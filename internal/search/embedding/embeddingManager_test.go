package embedding

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/akolanti/SemanticSearchAPI/internal/config"
	"github.com/akolanti/SemanticSearchAPI/internal/domain/searchModel"
)

type mockEmbedder struct {
	model string
	dim   int
}

func (m *mockEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	return make([]float32, m.dim), nil
}

func (m *mockEmbedder) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	out := make([][]float32, len(chunks))
	for i := range out {
		out[i] = make([]float32, m.dim)
	}
	return out, nil
}

func (m *mockEmbedder) ModelId() string { return m.model }
func (m *mockEmbedder) Dimension() int  { return m.dim }

func TestSupportedModels(t *testing.T) {
	models := SupportedModels()
	if len(models) != 3 {
		t.Fatalf("Expected 3 catalog models, got %d", len(models))
	}

	want := map[string]int{
		config.GoogleEmbeddingModel:       int(config.GoogleEmbeddingDimension),
		config.OpenAIEmbeddingModelSmall:  config.OpenAISmallDimension,
		config.OpenAIEmbeddingModelLarge:  config.OpenAILargeDimension,
	}
	for _, m := range models {
		dim, ok := want[m.Id]
		if !ok {
			t.Errorf("Unexpected catalog model %q", m.Id)
			continue
		}
		if m.Dimension != dim {
			t.Errorf("Model %q: expected dimension %d, got %d", m.Id, dim, m.Dimension)
		}
	}
}

func TestDimensionUnknownModel(t *testing.T) {
	_, err := Dimension("word2vec-classic")
	if !errors.Is(err, searchModel.ErrModelUnavailable) {
		t.Errorf("Expected ErrModelUnavailable, got %v", err)
	}
}

func TestManagerRejectsUnknownModel(t *testing.T) {
	mgr := NewManager(context.Background(), func(ctx context.Context, modelId string) (Embedder, error) {
		t.Error("Factory must not run for an unknown model")
		return nil, nil
	})

	_, err := mgr.Get(context.Background(), "not-a-model")
	if !errors.Is(err, searchModel.ErrModelUnavailable) {
		t.Errorf("Expected ErrModelUnavailable, got %v", err)
	}
}

func TestManagerCachesClients(t *testing.T) {
	var created int32
	mgr := NewManager(context.Background(), func(ctx context.Context, modelId string) (Embedder, error) {
		atomic.AddInt32(&created, 1)
		return &mockEmbedder{model: modelId, dim: 4}, nil
	})

	first, err := mgr.Get(context.Background(), config.GoogleEmbeddingModel)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	second, err := mgr.Get(context.Background(), config.GoogleEmbeddingModel)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if first != second {
		t.Error("Expected the cached client on the second Get")
	}
	if created != 1 {
		t.Errorf("Expected 1 factory call, got %d", created)
	}
}

func TestManagerSingleFlightUnderConcurrency(t *testing.T) {
	var created int32
	mgr := NewManager(context.Background(), func(ctx context.Context, modelId string) (Embedder, error) {
		atomic.AddInt32(&created, 1)
		return &mockEmbedder{model: modelId, dim: 4}, nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := mgr.Get(context.Background(), config.OpenAIEmbeddingModelSmall); err != nil {
				t.Errorf("Get failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if created != 1 {
		t.Errorf("Expected 1 factory call across 16 goroutines, got %d", created)
	}
}

func TestManagerFactoryFailure(t *testing.T) {
	mgr := NewManager(context.Background(), func(ctx context.Context, modelId string) (Embedder, error) {
		return nil, errors.New("no api key")
	})

	_, err := mgr.Get(context.Background(), config.GoogleEmbeddingModel)
	if !errors.Is(err, searchModel.ErrModelUnavailable) {
		t.Errorf("Expected ErrModelUnavailable, got %v", err)
	}
}
