package diskIndex

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/akolanti/SemanticSearchAPI/internal/domain/searchModel"
)

// liveGenerationDir resolves the generation directory the manifest points at.
func liveGenerationDir(t *testing.T, dir string) string {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join(dir, metadataFile))
	if err != nil {
		t.Fatalf("Reading manifest: %v", err)
	}
	var m storeManifest
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("Parsing manifest: %v", err)
	}
	return filepath.Join(dir, m.Generation)
}

func builtIndex(t *testing.T, baseDir string) *index {
	t.Helper()
	idx := New(baseDir, "test-model")
	chunks := []searchModel.Chunk{
		{SourceDocument: "a.txt", Sequence: 0, Text: "whales are mammals"},
		{SourceDocument: "a.txt", Sequence: 1, Text: "sharks are fish"},
		{SourceDocument: "b.txt", Sequence: 0, Text: "bats can fly"},
	}
	vectors := [][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0.5, 0.5, 0.7},
	}
	if err := idx.Build(context.Background(), chunks, vectors); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return idx.(*index)
}

func TestPersistAndLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	baseDir := t.TempDir()

	idx := builtIndex(t, baseDir)
	if err := idx.Persist(ctx); err != nil {
		t.Fatalf("Persist failed: %v", err)
	}

	loaded, err := Load(baseDir, "test-model")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	m := loaded.Manifest()
	if m.ModelId != "test-model" || m.BackendId != "disk" {
		t.Errorf("Bad manifest identity: %+v", m)
	}
	if m.Dimension != 3 || m.ChunkCount != 3 {
		t.Errorf("Expected 3 dims / 3 chunks, got %+v", m)
	}

	// The rehydrated index must answer exactly like the original
	want, err := idx.Search(ctx, []float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatalf("Search on original failed: %v", err)
	}
	got, err := loaded.Search(ctx, []float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatalf("Search on loaded failed: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("Result counts differ: %d vs %d", len(got), len(want))
	}
	for i := range got {
		if got[i].Chunk != want[i].Chunk {
			t.Errorf("Result %d differs: %+v vs %+v", i, got[i].Chunk, want[i].Chunk)
		}
		if diff := got[i].Score - want[i].Score; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("Result %d score drifted: %f vs %f", i, got[i].Score, want[i].Score)
		}
	}
}

func TestLoadNeverBuilt(t *testing.T) {
	_, err := Load(t.TempDir(), "never-built")
	if !errors.Is(err, searchModel.ErrIndexNotFound) {
		t.Errorf("Expected ErrIndexNotFound, got %v", err)
	}
}

func TestLoadCorruptStore(t *testing.T) {
	ctx := context.Background()
	baseDir := t.TempDir()

	idx := builtIndex(t, baseDir)
	if err := idx.Persist(ctx); err != nil {
		t.Fatalf("Persist failed: %v", err)
	}

	dir := filepath.Join(baseDir, "disk_test-model")

	t.Run("truncated vectors", func(t *testing.T) {
		if err := os.WriteFile(filepath.Join(liveGenerationDir(t, dir), vectorsFile), []byte{1, 2, 3}, 0o644); err != nil {
			t.Fatal(err)
		}
		_, err := Load(baseDir, "test-model")
		if !errors.Is(err, searchModel.ErrBackendIO) {
			t.Errorf("Expected ErrBackendIO, got %v", err)
		}
	})

	t.Run("mangled metadata", func(t *testing.T) {
		if err := os.WriteFile(filepath.Join(dir, metadataFile), []byte("{not json"), 0o644); err != nil {
			t.Fatal(err)
		}
		_, err := Load(baseDir, "test-model")
		if !errors.Is(err, searchModel.ErrBackendIO) {
			t.Errorf("Expected ErrBackendIO, got %v", err)
		}
	})
}

func TestPersistBeforeBuild(t *testing.T) {
	idx := New(t.TempDir(), "test-model")
	err := idx.Persist(context.Background())
	if !errors.Is(err, searchModel.ErrEmptyInput) {
		t.Errorf("Expected ErrEmptyInput, got %v", err)
	}
}

func TestPersistOverwritesPrevious(t *testing.T) {
	ctx := context.Background()
	baseDir := t.TempDir()

	idx := builtIndex(t, baseDir)
	if err := idx.Persist(ctx); err != nil {
		t.Fatalf("First persist failed: %v", err)
	}

	// Rebuild with a single chunk and persist again
	chunks := []searchModel.Chunk{{SourceDocument: "c.txt", Sequence: 0, Text: "only one"}}
	if err := idx.Build(ctx, chunks, [][]float32{{0, 0, 1}}); err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}
	if err := idx.Persist(ctx); err != nil {
		t.Fatalf("Second persist failed: %v", err)
	}

	loaded, err := Load(baseDir, "test-model")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Manifest().ChunkCount != 1 {
		t.Errorf("Expected the rebuilt store, got %d chunks", loaded.Manifest().ChunkCount)
	}
}

func TestPersistNeverExposesMixedGenerations(t *testing.T) {
	ctx := context.Background()
	baseDir := t.TempDir()

	idx := New(baseDir, "test-model").(*index)

	// Two corpora with identical shape, distinguishable only by content.
	// A store mixing files from both would still satisfy the manifest
	// consistency check, so the texts are what the readers verify.
	buildGeneration := func(marker string) error {
		chunks := []searchModel.Chunk{
			{SourceDocument: "a.txt", Sequence: 0, Text: marker + " one"},
			{SourceDocument: "a.txt", Sequence: 1, Text: marker + " two"},
			{SourceDocument: "b.txt", Sequence: 0, Text: marker + " three"},
		}
		vectors := [][]float32{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
		return idx.Build(ctx, chunks, vectors)
	}

	if err := buildGeneration("alpha"); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if err := idx.Persist(ctx); err != nil {
		t.Fatalf("Initial persist failed: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		markers := []string{"beta", "alpha"}
		for i := 0; i < 50; i++ {
			if err := buildGeneration(markers[i%2]); err != nil {
				t.Errorf("Build %d failed: %v", i, err)
				return
			}
			if err := idx.Persist(ctx); err != nil {
				t.Errorf("Persist %d failed: %v", i, err)
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		default:
		}
		loaded, err := Load(baseDir, "test-model")
		if err != nil {
			// a reader can lose the generation race twice under this much
			// churn; only a store mixing two builds is a failure here
			continue
		}
		disk := loaded.(*index)
		marker := strings.Fields(disk.chunks[0].Text)[0]
		for _, c := range disk.chunks {
			if !strings.HasPrefix(c.Text, marker) {
				t.Fatalf("Loaded a mixed store: %q alongside %q", c.Text, marker)
			}
		}
	}
}

func TestPersistReapsOldGenerations(t *testing.T) {
	ctx := context.Background()
	baseDir := t.TempDir()
	dir := filepath.Join(baseDir, "disk_test-model")

	idx := builtIndex(t, baseDir)
	for i := 0; i < 4; i++ {
		if err := idx.Persist(ctx); err != nil {
			t.Fatalf("Persist %d failed: %v", i, err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	generations := 0
	for _, e := range entries {
		if e.IsDir() && strings.HasPrefix(e.Name(), generationPrefix) {
			generations++
		}
	}
	// the live generation plus the one readers may still be draining
	if generations != 2 {
		t.Errorf("Expected 2 generation dirs after repeated persists, got %d", generations)
	}

	live := liveGenerationDir(t, dir)
	if _, err := os.Stat(filepath.Join(live, vectorsFile)); err != nil {
		t.Errorf("Live generation is missing its vectors: %v", err)
	}
	if _, err := Load(baseDir, "test-model"); err != nil {
		t.Errorf("Load after reaping failed: %v", err)
	}
}

func TestListManifests(t *testing.T) {
	ctx := context.Background()
	baseDir := t.TempDir()

	idx := builtIndex(t, baseDir)
	if err := idx.Persist(ctx); err != nil {
		t.Fatalf("Persist failed: %v", err)
	}

	// A stray non-index directory and a corrupt store should both be skipped
	if err := os.MkdirAll(filepath.Join(baseDir, "lost+found"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(baseDir, "disk_broken"), 0o755); err != nil {
		t.Fatal(err)
	}

	manifests, err := ListManifests(baseDir)
	if err != nil {
		t.Fatalf("ListManifests failed: %v", err)
	}
	if len(manifests) != 1 {
		t.Fatalf("Expected 1 manifest, got %d", len(manifests))
	}
	if manifests[0].IndexId() != "disk_test-model" {
		t.Errorf("Unexpected manifest id %q", manifests[0].IndexId())
	}
}

func TestListManifestsMissingRoot(t *testing.T) {
	manifests, err := ListManifests(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("Expected no error for a missing root, got %v", err)
	}
	if len(manifests) != 0 {
		t.Errorf("Expected no manifests, got %d", len(manifests))
	}
}

func TestCodecRoundTrip(t *testing.T) {
	in := []float32{0, 1, -1, 0.5, 3.14159, -2.71828}
	out, err := bytesToFloat32Slice(float32SliceToBytes(in))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("Length mismatch: %d vs %d", len(out), len(in))
	}
	for i := range in {
		if in[i] != out[i] {
			t.Errorf("Value %d changed: %f vs %f", i, in[i], out[i])
		}
	}
}
