package diskIndex

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/akolanti/SemanticSearchAPI/internal/config"
	"github.com/akolanti/SemanticSearchAPI/internal/domain/searchModel"
	"github.com/akolanti/SemanticSearchAPI/internal/search/vectorIndex"
)

// On-disk layout, one directory per index under the store root. Vectors and
// chunks live in immutable generation subdirectories; the manifest at the
// store root names the live generation and is replaced atomically, so a
// reader never mixes files from two different builds:
//
//	{root}/disk_{model}/metadata.json             manifest + live generation
//	{root}/disk_{model}/gen-{nano}/vectors.bin    little-endian float32 matrix
//	{root}/disk_{model}/gen-{nano}/chunks.json    chunk texts + provenance
const (
	vectorsFile  = "vectors.bin"
	chunksFile   = "chunks.json"
	metadataFile = "metadata.json"

	generationPrefix = "gen-"
)

// storeManifest is what metadata.json actually holds: the public manifest
// plus the name of the generation directory it describes.
type storeManifest struct {
	searchModel.IndexManifest
	Generation string `json:"generation"`
}

// index keeps the whole corpus in memory for exact scans and serializes it
// on Persist. Same search semantics as the memory backend.
type index struct {
	baseDir string
	modelId string

	mu        sync.RWMutex
	dimension int
	chunks    []searchModel.Chunk
	flat      []float32
	createdAt time.Time
}

func New(baseDir string, modelId string) vectorIndex.Persistent {
	return &index{baseDir: baseDir, modelId: modelId}
}

// Load rehydrates a previously persisted index. A missing manifest means the
// index was never built, anything else wrong with the files is a backend
// fault. The live generation can be reaped if two rebuilds complete between
// the manifest read and the data reads, so one stale read gets a second pass
// against the fresh manifest.
func Load(baseDir string, modelId string) (vectorIndex.Persistent, error) {
	dir := filepath.Join(baseDir, searchModel.IndexId(modelId, config.BackendDisk))

	idx, stale, err := loadOnce(dir)
	if stale {
		idx, _, err = loadOnce(dir)
	}
	return idx, err
}

func loadOnce(dir string) (vectorIndex.Persistent, bool, error) {
	metaRaw, err := os.ReadFile(filepath.Join(dir, metadataFile))
	if os.IsNotExist(err) {
		return nil, false, fmt.Errorf("%w: no persisted index at %s", searchModel.ErrIndexNotFound, dir)
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: reading %s: %v", searchModel.ErrBackendIO, metadataFile, err)
	}
	var manifest storeManifest
	if err := json.Unmarshal(metaRaw, &manifest); err != nil {
		return nil, false, fmt.Errorf("%w: corrupt %s: %v", searchModel.ErrBackendIO, metadataFile, err)
	}
	genDir := filepath.Join(dir, manifest.Generation)

	chunksRaw, err := os.ReadFile(filepath.Join(genDir, chunksFile))
	if os.IsNotExist(err) {
		return nil, true, fmt.Errorf("%w: generation %s at %s is gone", searchModel.ErrBackendIO, manifest.Generation, dir)
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: reading %s: %v", searchModel.ErrBackendIO, chunksFile, err)
	}
	var chunks []searchModel.Chunk
	if err := json.Unmarshal(chunksRaw, &chunks); err != nil {
		return nil, false, fmt.Errorf("%w: corrupt %s: %v", searchModel.ErrBackendIO, chunksFile, err)
	}

	blob, err := os.ReadFile(filepath.Join(genDir, vectorsFile))
	if os.IsNotExist(err) {
		return nil, true, fmt.Errorf("%w: generation %s at %s is gone", searchModel.ErrBackendIO, manifest.Generation, dir)
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: reading %s: %v", searchModel.ErrBackendIO, vectorsFile, err)
	}
	flat, err := bytesToFloat32Slice(blob)
	if err != nil {
		return nil, false, fmt.Errorf("%w: corrupt %s: %v", searchModel.ErrBackendIO, vectorsFile, err)
	}

	if manifest.Dimension <= 0 || len(flat) != manifest.Dimension*len(chunks) || len(chunks) != manifest.ChunkCount {
		return nil, false, fmt.Errorf("%w: index files at %s disagree with the manifest", searchModel.ErrBackendIO, dir)
	}

	return &index{
		baseDir:   filepath.Dir(dir),
		modelId:   manifest.ModelId,
		dimension: manifest.Dimension,
		chunks:    chunks,
		flat:      flat,
		createdAt: manifest.CreatedAt,
	}, false, nil
}

// ListManifests reads the manifest of every persisted index under baseDir.
// Directories that fail to parse are skipped, one corrupt store must not
// hide the healthy ones.
func ListManifests(baseDir string) ([]searchModel.IndexManifest, error) {
	entries, err := os.ReadDir(baseDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: listing %s: %v", searchModel.ErrBackendIO, baseDir, err)
	}

	var manifests []searchModel.IndexManifest
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), config.BackendDisk+"_") {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(baseDir, e.Name(), metadataFile))
		if err != nil {
			continue
		}
		var m searchModel.IndexManifest
		if err := json.Unmarshal(raw, &m); err != nil {
			continue
		}
		manifests = append(manifests, m)
	}
	return manifests, nil
}

func (d *index) Build(ctx context.Context, chunks []searchModel.Chunk, vectors [][]float32) error {
	dim, err := vectorIndex.ValidateBuild(chunks, vectors)
	if err != nil {
		return err
	}

	owned := make([]searchModel.Chunk, len(chunks))
	copy(owned, chunks)
	flat := vectorIndex.FlattenNormalized(vectors, dim)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.dimension = dim
	d.chunks = owned
	d.flat = flat
	d.createdAt = time.Now().UTC()
	return nil
}

func (d *index) Search(ctx context.Context, queryVector []float32, k int) ([]searchModel.ScoredChunk, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.dimension == 0 {
		return nil, fmt.Errorf("%w: index %q has not been built", searchModel.ErrIndexNotFound, searchModel.IndexId(d.modelId, config.BackendDisk))
	}
	return vectorIndex.ScanTopK(d.chunks, d.flat, d.dimension, queryVector, k)
}

func (d *index) Manifest() searchModel.IndexManifest {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return searchModel.IndexManifest{
		ModelId:    d.modelId,
		BackendId:  config.BackendDisk,
		Dimension:  d.dimension,
		ChunkCount: len(d.chunks),
		CreatedAt:  d.createdAt,
	}
}

// Persist serializes the built index into a fresh generation directory and
// commits it by atomically replacing the manifest. The previous generation
// stays on disk until the persist after this one, in-flight readers may
// still be on it.
func (d *index) Persist(ctx context.Context) error {
	d.mu.RLock()
	manifest := searchModel.IndexManifest{
		ModelId:    d.modelId,
		BackendId:  config.BackendDisk,
		Dimension:  d.dimension,
		ChunkCount: len(d.chunks),
		CreatedAt:  d.createdAt,
	}
	chunks := d.chunks
	flat := d.flat
	d.mu.RUnlock()

	if manifest.Dimension == 0 {
		return fmt.Errorf("%w: nothing to persist", searchModel.ErrEmptyInput)
	}

	chunksRaw, err := json.Marshal(chunks)
	if err != nil {
		return fmt.Errorf("%w: encoding chunks: %v", searchModel.ErrBackendIO, err)
	}

	dir := filepath.Join(d.baseDir, manifest.IndexId())
	generation := fmt.Sprintf("%s%d", generationPrefix, time.Now().UnixNano())
	genDir := filepath.Join(dir, generation)
	if err := os.MkdirAll(genDir, 0o755); err != nil {
		return fmt.Errorf("%w: creating %s: %v", searchModel.ErrBackendIO, genDir, err)
	}

	// the outgoing generation, kept around for readers mid-load on it
	previous := ""
	if raw, err := os.ReadFile(filepath.Join(dir, metadataFile)); err == nil {
		var old storeManifest
		if json.Unmarshal(raw, &old) == nil {
			previous = old.Generation
		}
	}

	files := []struct {
		name string
		data []byte
	}{
		{vectorsFile, float32SliceToBytes(flat)},
		{chunksFile, chunksRaw},
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(genDir, f.name), f.data, 0o644); err != nil {
			os.RemoveAll(genDir)
			return fmt.Errorf("%w: writing %s: %v", searchModel.ErrBackendIO, f.name, err)
		}
	}

	metaRaw, err := json.Marshal(storeManifest{IndexManifest: manifest, Generation: generation})
	if err != nil {
		os.RemoveAll(genDir)
		return fmt.Errorf("%w: encoding manifest: %v", searchModel.ErrBackendIO, err)
	}

	// the manifest rename is the commit point
	if err := writeFileAtomic(filepath.Join(dir, metadataFile), metaRaw); err != nil {
		os.RemoveAll(genDir)
		return fmt.Errorf("%w: writing %s: %v", searchModel.ErrBackendIO, metadataFile, err)
	}

	reapGenerations(dir, generation, previous)
	return nil
}

// reapGenerations drops every generation directory except the live one and
// its immediate predecessor.
func reapGenerations(dir string, live string, previous string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), generationPrefix) {
			continue
		}
		if e.Name() == live || e.Name() == previous {
			continue
		}
		os.RemoveAll(filepath.Join(dir, e.Name()))
	}
}

func writeFileAtomic(path string, data []byte) error {
	write := func() error {
		tmp := path + ".tmp"
		if err := os.WriteFile(tmp, data, 0o644); err != nil {
			return err
		}
		return os.Rename(tmp, path)
	}
	if err := write(); err != nil {
		// transient filesystem hiccups get exactly one more chance
		return write()
	}
	return nil
}

func float32SliceToBytes(floats []float32) []byte {
	out := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(f))
	}
	return out
}

func bytesToFloat32Slice(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("blob length %d is not a multiple of 4", len(data))
	}
	out := make([]float32, len(data)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return out, nil
}
