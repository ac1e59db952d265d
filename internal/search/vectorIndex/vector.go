package vectorIndex

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/akolanti/SemanticSearchAPI/internal/domain/searchModel"
)

// Index is the contract every backend satisfies. Build replaces any prior
// content, Search returns up to k hits by descending cosine similarity with
// ties kept in insertion order. Instances are safe for concurrent Search.
type Index interface {
	Build(ctx context.Context, chunks []searchModel.Chunk, vectors [][]float32) error
	Search(ctx context.Context, queryVector []float32, k int) ([]searchModel.ScoredChunk, error)
	Manifest() searchModel.IndexManifest
}

// Persistent marks backends with durable storage. Persist flushes the built
// index, the registry calls it right after a successful Build.
type Persistent interface {
	Index
	Persist(ctx context.Context) error
}

// Normalize returns v scaled to unit length so similarity reduces to a dot
// product. The zero vector comes back unchanged.
func Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		out := make([]float32, len(v))
		copy(out, v)
		return out
	}
	inv := 1 / math.Sqrt(sum)
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) * inv)
	}
	return out
}

// ValidateBuild checks the chunk/vector pairing and returns the uniform
// dimension. Backends call this before touching their storage.
func ValidateBuild(chunks []searchModel.Chunk, vectors [][]float32) (int, error) {
	if len(chunks) == 0 {
		return 0, fmt.Errorf("%w: no chunks to index", searchModel.ErrEmptyInput)
	}
	if len(vectors) != len(chunks) {
		return 0, fmt.Errorf("%w: got %d chunks but %d vectors", searchModel.ErrDimensionMismatch, len(chunks), len(vectors))
	}
	dim := len(vectors[0])
	if dim == 0 {
		return 0, fmt.Errorf("%w: zero-length vector at position 0", searchModel.ErrDimensionMismatch)
	}
	for i, v := range vectors {
		if len(v) != dim {
			return 0, fmt.Errorf("%w: vector %d has %d dims, expected %d", searchModel.ErrDimensionMismatch, i, len(v), dim)
		}
	}
	return dim, nil
}

// FlattenNormalized packs the vectors into one contiguous normalized slice,
// the layout the exact-scan backends hold in memory and serialize to disk.
func FlattenNormalized(vectors [][]float32, dim int) []float32 {
	flat := make([]float32, 0, len(vectors)*dim)
	for _, v := range vectors {
		flat = append(flat, Normalize(v)...)
	}
	return flat
}

// ScanTopK runs the exact linear scan over a flattened normalized matrix.
// Scores are cosine similarities, descending, stable on ties.
func ScanTopK(chunks []searchModel.Chunk, flat []float32, dim int, queryVector []float32, k int) ([]searchModel.ScoredChunk, error) {
	if len(queryVector) != dim {
		return nil, fmt.Errorf("%w: query has %d dims, index expects %d", searchModel.ErrDimensionMismatch, len(queryVector), dim)
	}

	query := Normalize(queryVector)
	scored := make([]searchModel.ScoredChunk, len(chunks))
	for i := range chunks {
		row := flat[i*dim : (i+1)*dim]
		var dot float64
		for j, q := range query {
			dot += float64(q) * float64(row[j])
		}
		scored[i] = searchModel.ScoredChunk{Chunk: chunks[i], Score: dot}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if k < len(scored) {
		scored = scored[:k]
	}
	return scored, nil
}
