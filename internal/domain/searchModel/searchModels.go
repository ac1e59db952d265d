package searchModel

import (
	"context"
	"time"
)

// Document is a snapshot of one uploaded file, as handed to an index build.
// The document store owns the file itself, the pipeline never mutates it.
type Document struct {
	Name      string `json:"name"`
	Text      string `json:"text"`
	SizeBytes int64  `json:"size_bytes"`
}

// Chunk is the atomic unit of retrieval - a bounded span of one document.
// Chunks only exist inside a built index, identity is (source, sequence).
type Chunk struct {
	SourceDocument string `json:"source_document"`
	Sequence       int    `json:"sequence"`
	Text           string `json:"text"`
}

// ScoredChunk is what a vector index search returns before ranking.
type ScoredChunk struct {
	Chunk Chunk
	Score float64
}

// SearchResult is a ranked hit as handed to the presentation layer.
// Ranks are 1-based and dense.
type SearchResult struct {
	Rank           int     `json:"rank"`
	Content        string  `json:"content"`
	SourceDocument string  `json:"source_document"`
	Score          float64 `json:"similarity_score"`
}

// QueryOutcome is one slot of a batch query - either results or a typed error,
// never both. A failed slot does not fail its siblings.
type QueryOutcome struct {
	Results []SearchResult
	Err     error
}

// IndexManifest describes one materialized index.
type IndexManifest struct {
	ModelId    string    `json:"model_id"`
	BackendId  string    `json:"backend_id"`
	Dimension  int       `json:"dimension"`
	ChunkCount int       `json:"chunk_count"`
	CreatedAt  time.Time `json:"created_at"`
}

func (m IndexManifest) IndexId() string {
	return IndexId(m.ModelId, m.BackendId)
}

// IndexId is the canonical identifier of a (model, backend) pair,
// also used as the on-disk store directory and qdrant collection name.
func IndexId(modelId string, backendId string) string {
	return backendId + "_" + modelId
}

// BuildStats summarizes a completed index build.
type BuildStats struct {
	DocumentsProcessed int     `json:"documents_processed"`
	ChunksCreated      int     `json:"chunks_created"`
	Dimension          int     `json:"dimension"`
	ElapsedSeconds     float64 `json:"elapsed_seconds"`
}

// HistoryEntry belongs to the presentation layer, the pipeline never reads it.
type HistoryEntry struct {
	Query       string    `json:"query"`
	Timestamp   time.Time `json:"timestamp"`
	ResultCount int       `json:"result_count"`
}

type HistoryStore interface {
	SaveEntry(ctx context.Context, entry HistoryEntry) error
	RecentEntries(ctx context.Context) ([]HistoryEntry, error)
}
