package api

import "time"

type JobExternalStatus string

const (
	JobStatusError JobExternalStatus = "Error"
)

type JobResponse struct {
	Id        string            `json:"id" example:"job_cz109"`
	Result    Result            `json:"result"`
	Error     *JobOutgoingError `json:"error,omitempty"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Job not found"`
	Retry   bool   `json:"can_retry" example:"false"`
}

type Result struct {
	Status     string      `json:"status" example:"COMPLETE"`
	BuildStats *BuildStats `json:"build_stats,omitempty"`
}

type BuildStats struct {
	DocumentsProcessed int     `json:"documents_processed" example:"12"`
	ChunksCreated      int     `json:"chunks_created" example:"340"`
	Dimension          int     `json:"dimension" example:"768"`
	ElapsedSeconds     float64 `json:"elapsed_seconds" example:"42.7"`
}

type InitJobResponse struct {
	Id        string `json:"id"`
	StatusURL string `json:"status_url"`
}

type SearchResult struct {
	Rank           int     `json:"rank" example:"1"`
	Content        string  `json:"content" example:"Cats are mammals."`
	SourceDocument string  `json:"source_document" example:"animals.txt"`
	Score          float64 `json:"similarity_score" example:"0.87"`
}

type SearchResponse struct {
	Query   string         `json:"query" example:"which animals are mammals"`
	IndexId string         `json:"index_id" example:"disk_gemini-embedding-001"`
	Results []SearchResult `json:"results"`
}

// BatchSlot is one query of a batch. Exactly one of results or error is set.
type BatchSlot struct {
	Query   string            `json:"query"`
	Results []SearchResult    `json:"results,omitempty"`
	Error   *JobOutgoingError `json:"error,omitempty"`
}

type BatchSearchResponse struct {
	IndexId string      `json:"index_id"`
	Slots   []BatchSlot `json:"queries"`
}

type IndexInfo struct {
	IndexId    string    `json:"index_id" example:"disk_gemini-embedding-001"`
	ModelId    string    `json:"model_id" example:"gemini-embedding-001"`
	BackendId  string    `json:"backend_id" example:"disk"`
	Dimension  int       `json:"dimension" example:"768"`
	ChunkCount int       `json:"chunk_count" example:"340"`
	CreatedAt  time.Time `json:"created_at"`
}

type ModelInfo struct {
	Id        string `json:"id" example:"gemini-embedding-001"`
	Provider  string `json:"provider" example:"google"`
	Dimension int    `json:"dimension" example:"768"`
}

type HistoryEntry struct {
	Query       string    `json:"query" example:"which animals are mammals"`
	Timestamp   time.Time `json:"timestamp"`
	ResultCount int       `json:"result_count" example:"3"`
}

// requests---------------------

type BuildIndexRequest struct {
	ModelId   string `json:"model_id" validate:"required" example:"gemini-embedding-001"`
	BackendId string `json:"backend_id" validate:"required" example:"disk"`
}

type QueryRequest struct {
	Text    string `json:"text" validate:"required" example:"which animals are mammals"`
	IndexId string `json:"index_id" validate:"required" example:"disk_gemini-embedding-001"`
	TopK    int    `json:"top_k" example:"3"`
}

type BatchQueryRequest struct {
	Texts   []string `json:"texts" validate:"required"`
	IndexId string   `json:"index_id" validate:"required" example:"disk_gemini-embedding-001"`
	TopK    int      `json:"top_k" example:"3"`
}
