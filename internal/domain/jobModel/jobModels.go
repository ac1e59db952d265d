package jobModel

import (
	"context"
	"time"

	"github.com/akolanti/SemanticSearchAPI/internal/domain/searchModel"
)

type JobStatus string
type InternalStatus string

type JobType string

const (
	JobStatusQueued   JobStatus = "QUEUED"
	JobStatusRunning  JobStatus = "RUNNING"
	JobStatusComplete JobStatus = "COMPLETE"
	JobStatusError    JobStatus = "Error"

	BuildInit        InternalStatus = "BuildInit"
	ChunkingCall     InternalStatus = "Chunking"
	EmbeddingAPICall InternalStatus = "EmbeddingAPI"
	IndexBuildCall   InternalStatus = "IndexBuild"
	PersistCall      InternalStatus = "Persist"
	Error            InternalStatus = "Error"

	Complete InternalStatus = "Complete"

	JobTypeBuild JobType = "BuildIndex"
)

type Job struct {
	Id          string         `json:"id"`
	TraceId     string         `json:"trace_id"`
	JobType     JobType        `json:"job_type"`
	JobPayload  JobPayload     `json:"job_payload"`
	Error       JobError       `json:"error,omitempty"`
	CreatedTime time.Time      `json:"created_time"`
	EndTime     time.Time      `json:"end_time,omitempty"`
	Status      JobStatus      `json:"status"`
	CurrentStep InternalStatus `json:"current_step"`
}

type JobError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}

type JobPayload struct {
	ModelId   string `json:"model_id"`
	BackendId string `json:"backend_id"`

	//populated once the build completes
	Stats *searchModel.BuildStats `json:"stats,omitempty"`
}

type JobStore interface {
	GetJob(ctx context.Context, jobId string) (Job, bool)
	SaveJob(ctx context.Context, job Job) error
	DeleteJob(ctx context.Context, jobID string)
}
