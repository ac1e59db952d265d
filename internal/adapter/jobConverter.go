package adapter

import (
	"fmt"
	"time"

	"github.com/akolanti/SemanticSearchAPI/internal/api"
	"github.com/akolanti/SemanticSearchAPI/internal/domain/jobModel"
	"github.com/akolanti/SemanticSearchAPI/internal/domain/searchModel"
	"github.com/akolanti/SemanticSearchAPI/internal/search/embedding"
)

func ToInitJobResponse(id string) api.InitJobResponse {
	return api.InitJobResponse{
		Id:        id,
		StatusURL: fmt.Sprintf("status/%s", id),
	}
}

func ToAPIResponse(job jobModel.Job) api.JobResponse {

	var errorPtr *api.JobOutgoingError
	if job.Error.Message != "" || job.Error.Code != 0 {
		errorPtr = &api.JobOutgoingError{
			Code:    job.Error.Code,
			Message: job.Error.Message,
			Retry:   job.Error.Retry,
		}
	}

	result := api.Result{
		Status:     string(job.Status),
		BuildStats: ToBuildStats(job.JobPayload.Stats),
	}

	return api.JobResponse{
		Id:        job.Id,
		StartTime: job.CreatedTime,
		EndTime:   job.EndTime,
		Error:     errorPtr,
		Result:    result,
	}
}

func ToBuildStats(stats *searchModel.BuildStats) *api.BuildStats {
	if stats == nil {
		return nil
	}
	return &api.BuildStats{
		DocumentsProcessed: stats.DocumentsProcessed,
		ChunksCreated:      stats.ChunksCreated,
		Dimension:          stats.Dimension,
		ElapsedSeconds:     stats.ElapsedSeconds,
	}
}

func ToSearchResults(results []searchModel.SearchResult) []api.SearchResult {
	out := make([]api.SearchResult, len(results))
	for i, r := range results {
		out[i] = api.SearchResult{
			Rank:           r.Rank,
			Content:        r.Content,
			SourceDocument: r.SourceDocument,
			Score:          r.Score,
		}
	}
	return out
}

func ToIndexInfos(manifests []searchModel.IndexManifest) []api.IndexInfo {
	out := make([]api.IndexInfo, len(manifests))
	for i, m := range manifests {
		out[i] = api.IndexInfo{
			IndexId:    m.IndexId(),
			ModelId:    m.ModelId,
			BackendId:  m.BackendId,
			Dimension:  m.Dimension,
			ChunkCount: m.ChunkCount,
			CreatedAt:  m.CreatedAt,
		}
	}
	return out
}

func ToModelInfos(models []embedding.ModelInfo) []api.ModelInfo {
	out := make([]api.ModelInfo, len(models))
	for i, m := range models {
		out[i] = api.ModelInfo{
			Id:        m.Id,
			Provider:  m.Provider,
			Dimension: m.Dimension,
		}
	}
	return out
}

func ToHistoryEntries(entries []searchModel.HistoryEntry) []api.HistoryEntry {
	out := make([]api.HistoryEntry, len(entries))
	for i, e := range entries {
		out[i] = api.HistoryEntry{
			Query:       e.Query,
			Timestamp:   e.Timestamp,
			ResultCount: e.ResultCount,
		}
	}
	return out
}

func BadRequest(id string, error string, code int) api.JobResponse {
	return api.JobResponse{
		Id:        id,
		StartTime: time.Time{},
		EndTime:   time.Time{},
		Result: api.Result{
			Status: string(api.JobStatusError),
		},
		Error: &api.JobOutgoingError{
			Code:    code,
			Message: error,
			Retry:   false,
		},
	}
}
