package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/akolanti/SemanticSearchAPI/internal/config"
	jobmodel "github.com/akolanti/SemanticSearchAPI/internal/domain/jobModel"
	"github.com/akolanti/SemanticSearchAPI/internal/domain/searchModel"
	"github.com/akolanti/SemanticSearchAPI/internal/metrics"
)

func executeJob(job jobmodel.Job) {
	start := time.Now()
	defer func() {
		// Record total time at the end
		metrics.CaptureJobMetrics(string(job.Status), time.Since(start))
	}()
	ctxTrace := context.WithValue(context.Background(), config.TRACE_ID_KEY, job.TraceId)
	ctx, cancel := context.WithTimeout(ctxTrace, config.BuildJobTimeout)
	defer cancel()
	log := logger.With(config.TRACE_ID_KEY, job.TraceId)
	log.Debug("Processing job:", "job Id:", job.Id)

	job.CurrentStep = jobmodel.BuildInit
	saveJobState(ctx, job, jobmodel.JobStatusRunning)

	stats, err := _builder.Build(ctx, job.JobPayload.ModelId, job.JobPayload.BackendId)
	job.EndTime = time.Now()

	if err != nil {
		log.Error("Index build failed", "job Id:", job.Id, "err", err)
		job.CurrentStep = jobmodel.Error
		job.Error = jobmodel.JobError{
			Message: err.Error(),
			Retry:   isRetryable(err),
		}
		saveJobState(ctx, job, jobmodel.JobStatusError)
		return
	}

	job.JobPayload.Stats = &stats
	job.CurrentStep = jobmodel.Complete
	saveJobState(ctx, job, jobmodel.JobStatusComplete)
	log.Info("Index build completed", "job Id:", job.Id, "chunks", stats.ChunksCreated)
}

// isRetryable - infrastructure faults may clear up, bad requests never do.
func isRetryable(err error) bool {
	return errors.Is(err, searchModel.ErrBackendIO) || errors.Is(err, searchModel.ErrModelUnavailable)
}

func removeWorker(reason string) {

	workerWaitGroup.Done()
	atomic.AddInt64(&currentWorkerCount, -1)
	logger.Info("Removed worker ", "reason", reason, "workerCount", currentWorkerCount)
	metrics.DecrementActiveWorkerCount()

}

func saveJobState(ctx context.Context, job jobmodel.Job, jobStatus jobmodel.JobStatus) {
	job.Status = jobStatus
	if err := _jobService.JobStore.SaveJob(ctx, job); err != nil {
		logger.Error("Failed to update status in Redis", "err", err)
	}
}
