package handlers

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/akolanti/SemanticSearchAPI/internal/adapter/utils"
	"github.com/akolanti/SemanticSearchAPI/internal/config"
	"github.com/akolanti/SemanticSearchAPI/internal/documents"
	"github.com/akolanti/SemanticSearchAPI/internal/domain/jobModel"
	"github.com/akolanti/SemanticSearchAPI/internal/domain/searchModel"
	"github.com/akolanti/SemanticSearchAPI/internal/job"
	"github.com/akolanti/SemanticSearchAPI/internal/metrics"
	"github.com/akolanti/SemanticSearchAPI/pkg/logger_i"
)

var (
	handlerInstance *serviceHandler //private singleton
	once            sync.Once
	logJH           *logger_i.Logger
)

// SearchService is the slice of the query engine the handlers call.
type SearchService interface {
	Query(ctx context.Context, text string, indexId string, topK int) ([]searchModel.SearchResult, error)
	BatchQuery(ctx context.Context, texts []string, indexId string, topK int) []searchModel.QueryOutcome
}

// IndexLister feeds the registry listing endpoint.
type IndexLister interface {
	List(ctx context.Context) ([]searchModel.IndexManifest, error)
}

type Services struct {
	JobService *job.Service
	Engine     SearchService
	Registry   IndexLister
	Documents  *documents.Store
	History    searchModel.HistoryStore
}

type serviceHandler struct {
	Services
}

func InitHandlers(services Services) {
	once.Do(func() {
		handlerInstance = &serviceHandler{Services: services}

		logJH = logger_i.NewLogger("JobHandler")
		logRH = logger_i.NewLogger("RequestHandler")
		logJH.Info("Starting request handlers")
	})

}

// CreateBuildJob queues a full index rebuild and returns the job id.
func CreateBuildJob(modelId string, backendId string, traceId string) string {
	id := utils.GetNewUUID()
	log := logJH.With("traceId", traceId, "job id", id)
	log.Info("To create new build job", "model", modelId, "backend", backendId)
	handlerInstance.pushToJobChannel(id, modelId, backendId, traceId)
	return id
}

func GetJobStatus(id string, traceId string) (result jobModel.Job, isFound bool) {
	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, traceId)
	if handlerInstance != nil {
		return handlerInstance.JobService.JobStore.GetJob(ctxC, id)
	}
	return result, false
}

// private methods
func (h *serviceHandler) pushToJobChannel(id string, modelId string, backendId string, traceId string) {

	_job := jobModel.Job{}
	_job.Id = id
	_job.CreatedTime = time.Now()
	_job.TraceId = traceId
	_job.Status = jobModel.JobStatusQueued
	_job.JobType = jobModel.JobTypeBuild
	_job.CurrentStep = jobModel.BuildInit
	_job.JobPayload.ModelId = modelId
	_job.JobPayload.BackendId = backendId

	// the queued state must be visible before the 202 response goes out
	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, traceId)
	if err := h.JobService.JobStore.SaveJob(ctxC, _job); err != nil {
		logJH.Error("Failed to save queued job", "err", err)
	}

	//metrics
	metrics.IncrementJobsInQueue()

	h.JobService.JobChannel <- _job //this is a blocking send to prevent the system from being overwhelmed
	logJH.Info("Created new job")

	//a build embeds the whole corpus - external system call that might take
	//a while, so every build gets its own worker in addition to the
	//every-N-requests scaling; idle workers retire on their own
	accurateCount := atomic.AddInt64(&h.JobService.RequestCount, 1) //after sending a request increment counter
	if accurateCount%config.RequestsPerNewWorkerCount == 0 || _job.JobType == jobModel.JobTypeBuild {
		metrics.StartDispatcherSignalCount() //metrics
		logJH.Debug("Worker count ", accurateCount)
		h.JobService.DispatcherChannel <- true
	}
}
