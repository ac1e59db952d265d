package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/akolanti/SemanticSearchAPI/internal/adapter"
	"github.com/akolanti/SemanticSearchAPI/internal/api"
	"github.com/akolanti/SemanticSearchAPI/internal/config"
	"github.com/akolanti/SemanticSearchAPI/internal/search/embedding"
)

// ListModelsHandler godoc
// @Summary      Supported embedding models
// @Description  The closed catalog of models an index can be built with.
// @Tags         Indexes
// @Produce      json
// @Success      200  {array}  api.ModelInfo
// @Router       /models [get]
func ListModelsHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", r.RemoteAddr)
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToModelInfos(embedding.SupportedModels()))
}

// ListIndexesHandler godoc
// @Summary      List indices
// @Description  Every index currently available for search, live or persisted.
// @Tags         Indexes
// @Produce      json
// @Success      200  {array}   api.IndexInfo
// @Failure      503  {object}  api.JobResponse  "Persisted index storage unreachable"
// @Router       /indexes [get]
func ListIndexesHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", r.RemoteAddr)
		return
	}

	manifests, err := handlerInstance.Registry.List(r.Context())
	if err != nil {
		writeDomainError(w, "", err)
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToIndexInfos(manifests))
}

// BuildIndexHandler godoc
// @Summary      Build an index
// @Description  Queues a full rebuild of the (model, backend) index over the current dataset. Poll the status URL for completion.
// @Tags         Indexes
// @Accept       json
// @Produce      json
// @Param        request  body      api.BuildIndexRequest  true  "Model and backend for the index"
// @Success      202      {object}  api.InitJobResponse
// @Failure      400      {object}  api.JobResponse  "Unknown backend"
// @Failure      422      {object}  api.JobResponse  "Unknown embedding model"
// @Router       /indexes/build [post]
func BuildIndexHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", r.RemoteAddr)
		return
	}

	var requestData api.BuildIndexRequest
	defer closeBody(r.Body)
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil {
		logRH.Warn("Bad Build Request: ", "error:", err)
		WriteErrorResponse(w, http.StatusBadRequest, "", "Bad Request")
		return
	}

	// reject before queueing, a job for a model or backend that can never
	// exist should not burn a worker
	if _, err := embedding.Dimension(requestData.ModelId); err != nil {
		writeDomainError(w, "", err)
		return
	}
	switch requestData.BackendId {
	case config.BackendMemory, config.BackendDisk, config.BackendQdrant:
	default:
		WriteErrorResponse(w, http.StatusBadRequest, "",
			fmt.Sprintf("unknown backend %q - use %s, %s or %s",
				requestData.BackendId, config.BackendMemory, config.BackendDisk, config.BackendQdrant))
		return
	}

	traceId := r.Context().Value(config.TRACE_ID_KEY).(string)
	id := CreateBuildJob(requestData.ModelId, requestData.BackendId, traceId)

	writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(id))
}
