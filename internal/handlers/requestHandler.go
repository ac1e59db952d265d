package handlers

import (
	"net/http"

	"github.com/akolanti/SemanticSearchAPI/internal/adapter"
	"github.com/akolanti/SemanticSearchAPI/internal/adapter/utils"
	"github.com/akolanti/SemanticSearchAPI/internal/config"
	"github.com/akolanti/SemanticSearchAPI/pkg/logger_i"
)

var logRH *logger_i.Logger

// GetHandler godoc
// @Summary      Liveness check
// @Tags         Health
// @Success      200
// @Router       /health [get]
func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// GetStatusHandler godoc
// @Summary      Get build job status
// @Description  Retrieves the current status of an index build job. Completed jobs carry the build stats.
// @Tags         Indexes
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  api.JobResponse   "The current status of the job"
// @Failure      404  {object}  api.JobResponse   "Job not found (returns Error object within JobResponse)"
// @Router       /status/{id} [get]
func GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		//use chi get the url id
		idString := utils.GetChiURLParam(r, "id")
		result, isFound := validateId(idString, r.Context().Value(config.TRACE_ID_KEY).(string))

		logRH.Debug("Get Status Request:", "URL path", r.URL.Path)
		if !isFound {
			WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
			return
		}

		writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result))
		return
	}
	logRH.Warn("Invalid Context by request ", r.RemoteAddr)
}
