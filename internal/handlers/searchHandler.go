package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/akolanti/SemanticSearchAPI/internal/adapter"
	"github.com/akolanti/SemanticSearchAPI/internal/api"
	"github.com/akolanti/SemanticSearchAPI/internal/domain/searchModel"
)

// top_k when the request leaves it out
const defaultTopK = 5

// SearchHandler godoc
// @Summary      Semantic search
// @Description  Embeds the query with the index's own model and returns the top_k most similar chunks, ranked.
// @Tags         Search
// @Accept       json
// @Produce      json
// @Param        request  body      api.QueryRequest  true  "Query text, index id and top_k"
// @Success      200      {object}  api.SearchResponse
// @Failure      400      {object}  api.JobResponse  "Blank query or invalid top_k"
// @Failure      404      {object}  api.JobResponse  "Index was never built"
// @Router       /search [post]
func SearchHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", r.RemoteAddr)
		return
	}

	var requestData api.QueryRequest
	defer closeBody(r.Body)
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil {
		logRH.Warn("Bad Search Request: ", "error:", err)
		WriteErrorResponse(w, http.StatusBadRequest, "", "Bad Request")
		return
	}
	if requestData.TopK == 0 {
		requestData.TopK = defaultTopK
	}

	results, err := handlerInstance.Engine.Query(r.Context(), requestData.Text, requestData.IndexId, requestData.TopK)
	if err != nil {
		writeDomainError(w, requestData.IndexId, err)
		return
	}

	saveHistory(r, requestData.Text, len(results))

	writeJsonResponse(w, http.StatusOK, api.SearchResponse{
		Query:   requestData.Text,
		IndexId: requestData.IndexId,
		Results: adapter.ToSearchResults(results),
	})
}

// BatchSearchHandler godoc
// @Summary      Batch semantic search
// @Description  Runs every query independently against the same index. Failed slots carry their own error, the rest still answer.
// @Tags         Search
// @Accept       json
// @Produce      json
// @Param        request  body      api.BatchQueryRequest  true  "Query texts, index id and top_k"
// @Success      200      {object}  api.BatchSearchResponse
// @Failure      400      {object}  api.JobResponse  "Malformed request body"
// @Router       /search/batch [post]
func BatchSearchHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", r.RemoteAddr)
		return
	}

	var requestData api.BatchQueryRequest
	defer closeBody(r.Body)
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil || len(requestData.Texts) == 0 {
		logRH.Warn("Bad Batch Search Request: ", "error:", err)
		WriteErrorResponse(w, http.StatusBadRequest, "", "Bad Request")
		return
	}
	if requestData.TopK == 0 {
		requestData.TopK = defaultTopK
	}

	outcomes := handlerInstance.Engine.BatchQuery(r.Context(), requestData.Texts, requestData.IndexId, requestData.TopK)

	slots := make([]api.BatchSlot, len(outcomes))
	for i, outcome := range outcomes {
		slot := api.BatchSlot{Query: requestData.Texts[i]}
		if outcome.Err != nil {
			code, message := adapter.MapError(outcome.Err)
			slot.Error = &api.JobOutgoingError{Code: code, Message: message}
		} else {
			slot.Results = adapter.ToSearchResults(outcome.Results)
			saveHistory(r, requestData.Texts[i], len(outcome.Results))
		}
		slots[i] = slot
	}

	writeJsonResponse(w, http.StatusOK, api.BatchSearchResponse{
		IndexId: requestData.IndexId,
		Slots:   slots,
	})
}

// GetHistoryHandler godoc
// @Summary      Recent searches
// @Description  Returns the most recent successful queries, newest first.
// @Tags         Search
// @Produce      json
// @Success      200  {array}  api.HistoryEntry
// @Router       /search/history [get]
func GetHistoryHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", r.RemoteAddr)
		return
	}

	entries, err := handlerInstance.History.RecentEntries(r.Context())
	if err != nil {
		logRH.Error("Failed to read search history", "err", err)
		WriteErrorResponse(w, http.StatusServiceUnavailable, "", "History unavailable")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToHistoryEntries(entries))
}

// saveHistory records a successful search. History is presentation-layer
// bookkeeping, a failed write never fails the search.
func saveHistory(r *http.Request, query string, resultCount int) {
	entry := searchModel.HistoryEntry{
		Query:       query,
		Timestamp:   time.Now().UTC(),
		ResultCount: resultCount,
	}
	if err := handlerInstance.History.SaveEntry(r.Context(), entry); err != nil {
		logRH.Error("Failed to save search history", "err", err)
	}
}

func closeBody(body io.ReadCloser) {
	if err := body.Close(); err != nil {
		logRH.Error("Couldn't close the request body reader :", err)
	}
}
