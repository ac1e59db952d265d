package handlers

import (
	"net/http"

	"github.com/akolanti/SemanticSearchAPI/internal/adapter/utils"
)

// uploads are short text documents, anything larger is a mistake
const maxUploadBytes = 32 << 20

// UploadDatasetHandler godoc
// @Summary      Upload a document
// @Description  Adds one document to the dataset. The file lands on disk as-is, indices pick it up on their next build.
// @Tags         Dataset
// @Accept       multipart/form-data
// @Produce      json
// @Param        document  formData  file  true  "Document file (txt, md, pdf, docx, rtf, odt)"
// @Success      201       {object}  documents.DocumentInfo
// @Failure      400       {object}  api.JobResponse  "Missing file or unsupported type"
// @Router       /dataset/upload [post]
func UploadDatasetHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", r.RemoteAddr)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		logRH.Warn("Bad Upload Request: ", "error:", err)
		WriteErrorResponse(w, http.StatusBadRequest, "", "Bad Request")
		return
	}

	file, header, err := r.FormFile("document")
	if err != nil {
		logRH.Warn("Upload missing document field", "error:", err)
		WriteErrorResponse(w, http.StatusBadRequest, "", "Request must carry a 'document' file field")
		return
	}
	defer closeBody(file)

	info, err := handlerInstance.Documents.Save(r.Context(), header.Filename, file)
	if err != nil {
		writeDomainError(w, "", err)
		return
	}

	writeJsonResponse(w, http.StatusCreated, info)
}

// ListDatasetHandler godoc
// @Summary      List dataset documents
// @Tags         Dataset
// @Produce      json
// @Success      200  {array}  documents.DocumentInfo
// @Router       /dataset/list [get]
func ListDatasetHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", r.RemoteAddr)
		return
	}

	infos, err := handlerInstance.Documents.List(r.Context())
	if err != nil {
		writeDomainError(w, "", err)
		return
	}
	writeJsonResponse(w, http.StatusOK, infos)
}

// DatasetStatsHandler godoc
// @Summary      Dataset statistics
// @Tags         Dataset
// @Produce      json
// @Success      200  {object}  documents.DatasetStats
// @Router       /dataset/stats [get]
func DatasetStatsHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", r.RemoteAddr)
		return
	}

	stats, err := handlerInstance.Documents.Stats(r.Context())
	if err != nil {
		writeDomainError(w, "", err)
		return
	}
	writeJsonResponse(w, http.StatusOK, stats)
}

// GetDocumentHandler godoc
// @Summary      Get extracted document text
// @Tags         Dataset
// @Produce      json
// @Param        filename  path      string  true  "Document filename"
// @Success      200       {object}  map[string]string
// @Failure      404       {object}  api.JobResponse  "Document not found"
// @Router       /dataset/{filename} [get]
func GetDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", r.RemoteAddr)
		return
	}

	filename := utils.GetChiURLParam(r, "filename")
	text, err := handlerInstance.Documents.Content(r.Context(), filename)
	if err != nil {
		writeDomainError(w, filename, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, map[string]string{
		"name":    filename,
		"content": text,
	})
}

// DeleteDocumentHandler godoc
// @Summary      Delete a document
// @Description  Removes the document from the dataset. Already-built indices keep their chunks until rebuilt.
// @Tags         Dataset
// @Produce      json
// @Param        filename  path  string  true  "Document filename"
// @Success      204
// @Failure      404  {object}  api.JobResponse  "Document not found"
// @Router       /dataset/{filename} [delete]
func DeleteDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", r.RemoteAddr)
		return
	}

	filename := utils.GetChiURLParam(r, "filename")
	if err := handlerInstance.Documents.Delete(r.Context(), filename); err != nil {
		writeDomainError(w, filename, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
