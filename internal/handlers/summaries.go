package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gorilla/mux"

	"github.com/Ductam7415vn/SumUp-sub002/internal/models"
	"github.com/Ductam7415vn/SumUp-sub002/internal/services"
	"github.com/Ductam7415vn/SumUp-sub002/internal/utils"
)

const (
	DefaultMaxFileSize = 5 << 20 // 5MB
	maxJSONBody        = 1 << 20
)

type SummaryHandler struct {
	service     services.SummaryService
	maxFileSize int64
	logger      *utils.Logger
}

// NewSummaryHandler builds the handler set. A non-positive maxFileSize falls
// back to DefaultMaxFileSize.
func NewSummaryHandler(service services.SummaryService, maxFileSize int64, logger *utils.Logger) *SummaryHandler {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	return &SummaryHandler{
		service:     service,
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

func (h *SummaryHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	var req models.SummarizeRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	rec, err := h.service.Summarize(r.Context(), &req)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, rec)
}

func (h *SummaryHandler) Import(w http.ResponseWriter, r *http.Request) {
	var summary models.Summary
	if err := h.decodeJSON(w, r, &summary); err != nil {
		h.respondError(w, err)
		return
	}

	rec, err := h.service.Import(r.Context(), &summary)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, rec)
}

func (h *SummaryHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	tooLargeErr := utils.NewBadRequestError(fmt.Sprintf("File size exceeds %s limit", humanize.IBytes(uint64(h.maxFileSize))))

	// Check Content-Length header first to reject oversized requests early
	if r.ContentLength > h.maxFileSize {
		h.respondError(w, tooLargeErr)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize)

	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.respondError(w, tooLargeErr)
			return
		}
		h.respondError(w, utils.NewBadRequestError("Invalid form data"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, utils.NewBadRequestError("No file provided"))
		return
	}
	defer file.Close()

	contentType := determineContentType(header.Filename, header.Header.Get("Content-Type"))

	h.logger.Info("File upload attempt",
		"filename", header.Filename,
		"reported_content_type", header.Header.Get("Content-Type"),
		"determined_content_type", contentType)

	if !isValidContentType(contentType) {
		h.respondError(w, utils.NewBadRequestError("Only PDF, DOCX and TXT files are allowed"))
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, h.maxFileSize+1))
	if err != nil {
		h.respondError(w, utils.NewInternalError("Failed to read file"))
		return
	}

	if int64(len(data)) > h.maxFileSize {
		h.respondError(w, tooLargeErr)
		return
	}

	if len(data) == 0 {
		h.respondError(w, utils.NewBadRequestError("Uploaded file is empty"))
		return
	}

	rec, err := h.service.SummarizeDocument(r.Context(), &models.UploadRequest{
		File:        data,
		Filename:    header.Filename,
		ContentType: contentType,
		Persona:     r.FormValue("persona"),
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, rec)
}

func (h *SummaryHandler) ListSummaries(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.respondError(w, utils.NewBadRequestError("limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	recs, err := h.service.ListSummaries(r.Context(), limit)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, recs)
}

func (h *SummaryHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	rec, err := h.service.GetSummary(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, rec)
}

func (h *SummaryHandler) CreateExport(w http.ResponseWriter, r *http.Request) {
	var req models.ExportRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	resp, err := h.service.Export(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, resp)
}

func (h *SummaryHandler) ListExports(w http.ResponseWriter, r *http.Request) {
	recs, err := h.service.ListExports(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, recs)
}

func (h *SummaryHandler) DownloadExport(w http.ResponseWriter, r *http.Request) {
	rec, err := h.service.GetExportFile(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.respondError(w, err)
		return
	}

	f, err := os.Open(rec.Path)
	if err != nil {
		h.logger.Error("Failed to open export", "error", err, "path", rec.Path)
		h.respondError(w, utils.NewNotFoundError("Export file is no longer available"))
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		h.respondError(w, utils.NewInternalError("Failed to read export"))
		return
	}

	w.Header().Set("Content-Type", rec.MimeType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": rec.Filename}))
	http.ServeContent(w, r, rec.Filename, info.ModTime(), f)
}

func (h *SummaryHandler) PreviewExport(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.PreviewExport(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, resp)
}

func (h *SummaryHandler) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return utils.NewBadRequestError("Request body too large")
		}
		return utils.NewBadRequestError(fmt.Sprintf("Invalid JSON body: %v", err))
	}
	return nil
}

// determineContentType determines the content type from filename extension
// with fallback to the provided content type header
func determineContentType(filename, headerContentType string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "application/pdf"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".txt":
		return "text/plain"
	case ".md":
		return "text/markdown"
	case ".doc":
		// .doc is rejected later with a clearer message
		return "application/msword"
	}

	if mediaType, _, err := mime.ParseMediaType(headerContentType); err == nil {
		return mediaType
	}
	return headerContentType
}

// isValidContentType checks if the content type is supported
func isValidContentType(contentType string) bool {
	validTypes := map[string]bool{
		"application/pdf": true,
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
		// Some browsers might send these variants for DOCX
		"application/vnd.openxmlformats-officedocument.wordprocessingml": true,
		"text/plain":        true,
		"text/markdown":     true,
		"text/txt":          true,
		"application/txt":   true,
		"application/x-txt": true,
	}

	return validTypes[contentType]
}

func (h *SummaryHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", "error", err)
	}
}

func (h *SummaryHandler) respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	if appErr, ok := utils.AsAppError(err); ok {
		status = appErr.StatusCode
		message = appErr.Message
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("Request error", "status", status, "error", err)
	} else {
		h.logger.Warn("Request error", "status", status, "error", message)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
