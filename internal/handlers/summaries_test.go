package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Ductam7415vn/SumUp-sub002/internal/utils"
)

func TestDetermineContentType(t *testing.T) {
	tests := []struct {
		filename string
		header   string
		want     string
	}{
		{"report.pdf", "application/octet-stream", "application/pdf"},
		{"REPORT.PDF", "", "application/pdf"},
		{"notes.docx", "", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{"notes.txt", "", "text/plain"},
		{"notes.md", "", "text/markdown"},
		{"legacy.doc", "", "application/msword"},
		{"upload", "text/plain; charset=utf-8", "text/plain"},
		{"upload", "", ""},
	}

	for _, tt := range tests {
		if got := determineContentType(tt.filename, tt.header); got != tt.want {
			t.Errorf("determineContentType(%q, %q) = %q, want %q", tt.filename, tt.header, got, tt.want)
		}
	}
}

func TestIsValidContentType(t *testing.T) {
	valid := []string{"application/pdf", "text/plain", "text/markdown", "application/x-txt"}
	for _, ct := range valid {
		if !isValidContentType(ct) {
			t.Errorf("expected %q to be accepted", ct)
		}
	}

	invalid := []string{"application/msword", "image/png", ""}
	for _, ct := range invalid {
		if isValidContentType(ct) {
			t.Errorf("expected %q to be rejected", ct)
		}
	}
}

func TestRespondError(t *testing.T) {
	h := NewSummaryHandler(nil, 0, utils.NewNopLogger())

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"app error", utils.NewNotFoundError("Summary not found"), http.StatusNotFound, "Summary not found"},
		{"wrapped cause hidden", utils.WrapInternalError("Export failed", errors.New("disk full")), http.StatusInternalServerError, "Export failed"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.respondError(rec, tt.err)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var body map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body["error"] != tt.wantBody {
				t.Errorf("error = %q, want %q", body["error"], tt.wantBody)
			}
		})
	}
}

func TestDecodeJSONRejectsOversizedBody(t *testing.T) {
	h := NewSummaryHandler(nil, 0, utils.NewNopLogger())

	body := `{"text":"` + strings.Repeat("a", maxJSONBody) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/summaries", strings.NewReader(body))
	rec := httptest.NewRecorder()

	var dst map[string]any
	err := h.decodeJSON(rec, req, &dst)
	appErr, ok := utils.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", appErr.StatusCode)
	}
	if appErr.Message != "Request body too large" {
		t.Errorf("message = %q", appErr.Message)
	}
}

func TestUploadHonoursConfiguredLimit(t *testing.T) {
	h := NewSummaryHandler(nil, 1024, utils.NewNopLogger())

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "notes.txt")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	fw.Write([]byte(strings.Repeat("word ", 400)))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/summaries/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.UploadDocument(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp["error"] != "File size exceeds 1.0 KiB limit" {
		t.Errorf("error = %q", resp["error"])
	}
}
