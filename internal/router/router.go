package router

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Ductam7415vn/SumUp-sub002/internal/handlers"
	"github.com/Ductam7415vn/SumUp-sub002/internal/middleware"
	"github.com/Ductam7415vn/SumUp-sub002/internal/services"
	"github.com/Ductam7415vn/SumUp-sub002/internal/utils"
)

func NewRouter(service services.SummaryService, limiter *middleware.RateLimiter, maxUploadSize int64, logger *utils.Logger) http.Handler {
	r := mux.NewRouter()

	// Middlewares
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS())
	r.Use(middleware.Recovery(logger))

	h := handlers.NewSummaryHandler(service, maxUploadSize, logger)

	api := r.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	// Summary endpoints
	api.HandleFunc("/summaries", h.Summarize).Methods(http.MethodPost)
	api.HandleFunc("/summaries/import", h.Import).Methods(http.MethodPost)
	api.HandleFunc("/summaries/upload", h.UploadDocument).Methods(http.MethodPost)
	api.HandleFunc("/summaries", h.ListSummaries).Methods(http.MethodGet)
	api.HandleFunc("/summaries/{id}", h.GetSummary).Methods(http.MethodGet)
	api.HandleFunc("/summaries/{id}/exports", h.ListExports).Methods(http.MethodGet)

	// Export creation is rate limited per client
	limit := middleware.RateLimit(limiter, logger)
	api.Handle("/summaries/{id}/exports", limit(http.HandlerFunc(h.CreateExport))).Methods(http.MethodPost)

	api.HandleFunc("/exports/{id}/download", h.DownloadExport).Methods(http.MethodGet)
	api.HandleFunc("/exports/{id}/preview", h.PreviewExport).Methods(http.MethodGet)

	return r
}
