// Package server exposes the analysis pipeline over HTTP.
package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/bizsight/bizsight/internal/analysis"
	"github.com/bizsight/bizsight/internal/model"
)

// Server routes API requests to the analysis service.
type Server struct {
	svc    *analysis.Service
	router chi.Router
}

// New builds the router with CORS and request logging wired in.
func New(svc *analysis.Service) *Server {
	s := &Server{svc: svc}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/analyses", s.handleCreateAnalysis)
		r.Get("/analyses/{id}", s.handleGetAnalysis)
		r.Get("/alternatives", s.handleAlternatives)
	})

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type analyzeRequest struct {
	Location string `json:"location"`
	Category string `json:"category"`
}

func (s *Server) handleCreateAnalysis(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	category, ok := model.ParseCategory(req.Category)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown category: must be one of cafe, restaurant, hotel, hostel")
		return
	}

	report, err := s.svc.Analyze(r.Context(), req.Location, category)
	if err != nil {
		switch {
		case eris.Is(err, analysis.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "location is required")
		default:
			zap.L().Error("analysis request failed",
				zap.String("location", req.Location),
				zap.Error(err),
			)
			writeError(w, http.StatusBadGateway, "analysis failed: upstream services unavailable")
		}
		return
	}

	writeJSON(w, http.StatusCreated, report)
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	report, err := s.svc.Get(r.Context(), id)
	if err != nil {
		if eris.Is(err, analysis.ErrNotFound) {
			writeError(w, http.StatusNotFound, "report not found")
			return
		}
		zap.L().Error("report lookup failed", zap.String("report_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "report lookup failed")
		return
	}

	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleAlternatives(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	lat, latErr := strconv.ParseFloat(q.Get("lat"), 64)
	lng, lngErr := strconv.ParseFloat(q.Get("lng"), 64)
	if latErr != nil || lngErr != nil {
		writeError(w, http.StatusBadRequest, "lat and lng are required numeric parameters")
		return
	}

	category, ok := model.ParseCategory(q.Get("category"))
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown category: must be one of cafe, restaurant, hotel, hostel")
		return
	}

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	candidates, err := s.svc.FindAlternatives(r.Context(), lat, lng, category, limit)
	if err != nil {
		zap.L().Error("alternatives request failed",
			zap.Float64("lat", lat),
			zap.Float64("lng", lng),
			zap.Error(err),
		)
		writeError(w, http.StatusBadGateway, "alternative search failed")
		return
	}
	if candidates == nil {
		candidates = []model.AlternativeCandidate{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"alternatives": candidates})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zap.L().Warn("response encode failed", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		zap.L().Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}
