// Package api exposes discovery, metadata, and search over HTTP.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/omicsdash/biodisc/internal/config"
	"github.com/omicsdash/biodisc/internal/database"
	"github.com/omicsdash/biodisc/internal/discovery"
	"github.com/omicsdash/biodisc/internal/search"
	"github.com/omicsdash/biodisc/internal/service"
)

// Server represents the HTTP API server
type Server struct {
	router           *mux.Router
	server           *http.Server
	discoveryService *service.DiscoveryService
	metadataService  *service.MetadataService
	searchService    *service.SearchService
	db               *database.DB
	index            *search.Index
}

// NewServer creates a new API server instance
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Initialize(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	var index *search.Index
	if cfg.Search.Enabled {
		index, err = search.Open(cfg.Search.IndexPath)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to open search index: %w", err)
		}
	}

	fetcher := discovery.NewFetcher(cfg.Discovery.ENABaseURL,
		time.Duration(cfg.Discovery.TimeoutSeconds)*time.Second)
	pipeline := discovery.NewPipeline(fetcher, db)
	pipeline.MockBatchSize = cfg.Discovery.MockBatchSize

	s := &Server{
		router:           mux.NewRouter(),
		discoveryService: service.NewDiscoveryService(db, pipeline, index),
		metadataService:  service.NewMetadataService(db),
		db:               db,
		index:            index,
	}
	if index != nil {
		s.searchService = service.NewSearchService(index, cfg.Search.DefaultLimit)
	}

	s.setupRoutes()

	if cfg.Server.EnableCORS {
		s.router.Use(corsMiddleware)
	}
	s.router.Use(loggingMiddleware)
	s.router.Use(jsonMiddleware)

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// DiscoveryService exposes the wired discovery service, used by the server
// command to hand it to the scheduler.
func (s *Server) DiscoveryService() *service.DiscoveryService {
	return s.discoveryService
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api/v1").Subrouter()

	// Discovery endpoints
	api.HandleFunc("/discovery/trigger", s.handleTriggerDiscovery).Methods("POST")
	api.HandleFunc("/discovery/status", s.handleDiscoveryStatus).Methods("GET")
	api.HandleFunc("/discovery/comprehensive", s.handleComprehensiveDiscovery).Methods("POST")

	// Multi-omics metadata endpoints
	api.HandleFunc("/multi-omics/discovery/statistics", s.handleDiscoveryStatistics).Methods("GET")
	api.HandleFunc("/multi-omics/studies", s.handleListStudies).Methods("GET")
	api.HandleFunc("/multi-omics/studies/{accession}", s.handleGetStudy).Methods("GET")
	api.HandleFunc("/multi-omics/samples", s.handleListSamples).Methods("GET")
	api.HandleFunc("/multi-omics/samples/{accession}", s.handleGetSample).Methods("GET")
	api.HandleFunc("/multi-omics/data-types", s.handleListDataTypes).Methods("GET")

	// Full-text search
	api.HandleFunc("/search", s.handleSearch).Methods("GET", "POST")

	// Statistics and health
	api.HandleFunc("/stats", s.handleGetStats).Methods("GET")
	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	s.router.HandleFunc("/", s.handleRoot).Methods("GET")
}

// Start starts the HTTP server
func (s *Server) Start() error {
	log.Printf("Starting API server on %s", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down API server...")

	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}

	if s.index != nil {
		if err := s.index.Close(); err != nil {
			log.Printf("Error closing search index: %v", err)
		}
	}

	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Handler returns the underlying router, used by tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Middleware functions

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.RequestURI, time.Since(start))
	})
}

func jsonMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// Helper functions

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]interface{}{
		"error":   true,
		"message": message,
		"status":  status,
	})
}

// handleRoot returns API information
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"name":        "biodisc API",
		"version":     "1.0.0",
		"description": "Multi-omics discovery platform API",
		"endpoints": map[string]string{
			"trigger":    "/api/v1/discovery/trigger",
			"status":     "/api/v1/discovery/status",
			"statistics": "/api/v1/multi-omics/discovery/statistics",
			"studies":    "/api/v1/multi-omics/studies",
			"samples":    "/api/v1/multi-omics/samples",
			"search":     "/api/v1/search",
			"health":     "/api/v1/health",
		},
	}
	s.writeJSON(w, http.StatusOK, info)
}

// handleHealth returns health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	}

	if err := s.db.Ping(); err != nil {
		health["status"] = "unhealthy"
		health["database"] = err.Error()
	} else {
		health["database"] = "healthy"
	}

	if s.index != nil {
		if _, err := s.index.DocCount(); err != nil {
			health["status"] = "unhealthy"
			health["search_index"] = err.Error()
		} else {
			health["search_index"] = "healthy"
		}
	} else {
		health["search_index"] = "disabled"
	}

	status := http.StatusOK
	if health["status"] != "healthy" {
		status = http.StatusServiceUnavailable
	}

	s.writeJSON(w, status, health)
}
