package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/omicsdash/biodisc/internal/errors"
	"github.com/omicsdash/biodisc/internal/service"
)

// statusForError maps error kinds to HTTP status codes. Taxonomy violations
// are the caller's fault and must come back as 400, everything else is a 500.
func statusForError(err error) int {
	switch errors.GetKind(err) {
	case errors.KindValidation, errors.KindConfig:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Discovery handlers

func (s *Server) handleTriggerDiscovery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req service.DiscoveryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// "organ" is accepted as an alias for tissue_type, matching the upstream
	// dashboard's vocabulary.
	if organ := r.URL.Query().Get("organ"); organ != "" && req.TissueType == "" {
		req.TissueType = organ
	}

	result, err := s.discoveryService.Trigger(ctx, &req)
	if err != nil {
		s.writeError(w, statusForError(err), err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleDiscoveryStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.discoveryService.Status(r.Context())
	if err != nil {
		s.writeError(w, statusForError(err), err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleComprehensiveDiscovery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	disease := q.Get("disease_focus")
	if disease == "" {
		s.writeError(w, http.StatusBadRequest, "disease_focus parameter is required")
		return
	}
	tissue := q.Get("tissue_type")
	if tissue == "" {
		tissue = q.Get("organ")
	}

	result, err := s.discoveryService.Comprehensive(r.Context(), disease, tissue)
	if err != nil {
		s.writeError(w, statusForError(err), err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleDiscoveryStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := s.discoveryService.Statistics(r.Context())
	if err != nil {
		s.writeError(w, statusForError(err), err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, stats)
}

// Metadata handlers

func (s *Server) handleListStudies(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	studies, err := s.metadataService.GetStudies(r.Context(), service.StudyQuery{
		DataType:     q.Get("data_type"),
		DiseaseFocus: q.Get("disease_focus"),
		TissueType:   q.Get("tissue_type"),
		Limit:        parseIntParam(q.Get("limit"), 50, 1000),
		Offset:       parseIntParam(q.Get("offset"), 0, 1<<30),
	})
	if err != nil {
		s.writeError(w, statusForError(err), err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"studies": studies,
		"count":   len(studies),
	})
}

func (s *Server) handleGetStudy(w http.ResponseWriter, r *http.Request) {
	accession := mux.Vars(r)["accession"]

	study, err := s.metadataService.GetStudy(r.Context(), accession)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			s.writeError(w, http.StatusNotFound, err.Error())
		} else {
			s.writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	s.writeJSON(w, http.StatusOK, study)
}

func (s *Server) handleListSamples(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	samples, err := s.metadataService.GetSamples(r.Context(), service.SampleQuery{
		StudyID:      q.Get("study_id"),
		DataType:     q.Get("data_type"),
		DiseaseFocus: q.Get("disease_focus"),
		Source:       q.Get("source"),
		Limit:        parseIntParam(q.Get("limit"), 50, 1000),
		Offset:       parseIntParam(q.Get("offset"), 0, 1<<30),
	})
	if err != nil {
		s.writeError(w, statusForError(err), err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"samples": samples,
		"count":   len(samples),
	})
}

func (s *Server) handleGetSample(w http.ResponseWriter, r *http.Request) {
	accession := mux.Vars(r)["accession"]

	sample, err := s.metadataService.GetSample(r.Context(), accession)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			s.writeError(w, http.StatusNotFound, err.Error())
		} else {
			s.writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	s.writeJSON(w, http.StatusOK, sample)
}

func (s *Server) handleListDataTypes(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data_types": s.metadataService.ListDataTypes(),
	})
}

// Search handler

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if s.searchService == nil {
		s.writeError(w, http.StatusServiceUnavailable, "search is disabled")
		return
	}

	var req service.SearchRequest

	if r.Method == http.MethodPost {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	} else {
		q := r.URL.Query()
		req.Query = q.Get("q")
		if req.Query == "" {
			req.Query = q.Get("query")
		}
		req.Limit = parseIntParam(q.Get("limit"), 0, 1000)

		for _, field := range []string{"data_type", "disease_focus", "condition", "source", "study_id", "tissue"} {
			if value := q.Get(field); value != "" {
				if req.Filters == nil {
					req.Filters = make(map[string]string)
				}
				req.Filters[field] = value
			}
		}
	}

	response, err := s.searchService.Search(r.Context(), &req)
	if err != nil {
		s.writeError(w, statusForError(err), err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, response)
}

// Stats handler

func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.db.GetStats()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, stats)
}

// parseIntParam parses a positive integer query parameter with a fallback
// and an upper bound.
func parseIntParam(raw string, fallback, max int) int {
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	if v > max {
		return max
	}
	return v
}
