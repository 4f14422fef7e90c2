package service

import (
	"time"

	"github.com/omicsdash/biodisc/internal/database"
	"github.com/omicsdash/biodisc/internal/discovery"
)

// DiscoveryRequest is the trigger payload for one discovery run. Enum fields
// are raw strings here; validation happens in the service so the API can map
// bad values to a 4xx before any network traffic.
type DiscoveryRequest struct {
	DataType     string `json:"data_type"`
	DiseaseFocus string `json:"disease_focus"`
	TissueType   string `json:"tissue_type,omitempty"`
	DaysBack     int    `json:"days_back,omitempty"`
	MaxSamples   int    `json:"max_samples,omitempty"`
}

// DiscoveryStatus reports whether a run is in flight and what the store
// holds. All counts come from the store; the service keeps no counters of
// its own.
type DiscoveryStatus struct {
	Running         bool               `json:"running"`
	TotalDiscovered int                `json:"total_discovered"`
	LastDiscovery   *time.Time         `json:"last_discovery,omitempty"`
	RecentSamples   []*database.Sample `json:"recent_samples"`
}

// ComprehensiveResult aggregates one run per discoverable data type.
type ComprehensiveResult struct {
	DiseaseFocus string                       `json:"disease_focus"`
	TissueType   string                       `json:"tissue_type,omitempty"`
	Results      map[string]*discovery.Result `json:"results"`
	Errors       map[string]string            `json:"errors,omitempty"`
}

// StudyQuery filters a study listing.
type StudyQuery struct {
	DataType     string
	DiseaseFocus string
	TissueType   string
	Limit        int
	Offset       int
}

// SampleQuery filters a sample listing.
type SampleQuery struct {
	StudyID      string
	DataType     string
	DiseaseFocus string
	Source       string
	Limit        int
	Offset       int
}

// SearchRequest is a full-text query over indexed samples.
type SearchRequest struct {
	Query   string            `json:"query"`
	Filters map[string]string `json:"filters,omitempty"`
	Limit   int               `json:"limit,omitempty"`
}

// SearchHit is one full-text match.
type SearchHit struct {
	ID     string                 `json:"id"`
	Score  float64                `json:"score"`
	Fields map[string]interface{} `json:"fields,omitempty"`
}

// SearchResponse carries full-text results plus facet counts.
type SearchResponse struct {
	Query     string                 `json:"query"`
	Total     uint64                 `json:"total_results"`
	Hits      []SearchHit            `json:"results"`
	Facets    map[string]interface{} `json:"facets,omitempty"`
	TimeTaken int64                  `json:"time_taken_ms"`
}
