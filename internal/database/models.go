package database

import (
	"time"
)

// Sample sources. Synthetic fallback records are tagged "mock" so they stay
// distinguishable from real archive discoveries downstream.
const (
	SourceENA  = "ena"
	SourceMock = "mock"
)

// Study represents a registered research project grouping one or more samples.
// Studies are created on first discovery of an accession and only ever
// updated afterwards, never deleted.
type Study struct {
	StudyID      string    `json:"study_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	DataType     string    `json:"data_type"`
	DiseaseFocus string    `json:"disease_focus"`
	TissueType   string    `json:"tissue_type,omitempty"`
	Organism     string    `json:"organism"`
	SampleCount  int       `json:"sample_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Sample represents one sequencing run attached to a study. Immutable once
// persisted except for metadata enrichment.
type Sample struct {
	SampleID     string    `json:"sample_id"`
	StudyID      string    `json:"study_id"`
	Condition    string    `json:"condition"`
	Tissue       string    `json:"tissue,omitempty"`
	Organ        string    `json:"organ,omitempty"`
	DataType     string    `json:"data_type"`
	DiseaseFocus string    `json:"disease_focus"`
	Source       string    `json:"source"` // "ena" or "mock"
	Metadata     string    `json:"metadata,omitempty"` // JSON
	CreatedAt    time.Time `json:"created_at"`
}

// DataFile records a raw data artifact (e.g. a FASTQ URL) attached to a sample.
type DataFile struct {
	FileID     int64  `json:"file_id"`
	SampleID   string `json:"sample_id"`
	FileType   string `json:"file_type"`
	FileURL    string `json:"file_url"`
	FileFormat string `json:"file_format,omitempty"`
	FileSize   int64  `json:"file_size,omitempty"`
	Checksum   string `json:"checksum,omitempty"`
}

// AnalysisResult stores the output of a downstream analysis for a study.
type AnalysisResult struct {
	ResultID     int64     `json:"result_id"`
	StudyID      string    `json:"study_id"`
	AnalysisType string    `json:"analysis_type"`
	ResultType   string    `json:"result_type"`
	ResultData   string    `json:"result_data"` // JSON
	Parameters   string    `json:"parameters"`  // JSON
	CreatedAt    time.Time `json:"created_at"`
}

// DiscoveryLogEntry is the append-only audit record written once per
// discovery run. Entries are never deleted by normal operation.
type DiscoveryLogEntry struct {
	LogID            int64     `json:"log_id"`
	DiscoveryDate    time.Time `json:"discovery_date"`
	DataType         string    `json:"data_type"`
	DiseaseFocus     string    `json:"disease_focus"`
	TissueType       string    `json:"tissue_type"` // "all" when no filter
	Source           string    `json:"source"`      // "ena" or "mock"
	Query            string    `json:"query"`
	SamplesFound     int       `json:"samples_found"`
	SamplesProcessed int       `json:"samples_processed"`
	Status           string    `json:"status"`
	ErrorMessage     string    `json:"error_message,omitempty"`
}

// PersistResult summarizes one batch persist.
type PersistResult struct {
	Inserted      int `json:"inserted"`
	Skipped       int `json:"skipped"` // duplicate sample_ids, no-ops
	StudiesTouched int `json:"studies_touched"`
}

// DiscoveryStatistics aggregates the discovery log and sample table for the
// statistics endpoint.
type DiscoveryStatistics struct {
	TotalRuns         int            `json:"total_runs"`
	TotalSamplesFound int            `json:"total_samples_found"`
	ByDataType        map[string]int `json:"by_data_type"`
	ByDisease         map[string]int `json:"by_disease"`
	ByTissue          map[string]int `json:"by_tissue"`
	SamplesBySource   map[string]int `json:"samples_by_source"`
}

// DatabaseStats holds aggregate counts for the core tables.
type DatabaseStats struct {
	TotalStudies  int       `json:"total_studies"`
	TotalSamples  int       `json:"total_samples"`
	TotalLogRows  int       `json:"total_log_rows"`
	LastUpdate    time.Time `json:"last_update"`
}
