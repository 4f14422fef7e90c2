// Package discovery implements the harvest pipeline: querying the European
// Nucleotide Archive, classifying free-text metadata against the platform
// taxonomy, falling back to synthetic data when the archive is unreachable,
// and persisting the results.
package discovery

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/omicsdash/biodisc/internal/taxonomy"
)

// maxLookbackDays caps the first_public lower bound at two years. ENA holds
// decades of data; an unbounded window makes the portal query too broad.
const maxLookbackDays = 730

// enaFields is the column set requested from the portal API.
const enaFields = "run_accession,study_accession,library_layout,fastq_ftp,first_public,sample_title,study_title"

// QueryRequest describes one discovery query.
type QueryRequest struct {
	DataType     taxonomy.DataType
	DiseaseFocus taxonomy.DiseaseFocus
	TissueType   taxonomy.TissueType
	DaysBack     int
	MaxSamples   int
}

// BuildQuery constructs the ENA portal query expression: human taxon filter,
// the library strategies mapped to the data type, and a first_public lower
// bound. Tissue is never part of the remote query; tissue filtering happens
// during classification because ENA has no reliable tissue column.
func BuildQuery(req QueryRequest, now time.Time) string {
	parts := []string{"tax_eq(9606)"}

	if strategies := taxonomy.LibraryStrategies[req.DataType]; len(strategies) > 0 {
		if len(strategies) == 1 {
			parts = append(parts, fmt.Sprintf("library_strategy=%q", strategies[0]))
		} else {
			clauses := make([]string, len(strategies))
			for i, s := range strategies {
				clauses[i] = fmt.Sprintf("library_strategy=%q", s)
			}
			parts = append(parts, "("+strings.Join(clauses, " OR ")+")")
		}
	}

	daysBack := req.DaysBack
	if daysBack <= 0 || daysBack > maxLookbackDays {
		daysBack = maxLookbackDays
	}
	since := now.AddDate(0, 0, -daysBack)
	parts = append(parts, fmt.Sprintf("first_public>=%s", since.Format("2006-01-02")))

	return strings.Join(parts, " AND ")
}

// BuildURL assembles the full portal request URL for a query.
func BuildURL(baseURL string, req QueryRequest, now time.Time) string {
	limit := req.MaxSamples
	if limit <= 0 {
		limit = 100
	}

	params := url.Values{
		"result": {"read_run"},
		"query":  {BuildQuery(req, now)},
		"fields": {enaFields},
		"format": {"json"},
		"limit":  {fmt.Sprintf("%d", limit)},
	}

	return baseURL + "?" + params.Encode()
}
