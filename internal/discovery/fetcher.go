package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/omicsdash/biodisc/internal/errors"
)

// DefaultENABaseURL is the ENA portal search endpoint. Declared as a var so
// tests can substitute an httptest server via Fetcher.BaseURL.
var DefaultENABaseURL = "https://www.ebi.ac.uk/ena/portal/api/search"

// DefaultTimeout bounds a single portal request.
const DefaultTimeout = 30 * time.Second

// RunRecord is one read_run row as returned by the portal API.
type RunRecord struct {
	RunAccession   string `json:"run_accession"`
	StudyAccession string `json:"study_accession"`
	LibraryLayout  string `json:"library_layout"`
	FastqFTP       string `json:"fastq_ftp"`
	FirstPublic    string `json:"first_public"`
	SampleTitle    string `json:"sample_title"`
	StudyTitle     string `json:"study_title"`
}

// Outcome discriminates the three ways a fetch can end. Transport failure is
// an ordinary value here, not an error path: the pipeline decides what to do
// with it (fall back to synthetic data), the fetcher only reports.
type Outcome int

const (
	// Matched means the archive answered with at least one record.
	Matched Outcome = iota
	// EmptyButOK means the archive answered cleanly but nothing matched.
	EmptyButOK
	// TransportFailed means the archive could not be reached or answered
	// with garbage: network error, non-2xx status, or malformed JSON.
	TransportFailed
)

func (o Outcome) String() string {
	switch o {
	case Matched:
		return "matched"
	case EmptyButOK:
		return "empty"
	case TransportFailed:
		return "transport_failed"
	default:
		return "unknown"
	}
}

// FetchResult carries the outcome of one portal request. Err is set only when
// Outcome is TransportFailed.
type FetchResult struct {
	Outcome Outcome
	Records []RunRecord
	Query   string
	Err     error
}

// Fetcher performs single-shot portal requests. No retries: a failed fetch
// falls through to the mock generator instead of hammering the archive.
type Fetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewFetcher returns a fetcher against the given base URL with a bounded
// client timeout. An empty baseURL selects the public ENA portal.
func NewFetcher(baseURL string, timeout time.Duration) *Fetcher {
	if baseURL == "" {
		baseURL = DefaultENABaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: timeout},
	}
}

// Fetch executes one portal query and reports the outcome. It never returns
// a Go error for remote trouble; that is what TransportFailed is for.
func (f *Fetcher) Fetch(ctx context.Context, req QueryRequest) FetchResult {
	const op = errors.Op("fetcher.Fetch")

	query := BuildQuery(req, time.Now())
	reqURL := BuildURL(f.BaseURL, req, time.Now())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return FetchResult{
			Outcome: TransportFailed,
			Query:   query,
			Err:     errors.WrapKind(op, errors.KindRemote, err),
		}
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := f.Client.Do(httpReq)
	if err != nil {
		return FetchResult{
			Outcome: TransportFailed,
			Query:   query,
			Err:     errors.WrapKind(op, errors.KindRemote, err),
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return FetchResult{
			Outcome: TransportFailed,
			Query:   query,
			Err: errors.WrapKind(op, errors.KindRemote,
				fmt.Errorf("ena portal returned HTTP %d", resp.StatusCode)),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return FetchResult{
			Outcome: TransportFailed,
			Query:   query,
			Err:     errors.WrapKind(op, errors.KindRemote, err),
		}
	}

	records, err := decodeRunRecords(body)
	if err != nil {
		return FetchResult{
			Outcome: TransportFailed,
			Query:   query,
			Err:     errors.WrapKind(op, errors.KindParse, err),
		}
	}

	if len(records) == 0 {
		return FetchResult{Outcome: EmptyButOK, Query: query}
	}
	return FetchResult{Outcome: Matched, Records: records, Query: query}
}

// decodeRunRecords accepts both response shapes the portal has been observed
// to produce: a bare JSON array and an object wrapping it in "results".
func decodeRunRecords(body []byte) ([]RunRecord, error) {
	var records []RunRecord
	if err := json.Unmarshal(body, &records); err == nil {
		return records, nil
	}

	var wrapped struct {
		Results []RunRecord `json:"results"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, fmt.Errorf("unrecognized ena response shape: %w", err)
	}
	return wrapped.Results, nil
}
