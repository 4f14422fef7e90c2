package discovery

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/omicsdash/biodisc/internal/errors"
	"github.com/omicsdash/biodisc/internal/taxonomy"
)

func cancerRequest() QueryRequest {
	return QueryRequest{
		DataType:     taxonomy.RNASeq,
		DiseaseFocus: taxonomy.Cancer,
		DaysBack:     30,
		MaxSamples:   10,
	}
}

func TestFetchBareArrayResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("result") != "read_run" {
			t.Errorf("missing result param in %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"run_accession":"ERR001","study_accession":"PRJEB1","sample_title":"tumor sample","study_title":"cancer study"},
			{"run_accession":"ERR002","study_accession":"PRJEB1","sample_title":"normal sample","study_title":"cancer study"}
		]`))
	}))
	defer server.Close()

	fetcher := NewFetcher(server.URL, 5*time.Second)
	result := fetcher.Fetch(context.Background(), cancerRequest())

	if result.Outcome != Matched {
		t.Fatalf("outcome = %s, want matched (err: %v)", result.Outcome, result.Err)
	}
	if len(result.Records) != 2 {
		t.Errorf("expected 2 records, got %d", len(result.Records))
	}
	if result.Records[0].RunAccession != "ERR001" {
		t.Errorf("unexpected first record: %+v", result.Records[0])
	}
	if result.Query == "" {
		t.Error("result should carry the query string")
	}
}

func TestFetchWrappedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[{"run_accession":"ERR003","study_accession":"PRJEB2"}]}`))
	}))
	defer server.Close()

	fetcher := NewFetcher(server.URL, 5*time.Second)
	result := fetcher.Fetch(context.Background(), cancerRequest())

	if result.Outcome != Matched {
		t.Fatalf("outcome = %s, want matched", result.Outcome)
	}
	if len(result.Records) != 1 || result.Records[0].RunAccession != "ERR003" {
		t.Errorf("unexpected records: %+v", result.Records)
	}
}

func TestFetchEmptyButOK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	fetcher := NewFetcher(server.URL, 5*time.Second)
	result := fetcher.Fetch(context.Background(), cancerRequest())

	if result.Outcome != EmptyButOK {
		t.Errorf("outcome = %s, want empty", result.Outcome)
	}
	if result.Err != nil {
		t.Errorf("empty answer is not an error: %v", result.Err)
	}
}

func TestFetchNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer server.Close()

	fetcher := NewFetcher(server.URL, 5*time.Second)
	result := fetcher.Fetch(context.Background(), cancerRequest())

	if result.Outcome != TransportFailed {
		t.Fatalf("outcome = %s, want transport_failed", result.Outcome)
	}
	if !errors.IsKind(result.Err, errors.KindRemote) {
		t.Errorf("expected remote kind, got %v", result.Err)
	}
}

func TestFetchMalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer server.Close()

	fetcher := NewFetcher(server.URL, 5*time.Second)
	result := fetcher.Fetch(context.Background(), cancerRequest())

	if result.Outcome != TransportFailed {
		t.Fatalf("outcome = %s, want transport_failed", result.Outcome)
	}
	if !errors.IsKind(result.Err, errors.KindParse) {
		t.Errorf("expected parse kind, got %v", result.Err)
	}
}

func TestFetchConnectionRefused(t *testing.T) {
	// Grab a port that is immediately closed again.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	deadURL := server.URL
	server.Close()

	fetcher := NewFetcher(deadURL, 2*time.Second)
	result := fetcher.Fetch(context.Background(), cancerRequest())

	if result.Outcome != TransportFailed {
		t.Fatalf("outcome = %s, want transport_failed", result.Outcome)
	}
	if result.Err == nil {
		t.Error("transport failure must carry the underlying error")
	}
}

func TestFetchContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	fetcher := NewFetcher(server.URL, 5*time.Second)
	result := fetcher.Fetch(ctx, cancerRequest())

	if result.Outcome != TransportFailed {
		t.Errorf("outcome = %s, want transport_failed on cancelled context", result.Outcome)
	}
}

func TestNewFetcherDefaults(t *testing.T) {
	fetcher := NewFetcher("", 0)
	if fetcher.BaseURL != DefaultENABaseURL {
		t.Errorf("BaseURL = %q, want default", fetcher.BaseURL)
	}
	if fetcher.Client.Timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", fetcher.Client.Timeout, DefaultTimeout)
	}
}
