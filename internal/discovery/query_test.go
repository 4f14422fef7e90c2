package discovery

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/omicsdash/biodisc/internal/taxonomy"
)

func TestBuildQueryRNASeq(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	req := QueryRequest{
		DataType:     taxonomy.RNASeq,
		DiseaseFocus: taxonomy.Cancer,
		DaysBack:     30,
	}

	query := BuildQuery(req, now)

	if !strings.HasPrefix(query, "tax_eq(9606)") {
		t.Errorf("query missing human taxon filter: %s", query)
	}
	if !strings.Contains(query, `library_strategy="RNA-Seq"`) {
		t.Errorf("query missing library strategy: %s", query)
	}
	if !strings.Contains(query, "first_public>=2026-05-02") {
		t.Errorf("query missing 30-day lower bound: %s", query)
	}
}

func TestBuildQueryGenomicsMultipleStrategies(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	query := BuildQuery(QueryRequest{
		DataType:     taxonomy.Genomics,
		DiseaseFocus: taxonomy.Cardiovascular,
		DaysBack:     30,
	}, now)

	for _, strategy := range []string{"WGS", "WXS", "ChIP-Seq", "ATAC-Seq"} {
		if !strings.Contains(query, `library_strategy="`+strategy+`"`) {
			t.Errorf("query missing strategy %s: %s", strategy, query)
		}
	}
	if !strings.Contains(query, "(") || !strings.Contains(query, " OR ") {
		t.Errorf("multiple strategies should be OR-grouped: %s", query)
	}
}

func TestBuildQueryNoTissueClause(t *testing.T) {
	now := time.Now()
	withTissue := BuildQuery(QueryRequest{
		DataType:     taxonomy.RNASeq,
		DiseaseFocus: taxonomy.Cancer,
		TissueType:   taxonomy.Pancreas,
		DaysBack:     30,
	}, now)
	withoutTissue := BuildQuery(QueryRequest{
		DataType:     taxonomy.RNASeq,
		DiseaseFocus: taxonomy.Cancer,
		DaysBack:     30,
	}, now)

	// Tissue never appears in the remote query; it is a classification-time
	// filter. Both forms must be identical.
	if withTissue != withoutTissue {
		t.Errorf("tissue leaked into remote query: %s", withTissue)
	}
	if strings.Contains(withTissue, "pancreas") {
		t.Errorf("query contains tissue term: %s", withTissue)
	}
}

func TestBuildQueryLookbackCap(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	capped := BuildQuery(QueryRequest{
		DataType: taxonomy.RNASeq, DiseaseFocus: taxonomy.Cancer, DaysBack: 5000,
	}, now)
	twoYears := BuildQuery(QueryRequest{
		DataType: taxonomy.RNASeq, DiseaseFocus: taxonomy.Cancer, DaysBack: 730,
	}, now)

	if capped != twoYears {
		t.Errorf("lookback not capped at 730 days: %s", capped)
	}

	// Unset lookback also falls back to the cap.
	unset := BuildQuery(QueryRequest{
		DataType: taxonomy.RNASeq, DiseaseFocus: taxonomy.Cancer,
	}, now)
	if unset != twoYears {
		t.Errorf("zero lookback should use the cap: %s", unset)
	}
}

func TestBuildURL(t *testing.T) {
	now := time.Now()
	raw := BuildURL("https://example.org/search", QueryRequest{
		DataType:     taxonomy.RNASeq,
		DiseaseFocus: taxonomy.Cancer,
		DaysBack:     30,
		MaxSamples:   25,
	}, now)

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("BuildURL produced unparseable URL: %v", err)
	}

	q := u.Query()
	if q.Get("result") != "read_run" {
		t.Errorf("result = %q, want read_run", q.Get("result"))
	}
	if q.Get("format") != "json" {
		t.Errorf("format = %q, want json", q.Get("format"))
	}
	if q.Get("limit") != "25" {
		t.Errorf("limit = %q, want 25", q.Get("limit"))
	}
	if !strings.Contains(q.Get("fields"), "run_accession") {
		t.Errorf("fields missing run_accession: %q", q.Get("fields"))
	}
	if q.Get("query") == "" {
		t.Error("query parameter empty")
	}
}

func TestBuildURLDefaultLimit(t *testing.T) {
	raw := BuildURL("https://example.org/search", QueryRequest{
		DataType: taxonomy.RNASeq, DiseaseFocus: taxonomy.Cancer,
	}, time.Now())

	u, _ := url.Parse(raw)
	if u.Query().Get("limit") != "100" {
		t.Errorf("default limit = %q, want 100", u.Query().Get("limit"))
	}
}
