package search

import (
	"testing"

	"github.com/omicsdash/biodisc/internal/database"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	index, err := Open(t.TempDir() + "/test.bleve")
	if err != nil {
		t.Fatalf("failed to initialize index: %v", err)
	}
	t.Cleanup(func() { index.Close() })
	return index
}

func TestIndexAndSearch(t *testing.T) {
	index := newTestIndex(t)

	doc := SampleDoc{
		SampleID:     "ERR001",
		StudyID:      "PRJEB1",
		SampleTitle:  "Pancreatic ductal adenocarcinoma biopsy",
		StudyTitle:   "Human pancreatic cancer transcriptome",
		DataType:     "rna_seq",
		DiseaseFocus: "cancer",
		Tissue:       "pancreas",
		Condition:    "disease",
		Source:       "ena",
	}
	if err := index.IndexSample(doc); err != nil {
		t.Fatalf("failed to index sample: %v", err)
	}

	results, err := index.Search("pancreatic cancer", nil, 10)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if results.Total == 0 {
		t.Error("expected at least one result for pancreatic cancer")
	}

	results, err = index.Search("nephrology", nil, 10)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if results.Total != 0 {
		t.Errorf("expected no results for unrelated term, got %d", results.Total)
	}
}

func TestSearchFilters(t *testing.T) {
	index := newTestIndex(t)

	docs := []SampleDoc{
		{SampleID: "ERR010", StudyID: "PRJEB10", SampleTitle: "liver tumor core",
			DataType: "rna_seq", DiseaseFocus: "cancer", Tissue: "liver", Source: "ena"},
		{SampleID: "MOCK_RNA_SEQ_CANCER_000", StudyID: "MOCK_STUDY_CANCER_00",
			SampleTitle: "Mock cancer rna_seq sample 0",
			DataType:    "rna_seq", DiseaseFocus: "cancer", Tissue: "unknown", Source: "mock"},
	}
	if err := index.BatchIndex(docs); err != nil {
		t.Fatalf("batch index failed: %v", err)
	}

	results, err := index.Search("", map[string]string{"source": "ena"}, 10)
	if err != nil {
		t.Fatalf("filtered search failed: %v", err)
	}
	if results.Total != 1 {
		t.Fatalf("expected 1 ena result, got %d", results.Total)
	}
	if results.Hits[0].ID != "ERR010" {
		t.Errorf("wrong hit: %s", results.Hits[0].ID)
	}

	results, err = index.Search("cancer", map[string]string{"source": "mock"}, 10)
	if err != nil {
		t.Fatalf("filtered search failed: %v", err)
	}
	if results.Total != 1 || results.Hits[0].ID != "MOCK_RNA_SEQ_CANCER_000" {
		t.Errorf("expected the mock sample, got %+v", results.Hits)
	}
}

func TestBatchIndexOverwrites(t *testing.T) {
	index := newTestIndex(t)

	if err := index.IndexSample(SampleDoc{SampleID: "ERR020", Condition: "unknown"}); err != nil {
		t.Fatalf("index failed: %v", err)
	}
	if err := index.IndexSample(SampleDoc{SampleID: "ERR020", Condition: "disease"}); err != nil {
		t.Fatalf("re-index failed: %v", err)
	}

	count, err := index.DocCount()
	if err != nil {
		t.Fatalf("doc count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("re-indexing same id should overwrite, got %d docs", count)
	}
}

func TestDocFromSample(t *testing.T) {
	sample := database.Sample{
		SampleID:     "ERR030",
		StudyID:      "PRJEB30",
		Condition:    "control",
		Tissue:       "blood",
		DataType:     "rna_seq",
		DiseaseFocus: "autoimmune",
		Source:       "ena",
		Metadata:     `{"sample_title":"healthy donor PBMC","study_title":"lupus cohort"}`,
	}

	doc := DocFromSample(sample)
	if doc.SampleTitle != "healthy donor PBMC" {
		t.Errorf("sample title = %q", doc.SampleTitle)
	}
	if doc.StudyTitle != "lupus cohort" {
		t.Errorf("study title = %q", doc.StudyTitle)
	}
	if doc.Tissue != "blood" || doc.Source != "ena" {
		t.Errorf("structured fields not carried: %+v", doc)
	}

	// Broken metadata still yields an indexable doc.
	sample.Metadata = "{not json"
	doc = DocFromSample(sample)
	if doc.SampleID != "ERR030" || doc.SampleTitle != "" {
		t.Errorf("unexpected doc for broken metadata: %+v", doc)
	}
}

func TestSyncSamples(t *testing.T) {
	index := newTestIndex(t)

	samples := []database.Sample{
		{SampleID: "ERR040", StudyID: "PRJEB40", DataType: "genomics",
			DiseaseFocus: "cardiovascular", Tissue: "heart", Source: "ena",
			Metadata: `{"sample_title":"myocardial infarction biopsy","study_title":"heart failure WGS"}`},
		{SampleID: "ERR041", StudyID: "PRJEB40", DataType: "genomics",
			DiseaseFocus: "cardiovascular", Tissue: "heart", Source: "ena"},
	}
	if err := index.SyncSamples(samples); err != nil {
		t.Fatalf("sync failed: %v", err)
	}

	count, err := index.DocCount()
	if err != nil {
		t.Fatalf("doc count failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 docs, got %d", count)
	}

	results, err := index.Search("myocardial", nil, 10)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if results.Total != 1 {
		t.Errorf("expected 1 hit for myocardial, got %d", results.Total)
	}
}
