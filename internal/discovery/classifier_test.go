package discovery

import (
	"strings"
	"testing"

	"github.com/omicsdash/biodisc/internal/database"
	"github.com/omicsdash/biodisc/internal/taxonomy"
)

func TestClassifyPancreaticCancer(t *testing.T) {
	records := []RunRecord{{
		RunAccession:   "ERR100",
		StudyAccession: "PRJEB100",
		SampleTitle:    "Pancreatic ductal adenocarcinoma RNA-seq",
		StudyTitle:     "PDAC tumor profiling",
	}}

	result := Classify(records, QueryRequest{
		DataType:     taxonomy.RNASeq,
		DiseaseFocus: taxonomy.Cancer,
	})

	if len(result.Samples) != 1 {
		t.Fatalf("expected 1 sample, got %d (dropped disease=%d tissue=%d)",
			len(result.Samples), result.DroppedDisease, result.DroppedTissue)
	}

	sample := result.Samples[0]
	if sample.DiseaseFocus != string(taxonomy.Cancer) {
		t.Errorf("disease = %q, want cancer", sample.DiseaseFocus)
	}
	if sample.Tissue != string(taxonomy.Pancreas) {
		t.Errorf("tissue = %q, want pancreas", sample.Tissue)
	}
	if sample.Organ != sample.Tissue {
		t.Errorf("organ %q should mirror tissue %q", sample.Organ, sample.Tissue)
	}
	if sample.Condition != "disease" {
		t.Errorf("condition = %q, want disease (tumor indicator)", sample.Condition)
	}
	if sample.Source != database.SourceENA {
		t.Errorf("source = %q, want ena", sample.Source)
	}

	study, ok := result.Studies["PRJEB100"]
	if !ok {
		t.Fatal("study PRJEB100 missing from result")
	}
	if study.Title != "PDAC tumor profiling" {
		t.Errorf("study title = %q", study.Title)
	}
}

func TestClassifyDropsUnmatchedDisease(t *testing.T) {
	records := []RunRecord{
		{RunAccession: "ERR200", StudyAccession: "PRJEB200",
			SampleTitle: "breast carcinoma biopsy", StudyTitle: "tumor atlas"},
		{RunAccession: "ERR201", StudyAccession: "PRJEB201",
			SampleTitle: "soil microbiome survey", StudyTitle: "environmental sampling"},
	}

	result := Classify(records, QueryRequest{
		DataType:     taxonomy.RNASeq,
		DiseaseFocus: taxonomy.Cancer,
	})

	if len(result.Samples) != 1 {
		t.Fatalf("expected 1 sample, got %d", len(result.Samples))
	}
	if result.Samples[0].SampleID != "ERR200" {
		t.Errorf("kept wrong sample: %s", result.Samples[0].SampleID)
	}
	if result.DroppedDisease != 1 {
		t.Errorf("dropped disease count = %d, want 1", result.DroppedDisease)
	}
}

func TestClassifyTissueFilter(t *testing.T) {
	records := []RunRecord{
		{RunAccession: "ERR300", StudyAccession: "PRJEB300",
			SampleTitle: "hepatocellular carcinoma liver biopsy", StudyTitle: "HCC cohort"},
		{RunAccession: "ERR301", StudyAccession: "PRJEB300",
			SampleTitle: "lung adenocarcinoma resection", StudyTitle: "HCC cohort"},
		{RunAccession: "ERR302", StudyAccession: "PRJEB300",
			SampleTitle: "metastatic carcinoma", StudyTitle: "HCC cohort"},
	}

	result := Classify(records, QueryRequest{
		DataType:     taxonomy.RNASeq,
		DiseaseFocus: taxonomy.Cancer,
		TissueType:   taxonomy.Liver,
	})

	if len(result.Samples) != 1 {
		t.Fatalf("expected 1 liver sample, got %d", len(result.Samples))
	}
	if result.Samples[0].SampleID != "ERR300" {
		t.Errorf("kept wrong sample: %s", result.Samples[0].SampleID)
	}
	// ERR301 classified as lung, ERR302 as unknown: both fail the liver
	// filter and are dropped rather than stored with a wildcard tissue.
	if result.DroppedTissue != 2 {
		t.Errorf("dropped tissue count = %d, want 2", result.DroppedTissue)
	}
}

func TestClassifyCaseInsensitive(t *testing.T) {
	records := []RunRecord{{
		RunAccession: "ERR400", StudyAccession: "PRJEB400",
		SampleTitle: "BREAST TUMOR RNA", StudyTitle: "Mammary Carcinoma Study",
	}}

	result := Classify(records, QueryRequest{
		DataType: taxonomy.RNASeq, DiseaseFocus: taxonomy.Cancer,
	})

	if len(result.Samples) != 1 {
		t.Fatal("uppercase titles should still match")
	}
	if result.Samples[0].Tissue != string(taxonomy.Breast) {
		t.Errorf("tissue = %q, want breast", result.Samples[0].Tissue)
	}
}

func TestClassifyTissueTieBreakOrder(t *testing.T) {
	// "brain" and "heart" both match; brain precedes heart in the tissue
	// table, so brain wins.
	records := []RunRecord{{
		RunAccession: "ERR500", StudyAccession: "PRJEB500",
		SampleTitle: "brain and heart tumor comparison", StudyTitle: "multi-organ cancer",
	}}

	result := Classify(records, QueryRequest{
		DataType: taxonomy.RNASeq, DiseaseFocus: taxonomy.Cancer,
	})

	if len(result.Samples) != 1 {
		t.Fatal("expected 1 sample")
	}
	if result.Samples[0].Tissue != string(taxonomy.Brain) {
		t.Errorf("tissue = %q, want brain (first in table order)", result.Samples[0].Tissue)
	}
}

func TestInferCondition(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"tumor biopsy from patient", "disease"},
		{"healthy donor baseline", "control"},
		{"drug treated cells", "treatment"},
		{"rna extraction batch 7", "unknown"},
		// Disease indicators outrank control indicators.
		{"patient vs healthy comparison", "disease"},
	}

	for _, c := range cases {
		if got := inferCondition(c.text); got != c.want {
			t.Errorf("inferCondition(%q) = %q, want %q", c.text, got, c.want)
		}
	}
}

func TestClassifyMetadataCarriesTitles(t *testing.T) {
	records := []RunRecord{{
		RunAccession: "ERR600", StudyAccession: "PRJEB600",
		SampleTitle: "glioblastoma tumor core", StudyTitle: "brain cancer study",
		LibraryLayout: "PAIRED", FastqFTP: "ftp.example.org/ERR600.fastq.gz",
	}}

	result := Classify(records, QueryRequest{
		DataType: taxonomy.RNASeq, DiseaseFocus: taxonomy.Cancer,
	})

	if len(result.Samples) != 1 {
		t.Fatal("expected 1 sample")
	}
	meta := result.Samples[0].Metadata
	for _, want := range []string{"glioblastoma tumor core", "PAIRED", "ERR600.fastq.gz"} {
		if !strings.Contains(meta, want) {
			t.Errorf("metadata missing %q: %s", want, meta)
		}
	}
}
