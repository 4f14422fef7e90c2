package discovery

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/omicsdash/biodisc/internal/database"
	"github.com/omicsdash/biodisc/internal/taxonomy"
)

// Condition inference indicator lists. Checked in order: disease wins over
// control wins over treatment when a title mentions several.
var (
	diseaseIndicators   = []string{"disease", "patient", "case", "affected", "pathological", "tumor", "cancer"}
	controlIndicators   = []string{"control", "healthy", "normal", "wild type", "wt", "baseline"}
	treatmentIndicators = []string{"treatment", "treated", "drug", "therapy", "intervention"}
)

// ClassifyResult reports what the classifier kept and what it dropped.
type ClassifyResult struct {
	Samples        []database.Sample
	Studies        map[string]database.Study
	DroppedDisease int // records with no keyword of the requested disease
	DroppedTissue  int // records failing the requested tissue filter
}

// Classify filters raw run records against the requested disease and tissue
// and converts the survivors to storable samples. Matching is case-insensitive
// substring over sample_title plus study_title; a record with no disease
// keyword is dropped, and when a tissue is requested a record whose inferred
// tissue differs is dropped too. Dropping, not wildcarding: an unclassifiable
// record never enters the store.
func Classify(records []RunRecord, req QueryRequest) ClassifyResult {
	result := ClassifyResult{
		Studies: make(map[string]database.Study),
	}

	keywords := taxonomy.DiseaseKeywords[req.DiseaseFocus]

	for _, rec := range records {
		text := strings.ToLower(rec.SampleTitle + " " + rec.StudyTitle)

		if !containsAny(text, keywords) {
			result.DroppedDisease++
			continue
		}

		tissue := inferTissue(text)
		if req.TissueType != "" && tissue != string(req.TissueType) {
			result.DroppedTissue++
			continue
		}

		metadata, _ := json.Marshal(map[string]string{
			"library_layout": rec.LibraryLayout,
			"fastq_ftp":      rec.FastqFTP,
			"first_public":   rec.FirstPublic,
			"sample_title":   rec.SampleTitle,
			"study_title":    rec.StudyTitle,
			"discovered_at":  time.Now().UTC().Format(time.RFC3339),
		})

		result.Samples = append(result.Samples, database.Sample{
			SampleID:     rec.RunAccession,
			StudyID:      rec.StudyAccession,
			Condition:    inferCondition(text),
			Tissue:       tissue,
			Organ:        tissue,
			DataType:     string(req.DataType),
			DiseaseFocus: string(req.DiseaseFocus),
			Source:       database.SourceENA,
			Metadata:     string(metadata),
		})

		if _, seen := result.Studies[rec.StudyAccession]; !seen {
			result.Studies[rec.StudyAccession] = database.Study{
				StudyID:      rec.StudyAccession,
				Title:        rec.StudyTitle,
				DataType:     string(req.DataType),
				DiseaseFocus: string(req.DiseaseFocus),
				TissueType:   string(req.TissueType),
			}
		}
	}

	return result
}

// inferTissue returns the first tissue whose keyword list matches the text,
// in taxonomy.TissueTypes order, or "unknown".
func inferTissue(text string) string {
	for _, tissue := range taxonomy.TissueTypes {
		if containsAny(text, taxonomy.TissueKeywords[tissue]) {
			return string(tissue)
		}
	}
	return "unknown"
}

// inferCondition labels a record disease, control, treatment, or unknown
// from its titles.
func inferCondition(text string) string {
	switch {
	case containsAny(text, diseaseIndicators):
		return "disease"
	case containsAny(text, controlIndicators):
		return "control"
	case containsAny(text, treatmentIndicators):
		return "treatment"
	default:
		return "unknown"
	}
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
