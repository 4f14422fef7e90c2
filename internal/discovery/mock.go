package discovery

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/omicsdash/biodisc/internal/database"
)

// DefaultMockBatchSize is how many synthetic samples a fallback run produces.
const DefaultMockBatchSize = 5

// GenerateMockBatch produces a deterministic synthetic batch for the request.
// Identifiers follow MOCK_<DATATYPE>_<DISEASE>_NNN so fallback rows are
// recognizable at a glance and idempotent across runs; every row carries
// source "mock" to keep it distinguishable from real archive data. The first
// half of the batch is labeled disease, the rest control.
func GenerateMockBatch(req QueryRequest, count int) ([]database.Sample, map[string]database.Study) {
	if count <= 0 {
		count = DefaultMockBatchSize
	}

	dataType := strings.ToUpper(string(req.DataType))
	disease := strings.ToUpper(string(req.DiseaseFocus))

	tissue := string(req.TissueType)
	if tissue == "" {
		tissue = "unknown"
	}

	samples := make([]database.Sample, 0, count)
	studies := make(map[string]database.Study)

	for i := 0; i < count; i++ {
		condition := "disease"
		if i >= count/2 {
			condition = "control"
		}

		studyID := fmt.Sprintf("MOCK_STUDY_%s_%02d", disease, i)
		studyTitle := fmt.Sprintf("Mock %s %s study", req.DiseaseFocus, req.DataType)

		metadata, _ := json.Marshal(map[string]string{
			"library_layout": "PAIRED",
			"fastq_ftp":      fmt.Sprintf("ftp://mock.example.com/sample_%d.fastq.gz", i),
			"first_public":   time.Now().UTC().Format("2006-01-02"),
			"sample_title":   fmt.Sprintf("Mock %s %s sample %d", req.DiseaseFocus, req.DataType, i),
			"study_title":    studyTitle,
			"discovered_at":  time.Now().UTC().Format(time.RFC3339),
		})

		samples = append(samples, database.Sample{
			SampleID:     fmt.Sprintf("MOCK_%s_%s_%03d", dataType, disease, i),
			StudyID:      studyID,
			Condition:    condition,
			Tissue:       tissue,
			Organ:        tissue,
			DataType:     string(req.DataType),
			DiseaseFocus: string(req.DiseaseFocus),
			Source:       database.SourceMock,
			Metadata:     string(metadata),
		})

		if _, seen := studies[studyID]; !seen {
			studies[studyID] = database.Study{
				StudyID:      studyID,
				Title:        studyTitle,
				DataType:     string(req.DataType),
				DiseaseFocus: string(req.DiseaseFocus),
				TissueType:   string(req.TissueType),
			}
		}
	}

	return samples, studies
}
