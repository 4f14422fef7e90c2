package search

import (
	"encoding/json"

	"github.com/omicsdash/biodisc/internal/database"
)

// DocFromSample projects a stored sample into its indexed form. Titles live
// in the sample's metadata JSON; a sample with unreadable metadata is still
// indexed on its structured fields.
func DocFromSample(sample database.Sample) SampleDoc {
	doc := SampleDoc{
		SampleID:     sample.SampleID,
		StudyID:      sample.StudyID,
		DataType:     sample.DataType,
		DiseaseFocus: sample.DiseaseFocus,
		Tissue:       sample.Tissue,
		Condition:    sample.Condition,
		Source:       sample.Source,
	}

	if sample.Metadata != "" {
		var meta map[string]string
		if err := json.Unmarshal([]byte(sample.Metadata), &meta); err == nil {
			doc.SampleTitle = meta["sample_title"]
			doc.StudyTitle = meta["study_title"]
		}
	}

	return doc
}

// SyncSamples indexes a batch of stored samples, typically the ones a
// persist call just wrote.
func (ix *Index) SyncSamples(samples []database.Sample) error {
	docs := make([]SampleDoc, 0, len(samples))
	for _, s := range samples {
		docs = append(docs, DocFromSample(s))
	}
	return ix.BatchIndex(docs)
}
