// Package search maintains a Bleve full-text index over persisted samples so
// free-text queries can cut across diseases, tissues, and study titles.
package search

import (
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Index wraps the Bleve search index
type Index struct {
	index bleve.Index
	path  string
}

// Open initializes or opens a Bleve index at the given path.
func Open(indexPath string) (*Index, error) {
	index, err := bleve.Open(indexPath)
	if err == bleve.ErrorIndexPathDoesNotExist {
		index, err = bleve.New(indexPath, createSampleIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("failed to create index: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}

	return &Index{
		index: index,
		path:  indexPath,
	}, nil
}

// OpenInMemory creates an ephemeral index, used by tests and dry runs.
func OpenInMemory() (*Index, error) {
	index, err := bleve.NewMemOnly(createSampleIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory index: %w", err)
	}
	return &Index{index: index}, nil
}

func createSampleIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = "standard"

	// A single default mapping; everything in the index is a sample doc.
	docMapping := bleve.NewDocumentMapping()

	docMapping.AddFieldMappingsAt("sample_id", keywordFieldMapping())
	docMapping.AddFieldMappingsAt("study_id", keywordFieldMapping())
	docMapping.AddFieldMappingsAt("sample_title", textFieldMapping())
	docMapping.AddFieldMappingsAt("study_title", textFieldMapping())
	docMapping.AddFieldMappingsAt("data_type", keywordFieldMapping())
	docMapping.AddFieldMappingsAt("disease_focus", keywordFieldMapping())
	docMapping.AddFieldMappingsAt("tissue", textFieldMapping())
	docMapping.AddFieldMappingsAt("condition", keywordFieldMapping())
	docMapping.AddFieldMappingsAt("source", keywordFieldMapping())

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

func keywordFieldMapping() *mapping.FieldMapping {
	fieldMapping := bleve.NewTextFieldMapping()
	fieldMapping.Analyzer = "keyword"
	fieldMapping.Store = true
	fieldMapping.IncludeInAll = true
	return fieldMapping
}

func textFieldMapping() *mapping.FieldMapping {
	fieldMapping := bleve.NewTextFieldMapping()
	fieldMapping.Analyzer = "standard"
	fieldMapping.Store = true
	fieldMapping.IncludeInAll = true
	return fieldMapping
}

// SampleDoc is the indexed projection of a stored sample.
type SampleDoc struct {
	SampleID     string `json:"sample_id"`
	StudyID      string `json:"study_id"`
	SampleTitle  string `json:"sample_title"`
	StudyTitle   string `json:"study_title"`
	DataType     string `json:"data_type"`
	DiseaseFocus string `json:"disease_focus"`
	Tissue       string `json:"tissue"`
	Condition    string `json:"condition"`
	Source       string `json:"source"`
}

// IndexSample indexes a single sample document.
func (ix *Index) IndexSample(doc SampleDoc) error {
	return ix.index.Index(doc.SampleID, doc)
}

// BatchIndex indexes sample documents in one batch. Re-indexing an existing
// sample_id overwrites the previous document, so syncing after every persist
// is idempotent.
func (ix *Index) BatchIndex(docs []SampleDoc) error {
	batch := ix.index.NewBatch()
	for _, doc := range docs {
		if doc.SampleID == "" {
			continue
		}
		if err := batch.Index(doc.SampleID, doc); err != nil {
			return fmt.Errorf("failed to add document %s to batch: %w", doc.SampleID, err)
		}
	}
	return ix.index.Batch(batch)
}

// Search performs a full-text query-string search with optional exact-match
// filters ANDed on top.
func (ix *Index) Search(queryStr string, filters map[string]string, limit int) (*bleve.SearchResult, error) {
	var queries []query.Query

	if queryStr != "" {
		queries = append(queries, bleve.NewQueryStringQuery(queryStr))
	}

	for field, value := range filters {
		switch field {
		case "data_type", "disease_focus", "condition", "source", "study_id":
			termQuery := bleve.NewTermQuery(value)
			termQuery.SetField(field)
			queries = append(queries, termQuery)
		default:
			phraseQuery := bleve.NewMatchPhraseQuery(value)
			phraseQuery.SetField(field)
			queries = append(queries, phraseQuery)
		}
	}

	var finalQuery query.Query
	switch len(queries) {
	case 0:
		finalQuery = bleve.NewMatchAllQuery()
	case 1:
		finalQuery = queries[0]
	default:
		finalQuery = bleve.NewConjunctionQuery(queries...)
	}

	searchRequest := bleve.NewSearchRequest(finalQuery)
	searchRequest.Size = limit
	searchRequest.Fields = []string{"*"}

	searchRequest.AddFacet("data_type", bleve.NewFacetRequest("data_type", 10))
	searchRequest.AddFacet("disease_focus", bleve.NewFacetRequest("disease_focus", 10))
	searchRequest.AddFacet("source", bleve.NewFacetRequest("source", 5))

	return ix.index.Search(searchRequest)
}

// Delete removes a document from the index.
func (ix *Index) Delete(id string) error {
	return ix.index.Delete(id)
}

// DocCount returns the number of documents in the index.
func (ix *Index) DocCount() (uint64, error) {
	return ix.index.DocCount()
}

// Close closes the underlying index.
func (ix *Index) Close() error {
	return ix.index.Close()
}
