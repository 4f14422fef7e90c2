package service

import (
	"context"

	"github.com/omicsdash/biodisc/internal/database"
	"github.com/omicsdash/biodisc/internal/errors"
	"github.com/omicsdash/biodisc/internal/taxonomy"
)

const defaultPageSize = 50

// MetadataService provides read access to stored studies and samples.
type MetadataService struct {
	db *database.DB
}

// NewMetadataService creates a new metadata service instance
func NewMetadataService(db *database.DB) *MetadataService {
	return &MetadataService{db: db}
}

// GetStudy retrieves a study by accession
func (m *MetadataService) GetStudy(ctx context.Context, studyID string) (*database.Study, error) {
	return m.db.GetStudy(studyID)
}

// GetSample retrieves a sample by accession
func (m *MetadataService) GetSample(ctx context.Context, sampleID string) (*database.Sample, error) {
	return m.db.GetSample(sampleID)
}

// GetStudies lists studies matching the query.
func (m *MetadataService) GetStudies(ctx context.Context, q StudyQuery) ([]*database.Study, error) {
	const op = errors.Op("metadata.GetStudies")

	if err := validateEnumFilters(q.DataType, q.DiseaseFocus, q.TissueType); err != nil {
		return nil, errors.WrapKind(op, errors.KindValidation, err)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}

	studies, err := m.db.GetStudies(database.StudyFilter{
		DataType:     q.DataType,
		DiseaseFocus: q.DiseaseFocus,
		TissueType:   q.TissueType,
	}, limit, q.Offset)
	if err != nil {
		return nil, errors.WrapKind(op, errors.KindDatabase, err)
	}
	if studies == nil {
		studies = []*database.Study{}
	}
	return studies, nil
}

// GetSamples lists samples matching the query.
func (m *MetadataService) GetSamples(ctx context.Context, q SampleQuery) ([]*database.Sample, error) {
	const op = errors.Op("metadata.GetSamples")

	if err := validateEnumFilters(q.DataType, q.DiseaseFocus, ""); err != nil {
		return nil, errors.WrapKind(op, errors.KindValidation, err)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}

	samples, err := m.db.GetSamples(database.SampleFilter{
		StudyID:      q.StudyID,
		DataType:     q.DataType,
		DiseaseFocus: q.DiseaseFocus,
		Source:       q.Source,
	}, limit, q.Offset)
	if err != nil {
		return nil, errors.WrapKind(op, errors.KindDatabase, err)
	}
	if samples == nil {
		samples = []*database.Sample{}
	}
	return samples, nil
}

// DataTypeInfo describes one taxonomy data type for the listing endpoint.
type DataTypeInfo struct {
	Name              string   `json:"name"`
	Discoverable      bool     `json:"discoverable"`
	LibraryStrategies []string `json:"library_strategies,omitempty"`
}

// ListDataTypes returns the fixed data type taxonomy.
func (m *MetadataService) ListDataTypes() []DataTypeInfo {
	infos := make([]DataTypeInfo, 0, len(taxonomy.DataTypes))
	for _, dt := range taxonomy.DataTypes {
		infos = append(infos, DataTypeInfo{
			Name:              string(dt),
			Discoverable:      dt != taxonomy.MultiOmics,
			LibraryStrategies: taxonomy.LibraryStrategies[dt],
		})
	}
	return infos
}

// validateEnumFilters checks optional filter values against the taxonomy.
// Empty strings pass: they mean "no filter".
func validateEnumFilters(dataType, disease, tissue string) error {
	if dataType != "" {
		if _, err := taxonomy.ParseDataType(dataType); err != nil {
			return err
		}
	}
	if disease != "" {
		if _, err := taxonomy.ParseDiseaseFocus(disease); err != nil {
			return err
		}
	}
	if tissue != "" {
		if _, err := taxonomy.ParseTissueType(tissue); err != nil {
			return err
		}
	}
	return nil
}
