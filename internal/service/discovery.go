// Package service holds the business logic between the HTTP surface and the
// discovery pipeline: request validation, single-flight run serialization,
// and read access to stored studies and samples.
package service

import (
	"context"
	"sync"

	"github.com/omicsdash/biodisc/internal/database"
	"github.com/omicsdash/biodisc/internal/discovery"
	"github.com/omicsdash/biodisc/internal/errors"
	"github.com/omicsdash/biodisc/internal/search"
	"github.com/omicsdash/biodisc/internal/taxonomy"
)

// recentSampleCount is how many samples the status endpoint returns.
const recentSampleCount = 10

// DiscoveryService validates and runs discovery requests.
type DiscoveryService struct {
	db       *database.DB
	pipeline *discovery.Pipeline
	index    *search.Index // nil when search is disabled

	// runMu serializes pipeline runs. The store-level upserts would survive
	// concurrent runs, but there is no point hitting ENA twice at once.
	runMu   sync.Mutex
	stateMu sync.Mutex
	running bool
}

// NewDiscoveryService wires a discovery service. index may be nil.
func NewDiscoveryService(db *database.DB, pipeline *discovery.Pipeline, index *search.Index) *DiscoveryService {
	return &DiscoveryService{
		db:       db,
		pipeline: pipeline,
		index:    index,
	}
}

// validate parses the request enums. Any failure is a config-kind error and
// must be reported before a single byte goes over the network.
func (s *DiscoveryService) validate(req *DiscoveryRequest) (discovery.QueryRequest, error) {
	const op = errors.Op("discovery.validate")

	dataType, err := taxonomy.ParseDataType(req.DataType)
	if err != nil {
		return discovery.QueryRequest{}, errors.WrapKind(op, errors.KindValidation, err)
	}
	if dataType == taxonomy.MultiOmics {
		return discovery.QueryRequest{}, errors.E(op, errors.KindValidation,
			"multi_omics is a grouping, not a discoverable data type")
	}

	disease, err := taxonomy.ParseDiseaseFocus(req.DiseaseFocus)
	if err != nil {
		return discovery.QueryRequest{}, errors.WrapKind(op, errors.KindValidation, err)
	}

	tissue, err := taxonomy.ParseTissueType(req.TissueType)
	if err != nil {
		return discovery.QueryRequest{}, errors.WrapKind(op, errors.KindValidation, err)
	}

	return discovery.QueryRequest{
		DataType:     dataType,
		DiseaseFocus: disease,
		TissueType:   tissue,
		DaysBack:     req.DaysBack,
		MaxSamples:   req.MaxSamples,
	}, nil
}

// Trigger validates and executes one discovery run. Runs are serialized;
// a second trigger waits for the first to finish rather than failing.
func (s *DiscoveryService) Trigger(ctx context.Context, req *DiscoveryRequest) (*discovery.Result, error) {
	queryReq, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	s.runMu.Lock()
	defer s.runMu.Unlock()

	s.setRunning(true)
	defer s.setRunning(false)

	result, err := s.pipeline.Run(ctx, queryReq)
	if err != nil {
		return nil, err
	}

	s.syncIndex()

	return result, nil
}

// Comprehensive runs discovery for every discoverable data type against one
// disease focus. A failing data type is recorded and the loop continues.
func (s *DiscoveryService) Comprehensive(ctx context.Context, diseaseFocus, tissueType string) (*ComprehensiveResult, error) {
	const op = errors.Op("discovery.Comprehensive")

	disease, err := taxonomy.ParseDiseaseFocus(diseaseFocus)
	if err != nil {
		return nil, errors.WrapKind(op, errors.KindValidation, err)
	}
	tissue, err := taxonomy.ParseTissueType(tissueType)
	if err != nil {
		return nil, errors.WrapKind(op, errors.KindValidation, err)
	}

	s.runMu.Lock()
	defer s.runMu.Unlock()

	s.setRunning(true)
	defer s.setRunning(false)

	out := &ComprehensiveResult{
		DiseaseFocus: string(disease),
		TissueType:   string(tissue),
		Results:      make(map[string]*discovery.Result),
	}

	for _, dataType := range taxonomy.DiscoverableDataTypes {
		result, err := s.pipeline.Run(ctx, discovery.QueryRequest{
			DataType:     dataType,
			DiseaseFocus: disease,
			TissueType:   tissue,
		})
		if err != nil {
			errors.LogAndContinue("comprehensive discovery", err)
			if out.Errors == nil {
				out.Errors = make(map[string]string)
			}
			out.Errors[string(dataType)] = err.Error()
			continue
		}
		out.Results[string(dataType)] = result
	}

	s.syncIndex()

	return out, nil
}

// Status reports the running flag and store-derived totals.
func (s *DiscoveryService) Status(ctx context.Context) (*DiscoveryStatus, error) {
	const op = errors.Op("discovery.Status")

	stats, err := s.db.GetStats()
	if err != nil {
		return nil, errors.WrapKind(op, errors.KindDatabase, err)
	}

	last, err := s.db.LastDiscovery()
	if err != nil {
		return nil, errors.WrapKind(op, errors.KindDatabase, err)
	}

	recent, err := s.db.GetSamples(database.SampleFilter{}, recentSampleCount, 0)
	if err != nil {
		return nil, errors.WrapKind(op, errors.KindDatabase, err)
	}
	if recent == nil {
		recent = []*database.Sample{}
	}

	s.stateMu.Lock()
	running := s.running
	s.stateMu.Unlock()

	return &DiscoveryStatus{
		Running:         running,
		TotalDiscovered: stats.TotalSamples,
		LastDiscovery:   last,
		RecentSamples:   recent,
	}, nil
}

// Statistics aggregates the discovery log.
func (s *DiscoveryService) Statistics(ctx context.Context) (*database.DiscoveryStatistics, error) {
	const op = errors.Op("discovery.Statistics")

	stats, err := s.db.GetDiscoveryStatistics()
	if err != nil {
		return nil, errors.WrapKind(op, errors.KindDatabase, err)
	}
	return stats, nil
}

func (s *DiscoveryService) setRunning(v bool) {
	s.stateMu.Lock()
	s.running = v
	s.stateMu.Unlock()
}

// syncIndex mirrors the latest stored samples into the full-text index.
// Indexing is best-effort: a search that lags one batch behind is fine,
// a failed discovery run over an index hiccup is not.
func (s *DiscoveryService) syncIndex() {
	if s.index == nil {
		return
	}

	samples, err := s.db.GetSamples(database.SampleFilter{}, 500, 0)
	if err != nil {
		errors.LogAndContinue("search sync read", err)
		return
	}

	batch := make([]database.Sample, 0, len(samples))
	for _, sample := range samples {
		batch = append(batch, *sample)
	}
	if err := s.index.SyncSamples(batch); err != nil {
		errors.LogAndContinue("search sync index", err)
	}
}
