// Package database provides SQLite-backed storage for discovered multi-omics
// metadata: studies, samples, data files, analysis results, and the
// append-only discovery log.
package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps the SQL database connection
type DB struct {
	*sql.DB
	path string
}

// Initialize creates and configures the database connection
func Initialize(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path+"?_journal=WAL&_timeout=10000&_sync=NORMAL&_fk=1")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",   // Write-ahead logging so API reads don't block a persist
		"PRAGMA synchronous = NORMAL", // Balanced safety/speed
		"PRAGMA cache_size = 10000",   // ~40MB cache
		"PRAGMA temp_store = MEMORY",
		"PRAGMA busy_timeout = 10000", // 10 second timeout
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return nil, fmt.Errorf("failed to set pragma %s: %w", pragma, err)
		}
	}

	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &DB{
		DB:   db,
		path: path,
	}, nil
}

func createTables(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS studies (
		study_id TEXT PRIMARY KEY,
		title TEXT,
		description TEXT,
		data_type TEXT NOT NULL,
		disease_focus TEXT NOT NULL,
		tissue_type TEXT,
		organism TEXT DEFAULT 'Homo sapiens',
		sample_count INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS samples (
		sample_id TEXT PRIMARY KEY,
		study_id TEXT NOT NULL REFERENCES studies(study_id),
		condition TEXT,
		tissue TEXT,
		organ TEXT,
		data_type TEXT NOT NULL,
		disease_focus TEXT NOT NULL,
		source TEXT NOT NULL DEFAULT 'ena',
		metadata JSON,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS data_files (
		file_id INTEGER PRIMARY KEY AUTOINCREMENT,
		sample_id TEXT NOT NULL REFERENCES samples(sample_id),
		file_type TEXT NOT NULL,
		file_url TEXT NOT NULL,
		file_format TEXT,
		file_size INTEGER DEFAULT 0,
		checksum TEXT
	);

	CREATE TABLE IF NOT EXISTS analysis_results (
		result_id INTEGER PRIMARY KEY AUTOINCREMENT,
		study_id TEXT NOT NULL REFERENCES studies(study_id),
		analysis_type TEXT NOT NULL,
		result_type TEXT NOT NULL,
		result_data JSON,
		parameters JSON,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	-- Append-only audit trail, one row per discovery run.
	CREATE TABLE IF NOT EXISTS discovery_log (
		log_id INTEGER PRIMARY KEY AUTOINCREMENT,
		discovery_date TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		data_type TEXT NOT NULL,
		disease_focus TEXT NOT NULL,
		tissue_type TEXT NOT NULL DEFAULT 'all',
		source TEXT NOT NULL,
		query TEXT,
		samples_found INTEGER NOT NULL DEFAULT 0,
		samples_processed INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		error_message TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_study_data_type ON studies(data_type);
	CREATE INDEX IF NOT EXISTS idx_study_disease ON studies(disease_focus);
	CREATE INDEX IF NOT EXISTS idx_sample_study ON samples(study_id);
	CREATE INDEX IF NOT EXISTS idx_sample_data_type ON samples(data_type);
	CREATE INDEX IF NOT EXISTS idx_sample_disease ON samples(disease_focus);
	CREATE INDEX IF NOT EXISTS idx_sample_source ON samples(source);
	CREATE INDEX IF NOT EXISTS idx_sample_created ON samples(created_at);
	CREATE INDEX IF NOT EXISTS idx_file_sample ON data_files(sample_id);
	CREATE INDEX IF NOT EXISTS idx_result_study ON analysis_results(study_id);
	CREATE INDEX IF NOT EXISTS idx_log_date ON discovery_log(discovery_date);
	CREATE INDEX IF NOT EXISTS idx_log_data_type ON discovery_log(data_type);
	`

	_, err := db.Exec(schema)
	return err
}

// PersistBatch inserts classified samples and upserts their parent studies in
// a single transaction. A sample whose sample_id already exists anywhere in
// the store is skipped without touching any study's count, so repeated runs
// are idempotent and a duplicate under a different study is a no-op. The
// store, not in-memory state, is the dedup source of truth.
func (db *DB) PersistBatch(samples []Sample, studies map[string]Study) (*PersistResult, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insertSample, err := tx.Prepare(`
		INSERT INTO samples (
			sample_id, study_id, condition, tissue, organ,
			data_type, disease_focus, source, metadata
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(sample_id) DO NOTHING
	`)
	if err != nil {
		return nil, err
	}
	defer insertSample.Close()

	// Atomic counter bump; no read-modify-write, so concurrent readers and a
	// second writer waiting on the WAL lock always see consistent counts.
	upsertStudy, err := tx.Prepare(`
		INSERT INTO studies (
			study_id, title, description, data_type, disease_focus,
			tissue_type, organism, sample_count
		) VALUES (?, ?, ?, ?, ?, ?, ?, 1)
		ON CONFLICT(study_id) DO UPDATE SET
			sample_count = sample_count + 1,
			updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return nil, err
	}
	defer upsertStudy.Close()

	result := &PersistResult{}
	touched := make(map[string]bool)

	for _, sample := range samples {
		study, ok := studies[sample.StudyID]
		if !ok {
			return nil, fmt.Errorf("sample %s references unknown study %s", sample.SampleID, sample.StudyID)
		}

		// The study row must exist before the sample row under foreign keys,
		// but the counter must only move for actually-inserted samples. Probe
		// the sample first: the sample table is the dedup authority.
		var exists int
		err := tx.QueryRow(`SELECT COUNT(*) FROM samples WHERE sample_id = ?`, sample.SampleID).Scan(&exists)
		if err != nil {
			return nil, fmt.Errorf("dedup probe for %s: %w", sample.SampleID, err)
		}
		if exists > 0 {
			result.Skipped++
			continue
		}

		if _, err := upsertStudy.Exec(
			study.StudyID, study.Title, study.Description, study.DataType,
			study.DiseaseFocus, study.TissueType, organismOrDefault(study.Organism),
		); err != nil {
			return nil, fmt.Errorf("upsert study %s: %w", study.StudyID, err)
		}
		touched[study.StudyID] = true

		res, err := insertSample.Exec(
			sample.SampleID, sample.StudyID, sample.Condition, sample.Tissue,
			sample.Organ, sample.DataType, sample.DiseaseFocus,
			sourceOrDefault(sample.Source), sample.Metadata,
		)
		if err != nil {
			return nil, fmt.Errorf("insert sample %s: %w", sample.SampleID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			result.Skipped++
		} else {
			result.Inserted++
		}
	}

	result.StudiesTouched = len(touched)

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit batch: %w", err)
	}
	return result, nil
}

func organismOrDefault(organism string) string {
	if organism == "" {
		return "Homo sapiens"
	}
	return organism
}

func sourceOrDefault(source string) string {
	if source == "" {
		return SourceENA
	}
	return source
}

// GetStudy retrieves a study by its accession identifier.
// Returns an error if the study is not found.
func (db *DB) GetStudy(studyID string) (*Study, error) {
	study := &Study{}
	query := `
		SELECT study_id, title, COALESCE(description, ''), data_type, disease_focus,
			   COALESCE(tissue_type, ''), organism, sample_count, created_at, updated_at
		FROM studies
		WHERE study_id = ?
	`
	err := db.QueryRow(query, studyID).Scan(
		&study.StudyID, &study.Title, &study.Description, &study.DataType,
		&study.DiseaseFocus, &study.TissueType, &study.Organism,
		&study.SampleCount, &study.CreatedAt, &study.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("study not found: %s", studyID)
	}
	return study, err
}

// GetSample retrieves a sample by its accession identifier.
// Returns an error if the sample is not found.
func (db *DB) GetSample(sampleID string) (*Sample, error) {
	sample := &Sample{}
	query := `
		SELECT sample_id, study_id, COALESCE(condition, ''), COALESCE(tissue, ''),
			   COALESCE(organ, ''), data_type, disease_focus, source,
			   COALESCE(metadata, '{}'), created_at
		FROM samples
		WHERE sample_id = ?
	`
	err := db.QueryRow(query, sampleID).Scan(
		&sample.SampleID, &sample.StudyID, &sample.Condition, &sample.Tissue,
		&sample.Organ, &sample.DataType, &sample.DiseaseFocus, &sample.Source,
		&sample.Metadata, &sample.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("sample not found: %s", sampleID)
	}
	return sample, err
}

// StudyFilter narrows GetStudies results. Zero values mean no filter.
type StudyFilter struct {
	DataType     string
	DiseaseFocus string
	TissueType   string
}

// GetStudies returns studies matching the filter, newest first.
func (db *DB) GetStudies(filter StudyFilter, limit, offset int) ([]*Study, error) {
	query := `
		SELECT study_id, title, COALESCE(description, ''), data_type, disease_focus,
			   COALESCE(tissue_type, ''), organism, sample_count, created_at, updated_at
		FROM studies
	`
	var conditions []string
	var args []interface{}
	if filter.DataType != "" {
		conditions = append(conditions, "data_type = ?")
		args = append(args, filter.DataType)
	}
	if filter.DiseaseFocus != "" {
		conditions = append(conditions, "disease_focus = ?")
		args = append(args, filter.DiseaseFocus)
	}
	if filter.TissueType != "" {
		conditions = append(conditions, "tissue_type = ?")
		args = append(args, filter.TissueType)
	}
	query += whereClause(conditions)
	query += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var studies []*Study
	for rows.Next() {
		study := &Study{}
		if err := rows.Scan(
			&study.StudyID, &study.Title, &study.Description, &study.DataType,
			&study.DiseaseFocus, &study.TissueType, &study.Organism,
			&study.SampleCount, &study.CreatedAt, &study.UpdatedAt,
		); err != nil {
			return nil, err
		}
		studies = append(studies, study)
	}
	return studies, rows.Err()
}

// SampleFilter narrows GetSamples results. Zero values mean no filter.
type SampleFilter struct {
	StudyID      string
	DataType     string
	DiseaseFocus string
	Source       string
}

// GetSamples returns samples matching the filter, newest first.
func (db *DB) GetSamples(filter SampleFilter, limit, offset int) ([]*Sample, error) {
	query := `
		SELECT sample_id, study_id, COALESCE(condition, ''), COALESCE(tissue, ''),
			   COALESCE(organ, ''), data_type, disease_focus, source,
			   COALESCE(metadata, '{}'), created_at
		FROM samples
	`
	var conditions []string
	var args []interface{}
	if filter.StudyID != "" {
		conditions = append(conditions, "study_id = ?")
		args = append(args, filter.StudyID)
	}
	if filter.DataType != "" {
		conditions = append(conditions, "data_type = ?")
		args = append(args, filter.DataType)
	}
	if filter.DiseaseFocus != "" {
		conditions = append(conditions, "disease_focus = ?")
		args = append(args, filter.DiseaseFocus)
	}
	if filter.Source != "" {
		conditions = append(conditions, "source = ?")
		args = append(args, filter.Source)
	}
	query += whereClause(conditions)
	query += " ORDER BY created_at DESC, sample_id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []*Sample
	for rows.Next() {
		sample := &Sample{}
		if err := rows.Scan(
			&sample.SampleID, &sample.StudyID, &sample.Condition, &sample.Tissue,
			&sample.Organ, &sample.DataType, &sample.DiseaseFocus, &sample.Source,
			&sample.Metadata, &sample.CreatedAt,
		); err != nil {
			return nil, err
		}
		samples = append(samples, sample)
	}
	return samples, rows.Err()
}

func whereClause(conditions []string) string {
	if len(conditions) == 0 {
		return ""
	}
	clause := " WHERE " + conditions[0]
	for _, c := range conditions[1:] {
		clause += " AND " + c
	}
	return clause
}

// InsertDataFile records a data file for a sample.
func (db *DB) InsertDataFile(file *DataFile) (int64, error) {
	res, err := db.Exec(`
		INSERT INTO data_files (sample_id, file_type, file_url, file_format, file_size, checksum)
		VALUES (?, ?, ?, ?, ?, ?)
	`, file.SampleID, file.FileType, file.FileURL, file.FileFormat, file.FileSize, file.Checksum)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetDataFiles retrieves data files for a sample.
func (db *DB) GetDataFiles(sampleID string) ([]DataFile, error) {
	rows, err := db.Query(`
		SELECT file_id, sample_id, file_type, file_url,
			   COALESCE(file_format, ''), COALESCE(file_size, 0), COALESCE(checksum, '')
		FROM data_files
		WHERE sample_id = ?
	`, sampleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []DataFile
	for rows.Next() {
		var f DataFile
		if err := rows.Scan(&f.FileID, &f.SampleID, &f.FileType, &f.FileURL,
			&f.FileFormat, &f.FileSize, &f.Checksum); err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// InsertAnalysisResult stores an analysis result for a study.
func (db *DB) InsertAnalysisResult(result *AnalysisResult) (int64, error) {
	res, err := db.Exec(`
		INSERT INTO analysis_results (study_id, analysis_type, result_type, result_data, parameters)
		VALUES (?, ?, ?, ?, ?)
	`, result.StudyID, result.AnalysisType, result.ResultType, result.ResultData, result.Parameters)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetAnalysisResults retrieves analysis results for a study, optionally
// filtered by analysis type.
func (db *DB) GetAnalysisResults(studyID, analysisType string) ([]AnalysisResult, error) {
	query := `
		SELECT result_id, study_id, analysis_type, result_type,
			   COALESCE(result_data, '{}'), COALESCE(parameters, '{}'), created_at
		FROM analysis_results
		WHERE study_id = ?
	`
	args := []interface{}{studyID}
	if analysisType != "" {
		query += " AND analysis_type = ?"
		args = append(args, analysisType)
	}
	query += " ORDER BY created_at DESC"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []AnalysisResult
	for rows.Next() {
		var r AnalysisResult
		if err := rows.Scan(&r.ResultID, &r.StudyID, &r.AnalysisType, &r.ResultType,
			&r.ResultData, &r.Parameters, &r.CreatedAt); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// AppendDiscoveryLog appends one audit row for a completed discovery run.
func (db *DB) AppendDiscoveryLog(entry *DiscoveryLogEntry) (int64, error) {
	tissue := entry.TissueType
	if tissue == "" {
		tissue = "all"
	}
	res, err := db.Exec(`
		INSERT INTO discovery_log (
			data_type, disease_focus, tissue_type, source, query,
			samples_found, samples_processed, status, error_message
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.DataType, entry.DiseaseFocus, tissue, entry.Source, entry.Query,
		entry.SamplesFound, entry.SamplesProcessed, entry.Status, entry.ErrorMessage)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetDiscoveryLog returns recent discovery log entries, newest first.
func (db *DB) GetDiscoveryLog(limit int) ([]DiscoveryLogEntry, error) {
	rows, err := db.Query(`
		SELECT log_id, discovery_date, data_type, disease_focus, tissue_type,
			   source, COALESCE(query, ''), samples_found, samples_processed,
			   status, COALESCE(error_message, '')
		FROM discovery_log
		ORDER BY discovery_date DESC, log_id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []DiscoveryLogEntry
	for rows.Next() {
		var e DiscoveryLogEntry
		if err := rows.Scan(&e.LogID, &e.DiscoveryDate, &e.DataType, &e.DiseaseFocus,
			&e.TissueType, &e.Source, &e.Query, &e.SamplesFound,
			&e.SamplesProcessed, &e.Status, &e.ErrorMessage); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// LastDiscovery returns the timestamp of the most recent discovery run, or
// nil when no run has happened yet.
func (db *DB) LastDiscovery() (*time.Time, error) {
	var ts time.Time
	err := db.QueryRow(`SELECT discovery_date FROM discovery_log ORDER BY discovery_date DESC, log_id DESC LIMIT 1`).Scan(&ts)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ts, nil
}

// GetDiscoveryStatistics aggregates the discovery log and sample table.
func (db *DB) GetDiscoveryStatistics() (*DiscoveryStatistics, error) {
	stats := &DiscoveryStatistics{
		ByDataType:      make(map[string]int),
		ByDisease:       make(map[string]int),
		ByTissue:        make(map[string]int),
		SamplesBySource: make(map[string]int),
	}

	err := db.QueryRow(`SELECT COUNT(*), COALESCE(SUM(samples_found), 0) FROM discovery_log`).
		Scan(&stats.TotalRuns, &stats.TotalSamplesFound)
	if err != nil {
		return nil, fmt.Errorf("failed to count discovery log: %w", err)
	}

	groupings := []struct {
		query string
		dest  map[string]int
	}{
		{`SELECT data_type, COUNT(*) FROM discovery_log GROUP BY data_type`, stats.ByDataType},
		{`SELECT disease_focus, COUNT(*) FROM discovery_log GROUP BY disease_focus`, stats.ByDisease},
		{`SELECT tissue_type, COUNT(*) FROM discovery_log GROUP BY tissue_type`, stats.ByTissue},
		{`SELECT source, COUNT(*) FROM samples GROUP BY source`, stats.SamplesBySource},
	}

	for _, g := range groupings {
		rows, err := db.Query(g.query)
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			var key string
			var count int
			if err := rows.Scan(&key, &count); err != nil {
				rows.Close()
				return nil, err
			}
			g.dest[key] = count
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, err
		}
		rows.Close()
	}

	return stats, nil
}

// GetStats returns live row counts for the core tables.
func (db *DB) GetStats() (*DatabaseStats, error) {
	stats := &DatabaseStats{}

	if err := db.QueryRow("SELECT COUNT(*) FROM studies").Scan(&stats.TotalStudies); err != nil {
		return nil, fmt.Errorf("failed to count studies: %w", err)
	}
	if err := db.QueryRow("SELECT COUNT(*) FROM samples").Scan(&stats.TotalSamples); err != nil {
		return nil, fmt.Errorf("failed to count samples: %w", err)
	}
	if err := db.QueryRow("SELECT COUNT(*) FROM discovery_log").Scan(&stats.TotalLogRows); err != nil {
		return nil, fmt.Errorf("failed to count discovery log: %w", err)
	}

	stats.LastUpdate = time.Now()

	return stats, nil
}

// Ping verifies database connection
func (db *DB) Ping() error {
	return db.DB.Ping()
}
