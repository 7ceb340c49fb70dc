package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Run is one pipeline invocation.
type Run struct {
	RunID            int64
	CreatedAt        time.Time
	Mode             string
	SourceCount      int
	DocumentCount    int
	SkippedCount     int
	TotalWords       int
	DistinctWords    int
	MalformedRecords int
	OutputPath       string
	TopKeywords      []string
}

// Document is the outcome of one source within a run.
type Document struct {
	Source       string
	Title        string
	Language     string
	Status       string
	ErrorMessage string
	Lines        int
	Emitted      int
	FinalState   string
}

// WordCount is one reduced count. Year is 0 for unigram runs.
type WordCount struct {
	Word  string
	Year  int
	Count int
}

// InsertRun records a run and returns its run_id.
func (db *DB) InsertRun(r Run) (int64, error) {
	keywords, err := json.Marshal(r.TopKeywords)
	if err != nil {
		return 0, fmt.Errorf("failed to encode top keywords: %w", err)
	}

	result, err := db.Exec(`
		INSERT INTO runs (mode, source_count, document_count, skipped_count, total_words,
		                  distinct_words, malformed_records, output_path, top_keywords)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.Mode, r.SourceCount, r.DocumentCount, r.SkippedCount, r.TotalWords,
		r.DistinctWords, r.MalformedRecords, r.OutputPath, string(keywords))
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}
	return runID, nil
}

// InsertDocument records the outcome of one source.
func (db *DB) InsertDocument(runID int64, d Document) error {
	_, err := db.Exec(`
		INSERT INTO documents (run_id, source, title, language, status, error_message,
		                       lines, emitted, final_state)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, runID, d.Source, d.Title, d.Language, d.Status, d.ErrorMessage, d.Lines, d.Emitted, d.FinalState)
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}
	return nil
}

// InsertCounts stores reduced counts for a run in a single transaction.
func (db *DB) InsertCounts(runID int64, counts []WordCount) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }() // no-op after Commit

	stmt, err := tx.Prepare(`
		INSERT INTO word_counts (run_id, word, year, count)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(run_id, word, year) DO UPDATE SET count = count + excluded.count
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range counts {
		if _, err := stmt.Exec(runID, c.Word, c.Year, c.Count); err != nil {
			return fmt.Errorf("failed to insert count for %q: %w", c.Word, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit counts: %w", err)
	}
	return nil
}

func scanRun(scan func(dest ...any) error) (Run, error) {
	var (
		r        Run
		output   sql.NullString
		keywords sql.NullString
	)
	err := scan(&r.RunID, &r.CreatedAt, &r.Mode, &r.SourceCount, &r.DocumentCount, &r.SkippedCount,
		&r.TotalWords, &r.DistinctWords, &r.MalformedRecords, &output, &keywords)
	if err != nil {
		return Run{}, err
	}
	r.OutputPath = output.String
	if keywords.Valid && keywords.String != "" {
		if err := json.Unmarshal([]byte(keywords.String), &r.TopKeywords); err != nil {
			return Run{}, fmt.Errorf("failed to decode top keywords: %w", err)
		}
	}
	return r, nil
}

const runColumns = `run_id, created_at, mode, source_count, document_count, skipped_count,
	       total_words, distinct_words, malformed_records, output_path, top_keywords`

// ListRuns returns the most recent runs first. A limit of 0 returns all.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY run_id DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun returns a single run.
func (db *DB) GetRun(runID int64) (*Run, error) {
	row := db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID)
	r, err := scanRun(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %d not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &r, nil
}

// LatestRunID returns the newest run, or 0 when there are none.
func (db *DB) LatestRunID() (int64, error) {
	var id sql.NullInt64
	if err := db.QueryRow("SELECT MAX(run_id) FROM runs").Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to get latest run: %w", err)
	}
	return id.Int64, nil
}

// GetDocuments returns the documents of a run in insertion order.
func (db *DB) GetDocuments(runID int64) ([]Document, error) {
	rows, err := db.Query(`
		SELECT source, COALESCE(title, ''), COALESCE(language, ''), status,
		       COALESCE(error_message, ''), lines, emitted, COALESCE(final_state, '')
		FROM documents
		WHERE run_id = ?
		ORDER BY document_id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.Source, &d.Title, &d.Language, &d.Status, &d.ErrorMessage,
			&d.Lines, &d.Emitted, &d.FinalState); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// TopWords returns a run's most frequent words summed over all years,
// ordered by count descending then word ascending.
func (db *DB) TopWords(runID int64, limit int) ([]WordCount, error) {
	query := `
		SELECT word, SUM(count) AS total
		FROM word_counts
		WHERE run_id = ?
		GROUP BY word
		ORDER BY total DESC, word ASC
	`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := db.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get top words: %w", err)
	}
	defer rows.Close()

	var counts []WordCount
	for rows.Next() {
		var c WordCount
		if err := rows.Scan(&c.Word, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan word count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// WordYears returns the per-year counts of one word in a run.
func (db *DB) WordYears(runID int64, word string) ([]WordCount, error) {
	rows, err := db.Query(`
		SELECT word, year, count
		FROM word_counts
		WHERE run_id = ? AND word = ?
		ORDER BY year
	`, runID, word)
	if err != nil {
		return nil, fmt.Errorf("failed to get word years: %w", err)
	}
	defer rows.Close()

	var counts []WordCount
	for rows.Next() {
		var c WordCount
		if err := rows.Scan(&c.Word, &c.Year, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan word count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
