package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/matsen/bipcite/internal/reference"
)

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

const selectRecordFields = `id, title, authors_json, pub_year, venue, volume, issue,
	pages, publisher, doi, isbn, url, language, source_type, source_id`

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS records (
			id TEXT PRIMARY KEY,
			title TEXT,
			authors_json TEXT NOT NULL,
			pub_year INTEGER,
			venue TEXT,
			volume TEXT,
			issue TEXT,
			pages TEXT,
			publisher TEXT,
			doi TEXT,
			isbn TEXT,
			url TEXT,
			language TEXT NOT NULL,
			source_type TEXT,
			source_id TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_records_doi ON records(doi) WHERE doi IS NOT NULL AND doi != '';

		CREATE VIRTUAL TABLE IF NOT EXISTS records_fts USING fts5(
			id,
			title,
			authors_text,
			venue
		);
	`
	_, err := db.Exec(schema)
	return err
}

// RebuildFromJSONL clears the database and rebuilds it from a JSONL file.
func (d *DB) RebuildFromJSONL(jsonlPath string) (int, error) {
	recs, err := ReadAll(jsonlPath)
	if err != nil {
		return 0, fmt.Errorf("reading JSONL: %w", err)
	}

	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("starting rebuild: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM records"); err != nil {
		return 0, fmt.Errorf("clearing records table: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM records_fts"); err != nil {
		return 0, fmt.Errorf("clearing records_fts table: %w", err)
	}

	recStmt, err := tx.Prepare(`INSERT INTO records (` + selectRecordFields + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing records insert: %w", err)
	}
	defer recStmt.Close()

	ftsStmt, err := tx.Prepare(`INSERT INTO records_fts (id, title, authors_text, venue) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing fts insert: %w", err)
	}
	defer ftsStmt.Close()

	for _, rec := range recs {
		authorsJSON, err := json.Marshal(rec.Authors)
		if err != nil {
			return 0, fmt.Errorf("marshaling authors for %s: %w", rec.ID, err)
		}
		_, err = recStmt.Exec(
			rec.ID, nullable(rec.Title), string(authorsJSON), nullableYear(rec.Year),
			nullable(rec.Venue), nullable(rec.Volume), nullable(rec.Issue),
			nullable(rec.Pages), nullable(rec.Publisher),
			nullable(rec.DOI), nullable(rec.ISBN), nullable(rec.URL),
			rec.Language.String(), nullable(rec.Source.Type), nullable(rec.Source.ID),
		)
		if err != nil {
			return 0, fmt.Errorf("inserting record %s: %w", rec.ID, err)
		}
		if _, err := ftsStmt.Exec(rec.ID, rec.Title, formatAuthorsText(rec.Authors), rec.Venue); err != nil {
			return 0, fmt.Errorf("inserting fts for %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing rebuild: %w", err)
	}
	return len(recs), nil
}

func formatAuthorsText(authors []reference.Author) string {
	names := make([]string, len(authors))
	for i, a := range authors {
		names[i] = a.Full()
	}
	return strings.Join(names, ", ")
}

// GetByID retrieves a record by its ID. It returns nil, nil when no record
// has that ID.
func (d *DB) GetByID(id string) (*reference.Record, error) {
	row := d.db.QueryRow(`SELECT `+selectRecordFields+` FROM records WHERE id = ?`, id)
	return scanRecord(row)
}

// GetByIDs retrieves records in the order of ids, reporting the ids that
// were not found.
func (d *DB) GetByIDs(ids []string) ([]reference.Record, []string, error) {
	var found []reference.Record
	var missing []string
	for _, id := range ids {
		rec, err := d.GetByID(id)
		if err != nil {
			return nil, nil, fmt.Errorf("getting %s: %w", id, err)
		}
		if rec == nil {
			missing = append(missing, id)
			continue
		}
		found = append(found, *rec)
	}
	return found, missing, nil
}

// Search performs a full-text search over titles, authors and venues.
func (d *DB) Search(query string, limit int) ([]reference.Record, error) {
	rows, err := d.db.Query(`
		SELECT `+selectRecordFields+`
		FROM records
		WHERE id IN (SELECT id FROM records_fts WHERE records_fts MATCH ?)
		ORDER BY id
		LIMIT ?`, prepareFTSQuery(query), limit)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// ListAll returns all records ordered by ID, optionally limited.
func (d *DB) ListAll(limit int) ([]reference.Record, error) {
	query := `SELECT ` + selectRecordFields + ` FROM records ORDER BY id`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// Count returns the total number of records.
func (d *DB) Count() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM records").Scan(&count)
	return count, err
}

// scanner interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*reference.Record, error) {
	var rec reference.Record
	var authorsJSON, lang string
	var title, venue, volume, issue, pages, publisher, doi, isbn, url, sourceType, sourceID sql.NullString
	var year sql.NullInt64

	err := s.Scan(
		&rec.ID, &title, &authorsJSON, &year, &venue, &volume, &issue,
		&pages, &publisher, &doi, &isbn, &url, &lang, &sourceType, &sourceID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	rec.Title = title.String
	rec.Venue = venue.String
	rec.Volume = volume.String
	rec.Issue = issue.String
	rec.Pages = pages.String
	rec.Publisher = publisher.String
	rec.DOI = doi.String
	rec.ISBN = isbn.String
	rec.URL = url.String
	rec.Source.Type = sourceType.String
	rec.Source.ID = sourceID.String
	if year.Valid {
		rec.Year = int(year.Int64)
	}
	if rec.Language, err = reference.ParseLanguage(lang); err != nil {
		return nil, fmt.Errorf("parsing language for %s: %w", rec.ID, err)
	}
	if err := json.Unmarshal([]byte(authorsJSON), &rec.Authors); err != nil {
		return nil, fmt.Errorf("parsing authors JSON for %s: %w", rec.ID, err)
	}
	if rec.Authors == nil {
		rec.Authors = []reference.Author{}
	}
	return &rec, nil
}

func scanRecords(rows *sql.Rows) ([]reference.Record, error) {
	var recs []reference.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			recs = append(recs, *rec)
		}
	}
	return recs, rows.Err()
}

// nullable converts a string to sql.NullString, treating empty as NULL.
func nullable(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullableYear(y int) sql.NullInt64 {
	if y == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(y), Valid: true}
}

// prepareFTSQuery escapes special characters for FTS5 queries.
func prepareFTSQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}
	if strings.ContainsAny(query, "\"*+-:(){}[]^~.,") {
		return "\"" + strings.ReplaceAll(query, "\"", "\"\"") + "\""
	}
	return query
}
