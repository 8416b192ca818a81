// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive records completed scrape runs in a small SQLite index
// next to the output files, so earlier runs can be listed and inspected
// without rescanning the directory.
package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const dbFile = "archive.db"

// ErrNotFound reports a DOI with no archive record.
var ErrNotFound = errors.New("no archive record for DOI")

// Record is one completed scrape run, keyed by canonical DOI. Scraping
// the same DOI again replaces the record.
type Record struct {
	DOI           string
	PublisherKey  string
	Title         string
	MarkdownPath  string
	FigureCount   int
	ImagesFetched int
	ScrapedAt     time.Time
}

// Store manages the run index database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the archive database at dir/archive.db.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening archive database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS scrapes (
		doi TEXT PRIMARY KEY,
		publisher TEXT NOT NULL,
		title TEXT,
		markdown_path TEXT,
		figure_count INTEGER,
		images_fetched INTEGER,
		scraped_at TEXT
	)`)
	if err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// Put upserts a run record.
func (s *Store) Put(ctx context.Context, rec Record) error {
	scrapedAt := rec.ScrapedAt
	if scrapedAt.IsZero() {
		scrapedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scrapes (doi, publisher, title, markdown_path, figure_count, images_fetched, scraped_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(doi) DO UPDATE SET
			publisher=excluded.publisher, title=excluded.title,
			markdown_path=excluded.markdown_path, figure_count=excluded.figure_count,
			images_fetched=excluded.images_fetched, scraped_at=excluded.scraped_at`,
		rec.DOI, rec.PublisherKey, rec.Title, rec.MarkdownPath,
		rec.FigureCount, rec.ImagesFetched, scrapedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("recording scrape of %s: %w", rec.DOI, err)
	}
	return nil
}

// Get returns the record for a canonical DOI, or ErrNotFound.
func (s *Store) Get(ctx context.Context, doi string) (Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT doi, publisher, title, markdown_path, figure_count, images_fetched, scraped_at
		 FROM scrapes WHERE doi = ?`, doi)

	rec, err := scanRecord(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, doi)
	}
	if err != nil {
		return Record{}, fmt.Errorf("reading record for %s: %w", doi, err)
	}
	return rec, nil
}

// List returns all records, most recent first.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT doi, publisher, title, markdown_path, figure_count, images_fetched, scraped_at
		 FROM scrapes ORDER BY scraped_at DESC, doi`)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer rows.Close()

	var recs []Record
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	return recs, nil
}

func scanRecord(scan func(dest ...any) error) (Record, error) {
	var rec Record
	var scrapedAt string
	if err := scan(&rec.DOI, &rec.PublisherKey, &rec.Title, &rec.MarkdownPath,
		&rec.FigureCount, &rec.ImagesFetched, &scrapedAt); err != nil {
		return Record{}, err
	}
	if t, err := time.Parse(time.RFC3339, scrapedAt); err == nil {
		rec.ScrapedAt = t
	}
	return rec, nil
}
