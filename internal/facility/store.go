package facility

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Store reads facility documents from PostgreSQL. The table keeps one JSON
// document per facility slug:
//
//	CREATE TABLE facility_documents (
//	    slug       TEXT PRIMARY KEY,
//	    document   JSONB NOT NULL,
//	    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type Store struct {
	db *sql.DB
}

// NewStore wraps an existing connection pool.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// OpenStore connects to databaseURL and verifies the connection.
func OpenStore(ctx context.Context, databaseURL string) (*Store, error) {
	if databaseURL == "" {
		return nil, ErrEmptySource
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(2)
	db.SetConnMaxLifetime(time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load fetches and decodes the document stored under slug.
func (s *Store) Load(ctx context.Context, slug string) (*Data, error) {
	query := `
		SELECT document
		FROM facility_documents
		WHERE slug = $1
	`

	var body []byte
	err := s.db.QueryRowContext(ctx, query, slug).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: slug %q", ErrNotFound, slug)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query facility document: %w", err)
	}

	data, err := Decode(body)
	if err != nil {
		return nil, fmt.Errorf("slug %q: %w", slug, err)
	}
	return data, nil
}
