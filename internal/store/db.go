// Package store reads job postings from a SQLite database.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/spigell/jobmatch/internal/jobs"
)

const schema = `
CREATE TABLE IF NOT EXISTS jobs (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL DEFAULT '',
	company     TEXT NOT NULL DEFAULT '',
	location    TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT ''
);`

type DB struct {
	Pool *sql.DB
}

func Open(path string) (*DB, error) {
	// modernc sqlite uses DSN like: file:foo.db?_pragma=busy_timeout(5000)
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)

	pool, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	pool.SetMaxOpenConns(1)
	pool.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, err
	}

	return &DB{Pool: pool}, nil
}

func (d *DB) Close() error {
	if d == nil || d.Pool == nil {
		return nil
	}
	return d.Pool.Close()
}

// Migrate creates the jobs table when missing.
func (d *DB) Migrate(ctx context.Context) error {
	if _, err := d.Pool.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate jobs table: %w", err)
	}
	return nil
}

// PutJob inserts or replaces a job by id.
func (d *DB) PutJob(ctx context.Context, job *jobs.Job) error {
	_, err := d.Pool.ExecContext(ctx, `
INSERT INTO jobs (id, title, company, location, description)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	title = excluded.title,
	company = excluded.company,
	location = excluded.location,
	description = excluded.description`,
		job.ID, job.Title, job.Company, job.Location, job.Description,
	)
	if err != nil {
		return fmt.Errorf("put job %s: %w", job.ID, err)
	}
	return nil
}

// Jobs returns every job in insertion order. Updating a job keeps its position.
func (d *DB) Jobs(ctx context.Context) (*jobs.Pool, error) {
	rows, err := d.Pool.QueryContext(ctx, `
SELECT id, title, company, location, description
FROM jobs
ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	pool := &jobs.Pool{Items: []*jobs.Job{}}
	for rows.Next() {
		var j jobs.Job
		if err := rows.Scan(&j.ID, &j.Title, &j.Company, &j.Location, &j.Description); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		pool.Items = append(pool.Items, &j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}

	return pool, nil
}
