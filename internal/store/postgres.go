package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Schema is the SQL DDL for the evaluations table. Execute it via
// [PostgresStore.Migrate] or apply it manually during deployment. The full
// report and presentation payloads are stored as JSONB; the scalar columns
// exist for filtering and dashboards.
const Schema = `
CREATE TABLE IF NOT EXISTS evaluations (
    id            BIGSERIAL PRIMARY KEY,
    student_name  TEXT NOT NULL DEFAULT '',
    student_age   INT NOT NULL,
    age_group     TEXT NOT NULL,
    topic         TEXT NOT NULL DEFAULT '',
    overall_score DOUBLE PRECISION NOT NULL,
    report        JSONB NOT NULL,
    presentation  JSONB NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_evaluations_student ON evaluations(student_name);
CREATE INDEX IF NOT EXISTS idx_evaluations_created ON evaluations(created_at);
`

// DB is the database interface used by [PostgresStore]. Both *pgxpool.Pool
// and *pgx.Conn satisfy this interface.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresStore is a [Store] backed by a PostgreSQL database.
type PostgresStore struct {
	db DB
}

// Compile-time interface check.
var _ Store = (*PostgresStore)(nil)

// NewPostgresStore creates a new [PostgresStore] that uses the given database
// connection or pool. The caller is responsible for calling
// [PostgresStore.Migrate] to ensure the schema exists before issuing queries.
func NewPostgresStore(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate executes the [Schema] DDL against the database, creating the
// evaluations table and indexes if they do not already exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.db.Exec(ctx, Schema)
	if err != nil {
		return fmt.Errorf("store: migrate: %w", err)
	}
	return nil
}

// Save inserts the record and fills in its ID and CreatedAt from the
// database.
func (s *PostgresStore) Save(ctx context.Context, rec *Record) error {
	reportJSON, err := json.Marshal(rec.Report)
	if err != nil {
		return fmt.Errorf("store: marshal report: %w", err)
	}
	presentationJSON, err := json.Marshal(rec.Presentation)
	if err != nil {
		return fmt.Errorf("store: marshal presentation: %w", err)
	}

	const query = `
		INSERT INTO evaluations (
			student_name, student_age, age_group, topic, overall_score,
			report, presentation
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, created_at`

	meta := rec.Report.Metadata
	err = s.db.QueryRow(ctx, query,
		meta.StudentName, meta.StudentAge, string(meta.AgeGroup), meta.Topic,
		rec.Report.Scores.Overall, reportJSON, presentationJSON,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("store: save: %w", err)
	}
	return nil
}

// List returns the most recent records, newest first, optionally filtered by
// student name. An empty studentName returns records for all students. A
// non-positive limit defaults to 50.
func (s *PostgresStore) List(ctx context.Context, studentName string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}

	var (
		rows pgx.Rows
		err  error
	)
	if studentName == "" {
		const query = `
			SELECT id, report, presentation, created_at
			FROM evaluations
			ORDER BY created_at DESC
			LIMIT $1`
		rows, err = s.db.Query(ctx, query, limit)
	} else {
		const query = `
			SELECT id, report, presentation, created_at
			FROM evaluations
			WHERE student_name = $1
			ORDER BY created_at DESC
			LIMIT $2`
		rows, err = s.db.Query(ctx, query, studentName, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	defer rows.Close()

	var recs []Record
	for rows.Next() {
		var rec Record
		var reportJSON, presentationJSON []byte

		if err := rows.Scan(&rec.ID, &reportJSON, &presentationJSON, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("store: list scan: %w", err)
		}
		if err := json.Unmarshal(reportJSON, &rec.Report); err != nil {
			return nil, fmt.Errorf("store: unmarshal report: %w", err)
		}
		if err := json.Unmarshal(presentationJSON, &rec.Presentation); err != nil {
			return nil, fmt.Errorf("store: unmarshal presentation: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	return recs, nil
}

// Get retrieves one record by ID. It returns (nil, nil) if no record with
// the given ID exists.
func (s *PostgresStore) Get(ctx context.Context, id int64) (*Record, error) {
	const query = `
		SELECT id, report, presentation, created_at
		FROM evaluations
		WHERE id = $1`

	var rec Record
	var reportJSON, presentationJSON []byte

	err := s.db.QueryRow(ctx, query, id).Scan(&rec.ID, &reportJSON, &presentationJSON, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("store: get %d: %w", id, err)
	}
	if err := json.Unmarshal(reportJSON, &rec.Report); err != nil {
		return nil, fmt.Errorf("store: unmarshal report: %w", err)
	}
	if err := json.Unmarshal(presentationJSON, &rec.Presentation); err != nil {
		return nil, fmt.Errorf("store: unmarshal presentation: %w", err)
	}
	return &rec, nil
}
