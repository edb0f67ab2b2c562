package sqlrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gdugdh24/yuelao-backend/internal/domain"
	"github.com/gdugdh24/yuelao-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS submissions (
		seq               BIGSERIAL PRIMARY KEY,
		id                UUID NOT NULL UNIQUE,
		submission_id     UUID NOT NULL,
		created_at        TIMESTAMPTZ NOT NULL,
		relationship_goal TEXT NOT NULL,
		profile           JSONB NOT NULL,
		analysis_result   JSONB
	)
`

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS submissions (
		seq               INTEGER PRIMARY KEY AUTOINCREMENT,
		id                TEXT NOT NULL UNIQUE,
		submission_id     TEXT NOT NULL,
		created_at        TIMESTAMP NOT NULL,
		relationship_goal TEXT NOT NULL,
		profile           TEXT NOT NULL,
		analysis_result   TEXT
	)
`

type submissionRow struct {
	ID               uuid.UUID      `db:"id"`
	SubmissionID     uuid.UUID      `db:"submission_id"`
	CreatedAt        time.Time      `db:"created_at"`
	RelationshipGoal string         `db:"relationship_goal"`
	Profile          string         `db:"profile"`
	AnalysisResult   sql.NullString `db:"analysis_result"`
}

type submissionRepository struct {
	db *sqlx.DB
}

// NewSubmissionRepository works with both the postgres and the sqlite driver;
// placeholders are rebound for the connection's driver.
func NewSubmissionRepository(db *sqlx.DB) repository.SubmissionRepository {
	return &submissionRepository{db: db}
}

// Migrate creates the submissions table for the connection's dialect.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	schema := sqliteSchema
	if db.DriverName() == "postgres" {
		schema = postgresSchema
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create submissions table: %w", err)
	}
	return nil
}

func (r *submissionRepository) Append(ctx context.Context, record *domain.SubmissionRecord) error {
	profile, err := json.Marshal(record.Profile)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}

	var analysis sql.NullString
	if record.AnalysisResult != nil {
		b, err := json.Marshal(record.AnalysisResult)
		if err != nil {
			return fmt.Errorf("failed to encode analysis result: %w", err)
		}
		analysis = sql.NullString{String: string(b), Valid: true}
	}

	query := r.db.Rebind(`
		INSERT INTO submissions (id, submission_id, created_at, relationship_goal, profile, analysis_result)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	_, err = r.db.ExecContext(
		ctx, query,
		record.ID, record.SubmissionID, record.CreatedAt.UTC(),
		string(record.RelationshipGoal), string(profile), analysis,
	)
	return err
}

func (r *submissionRepository) List(ctx context.Context) ([]*domain.SubmissionRecord, error) {
	var rows []submissionRow
	query := `
		SELECT id, submission_id, created_at, relationship_goal, profile, analysis_result
		FROM submissions
		ORDER BY seq
	`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}

	records := make([]*domain.SubmissionRecord, 0, len(rows))
	for _, row := range rows {
		record, err := row.toRecord()
		if err != nil {
			return nil, fmt.Errorf("failed to decode submission %s: %w", row.ID, err)
		}
		records = append(records, record)
	}
	return records, nil
}

func (r *submissionRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM submissions`)
	return err
}

func (row *submissionRow) toRecord() (*domain.SubmissionRecord, error) {
	record := &domain.SubmissionRecord{
		ID:               row.ID,
		SubmissionID:     row.SubmissionID,
		CreatedAt:        row.CreatedAt.UTC(),
		RelationshipGoal: domain.RelationshipGoal(row.RelationshipGoal),
	}
	if err := json.Unmarshal([]byte(row.Profile), &record.Profile); err != nil {
		return nil, err
	}
	if row.AnalysisResult.Valid {
		record.AnalysisResult = &domain.AnalysisResult{}
		if err := json.Unmarshal([]byte(row.AnalysisResult.String), record.AnalysisResult); err != nil {
			return nil, err
		}
	}
	return record, nil
}
