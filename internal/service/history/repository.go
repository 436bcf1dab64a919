// Package history archives resolved acquisition attempts in PostgreSQL
// so failures can be diagnosed after the fact. Entirely optional: the
// pipeline runs the same with recording disabled.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/haneul/card-quest-go/internal/domain"
	"github.com/haneul/card-quest-go/internal/service/database"
	"github.com/haneul/card-quest-go/internal/service/quest"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

const createTableDDL = `
CREATE TABLE IF NOT EXISTS attempt_history (
	id          BIGSERIAL PRIMARY KEY,
	attempt_id  TEXT NOT NULL,
	identities  TEXT[] NOT NULL,
	status      TEXT NOT NULL,
	source      TEXT NOT NULL,
	card_count  INT NOT NULL,
	error       TEXT NOT NULL DEFAULT '',
	resolved_at TIMESTAMPTZ NOT NULL
)`

type Repository struct {
	pg     *database.PostgresService
	logger *zap.Logger
}

func NewRepository(ctx context.Context, pg *database.PostgresService, logger *zap.Logger) (*Repository, error) {
	if err := pg.EnsureSchema(ctx, createTableDDL); err != nil {
		return nil, fmt.Errorf("failed to create attempt_history table: %w", err)
	}

	return &Repository{
		pg:     pg,
		logger: logger,
	}, nil
}

// Record inserts one resolved attempt.
func (r *Repository) Record(ctx context.Context, rec quest.AttemptRecord) error {
	const query = `
		INSERT INTO attempt_history
			(attempt_id, identities, status, source, card_count, error, resolved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pg.GetDB().ExecContext(ctx, query,
		rec.AttemptID,
		pq.Array(rec.Identities),
		string(rec.Status),
		string(rec.Source),
		rec.CardCount,
		rec.Error,
		rec.ResolvedAt,
	)
	if err != nil {
		r.logger.Error("Failed to insert attempt record",
			zap.String("attempt_id", rec.AttemptID),
			zap.Error(err),
		)
		return fmt.Errorf("failed to insert attempt record: %w", err)
	}

	return nil
}

// Recent returns the latest resolved attempts, newest first.
func (r *Repository) Recent(ctx context.Context, limit int) ([]quest.AttemptRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	const query = `
		SELECT attempt_id, identities, status, source, card_count, error, resolved_at
		FROM attempt_history
		ORDER BY resolved_at DESC
		LIMIT $1`

	rows, err := r.pg.GetDB().QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query attempt history: %w", err)
	}
	defer rows.Close()

	records := make([]quest.AttemptRecord, 0, limit)
	for rows.Next() {
		var rec quest.AttemptRecord
		var status, source string
		var identities pq.StringArray
		var resolvedAt time.Time

		if err := rows.Scan(&rec.AttemptID, &identities, &status, &source,
			&rec.CardCount, &rec.Error, &resolvedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attempt record: %w", err)
		}

		rec.Identities = []string(identities)
		rec.Status = domainStatus(status)
		rec.Source = domainSource(source)
		rec.ResolvedAt = resolvedAt
		records = append(records, rec)
	}

	return records, rows.Err()
}

func domainStatus(s string) domain.AttemptStatus {
	switch domain.AttemptStatus(s) {
	case domain.StatusLoading, domain.StatusReady, domain.StatusError:
		return domain.AttemptStatus(s)
	}
	return domain.StatusError
}

func domainSource(s string) domain.ResultSource {
	switch domain.ResultSource(s) {
	case domain.SourceLive, domain.SourceCache, domain.SourceSynthetic, domain.SourceNone:
		return domain.ResultSource(s)
	}
	return domain.SourceNone
}
