package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Outcome is the terminal state of one ingestion attempt.
type Outcome string

const (
	OutcomeAdvanced Outcome = "advanced"
	OutcomeSkipped  Outcome = "skipped"
	OutcomeErrored  Outcome = "errored"
)

// Attempt is one journaled ingestion attempt.
type Attempt struct {
	ID       int64
	BatchID  string
	FileName string
	Outcome  Outcome
	Reason   string
	// Index is the catalog index touched by the attempt; nil when no row was written.
	Index     *int
	Title     string
	SourceID  string
	Language  string
	Detail    string
	CreatedAt time.Time
}

const attemptColumns = "id, batch_id, file_name, outcome, reason, catalog_index, title, source_id, language, detail, created_at"

// Record stores an attempt. A zero CreatedAt is stamped with the current time.
func (s *Store) Record(ctx context.Context, a Attempt) error {
	ctx = ensureContext(ctx)
	switch a.Outcome {
	case OutcomeAdvanced, OutcomeSkipped, OutcomeErrored:
	default:
		return fmt.Errorf("record attempt: unknown outcome %q", a.Outcome)
	}
	created := a.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	var index any
	if a.Index != nil {
		index = *a.Index
	}

	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO attempts (
                batch_id, file_name, outcome, reason, catalog_index,
                title, source_id, language, detail, created_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			a.BatchID,
			a.FileName,
			string(a.Outcome),
			nullableString(a.Reason),
			index,
			nullableString(a.Title),
			nullableString(a.SourceID),
			nullableString(a.Language),
			nullableString(a.Detail),
			created.UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("insert attempt: %w", err)
		}
		return nil
	})
}

// List returns up to limit attempts, newest first. A non-positive limit returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Attempt, error) {
	ctx = ensureContext(ctx)
	query := "SELECT " + attemptColumns + " FROM attempts ORDER BY id DESC"
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var attempts []Attempt
	err := retryOnBusy(ctx, func() error {
		rows, err := s.db.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("query attempts: %w", err)
		}
		defer rows.Close()

		attempts = attempts[:0]
		for rows.Next() {
			a, err := scanAttempt(rows)
			if err != nil {
				return err
			}
			attempts = append(attempts, a)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return attempts, nil
}

// CountByOutcome tallies attempts for a batch keyed by outcome.
func (s *Store) CountByOutcome(ctx context.Context, batchID string) (map[Outcome]int, error) {
	ctx = ensureContext(ctx)
	counts := make(map[Outcome]int)
	err := retryOnBusy(ctx, func() error {
		rows, err := s.db.QueryContext(ctx,
			"SELECT outcome, COUNT(1) FROM attempts WHERE batch_id = ? GROUP BY outcome",
			batchID,
		)
		if err != nil {
			return fmt.Errorf("count attempts: %w", err)
		}
		defer rows.Close()

		clear(counts)
		for rows.Next() {
			var (
				outcome string
				count   int
			)
			if err := rows.Scan(&outcome, &count); err != nil {
				return fmt.Errorf("scan outcome count: %w", err)
			}
			counts[Outcome(outcome)] = count
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func scanAttempt(scanner interface{ Scan(dest ...any) error }) (Attempt, error) {
	var (
		a          Attempt
		outcome    string
		reason     sql.NullString
		index      sql.NullInt64
		title      sql.NullString
		sourceID   sql.NullString
		language   sql.NullString
		detail     sql.NullString
		createdRaw string
	)
	if err := scanner.Scan(
		&a.ID,
		&a.BatchID,
		&a.FileName,
		&outcome,
		&reason,
		&index,
		&title,
		&sourceID,
		&language,
		&detail,
		&createdRaw,
	); err != nil {
		return Attempt{}, fmt.Errorf("scan attempt: %w", err)
	}

	a.Outcome = Outcome(outcome)
	a.Reason = reason.String
	if index.Valid {
		v := int(index.Int64)
		a.Index = &v
	}
	a.Title = title.String
	a.SourceID = sourceID.String
	a.Language = language.String
	a.Detail = detail.String
	if ts, err := time.Parse(time.RFC3339Nano, createdRaw); err == nil {
		a.CreatedAt = ts
	}
	return a, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
