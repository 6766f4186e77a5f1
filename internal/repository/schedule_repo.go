package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// ScheduleRepository stores each user's schedule as a set of section
// references ordered by insertion. Add and Remove are single statements,
// so concurrent callers never duplicate or lose an entry.
type ScheduleRepository interface {
	Add(ctx context.Context, userID uuid.UUID, sectionRef string) (bool, error)
	Remove(ctx context.Context, userID uuid.UUID, sectionRef string) (bool, error)
	List(ctx context.Context, userID uuid.UUID) ([]string, error)
}

type scheduleRepository struct {
	db DBTX
}

// NewScheduleRepository creates a new ScheduleRepository
func NewScheduleRepository(db DBTX) ScheduleRepository {
	return &scheduleRepository{db: db}
}

// Add inserts the reference unless already present; reports whether a row was added
func (r *scheduleRepository) Add(ctx context.Context, userID uuid.UUID, sectionRef string) (bool, error) {
	sql := `INSERT INTO user_schedule (user_id, section_ref)
            VALUES ($1, $2)
            ON CONFLICT (user_id, section_ref) DO NOTHING`
	cmdTag, err := r.db.Exec(ctx, sql, userID, sectionRef)
	if err != nil {
		return false, fmt.Errorf("failed to add section to schedule: %w", err)
	}
	return cmdTag.RowsAffected() > 0, nil
}

// Remove deletes the reference; reports whether anything was removed
func (r *scheduleRepository) Remove(ctx context.Context, userID uuid.UUID, sectionRef string) (bool, error) {
	sql := `DELETE FROM user_schedule WHERE user_id = $1 AND section_ref = $2`
	cmdTag, err := r.db.Exec(ctx, sql, userID, sectionRef)
	if err != nil {
		return false, fmt.Errorf("failed to remove section from schedule: %w", err)
	}
	return cmdTag.RowsAffected() > 0, nil
}

// List returns the user's section references in insertion order
func (r *scheduleRepository) List(ctx context.Context, userID uuid.UUID) ([]string, error) {
	sql := `SELECT section_ref FROM user_schedule WHERE user_id = $1 ORDER BY position`
	rows, err := r.db.Query(ctx, sql, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule: %w", err)
	}
	defer rows.Close()

	refs := []string{}
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			return nil, fmt.Errorf("failed to scan schedule row: %w", err)
		}
		refs = append(refs, ref)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating schedule rows: %w", err)
	}
	return refs, nil
}
