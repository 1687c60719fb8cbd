package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/hrygo/rehearse/store"
)

func (d *DB) CreateTrainingSession(ctx context.Context, create *store.TrainingSession) (*store.TrainingSession, error) {
	fields := []string{"id", "patient_id", "started_ts", "ended_ts", "total", "correct", "hints_used", "score_percentage", "difficulty", "duration_seconds", "complete", "end_reason"}
	args := []any{
		create.ID,
		create.PatientID,
		create.StartedTs,
		create.EndedTs,
		create.Total,
		create.Correct,
		create.HintsUsed,
		create.ScorePercentage,
		create.Difficulty,
		create.DurationSeconds,
		create.Complete,
		create.EndReason,
	}

	stmt := "INSERT INTO training_session (" + strings.Join(fields, ", ") + ") VALUES (" + placeholders(len(args)) + ")"
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return nil, fmt.Errorf("failed to create training_session: %w", err)
	}

	return create, nil
}

func (d *DB) ListTrainingSessions(ctx context.Context, find *store.FindTrainingSession) ([]*store.TrainingSession, error) {
	if find == nil {
		return nil, fmt.Errorf("find parameter cannot be nil")
	}

	where, args := []string{"1 = 1"}, []any{}
	if v := find.ID; v != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.PatientID; v != nil {
		where, args = append(where, "patient_id = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `SELECT id, patient_id, started_ts, ended_ts, total, correct, hints_used, score_percentage, difficulty, duration_seconds, complete, end_reason
		FROM training_session WHERE ` + strings.Join(where, " AND ") + ` ORDER BY started_ts DESC, rowid DESC`
	if find.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list training_sessions: %w", err)
	}
	defer rows.Close()

	list := make([]*store.TrainingSession, 0)
	for rows.Next() {
		s := &store.TrainingSession{}
		if err := rows.Scan(
			&s.ID,
			&s.PatientID,
			&s.StartedTs,
			&s.EndedTs,
			&s.Total,
			&s.Correct,
			&s.HintsUsed,
			&s.ScorePercentage,
			&s.Difficulty,
			&s.DurationSeconds,
			&s.Complete,
			&s.EndReason,
		); err != nil {
			return nil, fmt.Errorf("failed to scan training_session: %w", err)
		}
		list = append(list, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate training_sessions: %w", err)
	}

	return list, nil
}
