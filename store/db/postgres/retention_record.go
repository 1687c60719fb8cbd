package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/hrygo/rehearse/store"
)

func (d *DB) UpsertRetentionRecord(ctx context.Context, upsert *store.RetentionRecord) (*store.RetentionRecord, error) {
	fields := []string{"patient_id", "topic_key", "fact_id", "times_asked", "times_correct", "first_asked_ts", "last_asked_ts"}
	args := []any{
		upsert.PatientID,
		upsert.TopicKey,
		upsert.FactID,
		upsert.TimesAsked,
		upsert.TimesCorrect,
		upsert.FirstAskedTs,
		upsert.LastAskedTs,
	}

	stmt := `INSERT INTO retention_record (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		ON CONFLICT(patient_id, topic_key) DO UPDATE SET
			fact_id = excluded.fact_id,
			times_asked = excluded.times_asked,
			times_correct = excluded.times_correct,
			last_asked_ts = excluded.last_asked_ts`
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return nil, fmt.Errorf("failed to upsert retention_record: %w", err)
	}

	return upsert, nil
}

func (d *DB) ListRetentionRecords(ctx context.Context, find *store.FindRetentionRecord) ([]*store.RetentionRecord, error) {
	if find == nil {
		return nil, fmt.Errorf("find parameter cannot be nil")
	}

	where, args := []string{"1 = 1"}, []any{}
	if v := find.PatientID; v != nil {
		where, args = append(where, "patient_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.TopicKey; v != nil {
		where, args = append(where, "topic_key = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `SELECT patient_id, topic_key, fact_id, times_asked, times_correct, first_asked_ts, last_asked_ts
		FROM retention_record WHERE ` + strings.Join(where, " AND ") + ` ORDER BY topic_key ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list retention_records: %w", err)
	}
	defer rows.Close()

	list := make([]*store.RetentionRecord, 0)
	for rows.Next() {
		r := &store.RetentionRecord{}
		if err := rows.Scan(
			&r.PatientID,
			&r.TopicKey,
			&r.FactID,
			&r.TimesAsked,
			&r.TimesCorrect,
			&r.FirstAskedTs,
			&r.LastAskedTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan retention_record: %w", err)
		}
		list = append(list, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate retention_records: %w", err)
	}

	return list, nil
}
