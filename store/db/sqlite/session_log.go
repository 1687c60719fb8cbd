package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hrygo/rehearse/store"
)

func (d *DB) UpsertSessionLog(ctx context.Context, upsert *store.SessionLog) (*store.SessionLog, error) {
	now := time.Now().Unix()
	if upsert.CreatedTs == 0 {
		upsert.CreatedTs = now
	}
	upsert.UpdatedTs = now

	stmt := `INSERT INTO session_log (session_id, patient_id, payload, created_ts, updated_ts)
		VALUES (` + placeholders(5) + `)
		ON CONFLICT(session_id) DO UPDATE SET
			payload = excluded.payload,
			updated_ts = excluded.updated_ts`
	if _, err := d.db.ExecContext(ctx, stmt, upsert.SessionID, upsert.PatientID, upsert.Payload, upsert.CreatedTs, upsert.UpdatedTs); err != nil {
		return nil, fmt.Errorf("failed to upsert session_log: %w", err)
	}

	return upsert, nil
}

func (d *DB) ListSessionLogs(ctx context.Context, find *store.FindSessionLog) ([]*store.SessionLog, error) {
	if find == nil {
		return nil, fmt.Errorf("find parameter cannot be nil")
	}

	where, args := []string{"1 = 1"}, []any{}
	if v := find.SessionID; v != nil {
		where, args = append(where, "session_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.PatientID; v != nil {
		where, args = append(where, "patient_id = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `SELECT session_id, patient_id, payload, created_ts, updated_ts
		FROM session_log WHERE ` + strings.Join(where, " AND ") + ` ORDER BY created_ts DESC`
	if find.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list session_logs: %w", err)
	}
	defer rows.Close()

	list := make([]*store.SessionLog, 0)
	for rows.Next() {
		l := &store.SessionLog{}
		if err := rows.Scan(&l.SessionID, &l.PatientID, &l.Payload, &l.CreatedTs, &l.UpdatedTs); err != nil {
			return nil, fmt.Errorf("failed to scan session_log: %w", err)
		}
		list = append(list, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate session_logs: %w", err)
	}

	return list, nil
}

func (d *DB) DeleteSessionLogs(ctx context.Context, delete *store.DeleteSessionLog) (int64, error) {
	where, args := []string{}, []any{}
	if v := delete.SessionID; v != nil {
		where, args = append(where, "session_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := delete.CreatedBefore; v != nil {
		where, args = append(where, "created_ts < "+placeholder(len(args)+1)), append(args, *v)
	}
	if len(where) == 0 {
		return 0, fmt.Errorf("delete session_log requires a condition")
	}

	result, err := d.db.ExecContext(ctx, "DELETE FROM session_log WHERE "+strings.Join(where, " AND "), args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete session_logs: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected, nil
}
