package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hrygo/rehearse/store"
)

func (d *DB) CreateFact(ctx context.Context, create *store.Fact) (*store.Fact, error) {
	keywords, err := marshalStrings(create.Keywords)
	if err != nil {
		return nil, err
	}
	hints, err := marshalStrings(create.Hints)
	if err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	if create.CreatedTs == 0 {
		create.CreatedTs = now
	}
	create.UpdatedTs = create.CreatedTs

	fields := []string{"id", "patient_id", "prompt", "answer", "topic", "keywords", "hints", "practice_count", "success_rate", "last_practiced_ts", "created_ts", "updated_ts"}
	args := []any{
		create.ID,
		create.PatientID,
		create.Prompt,
		create.Answer,
		create.Topic,
		keywords,
		hints,
		create.PracticeCount,
		create.SuccessRate,
		create.LastPracticedTs,
		create.CreatedTs,
		create.UpdatedTs,
	}

	stmt := "INSERT INTO fact (" + strings.Join(fields, ", ") + ") VALUES (" + placeholders(len(args)) + ") RETURNING seq"
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(&create.Seq); err != nil {
		return nil, fmt.Errorf("failed to create fact: %w", err)
	}

	return create, nil
}

func (d *DB) ListFacts(ctx context.Context, find *store.FindFact) ([]*store.Fact, error) {
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
	if v := find.Topic; v != nil {
		where, args = append(where, "topic = "+placeholder(len(args)+1)), append(args, *v)
	}

	orderBy := "seq ASC"
	if find.LeastRecentFirst {
		orderBy = "last_practiced_ts ASC, seq ASC"
	}

	query := `SELECT seq, id, patient_id, prompt, answer, topic, keywords, hints, practice_count, success_rate, last_practiced_ts, created_ts, updated_ts
		FROM fact WHERE ` + strings.Join(where, " AND ") + ` ORDER BY ` + orderBy
	if find.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list facts: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Fact, 0)
	for rows.Next() {
		fact := &store.Fact{}
		var keywords, hints string
		if err := rows.Scan(
			&fact.Seq,
			&fact.ID,
			&fact.PatientID,
			&fact.Prompt,
			&fact.Answer,
			&fact.Topic,
			&keywords,
			&hints,
			&fact.PracticeCount,
			&fact.SuccessRate,
			&fact.LastPracticedTs,
			&fact.CreatedTs,
			&fact.UpdatedTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan fact: %w", err)
		}
		if fact.Keywords, err = unmarshalStrings(keywords); err != nil {
			return nil, err
		}
		if fact.Hints, err = unmarshalStrings(hints); err != nil {
			return nil, err
		}
		list = append(list, fact)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate facts: %w", err)
	}

	return list, nil
}

func (d *DB) UpdateFact(ctx context.Context, update *store.UpdateFact) (*store.Fact, error) {
	set, args := []string{}, []any{}
	if v := update.Prompt; v != nil {
		set, args = append(set, "prompt = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Answer; v != nil {
		set, args = append(set, "answer = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Topic; v != nil {
		set, args = append(set, "topic = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Keywords; v != nil {
		raw, err := marshalStrings(*v)
		if err != nil {
			return nil, err
		}
		set, args = append(set, "keywords = "+placeholder(len(args)+1)), append(args, raw)
	}
	if v := update.Hints; v != nil {
		raw, err := marshalStrings(*v)
		if err != nil {
			return nil, err
		}
		set, args = append(set, "hints = "+placeholder(len(args)+1)), append(args, raw)
	}
	if v := update.PracticeCount; v != nil {
		set, args = append(set, "practice_count = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.SuccessRate; v != nil {
		set, args = append(set, "success_rate = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.LastPracticedTs; v != nil {
		set, args = append(set, "last_practiced_ts = "+placeholder(len(args)+1)), append(args, *v)
	}
	if len(set) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}
	set, args = append(set, "updated_ts = "+placeholder(len(args)+1)), append(args, time.Now().Unix())
	args = append(args, update.ID)

	stmt := "UPDATE fact SET " + strings.Join(set, ", ") + " WHERE id = " + placeholder(len(args))
	result, err := d.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update fact: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return nil, nil
	}

	list, err := d.ListFacts(ctx, &store.FindFact{ID: &update.ID, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}
