package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

func (r *eventRepo) AppendAnalysis(ctx context.Context, data AnalysisEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO analysis_events (sequence, timestamp, attempt_id, language, level, character,
			stroke_count, stroke_score, formation_score, overall_score, parser, recognized,
			latency_ms, error_message)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum,
		formatTime(time.Now()),
		data.AttemptID,
		data.Language,
		data.Level,
		data.Character,
		data.StrokeCount,
		nullInt(data.StrokeScore),
		nullInt(data.FormationScore),
		nullInt(data.OverallScore),
		data.Parser,
		data.Recognized,
		data.LatencyMs,
		data.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("save analysis event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryAnalyses(ctx context.Context, opts QueryOpts) ([]AnalysisEvent, error) {
	where, args := opts.clauses()
	q := `SELECT id, sequence, timestamp, attempt_id, language, level, character, stroke_count,
			stroke_score, formation_score, overall_score, parser, recognized, latency_ms, error_message
		FROM analysis_events` + where + ` ORDER BY sequence DESC`
	if opts.Limit > 0 {
		q += fmt.Sprintf(" LIMIT %d", opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query analysis events: %w", err)
	}
	defer rows.Close()

	var out []AnalysisEvent
	for rows.Next() {
		var e AnalysisEvent
		var ts string
		var stroke, formation, overall sql.NullInt64
		if err := rows.Scan(&e.ID, &e.Sequence, &ts, &e.AttemptID, &e.Language, &e.Level,
			&e.Character, &e.StrokeCount, &stroke, &formation, &overall, &e.Parser,
			&e.Recognized, &e.LatencyMs, &e.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scan analysis event: %w", err)
		}
		e.Timestamp = parseTime(ts)
		e.StrokeScore = intPtr(stroke)
		e.FormationScore = intPtr(formation)
		e.OverallScore = intPtr(overall)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *eventRepo) PracticeStats(ctx context.Context) ([]PracticeStat, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT language, level, COUNT(*),
			SUM(CASE WHEN error_message != '' THEN 1 ELSE 0 END),
			COALESCE(AVG(stroke_score), 0), COALESCE(AVG(formation_score), 0)
		FROM analysis_events GROUP BY language, level ORDER BY language, level`)
	if err != nil {
		return nil, fmt.Errorf("query practice stats: %w", err)
	}
	defer rows.Close()

	var out []PracticeStat
	for rows.Next() {
		var st PracticeStat
		if err := rows.Scan(&st.Language, &st.Level, &st.Attempts, &st.Failures,
			&st.AvgStrokeScore, &st.AvgFormationScore); err != nil {
			return nil, fmt.Errorf("scan practice stats: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
