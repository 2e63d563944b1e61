package logging

import (
	"database/sql"
	"fmt"
	"time"
)

// #region log-evaluation
// LogEvaluation writes one evaluation entry to the evaluation_log table.
func LogEvaluation(db *sql.DB, entry EvaluationEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := db.Exec(
		`INSERT INTO evaluation_log (turn_id, idea_id, pattern_id, match_conf, resonance, decision, reason, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.TurnID,
		nullIfEmpty(entry.IdeaID),
		nullIfEmpty(entry.PatternID),
		entry.MatchConfidence,
		entry.ResonanceScore,
		entry.Decision,
		nullIfEmpty(entry.Reason),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log evaluation: %w", err)
	}
	return nil
}

// #endregion log-evaluation

// #region recent
// RecentEvaluations returns the newest entries, most recent first.
func RecentEvaluations(db *sql.DB, limit int) ([]EvaluationEntry, error) {
	rows, err := db.Query(
		`SELECT turn_id, idea_id, pattern_id, match_conf, resonance, decision, reason, created_at
		 FROM evaluation_log ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent evaluations: %w", err)
	}
	defer rows.Close()

	var entries []EvaluationEntry
	for rows.Next() {
		var e EvaluationEntry
		var ideaID, patternID, reason sql.NullString
		var createdStr string
		if err := rows.Scan(&e.TurnID, &ideaID, &patternID, &e.MatchConfidence, &e.ResonanceScore, &e.Decision, &reason, &createdStr); err != nil {
			return nil, fmt.Errorf("scan evaluation: %w", err)
		}
		e.IdeaID = ideaID.String
		e.PatternID = patternID.String
		e.Reason = reason.String
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// #endregion recent

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
