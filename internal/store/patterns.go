package store

import (
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/vaporfield/crystalline/go-core/internal/registry"
)

// #region save-pattern
// SavePattern appends a minted pattern to the catalog. Existing rows are
// never updated; the catalog is append-only during a session.
func (s *Store) SavePattern(p registry.Pattern) error {
	_, err := s.db.Exec(
		`INSERT INTO patterns (pattern_id, title, pattern_text, confidence, validation_count, performance, retention, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.Text, p.Confidence, p.ValidationCount,
		nullIfEmpty(p.Performance), string(p.Retention),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save pattern %s: %w", p.ID, err)
	}
	return nil
}

// #endregion save-pattern

// #region list-patterns
// ListPatterns loads the full catalog in insertion order, for passing to the
// matcher as a snapshot.
func (s *Store) ListPatterns() ([]registry.Pattern, error) {
	rows, err := s.db.Query(
		`SELECT pattern_id, title, pattern_text, confidence, validation_count, performance, retention
		 FROM patterns ORDER BY created_at, pattern_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list patterns: %w", err)
	}
	defer rows.Close()

	var patterns []registry.Pattern
	for rows.Next() {
		var p registry.Pattern
		var performance sql.NullString
		var retention string
		if err := rows.Scan(&p.ID, &p.Title, &p.Text, &p.Confidence, &p.ValidationCount, &performance, &retention); err != nil {
			return nil, fmt.Errorf("scan pattern: %w", err)
		}
		if performance.Valid {
			p.Performance = performance.String
		}
		p.Retention = registry.Retention(retention)
		patterns = append(patterns, p)
	}
	return patterns, rows.Err()
}

// #endregion list-patterns

// #region record-outcome
// PatternOutcome is a single application record for a matched pattern.
type PatternOutcome struct {
	TurnID     string
	PatternID  string
	Confidence float64
	Applied    bool
	Resonance  float64
	CreatedAt  time.Time
}

// RecordPatternOutcome persists one outcome row.
func (s *Store) RecordPatternOutcome(rec PatternOutcome) error {
	applied := 0
	if rec.Applied {
		applied = 1
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(
		`INSERT INTO pattern_outcomes (turn_id, pattern_id, confidence, applied, resonance, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.TurnID, rec.PatternID, rec.Confidence, applied, rec.Resonance,
		rec.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("record outcome: %w", err)
	}
	return nil
}

// #endregion record-outcome

// #region best-pattern
// BestPattern returns the applied pattern with the highest decay-weighted
// resonance, for inspection. Returns ("", 0, nil) when fewer than 3 applied
// samples exist for every pattern.
func (s *Store) BestPattern() (string, float64, error) {
	rows, err := s.db.Query(
		`SELECT pattern_id, resonance, created_at FROM pattern_outcomes WHERE applied = 1`,
	)
	if err != nil {
		return "", 0, err
	}
	defer rows.Close()

	type accum struct {
		weightedSum float64
		totalWeight float64
		count       int
	}

	now := time.Now()
	halfLife := 7.0 * 24.0 // 7 days in hours
	byPattern := make(map[string]*accum)

	for rows.Next() {
		var id string
		var score float64
		var createdAtStr string
		if err := rows.Scan(&id, &score, &createdAtStr); err != nil {
			return "", 0, err
		}
		createdAt, err := time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			continue
		}
		weight := math.Exp(-now.Sub(createdAt).Hours() / halfLife)

		if _, ok := byPattern[id]; !ok {
			byPattern[id] = &accum{}
		}
		byPattern[id].weightedSum += score * weight
		byPattern[id].totalWeight += weight
		byPattern[id].count++
	}
	if err := rows.Err(); err != nil {
		return "", 0, err
	}

	var bestID string
	bestScore := -1.0
	for id, a := range byPattern {
		if a.count < 3 {
			continue
		}
		avg := a.weightedSum / a.totalWeight
		if avg > bestScore {
			bestScore = avg
			bestID = id
		}
	}
	if bestID == "" {
		return "", 0, nil
	}
	return bestID, bestScore, nil
}

// #endregion best-pattern

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
