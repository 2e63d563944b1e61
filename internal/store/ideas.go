package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vaporfield/crystalline/go-core/internal/lifecycle"
)

// #region save-idea
// SaveIdea inserts a freshly created idea.
func (s *Store) SaveIdea(idea lifecycle.Idea) error {
	historyJSON, metadataJSON, err := encodeIdea(idea)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT INTO ideas (idea_id, content, state, history_json, metadata_json, created_at, last_state_change)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		idea.ID, idea.Content, string(idea.State), historyJSON, metadataJSON,
		idea.CreatedAt.Format(time.RFC3339Nano),
		idea.LastStateChange.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save idea %s: %w", idea.ID, err)
	}
	return nil
}

// #endregion save-idea

// #region update-idea
// UpdateIdea overwrites an idea's state, history, and state-change stamp
// after a crystallization check. Last writer wins; reconciling concurrent
// histories is the caller's job.
func (s *Store) UpdateIdea(idea lifecycle.Idea) error {
	historyJSON, metadataJSON, err := encodeIdea(idea)
	if err != nil {
		return err
	}
	res, err := s.db.Exec(
		`UPDATE ideas SET state = ?, history_json = ?, metadata_json = ?, last_state_change = ?
		 WHERE idea_id = ?`,
		string(idea.State), historyJSON, metadataJSON,
		idea.LastStateChange.Format(time.RFC3339Nano), idea.ID,
	)
	if err != nil {
		return fmt.Errorf("update idea %s: %w", idea.ID, err)
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return fmt.Errorf("update idea %s: not found", idea.ID)
	}
	return nil
}

// #endregion update-idea

// #region get-idea
// GetIdea retrieves a single idea by ID.
func (s *Store) GetIdea(id string) (lifecycle.Idea, error) {
	row := s.db.QueryRow(
		`SELECT idea_id, content, state, history_json, metadata_json, created_at, last_state_change
		 FROM ideas WHERE idea_id = ?`, id,
	)
	idea, err := scanIdea(row.Scan)
	if err != nil {
		return lifecycle.Idea{}, fmt.Errorf("get idea %s: %w", id, err)
	}
	return idea, nil
}

// #endregion get-idea

// #region list-ideas
// ListIdeas returns all ideas, oldest first. Filter by state with
// lifecycle.FilterByState on the returned slice.
func (s *Store) ListIdeas() ([]lifecycle.Idea, error) {
	rows, err := s.db.Query(
		`SELECT idea_id, content, state, history_json, metadata_json, created_at, last_state_change
		 FROM ideas ORDER BY created_at, idea_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list ideas: %w", err)
	}
	defer rows.Close()

	var ideas []lifecycle.Idea
	for rows.Next() {
		idea, err := scanIdea(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan idea: %w", err)
		}
		ideas = append(ideas, idea)
	}
	return ideas, rows.Err()
}

// #endregion list-ideas

// #region codec
func encodeIdea(idea lifecycle.Idea) (historyJSON string, metadataJSON interface{}, err error) {
	history := idea.History
	if history == nil {
		history = []float64{}
	}
	hb, err := json.Marshal(history)
	if err != nil {
		return "", nil, fmt.Errorf("marshal history: %w", err)
	}
	if idea.Metadata == nil {
		return string(hb), nil, nil
	}
	mb, err := json.Marshal(idea.Metadata)
	if err != nil {
		return "", nil, fmt.Errorf("marshal metadata: %w", err)
	}
	return string(hb), string(mb), nil
}

func scanIdea(scan func(dest ...any) error) (lifecycle.Idea, error) {
	var idea lifecycle.Idea
	var state, historyJSON, createdStr, changedStr string
	var metadataJSON sql.NullString

	if err := scan(&idea.ID, &idea.Content, &state, &historyJSON, &metadataJSON, &createdStr, &changedStr); err != nil {
		return lifecycle.Idea{}, err
	}
	idea.State = lifecycle.State(state)
	if err := json.Unmarshal([]byte(historyJSON), &idea.History); err != nil {
		return lifecycle.Idea{}, fmt.Errorf("unmarshal history: %w", err)
	}
	if metadataJSON.Valid {
		if err := json.Unmarshal([]byte(metadataJSON.String), &idea.Metadata); err != nil {
			return lifecycle.Idea{}, fmt.Errorf("unmarshal metadata: %w", err)
		}
	}
	idea.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
	idea.LastStateChange, _ = time.Parse(time.RFC3339Nano, changedStr)
	return idea, nil
}

// #endregion codec
