package graph

import (
	"database/sql"
	"fmt"
	"math"
	"time"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS resonance_links (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    source_id   TEXT NOT NULL,
    target_id   TEXT NOT NULL,
    link_type   TEXT NOT NULL,
    weight      REAL NOT NULL DEFAULT 0.1,
    created_at  TEXT NOT NULL,
    updated_at  TEXT NOT NULL,
    UNIQUE(source_id, target_id, link_type)
);
CREATE INDEX IF NOT EXISTS idx_links_source ON resonance_links(source_id);
CREATE INDEX IF NOT EXISTS idx_links_target ON resonance_links(target_id);
`

// #endregion schema

// #region types
// Link is a weighted association between an idea and a pattern (or between
// two ideas that crystallized from related pulses).
type Link struct {
	ID        int64
	SourceID  string
	TargetID  string
	LinkType  string // "applied_pattern" | "related_idea"
	Weight    float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// WalkResult holds an ordered path from a graph walk.
type WalkResult struct {
	IDs    []string  // node IDs in visit order
	Scores []float64 // cumulative scores at each node
}

// LinkGraph manages the resonance_links table.
type LinkGraph struct {
	db *sql.DB
}

// #endregion types

// #region constructor
// NewLinkGraph creates tables and returns a LinkGraph.
func NewLinkGraph(db *sql.DB) (*LinkGraph, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("graph schema: %w", err)
	}
	return &LinkGraph{db: db}, nil
}

// #endregion constructor

// #region reinforce
// Reinforce increases the weight of a link by delta, capped at 1.0, creating
// it at weight=delta when absent. Called each time a pattern is applied to
// an idea's pulse.
func (g *LinkGraph) Reinforce(sourceID, targetID, linkType string, delta float64) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := g.db.Exec(
		`INSERT INTO resonance_links (source_id, target_id, link_type, weight, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(source_id, target_id, link_type) DO UPDATE SET
		   weight = MIN(1.0, resonance_links.weight + ?),
		   updated_at = ?`,
		sourceID, targetID, linkType, delta, now, now,
		delta, now,
	)
	return err
}

// #endregion reinforce

// #region neighbors
// Neighbors returns all links from sourceID with weight >= minWeight, ordered
// by weight descending.
func (g *LinkGraph) Neighbors(nodeID string, minWeight float64) ([]Link, error) {
	rows, err := g.db.Query(
		`SELECT id, source_id, target_id, link_type, weight, created_at, updated_at
		 FROM resonance_links
		 WHERE source_id = ? AND weight >= ?
		 ORDER BY weight DESC`,
		nodeID, minWeight,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []Link
	for rows.Next() {
		var l Link
		var createdAt, updatedAt string
		if err := rows.Scan(&l.ID, &l.SourceID, &l.TargetID, &l.LinkType, &l.Weight, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		l.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		l.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		links = append(links, l)
	}
	return links, rows.Err()
}

// #endregion neighbors

// #region walk
// Walk performs a BFS from entryID, following links with weight >= minWeight,
// up to maxDepth hops and maxNodes total. Scores multiply along the path, so
// distant nodes rank below direct associations.
func (g *LinkGraph) Walk(entryID string, maxDepth int, minWeight float64, maxNodes int) (WalkResult, error) {
	if maxDepth <= 0 {
		maxDepth = 3
	}
	if maxNodes <= 0 {
		maxNodes = 10
	}

	result := WalkResult{
		IDs:    []string{entryID},
		Scores: []float64{1.0},
	}
	visited := map[string]bool{entryID: true}

	type queueItem struct {
		id    string
		depth int
		score float64
	}
	queue := []queueItem{{entryID, 0, 1.0}}

	for len(queue) > 0 {
		if len(result.IDs) >= maxNodes {
			break
		}

		current := queue[0]
		queue = queue[1:]

		if current.depth >= maxDepth {
			continue
		}

		neighbors, err := g.Neighbors(current.id, minWeight)
		if err != nil {
			return result, fmt.Errorf("walk neighbors: %w", err)
		}

		for _, link := range neighbors {
			if len(result.IDs) >= maxNodes {
				break
			}
			if visited[link.TargetID] {
				continue
			}
			visited[link.TargetID] = true
			cumScore := current.score * link.Weight
			result.IDs = append(result.IDs, link.TargetID)
			result.Scores = append(result.Scores, cumScore)
			queue = append(queue, queueItem{link.TargetID, current.depth + 1, cumScore})
		}
	}

	return result, nil
}

// #endregion walk

// #region decay
// DecayAll applies exponential decay to all link weights based on time since
// last reinforcement. Links that fall below 0.01 are deleted; the count of
// deleted links is returned.
func (g *LinkGraph) DecayAll(halfLifeHours float64) (int64, error) {
	now := time.Now().UTC()
	halfLifeSec := halfLifeHours * 3600.0

	rows, err := g.db.Query(`SELECT id, weight, updated_at FROM resonance_links`)
	if err != nil {
		return 0, err
	}

	type decayItem struct {
		id        int64
		newWeight float64
	}
	var updates []decayItem
	var deletes []int64

	for rows.Next() {
		var id int64
		var weight float64
		var updatedAt string
		if err := rows.Scan(&id, &weight, &updatedAt); err != nil {
			rows.Close()
			return 0, err
		}
		t, _ := time.Parse(time.RFC3339, updatedAt)
		ageSec := now.Sub(t).Seconds()
		if ageSec <= 0 {
			continue
		}
		decayed := weight * math.Exp(-ageSec*math.Ln2/halfLifeSec)
		if decayed < 0.01 {
			deletes = append(deletes, id)
		} else {
			updates = append(updates, decayItem{id, decayed})
		}
	}
	rows.Close()

	nowStr := now.Format(time.RFC3339)
	for _, u := range updates {
		if _, err := g.db.Exec(`UPDATE resonance_links SET weight = ?, updated_at = ? WHERE id = ?`, u.newWeight, nowStr, u.id); err != nil {
			return 0, err
		}
	}
	for _, id := range deletes {
		if _, err := g.db.Exec(`DELETE FROM resonance_links WHERE id = ?`, id); err != nil {
			return 0, err
		}
	}

	return int64(len(deletes)), nil
}

// #endregion decay
