// Package standings implements the round-based team ranking rule.
package standings

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BS-European-Championship/ta-relay/internal/domain/ledger"
	"github.com/BS-European-Championship/ta-relay/internal/domain/model"
)

// Compute folds the ledger snapshot into accumulated team points.
//
// For each level, every team seen so far gets a cumulative score for that
// level (the sum of raw scores of its users with an entry there; absent
// teams score zero). Teams are ranked ascending by cumulative score and the
// team at rank i earns i+1 points; the top-scoring team earns one bonus
// point. Awards accumulate additively across every level in the snapshot.
//
// The result is sorted descending by points. Both sorts are stable, so ties
// keep first-seen order; that is the documented tie-break.
func Compute(levels []ledger.LevelScores) []model.TeamPoints {
	points := make(map[string]int)
	teams := make(map[string]model.Team)
	var order []string

	for _, level := range levels {
		cumulative := make(map[string]int)
		for _, entry := range level.Entries {
			team := entry.User.Team
			if _, known := teams[team.ID]; !known {
				teams[team.ID] = team
				order = append(order, team.ID)
			}
			cumulative[team.ID] += entry.Score
		}

		ranked := make([]string, len(order))
		copy(ranked, order)
		sort.SliceStable(ranked, func(i, j int) bool {
			return cumulative[ranked[i]] < cumulative[ranked[j]]
		})

		for i, id := range ranked {
			points[id] += i + 1
		}
		if len(ranked) > 0 {
			points[ranked[len(ranked)-1]]++
		}
	}

	rows := make([]model.TeamPoints, 0, len(order))
	for _, id := range order {
		rows = append(rows, model.TeamPoints{Team: teams[id], Points: points[id]})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Points > rows[j].Points
	})
	return rows
}

// Format renders standings as "rank: name (points)" lines for textual
// side channels. Returns an empty string for empty standings.
func Format(rows []model.TeamPoints) string {
	var b strings.Builder
	for i, row := range rows {
		fmt.Fprintf(&b, "%d: %s (%d)\n", i+1, row.Team.Name, row.Points)
	}
	return b.String()
}
