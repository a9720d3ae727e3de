// Package ledger holds the in-memory score ledger for the current round.
//
// The ledger is not synchronized; the relay engine guards it together with
// the watched-match pointer under a single mutex so every operation stays
// linearizable.
package ledger

import (
	"github.com/BS-European-Championship/ta-relay/internal/domain/model"
)

// LevelScores is one level bucket: the level id plus every entry recorded
// for it since the last reset, in arrival order.
type LevelScores struct {
	LevelID string
	Entries []model.ScoreEntry
}

// Ledger maps level ids to recorded score entries. Buckets are append-only
// within a round and destroyed only by Reset. Levels and entries keep
// first-seen order so standings folds are deterministic.
type Ledger struct {
	buckets map[string][]model.ScoreEntry
	order   []string
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{buckets: make(map[string][]model.ScoreEntry)}
}

// Append records a score entry for a level, creating the bucket if absent.
// A second entry for the same (level, user) within a round is rejected so a
// duplicate finish event can neither double-count a player nor re-trigger
// completion signals. Returns true if the entry was recorded.
func (l *Ledger) Append(levelID string, entry model.ScoreEntry) bool {
	bucket, ok := l.buckets[levelID]
	if !ok {
		l.order = append(l.order, levelID)
	}
	for _, e := range bucket {
		if e.User.GUID == entry.User.GUID {
			return false
		}
	}
	l.buckets[levelID] = append(bucket, entry)
	return true
}

// FinishedCount returns the number of entries recorded for a level.
func (l *Ledger) FinishedCount(levelID string) int {
	return len(l.buckets[levelID])
}

// Snapshot returns a copy of every level bucket in first-seen order.
func (l *Ledger) Snapshot() []LevelScores {
	out := make([]LevelScores, 0, len(l.order))
	for _, id := range l.order {
		entries := make([]model.ScoreEntry, len(l.buckets[id]))
		copy(entries, l.buckets[id])
		out = append(out, LevelScores{LevelID: id, Entries: entries})
	}
	return out
}

// Empty reports whether no entries are recorded.
func (l *Ledger) Empty() bool {
	return len(l.buckets) == 0
}

// Reset clears every bucket. Idempotent.
func (l *Ledger) Reset() {
	l.buckets = make(map[string][]model.ScoreEntry)
	l.order = nil
}
