package relay

import "context"

// Stats returns engine counters for the control-plane stats endpoint.
func (e *Engine) Stats(_ context.Context) map[string]any {
	e.mu.Lock()
	defer e.mu.Unlock()

	snapshot := e.ledger.Snapshot()
	entries := 0
	for _, level := range snapshot {
		entries += len(level.Entries)
	}

	stats := map[string]any{
		"levels":   len(snapshot),
		"entries":  entries,
		"watching": e.watched != nil,
	}
	if e.watched != nil {
		stats["match"] = e.watched.ID
	}
	return stats
}
