package coordinator

import (
	"context"
	"time"

	"reorder-system/internal/domain"
)

// Sweep expires overdue PENDING intents and evicts terminal intents, orders,
// dedup entries and dismissal markers past the retention window. Returns the
// number of evicted records. Expiry is also discovered lazily on access; the
// sweep exists so abandoned prompts free their keys without traffic.
func (c *Coordinator) Sweep() (expired, evicted int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	nowMs := c.nowMs()
	cutoff := nowMs - c.cfg.Retention.Milliseconds()

	for _, entry := range c.byID {
		if entry.state.Status == domain.IntentPending && nowMs > entry.state.ExpiresAtMs {
			c.expireEntryLocked(entry, nowMs)
			expired++
		}
	}
	for id, entry := range c.byID {
		if entry.terminalAtMs != 0 && entry.terminalAtMs < cutoff {
			delete(c.byID, id)
			evicted++
		}
	}
	for id, oe := range c.orders {
		if oe.terminalAtMs != 0 && oe.terminalAtMs < cutoff {
			delete(c.orders, id)
			evicted++
		}
	}
	for k, cached := range c.seen {
		if cached.atMs < cutoff {
			delete(c.seen, k)
			evicted++
		}
	}
	for k, marker := range c.dismissed {
		if nowMs >= marker.untilMs {
			delete(c.dismissed, k)
		}
	}
	return expired, evicted
}

// RunSweeper runs Sweep on the given interval until ctx is canceled.
func (c *Coordinator) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			expired, evicted := c.Sweep()
			if (expired > 0 || evicted > 0) && c.lg != nil {
				c.lg.Debug("sweep_completed", map[string]any{
					"expired": expired, "evicted": evicted,
				})
			}
		}
	}
}
