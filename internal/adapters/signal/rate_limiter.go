package signal

import (
	"sync"
	"time"

	"github.com/La-Tva/test-visioconf-sub001/internal/core"
)

// CallTeamLimiter caps how often one endpoint may issue call-team, so a
// stuck client cannot flood a team owner with join requests.
type CallTeamLimiter struct {
	mu       sync.Mutex
	history  map[core.EndpointID][]time.Time
	limit    int
	interval time.Duration
}

func NewCallTeamLimiter(limit int, interval time.Duration) *CallTeamLimiter {
	return &CallTeamLimiter{
		history:  make(map[core.EndpointID][]time.Time),
		limit:    limit,
		interval: interval,
	}
}

func (rl *CallTeamLimiter) Allow(ep core.EndpointID) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	windowStart := now.Add(-rl.interval)

	attempts := rl.history[ep]
	fresh := make([]time.Time, 0, len(attempts))
	for _, t := range attempts {
		if t.After(windowStart) {
			fresh = append(fresh, t)
		}
	}

	if len(fresh) >= rl.limit {
		rl.history[ep] = fresh
		return false
	}

	fresh = append(fresh, now)
	rl.history[ep] = fresh
	return true
}

// Forget drops an endpoint's history once it disconnects.
func (rl *CallTeamLimiter) Forget(ep core.EndpointID) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.history, ep)
}
