package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/La-Tva/test-visioconf-sub001/internal/core"
)

// OnDisconnect retires everything an endpoint held: group-call membership
// first, then pairwise call edges. Both phases complete before this
// returns, so a later event addressed to the endpoint observes fully
// retired state. The two phases touch disjoint tables and never hold a
// team key and an endpoint key at the same time.
func (c *Coordinator) OnDisconnect(ctx context.Context, ep core.EndpointID) {
	cascaded := false

	for _, teamID := range c.store.TeamsWith(ep) {
		unlock := c.lockTeam(teamID)
		// Recheck under the key: a concurrent leave may have won.
		if c.store.IsParticipant(teamID, ep) {
			c.leaveTeam(ctx, ep, teamID, false)
			cascaded = true
		}
		unlock()
	}

	c.keys.Lock(endpointKey(ep))
	peers := c.store.Adjacency(ep)
	if len(peers) > 0 {
		for _, peer := range peers {
			c.store.RemoveEdge(ep, peer)
		}
		c.broadcastActiveCalls()
		c.broadcastCallStatus(ctx, peers...)
		cascaded = true
	}
	c.keys.Unlock(endpointKey(ep))

	if cascaded {
		metricDisconnectCascades.Inc()
		log.Info().Str("module", "app.disconnect").Str("endpoint", string(ep)).Msg("retired call state")
	}
}
