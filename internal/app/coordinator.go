package app

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/La-Tva/test-visioconf-sub001/internal/core"
	"github.com/La-Tva/test-visioconf-sub001/internal/domain"
)

// Coordinator turns inbound signaling events into call-state mutations and
// outbound notifications. It is the only writer of the SessionStore.
//
// Concurrency: pairwise operations lock both endpoint keys in sorted order,
// group operations lock the team key, and the two key families are never
// held at the same time. Directory lookups happen under the key lock so a
// read-modify-write sequence is atomic with respect to other events on the
// same key.
type Coordinator struct {
	store *SessionStore
	dir   core.Directory
	relay core.Relay
	keys  *keyedMutex
}

func NewCoordinator(store *SessionStore, dir core.Directory, relay core.Relay) *Coordinator {
	return &Coordinator{
		store: store,
		dir:   dir,
		relay: relay,
		keys:  newKeyedMutex(),
	}
}

func endpointKey(ep core.EndpointID) string { return "endpoint:" + string(ep) }
func teamKey(id domain.TeamID) string       { return "team:" + string(id) }

func (c *Coordinator) lockEndpoints(a, b core.EndpointID) func() {
	ka, kb := endpointKey(a), endpointKey(b)
	if ka == kb {
		c.keys.Lock(ka)
		return func() { c.keys.Unlock(ka) }
	}
	if kb < ka {
		ka, kb = kb, ka
	}
	c.keys.Lock(ka)
	c.keys.Lock(kb)
	return func() {
		c.keys.Unlock(kb)
		c.keys.Unlock(ka)
	}
}

func (c *Coordinator) lockTeam(id domain.TeamID) func() {
	k := teamKey(id)
	c.keys.Lock(k)
	return func() { c.keys.Unlock(k) }
}

// resolveTarget maps the "to" field of an inbound event to a live endpoint.
// A value the directory knows as a user id resolves to that user's current
// endpoint; an unknown value is taken to be a raw endpoint id. A known but
// offline user, or a directory failure, drops the operation.
func (c *Coordinator) resolveTarget(ctx context.Context, to string) (core.EndpointID, bool) {
	ep, err := c.dir.ResolveEndpoint(ctx, domain.UserID(to))
	switch {
	case err == nil:
		return ep, true
	case errors.Is(err, core.ErrNotFound):
		return core.EndpointID(to), true
	case errors.Is(err, core.ErrOffline):
		return "", false
	default:
		log.Error().Err(err).Str("module", "app.coordinator").Str("to", to).Msg("directory lookup failed")
		return "", false
	}
}

// broadcastActiveCalls recomputes the global pair count and tells everyone.
func (c *Coordinator) broadcastActiveCalls() {
	count := c.store.ActiveCallCount()
	metricActiveCalls.Set(float64(count))
	c.relay.BroadcastAll(core.ActiveCallsCountEvent{
		Type:  core.EventActiveCallsCount,
		Count: count,
	})
}

// broadcastCallStatus announces the in-call state of each endpoint's user.
// Anonymous endpoints have no stable identity to announce and are skipped.
func (c *Coordinator) broadcastCallStatus(ctx context.Context, eps ...core.EndpointID) {
	for _, ep := range eps {
		user, err := c.dir.ResolveUser(ctx, ep)
		if err != nil {
			continue
		}
		c.relay.BroadcastAll(core.UserCallStatusEvent{
			Type:     core.EventUserCallStatus,
			UserID:   user.ID,
			IsInCall: c.store.InCall(ep),
		})
	}
}

// teamEndpoints resolves the currently online endpoints of a team's owner
// and members.
func (c *Coordinator) teamEndpoints(ctx context.Context, team domain.Team) []core.EndpointID {
	ids := team.Everyone()
	out := make([]core.EndpointID, 0, len(ids))
	for _, id := range ids {
		ep, err := c.dir.ResolveEndpoint(ctx, id)
		if err != nil {
			continue
		}
		out = append(out, ep)
	}
	return out
}

// TeamCallSnapshot is a read-only view for the HTTP listing surface.
func (c *Coordinator) TeamCallSnapshot(id domain.TeamID) []core.Participant {
	parts := c.store.Participants(id)
	if parts == nil {
		parts = []core.Participant{}
	}
	return parts
}

func (c *Coordinator) broadcastTeamCallStatus(ctx context.Context, team domain.Team) {
	parts := c.store.Participants(team.ID)
	if parts == nil {
		parts = []core.Participant{}
	}
	ev := core.TeamCallStatusEvent{
		Type:         core.EventTeamCallStatus,
		TeamID:       team.ID,
		Active:       c.store.HasSession(team.ID) && len(parts) > 0,
		Participants: parts,
		OwnerID:      team.OwnerID,
	}
	for _, ep := range c.teamEndpoints(ctx, team) {
		c.relay.Send(ep, ev)
	}
}
