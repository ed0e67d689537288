package app

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/La-Tva/test-visioconf-sub001/internal/core"
)

// PlaceCall relays a 1:1 call offer to the target, unless the target is
// already paired with somebody else. No adjacency is created yet; the edge
// appears when the target answers.
func (c *Coordinator) PlaceCall(ctx context.Context, caller core.EndpointID, to string, offer json.RawMessage) {
	target, ok := c.resolveTarget(ctx, to)
	if !ok {
		return
	}
	unlock := c.lockEndpoints(caller, target)
	defer unlock()

	if c.store.BusyFor(target, caller) {
		metricBusyRejections.Inc()
		log.Debug().Str("module", "app.calls").Str("caller", string(caller)).Str("target", string(target)).Msg("call rejected, target busy")
		c.relay.Send(caller, core.CallRejectedEvent{
			Type:   core.EventCallRejected,
			Reason: core.ReasonBusy,
			Socket: target,
		})
		return
	}

	user, _ := c.dir.ResolveUser(ctx, caller)
	c.relay.Send(target, core.CallMadeEvent{
		Type:   core.EventCallMade,
		Offer:  offer,
		Socket: caller,
		User:   user,
	})
}

// AnswerCall records the symmetric call edge and relays the answer back to
// the original caller.
func (c *Coordinator) AnswerCall(ctx context.Context, answerer, caller core.EndpointID, answer json.RawMessage) {
	unlock := c.lockEndpoints(answerer, caller)
	defer unlock()

	c.store.AddEdge(answerer, caller)
	c.relay.Send(caller, core.AnswerMadeEvent{
		Type:   core.EventAnswerMade,
		Answer: answer,
		Socket: answerer,
	})
	c.broadcastActiveCalls()
	c.broadcastCallStatus(ctx, answerer, caller)
}

// RelayCandidate forwards an ICE candidate unchanged. No state is touched.
func (c *Coordinator) RelayCandidate(ctx context.Context, from core.EndpointID, to string, candidate json.RawMessage) {
	target, ok := c.resolveTarget(ctx, to)
	if !ok {
		return
	}
	c.relay.Send(target, core.ICECandidateEvent{
		Type:      core.EventICECandidate,
		Candidate: candidate,
		Socket:    from,
	})
}

// RejectCall tells the caller their offer was declined. No state is touched.
func (c *Coordinator) RejectCall(ctx context.Context, from core.EndpointID, to string) {
	target, ok := c.resolveTarget(ctx, to)
	if !ok {
		return
	}
	c.relay.Send(target, core.CallRejectedEvent{
		Type:   core.EventCallRejected,
		Socket: from,
	})
}

// HangUp removes the call edge in both directions and notifies the peer.
func (c *Coordinator) HangUp(ctx context.Context, from, to core.EndpointID) {
	unlock := c.lockEndpoints(from, to)
	defer unlock()

	c.store.RemoveEdge(from, to)
	c.relay.Send(to, core.CallEndedEvent{
		Type:   core.EventCallEnded,
		Socket: from,
	})
	c.broadcastActiveCalls()
	c.broadcastCallStatus(ctx, from, to)
}

func (c *Coordinator) ActiveCallCount() int {
	return c.store.ActiveCallCount()
}

// SendActiveCalls answers a get_active_calls request for one endpoint.
func (c *Coordinator) SendActiveCalls(ctx context.Context, to core.EndpointID) {
	c.relay.Send(to, core.ActiveCallsCountEvent{
		Type:  core.EventActiveCallsCount,
		Count: c.store.ActiveCallCount(),
	})
}
