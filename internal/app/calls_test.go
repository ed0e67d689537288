package app

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/La-Tva/test-visioconf-sub001/internal/core"
)

var rawOffer = json.RawMessage(`{"sdp":"offer"}`)
var rawAnswer = json.RawMessage(`{"sdp":"answer"}`)

func TestAnswerCallCreatesSymmetricEdge(t *testing.T) {
	c, store, _, relay := newTestCoordinator()
	ctx := context.Background()

	c.AnswerCall(ctx, "epB", "epA", rawAnswer)

	if !store.HasEdge("epA", "epB") || !store.HasEdge("epB", "epA") {
		t.Fatalf("expected symmetric edge between epA and epB")
	}
	evs := relay.eventsFor("epA")
	if len(evs) != 1 {
		t.Fatalf("expected one event to caller, got %d", len(evs))
	}
	am, ok := evs[0].(core.AnswerMadeEvent)
	if !ok || am.Socket != "epB" {
		t.Fatalf("expected answer-made from epB, got %+v", evs[0])
	}
}

func TestAnswerCallBroadcastsCount(t *testing.T) {
	c, _, _, relay := newTestCoordinator()
	c.AnswerCall(context.Background(), "epB", "epA", rawAnswer)

	var found bool
	for _, b := range relay.allBroadcasts() {
		if ev, ok := b.(core.ActiveCallsCountEvent); ok {
			found = true
			if ev.Count != 1 {
				t.Fatalf("expected count 1, got %d", ev.Count)
			}
		}
	}
	if !found {
		t.Fatalf("expected active_calls_count broadcast")
	}
}

func TestHangUpRemovesBothSides(t *testing.T) {
	c, store, _, relay := newTestCoordinator()
	ctx := context.Background()
	c.AnswerCall(ctx, "epB", "epA", rawAnswer)
	relay.reset()

	c.HangUp(ctx, "epA", "epB")

	if store.HasEdge("epA", "epB") || store.HasEdge("epB", "epA") {
		t.Fatalf("expected edge removed on both sides")
	}
	if store.InCall("epA") || store.InCall("epB") {
		t.Fatalf("expected both endpoints out of call")
	}
	evs := relay.eventsFor("epB")
	if len(evs) != 1 {
		t.Fatalf("expected call-ended for peer, got %d events", len(evs))
	}
	if ce, ok := evs[0].(core.CallEndedEvent); !ok || ce.Socket != "epA" {
		t.Fatalf("expected call-ended from epA, got %+v", evs[0])
	}
}

func TestActiveCallCountIndependentOfOrder(t *testing.T) {
	c, _, _, _ := newTestCoordinator()
	ctx := context.Background()

	c.AnswerCall(ctx, "b", "a", rawAnswer)
	c.AnswerCall(ctx, "d", "c", rawAnswer)
	c.AnswerCall(ctx, "f", "e", rawAnswer)
	if got := c.ActiveCallCount(); got != 3 {
		t.Fatalf("expected 3 active calls, got %d", got)
	}
	c.HangUp(ctx, "c", "d")
	if got := c.ActiveCallCount(); got != 2 {
		t.Fatalf("expected 2 active calls after hang-up, got %d", got)
	}
}

func TestPlaceCallBusyTarget(t *testing.T) {
	c, store, _, relay := newTestCoordinator()
	ctx := context.Background()
	c.AnswerCall(ctx, "epB", "epA", rawAnswer)
	relay.reset()

	c.PlaceCall(ctx, "epC", "epB", rawOffer)

	evs := relay.eventsFor("epC")
	if len(evs) != 1 {
		t.Fatalf("expected busy rejection, got %d events", len(evs))
	}
	rej, ok := evs[0].(core.CallRejectedEvent)
	if !ok || rej.Reason != core.ReasonBusy {
		t.Fatalf("expected call-rejected busy, got %+v", evs[0])
	}
	if len(relay.eventsFor("epB")) != 0 {
		t.Fatalf("busy target must not receive the offer")
	}
	if !store.HasEdge("epA", "epB") || store.InCall("epC") {
		t.Fatalf("adjacency must be unchanged by a rejected call")
	}
}

func TestPlaceCallToOwnPeerNotBusy(t *testing.T) {
	c, _, _, relay := newTestCoordinator()
	ctx := context.Background()
	c.AnswerCall(ctx, "epB", "epA", rawAnswer)
	relay.reset()

	// Renegotiation with the current peer is allowed.
	c.PlaceCall(ctx, "epA", "epB", rawOffer)

	evs := relay.eventsFor("epB")
	if len(evs) != 1 {
		t.Fatalf("expected offer relayed to current peer, got %d events", len(evs))
	}
	if cm, ok := evs[0].(core.CallMadeEvent); !ok || cm.Socket != "epA" {
		t.Fatalf("expected call-made from epA, got %+v", evs[0])
	}
}

func TestPlaceCallResolvesUserID(t *testing.T) {
	c, _, dir, relay := newTestCoordinator()
	dir.addUser("u-bob", "Bob", "epBob")

	c.PlaceCall(context.Background(), "epA", "u-bob", rawOffer)

	evs := relay.eventsFor("epBob")
	if len(evs) != 1 {
		t.Fatalf("expected offer delivered to resolved endpoint, got %d events", len(evs))
	}
}

func TestPlaceCallOfflineUserDropped(t *testing.T) {
	c, _, dir, relay := newTestCoordinator()
	dir.addUser("u-bob", "Bob", "epBob")
	dir.setOffline("u-bob")

	c.PlaceCall(context.Background(), "epA", "u-bob", rawOffer)

	if len(relay.eventsFor("epA")) != 0 || len(relay.eventsFor("epBob")) != 0 {
		t.Fatalf("offline target must drop the call silently")
	}
}

func TestRelayCandidateDoesNotMutate(t *testing.T) {
	c, store, _, relay := newTestCoordinator()
	c.RelayCandidate(context.Background(), "epA", "epB", json.RawMessage(`{"candidate":"x"}`))

	if store.InCall("epA") || store.InCall("epB") {
		t.Fatalf("candidate relay must not create call state")
	}
	evs := relay.eventsFor("epB")
	if len(evs) != 1 {
		t.Fatalf("expected candidate relayed, got %d", len(evs))
	}
	if ic, ok := evs[0].(core.ICECandidateEvent); !ok || ic.Socket != "epA" {
		t.Fatalf("expected ice-candidate from epA, got %+v", evs[0])
	}
}

func TestRejectCallPureRelay(t *testing.T) {
	c, store, _, relay := newTestCoordinator()
	c.RejectCall(context.Background(), "epB", "epA")

	evs := relay.eventsFor("epA")
	if len(evs) != 1 {
		t.Fatalf("expected rejection relayed, got %d", len(evs))
	}
	rej, ok := evs[0].(core.CallRejectedEvent)
	if !ok || rej.Socket != "epB" || rej.Reason != "" {
		t.Fatalf("expected plain call-rejected from epB, got %+v", evs[0])
	}
	if store.ActiveCallCount() != 0 {
		t.Fatalf("reject must not touch state")
	}
}

func TestSendActiveCalls(t *testing.T) {
	c, _, _, relay := newTestCoordinator()
	ctx := context.Background()
	c.AnswerCall(ctx, "epB", "epA", rawAnswer)
	relay.reset()

	c.SendActiveCalls(ctx, "epZ")

	evs := relay.eventsFor("epZ")
	if len(evs) != 1 {
		t.Fatalf("expected one reply, got %d", len(evs))
	}
	if ev, ok := evs[0].(core.ActiveCallsCountEvent); !ok || ev.Count != 1 {
		t.Fatalf("expected count 1, got %+v", evs[0])
	}
}
