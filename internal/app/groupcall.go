package app

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/La-Tva/test-visioconf-sub001/internal/core"
	"github.com/La-Tva/test-visioconf-sub001/internal/domain"
)

// StartOrJoinTeamCall handles a call-team event. The team owner starts (or
// idempotently rejoins) the session; anybody else either queues a join
// request against an active session or is told there is no call. Ownership
// is re-resolved from the directory on every event, never cached.
func (c *Coordinator) StartOrJoinTeamCall(ctx context.Context, caller core.EndpointID, teamID domain.TeamID, offer json.RawMessage) {
	unlock := c.lockTeam(teamID)
	defer unlock()

	team, err := c.dir.TeamMembership(ctx, teamID)
	if err != nil {
		log.Debug().Err(err).Str("module", "app.groupcall").Str("team", string(teamID)).Msg("call-team dropped")
		return
	}
	user, _ := c.dir.ResolveUser(ctx, caller)

	switch {
	case user != nil && user.ID == team.OwnerID:
		c.store.EnsureSession(teamID)
		c.store.AddParticipant(teamID, core.Participant{SocketID: caller, User: user})
		metricActiveSessions.Set(float64(c.store.SessionCount()))
		log.Info().Str("module", "app.groupcall").Str("team", string(teamID)).Str("owner", string(user.ID)).Msg("team call active")
		c.broadcastTeamCallStatus(ctx, team)

	case c.store.HasSession(teamID):
		req := core.JoinRequest{SocketID: caller, User: user, RequestedAt: time.Now()}
		c.store.AddPending(teamID, req)
		metricPendingJoinRequests.Set(float64(c.store.PendingCount()))
		if ownerEp, err := c.dir.ResolveEndpoint(ctx, team.OwnerID); err == nil {
			c.relay.Send(ownerEp, core.JoinRequestReceivedEvent{
				Type:      core.EventJoinRequestRecv,
				TeamID:    teamID,
				Requester: req,
			})
		}
		c.relay.Send(caller, core.JoinRequestStatusEvent{
			Type:   core.EventJoinRequestStatus,
			TeamID: teamID,
			Status: core.JoinStatusPending,
		})

	default:
		c.relay.Send(caller, core.JoinRequestStatusEvent{
			Type:   core.EventJoinRequestStatus,
			TeamID: teamID,
			Status: core.JoinStatusNoCall,
		})
	}
}

// LeaveTeamCall handles a voluntary leave-group-call event.
func (c *Coordinator) LeaveTeamCall(ctx context.Context, caller core.EndpointID, teamID domain.TeamID) {
	unlock := c.lockTeam(teamID)
	c.leaveTeam(ctx, caller, teamID, true)
	unlock()

	c.broadcastCallStatus(ctx, caller)
}

// leaveTeam applies the leave branching shared by leave-group-call and the
// disconnect cascade. notifySelf suppresses messages to the departing
// endpoint when it is already gone. Callers hold the team key.
func (c *Coordinator) leaveTeam(ctx context.Context, caller core.EndpointID, teamID domain.TeamID, notifySelf bool) {
	if !c.store.HasSession(teamID) {
		return
	}
	team, err := c.dir.TeamMembership(ctx, teamID)
	if err != nil {
		log.Debug().Err(err).Str("module", "app.groupcall").Str("team", string(teamID)).Msg("leave dropped")
		return
	}
	user, _ := c.dir.ResolveUser(ctx, caller)

	if user != nil && user.ID == team.OwnerID {
		// Owner leaving ends the session for everyone, no matter how many
		// participants remain.
		c.store.DeleteSession(teamID)
		metricActiveSessions.Set(float64(c.store.SessionCount()))
		metricPendingJoinRequests.Set(float64(c.store.PendingCount()))
		log.Info().Str("module", "app.groupcall").Str("team", string(teamID)).Msg("team call ended, owner left")
		for _, ep := range c.teamEndpoints(ctx, team) {
			if !notifySelf && ep == caller {
				continue
			}
			c.relay.Send(ep, core.TeamCallEndedEvent{
				Type:   core.EventTeamCallEnded,
				TeamID: teamID,
				Reason: core.ReasonOwnerLeft,
			})
			c.relay.Send(ep, core.TeamCallStatusEvent{
				Type:         core.EventTeamCallStatus,
				TeamID:       teamID,
				Active:       false,
				Participants: []core.Participant{},
			})
		}
		return
	}

	if !c.store.RemoveParticipant(teamID, caller) {
		// Not a participant: nothing to retire, nobody to tell.
		return
	}
	parts := c.store.Participants(teamID)
	if parts == nil {
		parts = []core.Participant{}
	}
	firstname := ""
	if user != nil {
		firstname = user.Firstname
	}
	for _, ep := range c.teamEndpoints(ctx, team) {
		if ep == caller {
			continue
		}
		c.relay.Send(ep, core.ParticipantLeftEvent{
			Type:   core.EventParticipantLeft,
			Socket: caller,
			TeamID: teamID,
		})
		c.relay.Send(ep, core.ParticipantLeftNotificationEvent{
			Type:      core.EventParticipantLeftNotification,
			TeamID:    teamID,
			Firstname: firstname,
		})
		c.relay.Send(ep, core.TeamCallStatusEvent{
			Type:         core.EventTeamCallStatus,
			TeamID:       teamID,
			Active:       len(parts) > 0,
			Participants: parts,
			OwnerID:      team.OwnerID,
		})
	}
	if len(parts) == 0 {
		c.store.DeleteSession(teamID)
		metricActiveSessions.Set(float64(c.store.SessionCount()))
		metricPendingJoinRequests.Set(float64(c.store.PendingCount()))
	}
}

// GroupOffer relays a mesh offer between two group-call peers. Carries the
// renegotiation flag through untouched.
func (c *Coordinator) GroupOffer(ctx context.Context, from core.EndpointID, to string, teamID domain.TeamID, offer json.RawMessage, renegotiation bool) {
	target, ok := c.resolveTarget(ctx, to)
	if !ok {
		return
	}
	c.relay.Send(target, core.CallPeerGroupEvent{
		Type:          core.EventCallPeerGroup,
		Offer:         offer,
		Socket:        from,
		TeamID:        teamID,
		Renegotiation: renegotiation,
	})
}

func (c *Coordinator) GroupAnswer(ctx context.Context, from core.EndpointID, to string, answer json.RawMessage) {
	target, ok := c.resolveTarget(ctx, to)
	if !ok {
		return
	}
	c.relay.Send(target, core.MakeAnswerGroupEvent{
		Type:   core.EventMakeAnswerGroup,
		Answer: answer,
		Socket: from,
	})
}

func (c *Coordinator) GroupCandidate(ctx context.Context, from core.EndpointID, to string, candidate json.RawMessage) {
	target, ok := c.resolveTarget(ctx, to)
	if !ok {
		return
	}
	c.relay.Send(target, core.ICECandidateGroupEvent{
		Type:      core.EventICECandidateGroup,
		Candidate: candidate,
		Socket:    from,
	})
}
