package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/La-Tva/test-visioconf-sub001/internal/core"
	"github.com/La-Tva/test-visioconf-sub001/internal/domain"
)

// RespondJoinRequest handles the owner's verdict on a pending join request.
// Anybody other than the team's current owner is ignored without a reply.
// Acceptance adds the requester to the session and tells every existing
// participant to open its own mesh link to the new joiner.
func (c *Coordinator) RespondJoinRequest(ctx context.Context, responder core.EndpointID, teamID domain.TeamID, requester core.EndpointID, accepted bool) {
	unlock := c.lockTeam(teamID)
	defer unlock()

	team, err := c.dir.TeamMembership(ctx, teamID)
	if err != nil {
		log.Debug().Err(err).Str("module", "app.joinrequest").Str("team", string(teamID)).Msg("response dropped")
		return
	}
	respUser, err := c.dir.ResolveUser(ctx, responder)
	if err != nil || respUser.ID != team.OwnerID {
		log.Debug().Str("module", "app.joinrequest").Str("team", string(teamID)).Str("responder", string(responder)).Msg("response from non-owner ignored")
		return
	}

	pending, hadPending := c.store.RemovePending(teamID, requester)
	metricPendingJoinRequests.Set(float64(c.store.PendingCount()))

	if !accepted {
		c.relay.Send(requester, core.JoinRequestStatusEvent{
			Type:   core.EventJoinRequestStatus,
			TeamID: teamID,
			Status: core.JoinStatusRejected,
		})
		return
	}
	if !c.store.HasSession(teamID) {
		return
	}

	reqUser := pending.User
	if !hadPending || reqUser == nil {
		reqUser, _ = c.dir.ResolveUser(ctx, requester)
	}
	existing := c.store.Participants(teamID)
	c.store.AddParticipant(teamID, core.Participant{SocketID: requester, User: reqUser})

	c.relay.Send(requester, core.JoinRequestStatusEvent{
		Type:   core.EventJoinRequestStatus,
		TeamID: teamID,
		Status: core.JoinStatusAccepted,
	})
	c.broadcastTeamCallStatus(ctx, team)

	// Full mesh: each existing participant initiates its own connection to
	// the new joiner, one notification per participant.
	for _, p := range existing {
		if p.SocketID == requester {
			continue
		}
		c.relay.Send(p.SocketID, core.NotifyNewJoinerEvent{
			Type:              core.EventNotifyNewJoiner,
			TeamID:            teamID,
			NewJoinerSocketID: requester,
			NewJoinerUser:     reqUser,
		})
	}
}
