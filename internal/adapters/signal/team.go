package signal

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/La-Tva/test-visioconf-sub001/internal/core"
	"github.com/La-Tva/test-visioconf-sub001/internal/domain"
)

func (ctl *SignalWSController) handleCallTeam(ctx context.Context, ep core.EndpointID, data []byte) {
	var p struct {
		Type   string          `json:"type"`
		TeamID string          `json:"teamId"`
		Offer  json.RawMessage `json:"offer"`
	}
	if err := json.Unmarshal(data, &p); err != nil || p.TeamID == "" {
		log.Error().Err(err).Str("module", "signal").Msg("bad call-team payload")
		return
	}
	if !ctl.Limiter.Allow(ep) {
		log.Warn().Str("module", "signal").Str("endpoint", string(ep)).Msg("call-team rate limited")
		return
	}
	ctl.Coord.StartOrJoinTeamCall(ctx, ep, domain.TeamID(p.TeamID), p.Offer)
}

func (ctl *SignalWSController) handleJoinRequestResponse(ctx context.Context, ep core.EndpointID, data []byte) {
	var p struct {
		Type              string `json:"type"`
		TeamID            string `json:"teamId"`
		RequesterSocketID string `json:"requesterSocketId"`
		Accepted          bool   `json:"accepted"`
	}
	if err := json.Unmarshal(data, &p); err != nil || p.TeamID == "" || p.RequesterSocketID == "" {
		log.Error().Err(err).Str("module", "signal").Msg("bad join-request-response payload")
		return
	}
	ctl.Coord.RespondJoinRequest(ctx, ep, domain.TeamID(p.TeamID), core.EndpointID(p.RequesterSocketID), p.Accepted)
}

func (ctl *SignalWSController) handleLeaveGroupCall(ctx context.Context, ep core.EndpointID, data []byte) {
	var p struct {
		Type   string `json:"type"`
		TeamID string `json:"teamId"`
	}
	if err := json.Unmarshal(data, &p); err != nil || p.TeamID == "" {
		log.Error().Err(err).Str("module", "signal").Msg("bad leave-group-call payload")
		return
	}
	ctl.Coord.LeaveTeamCall(ctx, ep, domain.TeamID(p.TeamID))
}

func (ctl *SignalWSController) handleCallPeerGroup(ctx context.Context, ep core.EndpointID, data []byte) {
	var p struct {
		Type          string          `json:"type"`
		To            string          `json:"to"`
		Offer         json.RawMessage `json:"offer"`
		TeamID        string          `json:"teamId"`
		Renegotiation bool            `json:"renegotiation"`
	}
	if err := json.Unmarshal(data, &p); err != nil || p.To == "" {
		log.Error().Err(err).Str("module", "signal").Msg("bad call-peer-group payload")
		return
	}
	ctl.Coord.GroupOffer(ctx, ep, p.To, domain.TeamID(p.TeamID), p.Offer, p.Renegotiation)
}

func (ctl *SignalWSController) handleMakeAnswerGroup(ctx context.Context, ep core.EndpointID, data []byte) {
	var p struct {
		Type   string          `json:"type"`
		To     string          `json:"to"`
		Answer json.RawMessage `json:"answer"`
	}
	if err := json.Unmarshal(data, &p); err != nil || p.To == "" {
		log.Error().Err(err).Str("module", "signal").Msg("bad make-answer-group payload")
		return
	}
	ctl.Coord.GroupAnswer(ctx, ep, p.To, p.Answer)
}

func (ctl *SignalWSController) handleICECandidateGroup(ctx context.Context, ep core.EndpointID, data []byte) {
	var p struct {
		Type      string          `json:"type"`
		To        string          `json:"to"`
		Candidate json.RawMessage `json:"candidate"`
	}
	if err := json.Unmarshal(data, &p); err != nil || p.To == "" {
		log.Error().Err(err).Str("module", "signal").Msg("bad ice-candidate-group payload")
		return
	}
	ctl.Coord.GroupCandidate(ctx, ep, p.To, p.Candidate)
}
