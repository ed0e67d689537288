package signal

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/La-Tva/test-visioconf-sub001/internal/core"
)

func (ctl *SignalWSController) handleSignal(ctx context.Context, ep core.EndpointID, c *WsSignalConn, data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad json")
		return
	}
	metricSignalEvents.WithLabelValues(env.Type).Inc()

	switch env.Type {
	case "call-user":
		ctl.handleCallUser(ctx, ep, data)
	case "make-answer":
		ctl.handleMakeAnswer(ctx, ep, data)
	case "ice-candidate":
		ctl.handleICECandidate(ctx, ep, data)
	case "reject-call":
		ctl.handleRejectCall(ctx, ep, data)
	case "hang-up":
		ctl.handleHangUp(ctx, ep, data)
	case "call-team":
		ctl.handleCallTeam(ctx, ep, data)
	case "join-request-response":
		ctl.handleJoinRequestResponse(ctx, ep, data)
	case "leave-group-call":
		ctl.handleLeaveGroupCall(ctx, ep, data)
	case "call-peer-group":
		ctl.handleCallPeerGroup(ctx, ep, data)
	case "make-answer-group":
		ctl.handleMakeAnswerGroup(ctx, ep, data)
	case "ice-candidate-group":
		ctl.handleICECandidateGroup(ctx, ep, data)
	case "get_active_calls":
		ctl.Coord.SendActiveCalls(ctx, ep)
	case "ping":
		ctl.handlePing(c)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown signal")
	}
}

func (ctl *SignalWSController) handlePing(c *WsSignalConn) {
	resp := struct {
		Type string `json:"type"`
	}{
		Type: "pong",
	}
	ctl.sendJSON(c, resp)
}

func (ctl *SignalWSController) sendJSON(c *WsSignalConn, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	_ = c.TrySend(b)
}
