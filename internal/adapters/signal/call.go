package signal

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/La-Tva/test-visioconf-sub001/internal/core"
)

func (ctl *SignalWSController) handleCallUser(ctx context.Context, ep core.EndpointID, data []byte) {
	var p struct {
		Type  string          `json:"type"`
		To    string          `json:"to"`
		Offer json.RawMessage `json:"offer"`
	}
	if err := json.Unmarshal(data, &p); err != nil || p.To == "" {
		log.Error().Err(err).Str("module", "signal").Msg("bad call-user payload")
		return
	}
	ctl.Coord.PlaceCall(ctx, ep, p.To, p.Offer)
}

func (ctl *SignalWSController) handleMakeAnswer(ctx context.Context, ep core.EndpointID, data []byte) {
	var p struct {
		Type   string          `json:"type"`
		To     string          `json:"to"`
		Answer json.RawMessage `json:"answer"`
	}
	if err := json.Unmarshal(data, &p); err != nil || p.To == "" {
		log.Error().Err(err).Str("module", "signal").Msg("bad make-answer payload")
		return
	}
	ctl.Coord.AnswerCall(ctx, ep, core.EndpointID(p.To), p.Answer)
}

func (ctl *SignalWSController) handleICECandidate(ctx context.Context, ep core.EndpointID, data []byte) {
	var p struct {
		Type      string          `json:"type"`
		To        string          `json:"to"`
		Candidate json.RawMessage `json:"candidate"`
	}
	if err := json.Unmarshal(data, &p); err != nil || p.To == "" {
		log.Error().Err(err).Str("module", "signal").Msg("bad ice-candidate payload")
		return
	}
	ctl.Coord.RelayCandidate(ctx, ep, p.To, p.Candidate)
}

func (ctl *SignalWSController) handleRejectCall(ctx context.Context, ep core.EndpointID, data []byte) {
	var p struct {
		Type string `json:"type"`
		To   string `json:"to"`
	}
	if err := json.Unmarshal(data, &p); err != nil || p.To == "" {
		log.Error().Err(err).Str("module", "signal").Msg("bad reject-call payload")
		return
	}
	ctl.Coord.RejectCall(ctx, ep, p.To)
}

func (ctl *SignalWSController) handleHangUp(ctx context.Context, ep core.EndpointID, data []byte) {
	var p struct {
		Type string `json:"type"`
		To   string `json:"to"`
	}
	if err := json.Unmarshal(data, &p); err != nil || p.To == "" {
		log.Error().Err(err).Str("module", "signal").Msg("bad hang-up payload")
		return
	}
	ctl.Coord.HangUp(ctx, ep, core.EndpointID(p.To))
}
