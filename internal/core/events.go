package core

import (
	"encoding/json"

	"github.com/La-Tva/test-visioconf-sub001/internal/domain"
)

// Outbound signaling events. Session descriptions and ICE candidates are
// carried as opaque json.RawMessage; the coordinator never looks inside.
const (
	EventCallMade          = "call-made"
	EventAnswerMade        = "answer-made"
	EventICECandidate      = "ice-candidate"
	EventCallRejected      = "call-rejected"
	EventCallEnded         = "call-ended"
	EventActiveCallsCount  = "active_calls_count"
	EventUserCallStatus    = "user_call_status_changed"
	EventTeamCallStatus    = "team-call-status"
	EventJoinRequestRecv   = "join-request-received"
	EventJoinRequestStatus = "join-request-status"
	EventNotifyNewJoiner   = "notify-new-joiner"
	EventParticipantLeft   = "participant-left"
	EventParticipantLeftNotification = "participant-left-notification"
	EventTeamCallEnded     = "team-call-ended"
	EventCallPeerGroup     = "call-peer-group"
	EventMakeAnswerGroup   = "make-answer-group"
	EventICECandidateGroup = "ice-candidate-group"
)

// Join-request reply states.
const (
	JoinStatusPending  = "pending"
	JoinStatusAccepted = "accepted"
	JoinStatusRejected = "rejected"
	JoinStatusNoCall   = "no_call"
)

const ReasonBusy = "busy"
const ReasonOwnerLeft = "owner_left"

type CallMadeEvent struct {
	Type   string          `json:"type"`
	Offer  json.RawMessage `json:"offer"`
	Socket EndpointID      `json:"socket"`
	User   *domain.User    `json:"user,omitempty"`
}

type AnswerMadeEvent struct {
	Type   string          `json:"type"`
	Answer json.RawMessage `json:"answer"`
	Socket EndpointID      `json:"socket"`
}

type ICECandidateEvent struct {
	Type      string          `json:"type"`
	Candidate json.RawMessage `json:"candidate"`
	Socket    EndpointID      `json:"socket"`
}

type CallRejectedEvent struct {
	Type   string     `json:"type"`
	Reason string     `json:"reason,omitempty"`
	Socket EndpointID `json:"socket,omitempty"`
}

type CallEndedEvent struct {
	Type   string     `json:"type"`
	Socket EndpointID `json:"socket"`
}

type ActiveCallsCountEvent struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

type UserCallStatusEvent struct {
	Type     string        `json:"type"`
	UserID   domain.UserID `json:"userId"`
	IsInCall bool          `json:"isInCall"`
}

type TeamCallStatusEvent struct {
	Type         string        `json:"type"`
	TeamID       domain.TeamID `json:"teamId"`
	Active       bool          `json:"active"`
	Participants []Participant `json:"participants"`
	OwnerID      domain.UserID `json:"ownerId,omitempty"`
}

type JoinRequestReceivedEvent struct {
	Type      string        `json:"type"`
	TeamID    domain.TeamID `json:"teamId"`
	Requester JoinRequest   `json:"requester"`
}

type JoinRequestStatusEvent struct {
	Type   string        `json:"type"`
	TeamID domain.TeamID `json:"teamId"`
	Status string        `json:"status"`
}

type NotifyNewJoinerEvent struct {
	Type              string        `json:"type"`
	TeamID            domain.TeamID `json:"teamId"`
	NewJoinerSocketID EndpointID    `json:"newJoinerSocketId"`
	NewJoinerUser     *domain.User  `json:"newJoinerUser,omitempty"`
}

type ParticipantLeftEvent struct {
	Type   string        `json:"type"`
	Socket EndpointID    `json:"socket"`
	TeamID domain.TeamID `json:"teamId"`
}

type ParticipantLeftNotificationEvent struct {
	Type      string        `json:"type"`
	TeamID    domain.TeamID `json:"teamId"`
	Firstname string        `json:"firstname"`
}

type TeamCallEndedEvent struct {
	Type   string        `json:"type"`
	TeamID domain.TeamID `json:"teamId"`
	Reason string        `json:"reason,omitempty"`
}

type CallPeerGroupEvent struct {
	Type          string          `json:"type"`
	Offer         json.RawMessage `json:"offer"`
	Socket        EndpointID      `json:"socket"`
	TeamID        domain.TeamID   `json:"teamId"`
	Renegotiation bool            `json:"renegotiation"`
}

type MakeAnswerGroupEvent struct {
	Type   string          `json:"type"`
	Answer json.RawMessage `json:"answer"`
	Socket EndpointID      `json:"socket"`
}

type ICECandidateGroupEvent struct {
	Type      string          `json:"type"`
	Candidate json.RawMessage `json:"candidate"`
	Socket    EndpointID      `json:"socket"`
}
