package core

import (
	"context"
	"errors"
	"time"

	"github.com/La-Tva/test-visioconf-sub001/internal/domain"
)

// Frame is a raw serialized signaling payload.
type Frame []byte

// EndpointID identifies one live connection. It is minted when the socket
// is accepted and never reused after the socket goes away.
type EndpointID string

var (
	ErrNotFound = errors.New("not found")
	ErrOffline  = errors.New("offline")
)

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}

// Relay delivers an event to one endpoint, or drops it silently when the
// endpoint is not connected. All coordinator output goes through here.
type Relay interface {
	Send(ep EndpointID, v any)
	BroadcastAll(v any)
}

// Directory resolves stable identity and team membership. The coordinator
// only ever reads through this interface.
type Directory interface {
	// ResolveEndpoint returns the live endpoint of a user.
	// ErrNotFound: no such user. ErrOffline: user known but not connected.
	ResolveEndpoint(ctx context.Context, id domain.UserID) (EndpointID, error)
	// ResolveUser returns the user bound to an endpoint, ErrNotFound if the
	// endpoint is anonymous or gone.
	ResolveUser(ctx context.Context, ep EndpointID) (*domain.User, error)
	TeamMembership(ctx context.Context, id domain.TeamID) (domain.Team, error)
}

// Participant is a read-only view of a group-call member (no transport fields).
type Participant struct {
	SocketID EndpointID   `json:"socketId"`
	User     *domain.User `json:"user,omitempty"`
}

// JoinRequest is a pending, owner-gated request to enter an active session.
type JoinRequest struct {
	SocketID    EndpointID   `json:"socketId"`
	User        *domain.User `json:"user,omitempty"`
	RequestedAt time.Time    `json:"requestedAt"`
}
