// Package directory is the coordinator's stand-in for the platform's user
// and team service. It owns registered users and team rosters; presence is
// answered by whatever tracks live connections.
package directory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/La-Tva/test-visioconf-sub001/internal/core"
	"github.com/La-Tva/test-visioconf-sub001/internal/domain"
)

// Presence answers who is connected right now. Implemented by the endpoint
// registry.
type Presence interface {
	EndpointOf(id domain.UserID) (core.EndpointID, bool)
	UserOf(ep core.EndpointID) (*domain.User, bool)
}

// Memory implements core.Directory over in-process maps. The coordinator
// only reads it; writes come from the REST admin surface.
type Memory struct {
	mu       sync.RWMutex
	users    map[domain.UserID]*domain.User
	teams    map[domain.TeamID]domain.Team
	presence Presence
}

func NewMemory(presence Presence) *Memory {
	return &Memory{
		users:    make(map[domain.UserID]*domain.User),
		teams:    make(map[domain.TeamID]domain.Team),
		presence: presence,
	}
}

func (m *Memory) ResolveEndpoint(ctx context.Context, id domain.UserID) (core.EndpointID, error) {
	m.mu.RLock()
	_, known := m.users[id]
	m.mu.RUnlock()
	if !known {
		return "", core.ErrNotFound
	}
	ep, online := m.presence.EndpointOf(id)
	if !online {
		return "", core.ErrOffline
	}
	return ep, nil
}

func (m *Memory) ResolveUser(ctx context.Context, ep core.EndpointID) (*domain.User, error) {
	u, ok := m.presence.UserOf(ep)
	if !ok {
		return nil, core.ErrNotFound
	}
	return u, nil
}

func (m *Memory) TeamMembership(ctx context.Context, id domain.TeamID) (domain.Team, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	team, ok := m.teams[id]
	if !ok {
		return domain.Team{}, core.ErrNotFound
	}
	return team, nil
}

// ---- admin surface, used by the REST adapter ----

func (m *Memory) AddUser(u *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
	log.Info().Str("module", "directory").Str("user", string(u.ID)).Msg("user registered")
}

func (m *Memory) User(id domain.UserID) (*domain.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	return u, ok
}

func (m *Memory) Users() []*domain.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	return out
}

// CreateTeam registers a team. Owner and members must already be known.
func (m *Memory) CreateTeam(name domain.TeamName, owner domain.UserID, members []domain.UserID) (domain.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[owner]; !ok {
		return domain.Team{}, fmt.Errorf("owner %s: %w", owner, core.ErrNotFound)
	}
	for _, id := range members {
		if _, ok := m.users[id]; !ok {
			return domain.Team{}, fmt.Errorf("member %s: %w", id, core.ErrNotFound)
		}
	}
	team := domain.Team{
		ID:        domain.TeamID(uuid.NewString()),
		Name:      name,
		OwnerID:   owner,
		MemberIDs: members,
	}
	m.teams[team.ID] = team
	log.Info().Str("module", "directory").Str("team", string(team.ID)).Str("owner", string(owner)).Msg("team created")
	return team, nil
}

func (m *Memory) Team(id domain.TeamID) (domain.Team, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.teams[id]
	return t, ok
}

func (m *Memory) Teams() []domain.Team {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Team, 0, len(m.teams))
	for _, t := range m.teams {
		out = append(out, t)
	}
	return out
}

// TransferOwnership reassigns a team's owner. The coordinator picks the
// change up on its next membership lookup; nothing is cached.
func (m *Memory) TransferOwnership(id domain.TeamID, newOwner domain.UserID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	team, ok := m.teams[id]
	if !ok {
		return fmt.Errorf("team %s: %w", id, core.ErrNotFound)
	}
	if _, ok := m.users[newOwner]; !ok {
		return fmt.Errorf("owner %s: %w", newOwner, core.ErrNotFound)
	}
	team.OwnerID = newOwner
	m.teams[id] = team
	log.Info().Str("module", "directory").Str("team", string(id)).Str("owner", string(newOwner)).Msg("ownership transferred")
	return nil
}

func (m *Memory) DeleteTeam(id domain.TeamID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.teams, id)
}
