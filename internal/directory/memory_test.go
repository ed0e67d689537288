package directory

import (
	"context"
	"errors"
	"testing"

	"github.com/La-Tva/test-visioconf-sub001/internal/core"
	"github.com/La-Tva/test-visioconf-sub001/internal/domain"
)

type fakePresence struct {
	eps   map[domain.UserID]core.EndpointID
	users map[core.EndpointID]*domain.User
}

func newFakePresence() *fakePresence {
	return &fakePresence{
		eps:   make(map[domain.UserID]core.EndpointID),
		users: make(map[core.EndpointID]*domain.User),
	}
}

func (p *fakePresence) connect(u *domain.User, ep core.EndpointID) {
	p.eps[u.ID] = ep
	p.users[ep] = u
}

func (p *fakePresence) EndpointOf(id domain.UserID) (core.EndpointID, bool) {
	ep, ok := p.eps[id]
	return ep, ok
}

func (p *fakePresence) UserOf(ep core.EndpointID) (*domain.User, bool) {
	u, ok := p.users[ep]
	return u, ok
}

func TestResolveEndpointDistinguishesUnknownAndOffline(t *testing.T) {
	pres := newFakePresence()
	m := NewMemory(pres)
	ctx := context.Background()

	alice := &domain.User{ID: "u-alice", Firstname: "Alice"}
	m.AddUser(alice)

	if _, err := m.ResolveEndpoint(ctx, "u-ghost"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("unknown user must resolve to ErrNotFound, got %v", err)
	}
	if _, err := m.ResolveEndpoint(ctx, "u-alice"); !errors.Is(err, core.ErrOffline) {
		t.Fatalf("known but disconnected user must resolve to ErrOffline, got %v", err)
	}

	pres.connect(alice, "epA")
	ep, err := m.ResolveEndpoint(ctx, "u-alice")
	if err != nil || ep != "epA" {
		t.Fatalf("expected epA, got %q err=%v", ep, err)
	}
}

func TestResolveUser(t *testing.T) {
	pres := newFakePresence()
	m := NewMemory(pres)
	ctx := context.Background()

	bob := &domain.User{ID: "u-bob", Firstname: "Bob"}
	pres.connect(bob, "epB")

	u, err := m.ResolveUser(ctx, "epB")
	if err != nil || u.ID != "u-bob" {
		t.Fatalf("expected bob, got %+v err=%v", u, err)
	}
	if _, err := m.ResolveUser(ctx, "epZ"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("anonymous endpoint must be ErrNotFound, got %v", err)
	}
}

func TestCreateTeamValidatesRoster(t *testing.T) {
	m := NewMemory(newFakePresence())
	m.AddUser(&domain.User{ID: "u-alice"})
	m.AddUser(&domain.User{ID: "u-bob"})

	if _, err := m.CreateTeam("devs", "u-ghost", nil); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("unknown owner must be rejected, got %v", err)
	}
	if _, err := m.CreateTeam("devs", "u-alice", []domain.UserID{"u-ghost"}); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("unknown member must be rejected, got %v", err)
	}

	team, err := m.CreateTeam("devs", "u-alice", []domain.UserID{"u-bob"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if team.ID == "" || team.OwnerID != "u-alice" {
		t.Fatalf("unexpected team %+v", team)
	}

	got, err := m.TeamMembership(context.Background(), team.ID)
	if err != nil || got.Name != "devs" {
		t.Fatalf("membership lookup: %+v err=%v", got, err)
	}
}

func TestTransferOwnership(t *testing.T) {
	m := NewMemory(newFakePresence())
	m.AddUser(&domain.User{ID: "u-alice"})
	m.AddUser(&domain.User{ID: "u-bob"})
	team, _ := m.CreateTeam("devs", "u-alice", []domain.UserID{"u-bob"})

	if err := m.TransferOwnership(team.ID, "u-ghost"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("unknown new owner must be rejected, got %v", err)
	}
	if err := m.TransferOwnership(team.ID, "u-bob"); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	got, _ := m.Team(team.ID)
	if got.OwnerID != "u-bob" {
		t.Fatalf("expected u-bob as owner, got %s", got.OwnerID)
	}
}

func TestTeamEveryoneDedupesOwner(t *testing.T) {
	team := domain.Team{ID: "t1", OwnerID: "u-alice", MemberIDs: []domain.UserID{"u-alice", "u-bob"}}
	all := team.Everyone()
	if len(all) != 2 || all[0] != "u-alice" || all[1] != "u-bob" {
		t.Fatalf("expected owner-first deduped roster, got %v", all)
	}
}
