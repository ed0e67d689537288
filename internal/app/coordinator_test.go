package app

import (
	"context"
	"sync"

	"github.com/La-Tva/test-visioconf-sub001/internal/core"
	"github.com/La-Tva/test-visioconf-sub001/internal/domain"
)

type fakeRelay struct {
	mu         sync.Mutex
	sent       map[core.EndpointID][]any
	broadcasts []any
}

func newFakeRelay() *fakeRelay {
	return &fakeRelay{sent: make(map[core.EndpointID][]any)}
}

func (r *fakeRelay) Send(ep core.EndpointID, v any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent[ep] = append(r.sent[ep], v)
}

func (r *fakeRelay) BroadcastAll(v any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.broadcasts = append(r.broadcasts, v)
}

func (r *fakeRelay) eventsFor(ep core.EndpointID) []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]any, len(r.sent[ep]))
	copy(out, r.sent[ep])
	return out
}

func (r *fakeRelay) allBroadcasts() []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]any, len(r.broadcasts))
	copy(out, r.broadcasts)
	return out
}

func (r *fakeRelay) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = make(map[core.EndpointID][]any)
	r.broadcasts = nil
}

type fakeDirectory struct {
	mu     sync.Mutex
	users  map[domain.UserID]*domain.User
	online map[domain.UserID]core.EndpointID
	byEp   map[core.EndpointID]*domain.User
	teams  map[domain.TeamID]domain.Team
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		users:  make(map[domain.UserID]*domain.User),
		online: make(map[domain.UserID]core.EndpointID),
		byEp:   make(map[core.EndpointID]*domain.User),
		teams:  make(map[domain.TeamID]domain.Team),
	}
}

// addUser registers a user and, when ep is non-empty, marks them online there.
func (d *fakeDirectory) addUser(id domain.UserID, firstname string, ep core.EndpointID) *domain.User {
	d.mu.Lock()
	defer d.mu.Unlock()
	u := &domain.User{ID: id, Firstname: firstname}
	d.users[id] = u
	if ep != "" {
		d.online[id] = ep
		d.byEp[ep] = u
	}
	return u
}

func (d *fakeDirectory) setOffline(id domain.UserID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if ep, ok := d.online[id]; ok {
		delete(d.byEp, ep)
	}
	delete(d.online, id)
}

func (d *fakeDirectory) addTeam(id domain.TeamID, owner domain.UserID, members ...domain.UserID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.teams[id] = domain.Team{ID: id, OwnerID: owner, MemberIDs: members}
}

func (d *fakeDirectory) setOwner(id domain.TeamID, owner domain.UserID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	t := d.teams[id]
	t.OwnerID = owner
	d.teams[id] = t
}

func (d *fakeDirectory) ResolveEndpoint(ctx context.Context, id domain.UserID) (core.EndpointID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.users[id]; !ok {
		return "", core.ErrNotFound
	}
	ep, ok := d.online[id]
	if !ok {
		return "", core.ErrOffline
	}
	return ep, nil
}

func (d *fakeDirectory) ResolveUser(ctx context.Context, ep core.EndpointID) (*domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	u, ok := d.byEp[ep]
	if !ok {
		return nil, core.ErrNotFound
	}
	return u, nil
}

func (d *fakeDirectory) TeamMembership(ctx context.Context, id domain.TeamID) (domain.Team, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	t, ok := d.teams[id]
	if !ok {
		return domain.Team{}, core.ErrNotFound
	}
	return t, nil
}

func newTestCoordinator() (*Coordinator, *SessionStore, *fakeDirectory, *fakeRelay) {
	store := NewSessionStore()
	dir := newFakeDirectory()
	relay := newFakeRelay()
	return NewCoordinator(store, dir, relay), store, dir, relay
}
