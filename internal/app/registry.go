package app

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/La-Tva/test-visioconf-sub001/internal/core"
	"github.com/La-Tva/test-visioconf-sub001/internal/domain"
)

// Registry tracks live connection endpoints and their user binding. It is
// the signaling relay (core.Relay) and answers the presence questions the
// directory needs. An endpoint without a user binding is anonymous.
type Registry struct {
	mu     sync.RWMutex
	conns  map[core.EndpointID]core.SignalConnection
	users  map[core.EndpointID]*domain.User
	byUser map[domain.UserID]core.EndpointID
}

func NewRegistry() *Registry {
	return &Registry{
		conns:  make(map[core.EndpointID]core.SignalConnection),
		users:  make(map[core.EndpointID]*domain.User),
		byUser: make(map[domain.UserID]core.EndpointID),
	}
}

// Bind registers a fresh endpoint. user may be nil for anonymous
// connections. When the user reconnects, the newest endpoint wins.
func (r *Registry) Bind(ep core.EndpointID, conn core.SignalConnection, user *domain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[ep] = conn
	if user != nil {
		r.users[ep] = user
		r.byUser[user.ID] = ep
	}
	metricConnectedEndpoints.Set(float64(len(r.conns)))
	log.Info().Str("module", "app.registry").Str("endpoint", string(ep)).Msg("bound endpoint")
}

func (r *Registry) Unbind(ep core.EndpointID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, ep)
	if u, ok := r.users[ep]; ok {
		delete(r.users, ep)
		if r.byUser[u.ID] == ep {
			delete(r.byUser, u.ID)
		}
	}
	metricConnectedEndpoints.Set(float64(len(r.conns)))
	log.Info().Str("module", "app.registry").Str("endpoint", string(ep)).Msg("unbound endpoint")
}

func (r *Registry) UserOf(ep core.EndpointID) (*domain.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[ep]
	return u, ok
}

func (r *Registry) EndpointOf(id domain.UserID) (core.EndpointID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ep, ok := r.byUser[id]
	return ep, ok
}

func (r *Registry) Connected(ep core.EndpointID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.conns[ep]
	return ok
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// Send marshals v and delivers it to ep. Unknown endpoints are dropped
// silently; backpressure is logged and the frame is lost.
func (r *Registry) Send(ep core.EndpointID, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.registry").Msg("marshal outbound event")
		return
	}
	r.mu.RLock()
	conn, ok := r.conns[ep]
	r.mu.RUnlock()
	if !ok {
		log.Debug().Str("module", "app.registry").Str("endpoint", string(ep)).Msg("send to unknown endpoint dropped")
		return
	}
	if err := conn.TrySend(core.Frame(b)); err != nil {
		log.Warn().Err(err).Str("module", "app.registry").Str("endpoint", string(ep)).Msg("send failed")
	}
}

func (r *Registry) BroadcastAll(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.registry").Msg("marshal broadcast event")
		return
	}
	r.mu.RLock()
	conns := make([]core.SignalConnection, 0, len(r.conns))
	for _, c := range r.conns {
		conns = append(conns, c)
	}
	r.mu.RUnlock()
	for _, c := range conns {
		if err := c.TrySend(core.Frame(b)); err != nil {
			log.Warn().Err(err).Str("module", "app.registry").Msg("broadcast send failed")
		}
	}
}
