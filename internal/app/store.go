package app

import (
	"sync"

	"github.com/La-Tva/test-visioconf-sub001/internal/core"
	"github.com/La-Tva/test-visioconf-sub001/internal/domain"
)

type groupSession struct {
	participants map[core.EndpointID]core.Participant
}

// SessionStore owns the three call-state tables: the pairwise adjacency map,
// the per-team group sessions and the pending join requests. It is
// constructed once in main and handed to the coordinator; nothing else
// mutates it. Methods only guard map integrity — multi-step sequences are
// serialized by the coordinator's per-key locks.
type SessionStore struct {
	mu       sync.RWMutex
	calls    map[core.EndpointID]map[core.EndpointID]struct{}
	sessions map[domain.TeamID]*groupSession
	pending  map[domain.TeamID]map[core.EndpointID]core.JoinRequest
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		calls:    make(map[core.EndpointID]map[core.EndpointID]struct{}),
		sessions: make(map[domain.TeamID]*groupSession),
		pending:  make(map[domain.TeamID]map[core.EndpointID]core.JoinRequest),
	}
}

// AddEdge records an active 1:1 call between a and b, on both sides.
func (s *SessionStore) AddEdge(a, b core.EndpointID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addHalf(a, b)
	s.addHalf(b, a)
}

func (s *SessionStore) addHalf(from, to core.EndpointID) {
	set, ok := s.calls[from]
	if !ok {
		set = make(map[core.EndpointID]struct{})
		s.calls[from] = set
	}
	set[to] = struct{}{}
}

// RemoveEdge removes the call between a and b in both directions. A side
// whose adjacency set becomes empty loses its map entry entirely.
func (s *SessionStore) RemoveEdge(a, b core.EndpointID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeHalf(a, b)
	s.removeHalf(b, a)
}

func (s *SessionStore) removeHalf(from, to core.EndpointID) {
	set, ok := s.calls[from]
	if !ok {
		return
	}
	delete(set, to)
	if len(set) == 0 {
		delete(s.calls, from)
	}
}

// Adjacency returns a copy of the peers currently paired with ep.
func (s *SessionStore) Adjacency(ep core.EndpointID) []core.EndpointID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set := s.calls[ep]
	out := make([]core.EndpointID, 0, len(set))
	for peer := range set {
		out = append(out, peer)
	}
	return out
}

func (s *SessionStore) HasEdge(a, b core.EndpointID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.calls[a][b]
	return ok
}

// InCall reports whether ep has any active pairwise call.
func (s *SessionStore) InCall(ep core.EndpointID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.calls[ep]) > 0
}

// BusyFor reports whether target is already paired with somebody other
// than caller. A target already talking to the caller is not busy.
func (s *SessionStore) BusyFor(target, caller core.EndpointID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set := s.calls[target]
	if len(set) == 0 {
		return false
	}
	_, withCaller := set[caller]
	return !withCaller
}

// ActiveCallCount is the number of distinct call pairs: each call
// contributes one adjacency entry per side.
func (s *SessionStore) ActiveCallCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, set := range s.calls {
		total += len(set)
	}
	return total / 2
}

func (s *SessionStore) HasSession(id domain.TeamID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[id]
	return ok
}

// EnsureSession lazily creates the group session for a team.
func (s *SessionStore) EnsureSession(id domain.TeamID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		s.sessions[id] = &groupSession{participants: make(map[core.EndpointID]core.Participant)}
	}
}

// AddParticipant adds p to the team's session. Returns false when there is
// no session or the endpoint is already a participant.
func (s *SessionStore) AddParticipant(id domain.TeamID, p core.Participant) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return false
	}
	if _, dup := sess.participants[p.SocketID]; dup {
		return false
	}
	sess.participants[p.SocketID] = p
	return true
}

func (s *SessionStore) RemoveParticipant(id domain.TeamID, ep core.EndpointID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return false
	}
	if _, ok := sess.participants[ep]; !ok {
		return false
	}
	delete(sess.participants, ep)
	return true
}

func (s *SessionStore) IsParticipant(id domain.TeamID, ep core.EndpointID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return false
	}
	_, ok = sess.participants[ep]
	return ok
}

func (s *SessionStore) Participants(id domain.TeamID) []core.Participant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil
	}
	out := make([]core.Participant, 0, len(sess.participants))
	for _, p := range sess.participants {
		out = append(out, p)
	}
	return out
}

// DeleteSession drops the team's session and, with it, the pending join
// requests that referenced it.
func (s *SessionStore) DeleteSession(id domain.TeamID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	delete(s.pending, id)
}

// TeamsWith lists the teams whose active session ep participates in.
func (s *SessionStore) TeamsWith(ep core.EndpointID) []domain.TeamID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.TeamID
	for id, sess := range s.sessions {
		if _, ok := sess.participants[ep]; ok {
			out = append(out, id)
		}
	}
	return out
}

func (s *SessionStore) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// AddPending records a join request, one per endpoint per team. Returns
// false when an identical request is already queued.
func (s *SessionStore) AddPending(id domain.TeamID, req core.JoinRequest) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.pending[id]
	if !ok {
		set = make(map[core.EndpointID]core.JoinRequest)
		s.pending[id] = set
	}
	if _, dup := set[req.SocketID]; dup {
		return false
	}
	set[req.SocketID] = req
	return true
}

// RemovePending removes and returns the pending request of ep for the team.
func (s *SessionStore) RemovePending(id domain.TeamID, ep core.EndpointID) (core.JoinRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.pending[id]
	if !ok {
		return core.JoinRequest{}, false
	}
	req, ok := set[ep]
	if !ok {
		return core.JoinRequest{}, false
	}
	delete(set, ep)
	if len(set) == 0 {
		delete(s.pending, id)
	}
	return req, true
}

func (s *SessionStore) HasPending(id domain.TeamID, ep core.EndpointID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.pending[id][ep]
	return ok
}

func (s *SessionStore) PendingCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, set := range s.pending {
		total += len(set)
	}
	return total
}
