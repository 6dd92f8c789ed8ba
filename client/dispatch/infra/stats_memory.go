package infra

import (
	"context"
	"sync"

	"stravan-client/client/dispatch/domain"
)

type Counters struct {
	OK               int64
	TransportFailure int64
	Other            int64
}

func (c *Counters) add(ev domain.StatsEvent) {
	switch {
	case ev.OK:
		c.OK++
	case ev.Kind == domain.KindTransportFailure:
		c.TransportFailure++
	default:
		c.Other++
	}
}

// MemoryStatsStore é uma implementação simples em memória.
// Útil para testes, desenvolvimento e para o resumo do CLI.
//
// Não faz expiração e não é indicada para processos longos com trackActions.
type MemoryStatsStore struct {
	mu       sync.Mutex
	total    Counters
	byRoute  map[string]Counters
	byAction map[string]Counters
	byStatus map[int]int64

	trackActions bool
}

type MemoryStatsOption func(*MemoryStatsStore)

func WithTrackActions(track bool) MemoryStatsOption {
	return func(s *MemoryStatsStore) { s.trackActions = track }
}

func NewMemoryStatsStore(opts ...MemoryStatsOption) *MemoryStatsStore {
	s := &MemoryStatsStore{
		byRoute:  make(map[string]Counters),
		byAction: make(map[string]Counters),
		byStatus: make(map[int]int64),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// routeKey agrupa por versão, transporte e operação, ex: "v2 secure send_text".
func routeKey(ev domain.StatsEvent) string {
	scheme := "plain"
	if ev.Secure {
		scheme = "secure"
	}
	return ev.Version.String() + " " + scheme + " " + ev.Operation.String()
}

func (s *MemoryStatsStore) Record(_ context.Context, ev domain.StatsEvent) error {
	route := routeKey(ev)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.total.add(ev)

	c := s.byRoute[route]
	c.add(ev)
	s.byRoute[route] = c

	if ev.StatusCode != 0 {
		s.byStatus[ev.StatusCode]++
	}

	if s.trackActions {
		a := s.byAction[ev.Action]
		a.add(ev)
		s.byAction[ev.Action] = a
	}
	return nil
}

func (s *MemoryStatsStore) Total() Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

func (s *MemoryStatsStore) ByRoute() map[string]Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]Counters, len(s.byRoute))
	for k, v := range s.byRoute {
		out[k] = v
	}
	return out
}

func (s *MemoryStatsStore) ByAction() map[string]Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]Counters, len(s.byAction))
	for k, v := range s.byAction {
		out[k] = v
	}
	return out
}

func (s *MemoryStatsStore) ByStatus() map[int]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int]int64, len(s.byStatus))
	for k, v := range s.byStatus {
		out[k] = v
	}
	return out
}
