package infra

import (
	"context"
	"sync"
	"time"

	"stravan-client/client/dispatch/domain"

	"golang.org/x/time/rate"
)

// PaceStore espaça as chamadas de saída com um token bucket por base URL,
// para que o cliente não estoure a cota do lado da Strava. O pacing acontece
// antes da admissão: quem espera por token não segura vaga do pool.
//
// Base URLs sem uso por idleTTL são esquecidas pelo janitor.
type PaceStore struct {
	mu      sync.Mutex
	buckets map[string]*bucket

	limit rate.Limit
	burst int

	idleTTL      time.Duration
	cleanupEvery time.Duration
}

type bucket struct {
	lim      *rate.Limiter
	lastUsed time.Time
}

type PaceOption func(*PaceStore)

func WithIdleTTL(d time.Duration) PaceOption {
	return func(s *PaceStore) { s.idleTTL = d }
}

// WithCleanupEvery define o intervalo do janitor; 0 desliga.
func WithCleanupEvery(d time.Duration) PaceOption {
	return func(s *PaceStore) { s.cleanupEvery = d }
}

// NewPaceStore permite rps chamadas por segundo por base URL, com rajada de
// até burst. burst < 1 vira 1: com 0 nenhum Wait passaria.
func NewPaceStore(rps float64, burst int, opts ...PaceOption) *PaceStore {
	s := &PaceStore{
		buckets:      make(map[string]*bucket),
		limit:        rate.Limit(rps),
		burst:        max(burst, 1),
		idleTTL:      15 * time.Minute,
		cleanupEvery: 2 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get devolve o bucket da base URL, criando na primeira chamada.
func (s *PaceStore) Get(baseURL domain.Key) domain.Pacer {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.buckets[string(baseURL)]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(s.limit, s.burst)}
		s.buckets[string(baseURL)] = b
	}
	b.lastUsed = now
	return b.lim
}

func (s *PaceStore) cleanup() {
	cutoff := time.Now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, b := range s.buckets {
		if b.lastUsed.Before(cutoff) {
			delete(s.buckets, k)
		}
	}
}

// StartJanitor limpa buckets ociosos em background até ctx acabar.
func (s *PaceStore) StartJanitor(ctx context.Context) {
	if s.cleanupEvery <= 0 {
		return
	}

	t := time.NewTicker(s.cleanupEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.cleanup()
			}
		}
	}()
}
