package infra

import (
	"context"
	"sync"
)

// ChanPool é um pool de vagas baseado em channel com capacidade fixa.
// A ordem entre quem espera não é FIFO.
type ChanPool struct {
	sem chan struct{}
}

// NewChanPool cria um pool simples baseado em channel com capacidade `max`.
// max <= 0 vira 1.
func NewChanPool(max int) *ChanPool {
	if max <= 0 {
		max = 1
	}
	return &ChanPool{sem: make(chan struct{}, max)}
}

// Acquire bloqueia até haver vaga ou o ctx encerrar.
// O release é idempotente: chamar duas vezes devolve uma vaga só.
func (p *ChanPool) Acquire(ctx context.Context) (func(), bool) {
	select {
	case p.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, false
	}

	var once sync.Once
	return func() { once.Do(func() { <-p.sem }) }, true
}

func (p *ChanPool) InUse() int    { return len(p.sem) }
func (p *ChanPool) Capacity() int { return cap(p.sem) }
