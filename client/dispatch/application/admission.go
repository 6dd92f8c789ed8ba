package application

import (
	"context"
	"time"

	"stravan-client/client/dispatch/domain"
)

// AdmissionService decide se uma chamada de saída pode ir para a rede agora.
// O pool limita quantas chamadas à API ficam em voo no processo inteiro.
type AdmissionService struct {
	Pool domain.SlotPool

	// AcquireTimeout limita a espera por vaga. 0 = espera até ctx acabar.
	AcquireTimeout time.Duration
}

// Acquire devolve (release, true) com a vaga tomada, ou (nil, false) quando
// ctx ou AcquireTimeout vencem antes. Sem pool, toda chamada é admitida.
func (s AdmissionService) Acquire(ctx context.Context) (func(), bool) {
	if s.Pool == nil {
		return func() {}, true
	}
	if s.AcquireTimeout <= 0 {
		return s.Pool.Acquire(ctx)
	}

	waitCtx, cancel := context.WithTimeout(ctx, s.AcquireTimeout)
	defer cancel()
	return s.Pool.Acquire(waitCtx)
}
