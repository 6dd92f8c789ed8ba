package domain

import (
	"context"
	"time"
)

// StatsEvent representa o desfecho de uma chamada despachada.
//
// Observação: cuidado com cardinalidade (ex.: Action com ids embutidos pode
// explodir o número de séries/chaves em Redis/Prometheus). Por isso os stores
// só contam por action quando isso é pedido explicitamente.
type StatsEvent struct {
	RequestID string
	Action    string
	Version   APIVersion
	Secure    bool
	Operation Operation

	OK bool
	// Kind é zero quando OK, ou quando o erro não foi classificado.
	Kind       Kind
	StatusCode int

	Duration time.Duration
	At       time.Time
}

// StatsStore é a estratégia de persistência para estatísticas de despacho.
//
// Implementações podem armazenar em Redis, Prometheus, memória, etc.
// O dispatcher trata erro como best-effort (não derruba a chamada).
type StatsStore interface {
	Record(ctx context.Context, ev StatsEvent) error
}
