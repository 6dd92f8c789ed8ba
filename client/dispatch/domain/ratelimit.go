package domain

// Camada de domínio do pacing do lado do cliente.
//
// Contratos sem dependência de net/http. O pacing é opcional e vem desligado:
// a API remota impõe limites por janela e quem chama pode preferir esperar
// localmente a receber erros de status.

import "context"

type Key string

// Pacer espera até que uma nova chamada possa sair.
//
// Observação: *rate.Limiter (golang.org/x/time/rate) já satisfaz esta interface.
type Pacer interface {
	Wait(ctx context.Context) error
}

// PacerStore obtém um pacer por chave (ex: base URL).
// A implementação pode manter cache, TTL, etc.
type PacerStore interface {
	Get(Key) Pacer
}
