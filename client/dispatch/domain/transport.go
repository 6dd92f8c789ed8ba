package domain

import "context"

// Call é uma única ida e volta ao servidor remoto, já resolvida.
type Call struct {
	Method      string
	URL         string
	Body        []byte
	ContentType string
}

// Transport executa uma Call usando uma conexão nova, descartada ao final.
//
// Falhas de rede ou status não-2xx devem vir como *TransportError
// (ou erros que o envolvem). Qualquer outro erro é propagado sem tradução.
type Transport interface {
	Do(ctx context.Context, c Call) ([]byte, error)
}
