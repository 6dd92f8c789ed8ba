package application

import (
	"context"
	"errors"
	"net"

	"stravan-client/client/dispatch/domain"
)

// TranslateError converte falhas de transporte em *domain.Error com
// KindTransportFailure, preservando a mensagem original.
//
// Só conta como falha de transporte o que veio da rede: *domain.TransportError
// (como o HTTPTransport reporta) ou um erro de socket/DNS/deadline cru. Erro ao
// montar a requisição (URL inválida, método inválido) é bug do chamador e
// volta sem alteração, mesmo sendo um *url.Error.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}

	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}

	var te *domain.TransportError
	if errors.As(err, &te) {
		return &domain.Error{
			Kind:       domain.KindTransportFailure,
			Message:    te.Error(),
			StatusCode: te.StatusCode,
			Err:        err,
		}
	}

	if isNetworkError(err) {
		return &domain.Error{Kind: domain.KindTransportFailure, Message: err.Error(), Err: err}
	}
	return err
}

func isNetworkError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
