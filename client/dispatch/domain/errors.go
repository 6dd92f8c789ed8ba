package domain

import (
	"errors"
	"fmt"
)

// Kind classifica os erros que o dispatcher devolve ao chamador.
type Kind int

const (
	KindInvalidArgument Kind = iota + 1
	KindTransportFailure
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindTransportFailure:
		return "transport_failure"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error é o erro uniforme de domínio.
//
// Error() devolve Message sem prefixos: para falhas de transporte é o texto
// da falha original.
type Error struct {
	Kind    Kind
	Message string

	// Field é o argumento rejeitado (só InvalidArgument).
	Field string

	// StatusCode é o status HTTP quando a falha foi uma resposta não-2xx; 0 caso contrário.
	StatusCode int

	Err error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// Is casa com os sentinelas pelo Kind, ex: errors.Is(err, ErrTransportFailure).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Kind == e.Kind
}

var (
	ErrInvalidArgument  = &Error{Kind: KindInvalidArgument}
	ErrTransportFailure = &Error{Kind: KindTransportFailure}

	// ErrNoPermit indica que nenhuma vaga foi obtida antes do ctx encerrar.
	ErrNoPermit = errors.New("no dispatch permit available")
)

func InvalidArgument(field, msg string) *Error {
	return &Error{Kind: KindInvalidArgument, Field: field, Message: msg}
}

func IsInvalidArgument(err error) bool { return errors.Is(err, ErrInvalidArgument) }

func IsTransportFailure(err error) bool { return errors.Is(err, ErrTransportFailure) }

// TransportError é o que um Transport devolve para falhas de rede ou de status.
// O ErrorTranslator converte em KindTransportFailure.
type TransportError struct {
	Message    string
	StatusCode int
	Err        error
}

func NewTransportError(msg string) *TransportError {
	return &TransportError{Message: msg}
}

func (e *TransportError) Error() string {
	if e.Message == "" && e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *TransportError) Unwrap() error { return e.Err }
