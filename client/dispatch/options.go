package dispatch

import "stravan-client/client/dispatch/domain"

// CallOption ajusta uma chamada. Padrões: versão V1, sem TLS.
type CallOption func(*domain.RequestSpec)

// WithQuery acrescenta k=v à query string; chaves repetidas são mantidas na ordem.
func WithQuery(key, value string) CallOption {
	return func(s *domain.RequestSpec) { s.Query = s.Query.Add(key, value) }
}

func WithQueryParams(p domain.Params) CallOption {
	return func(s *domain.RequestSpec) { s.Query = append(s.Query, p...) }
}

// WithForm transforma um Fetch em POST application/x-www-form-urlencoded.
func WithForm(key, value string) CallOption {
	return func(s *domain.RequestSpec) { s.Form = s.Form.Add(key, value) }
}

func WithFormParams(p domain.Params) CallOption {
	return func(s *domain.RequestSpec) { s.Form = append(s.Form, p...) }
}

func Secure() CallOption {
	return func(s *domain.RequestSpec) { s.Secure = true }
}

func WithVersion(v domain.APIVersion) CallOption {
	return func(s *domain.RequestSpec) { s.Version = v }
}

// Require marca parâmetros obrigatórios; faltando algum, a chamada falha
// com InvalidArgument sem ocupar vaga.
func Require(keys ...string) CallOption {
	return func(s *domain.RequestSpec) { s.Required = append(s.Required, keys...) }
}

func WithContentType(ct string) CallOption {
	return func(s *domain.RequestSpec) { s.ContentType = ct }
}
