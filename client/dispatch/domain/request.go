package domain

import (
	"fmt"
	"net/url"
	"strings"
)

// Operation é o tipo de chamada de transporte que o dispatcher executa.
type Operation int

const (
	FetchText Operation = iota + 1
	FetchBytes
	SendText
	SendBytes
)

func (o Operation) String() string {
	switch o {
	case FetchText:
		return "fetch_text"
	case FetchBytes:
		return "fetch_bytes"
	case SendText:
		return "send_text"
	case SendBytes:
		return "send_bytes"
	default:
		return fmt.Sprintf("Operation(%d)", int(o))
	}
}

// IsSend informa se a operação envia um corpo bruto.
func (o Operation) IsSend() bool { return o == SendText || o == SendBytes }

// IsText informa se o resultado deve ser decodificado como texto.
func (o Operation) IsText() bool { return o == FetchText || o == SendText }

func (o Operation) valid() bool { return o >= FetchText && o <= SendBytes }

// Param é um par chave/valor de query string ou formulário.
type Param struct {
	Key   string
	Value string
}

// Params é um multimap ordenado: chaves podem repetir e a ordem de inserção
// é mantida na codificação (url.Values ordena por chave, por isso não serve aqui).
type Params []Param

// P monta Params a partir de pares chave, valor, chave, valor...
// Um número ímpar de argumentos descarta o último.
func P(kv ...string) Params {
	out := make(Params, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, Param{Key: kv[i], Value: kv[i+1]})
	}
	return out
}

func (p Params) Add(key, value string) Params {
	return append(p, Param{Key: key, Value: value})
}

// Get devolve o primeiro valor para key.
func (p Params) Get(key string) (string, bool) {
	for _, kv := range p {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

// Encode gera "k=v&k=v" com percent-encoding, na ordem de inserção.
func (p Params) Encode() string {
	if len(p) == 0 {
		return ""
	}
	var b strings.Builder
	for i, kv := range p {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(kv.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(kv.Value))
	}
	return b.String()
}

// RequestSpec descreve uma chamada lógica a uma action da API.
type RequestSpec struct {
	Action string
	Query  Params
	Form   Params

	// Body é o payload bruto das operações Send*. Texto já vem em UTF-8.
	Body        []byte
	ContentType string

	Secure    bool
	Version   APIVersion
	Operation Operation

	// Required lista parâmetros obrigatórios da action (ex: "token").
	// Cada um precisa existir, não vazio, em Query ou Form.
	Required []string
}

// Validate rejeita a chamada antes de qualquer permit ou I/O.
func (s RequestSpec) Validate() error {
	if strings.TrimSpace(s.Action) == "" {
		return InvalidArgument("action", "action is required")
	}
	if !s.Operation.valid() {
		return InvalidArgument("operation", fmt.Sprintf("unsupported operation %s", s.Operation))
	}
	if !s.Version.Valid() {
		return InvalidArgument("version", fmt.Sprintf("unsupported api version %s", s.Version))
	}
	if s.Operation.IsSend() {
		if s.Body == nil {
			return InvalidArgument("body", "body is required for "+s.Operation.String())
		}
		if len(s.Form) > 0 {
			return InvalidArgument("form", "form parameters are not allowed with a raw body")
		}
	} else if s.Body != nil {
		return InvalidArgument("body", "raw body is not allowed for "+s.Operation.String())
	}
	for _, key := range s.Required {
		if v, ok := s.Query.Get(key); ok && v != "" {
			continue
		}
		if v, ok := s.Form.Get(key); ok && v != "" {
			continue
		}
		return InvalidArgument(key, key+" is required")
	}
	return nil
}
