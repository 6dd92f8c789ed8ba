package domain

import (
	"errors"
	"fmt"
)

// APIVersion identifica uma das versões (incompatíveis entre si) da API remota.
type APIVersion int

const (
	V1 APIVersion = iota + 1
	V2
)

func (v APIVersion) String() string {
	switch v {
	case V1:
		return "v1"
	case V2:
		return "v2"
	default:
		return fmt.Sprintf("APIVersion(%d)", int(v))
	}
}

// Valid informa se v pertence ao enum fechado de versões.
func (v APIVersion) Valid() bool { return v == V1 || v == V2 }

var ErrUnknownVersion = errors.New("unknown api version")

// VersionEntry é uma linha imutável da configuração de versões.
type VersionEntry struct {
	Version       APIVersion
	BaseURL       string
	SecureBaseURL string
}

// VersionRegistry é a tabela estática (versão, secure) -> base URL.
//
// Construída uma vez no startup; depois disso só é lida, então pode ser
// compartilhada entre goroutines sem lock.
type VersionRegistry struct {
	entries map[APIVersion]VersionEntry
}

// NewVersionRegistry exige exatamente uma entrada para cada versão suportada.
func NewVersionRegistry(entries ...VersionEntry) (*VersionRegistry, error) {
	r := &VersionRegistry{entries: make(map[APIVersion]VersionEntry, len(entries))}
	for _, e := range entries {
		if !e.Version.Valid() {
			return nil, fmt.Errorf("version registry: %w: %s", ErrUnknownVersion, e.Version)
		}
		if _, dup := r.entries[e.Version]; dup {
			return nil, fmt.Errorf("version registry: duplicated entry for %s", e.Version)
		}
		if e.BaseURL == "" || e.SecureBaseURL == "" {
			return nil, fmt.Errorf("version registry: empty base url for %s", e.Version)
		}
		r.entries[e.Version] = e
	}
	for _, v := range []APIVersion{V1, V2} {
		if _, ok := r.entries[v]; !ok {
			return nil, fmt.Errorf("version registry: missing entry for %s", v)
		}
	}
	return r, nil
}

// Resolve implementa a tabela de roteamento de 4 entradas.
func (r *VersionRegistry) Resolve(v APIVersion, secure bool) (string, error) {
	e, ok := r.entries[v]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownVersion, v)
	}
	if secure {
		return e.SecureBaseURL, nil
	}
	return e.BaseURL, nil
}
