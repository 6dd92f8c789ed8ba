package main

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"stravan-client/client/config"
	"stravan-client/client/dispatch"
	"stravan-client/client/dispatch/domain"
)

// callFlags são as flags comuns a fetch e send.
type callFlags struct {
	query   []string
	secure  bool
	api     string
	require []string
	jq      string
}

func (f *callFlags) register(fs *pflag.FlagSet) {
	fs.StringArrayVarP(&f.query, "query", "q", nil, "Query parameter key=value (repeatable)")
	fs.BoolVar(&f.secure, "secure", false, "Use the HTTPS base URL")
	fs.StringVar(&f.api, "api", "1", "API version (1 or 2)")
	fs.StringArrayVar(&f.require, "require", nil, "Parameter that must be present (repeatable)")
	fs.StringVar(&f.jq, "jq", "", "jq expression applied to each JSON response")
}

func (f *callFlags) options() ([]dispatch.CallOption, error) {
	version, err := config.ParseVersion(f.api)
	if err != nil {
		return nil, domain.InvalidArgument("version", err.Error())
	}
	query, err := parseParams(f.query)
	if err != nil {
		return nil, err
	}

	opts := []dispatch.CallOption{
		dispatch.WithVersion(version),
		dispatch.WithQueryParams(query),
		dispatch.Require(f.require...),
	}
	if f.secure {
		opts = append(opts, dispatch.Secure())
	}
	return opts, nil
}

// parseParams converte "k=v" em Params, mantendo ordem e repetições.
// Só o primeiro "=" separa; o valor pode ser vazio.
func parseParams(pairs []string) (domain.Params, error) {
	var p domain.Params
	for _, kv := range pairs {
		key, value, ok := strings.Cut(kv, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, domain.InvalidArgument("param", fmt.Sprintf("expected key=value, got %q", kv))
		}
		p = p.Add(key, value)
	}
	return p, nil
}
