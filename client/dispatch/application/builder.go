package application

import (
	"strings"

	"stravan-client/client/dispatch/domain"
)

// BuildURL monta baseURL + action e anexa a query na ordem de inserção,
// sem colapsar chaves repetidas.
func BuildURL(baseURL, action string, query domain.Params) string {
	u := baseURL + action
	qs := query.Encode()
	if qs == "" {
		return u
	}
	sep := "?"
	if strings.Contains(action, "?") {
		sep = "&"
	}
	return u + sep + qs
}
