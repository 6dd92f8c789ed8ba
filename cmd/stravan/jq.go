package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/itchyny/gojq"
)

// jqFilter aplica uma expressão jq já compilada. Sem expressão, imprime a
// resposta como veio.
type jqFilter struct {
	code *gojq.Code
}

func newJQFilter(expr string) (*jqFilter, error) {
	if strings.TrimSpace(expr) == "" {
		return &jqFilter{}, nil
	}
	query, err := gojq.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid jq expression: %w", err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("jq compilation failed: %w", err)
	}
	return &jqFilter{code: code}, nil
}

// print escreve cada resultado em uma linha; strings saem sem aspas.
func (f *jqFilter) print(ctx context.Context, w io.Writer, body string) error {
	if f.code == nil {
		_, err := fmt.Fprintln(w, body)
		return err
	}

	var data any
	if err := json.Unmarshal([]byte(body), &data); err != nil {
		return fmt.Errorf("jq: response is not JSON: %w", err)
	}

	iter := f.code.RunWithContext(ctx, data)
	for {
		v, ok := iter.Next()
		if !ok {
			return nil
		}
		if err, isErr := v.(error); isErr {
			return fmt.Errorf("jq: %w", err)
		}
		if s, isStr := v.(string); isStr {
			if _, err := fmt.Fprintln(w, s); err != nil {
				return err
			}
			continue
		}
		out, err := json.Marshal(v)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, string(out)); err != nil {
			return err
		}
	}
}
