package infra

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"stravan-client/client/dispatch/domain"
)

// HTTPTransport executa cada Call com um http.Client e um http.Transport novos,
// keep-alive desligado, descartados ao final. Só a contagem de admissão é
// compartilhada entre chamadas; a conexão nunca é.
type HTTPTransport struct {
	// Timeout total da chamada. 0 = sem timeout.
	Timeout   time.Duration
	UserAgent string

	// TLSConfig opcional (testes com httptest.NewTLSServer).
	TLSConfig *tls.Config

	// newTransport existe para os testes contarem conexões criadas.
	newTransport func() *http.Transport
}

func (t *HTTPTransport) Do(ctx context.Context, c domain.Call) ([]byte, error) {
	tr := t.transport()
	defer tr.CloseIdleConnections()

	client := &http.Client{Transport: tr, Timeout: t.Timeout}

	var body io.Reader
	if c.Body != nil {
		body = bytes.NewReader(c.Body)
	}
	req, err := http.NewRequestWithContext(ctx, c.Method, c.URL, body)
	if err != nil {
		return nil, fmt.Errorf("http transport: build request: %w", err)
	}
	req.Close = true
	if c.ContentType != "" {
		req.Header.Set("Content-Type", c.ContentType)
	}
	if t.UserAgent != "" {
		req.Header.Set("User-Agent", t.UserAgent)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, &domain.TransportError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.TransportError{Err: err, StatusCode: resp.StatusCode}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.TransportError{
			Message:    fmt.Sprintf("unexpected status %s", resp.Status),
			StatusCode: resp.StatusCode,
		}
	}
	return data, nil
}

func (t *HTTPTransport) transport() *http.Transport {
	if t.newTransport != nil {
		return t.newTransport()
	}
	tlsCfg := t.TLSConfig
	if tlsCfg == nil {
		tlsCfg = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	// sem timeouts de dial/handshake: o limite, se houver, é Timeout ou o ctx.
	return &http.Transport{
		Proxy:             http.ProxyFromEnvironment,
		TLSClientConfig:   tlsCfg,
		DialContext:       (&net.Dialer{}).DialContext,
		DisableKeepAlives: true,
	}
}
