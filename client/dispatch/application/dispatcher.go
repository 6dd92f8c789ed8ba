package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"stravan-client/client/dispatch/domain"
	"stravan-client/client/logging"
)

const (
	methodGet  = "GET"
	methodPost = "POST"

	formContentType    = "application/x-www-form-urlencoded"
	defaultContentType = "application/json"
)

// Dispatcher transforma uma RequestSpec em uma chamada admitida, roteada por
// versão e executada pelo Transport, com liberação garantida da vaga.
//
// Estados por chamada: validação -> (pacing) -> admissão -> execução -> liberação.
// Nenhuma tentativa é repetida: uma chamada admitida, um desfecho.
type Dispatcher struct {
	Registry  *domain.VersionRegistry
	Admission AdmissionService
	Transport domain.Transport

	// Opcionais.
	Pacers domain.PacerStore
	Stats  domain.StatsStore
	Logger logging.Logger

	// NewRequestID gera o id de correlação da chamada. Padrão: uuid v4.
	NewRequestID func() string
}

// Execute despacha spec e devolve os bytes brutos da resposta.
//
// Erros:
//   - *domain.Error KindInvalidArgument: antes de qualquer vaga ou I/O;
//   - *domain.Error KindTransportFailure: falha de rede/status, depois da vaga liberada;
//   - qualquer outro erro (ou panic) é propagado sem tradução.
func (d Dispatcher) Execute(ctx context.Context, spec domain.RequestSpec) ([]byte, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	baseURL, err := d.Registry.Resolve(spec.Version, spec.Secure)
	if err != nil {
		return nil, err
	}

	id := d.requestID()
	start := time.Now()

	data, err := d.execute(ctx, spec, baseURL)

	d.record(ctx, id, spec, start, err)
	if err != nil {
		d.logger().Debug(ctx, "dispatch failed",
			logging.RequestIDKey, id,
			logging.ActionKey, spec.Action,
			logging.VersionKey, spec.Version.String(),
			logging.SecureKey, spec.Secure,
			logging.DurationKey, time.Since(start).Milliseconds(),
			"error", err.Error(),
		)
		return nil, err
	}
	return data, nil
}

// ExecuteText é Execute com a resposta decodificada como UTF-8.
// Sequências inválidas viram U+FFFD.
func (d Dispatcher) ExecuteText(ctx context.Context, spec domain.RequestSpec) (string, error) {
	data, err := d.Execute(ctx, spec)
	if err != nil {
		return "", err
	}
	return DecodeText(data), nil
}

func DecodeText(b []byte) string {
	return strings.ToValidUTF8(string(b), "�")
}

func (d Dispatcher) execute(ctx context.Context, spec domain.RequestSpec, baseURL string) ([]byte, error) {
	if d.Pacers != nil {
		if p := d.Pacers.Get(domain.Key(baseURL)); p != nil {
			if err := p.Wait(ctx); err != nil {
				return nil, fmt.Errorf("dispatch: pacing %s: %w", baseURL, err)
			}
		}
	}

	release, ok := d.Admission.Acquire(ctx)
	if !ok {
		cause := ctx.Err()
		if cause == nil {
			cause = context.DeadlineExceeded
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrNoPermit, cause)
	}
	defer release()

	data, err := d.Transport.Do(ctx, buildCall(spec, baseURL))
	if err != nil {
		return nil, TranslateError(err)
	}
	return data, nil
}

func buildCall(spec domain.RequestSpec, baseURL string) domain.Call {
	c := domain.Call{
		Method: methodGet,
		URL:    BuildURL(baseURL, spec.Action, spec.Query),
	}
	switch {
	case spec.Operation.IsSend():
		c.Method = methodPost
		c.Body = spec.Body
		c.ContentType = spec.ContentType
		if c.ContentType == "" {
			c.ContentType = defaultContentType
		}
	case len(spec.Form) > 0:
		c.Method = methodPost
		c.Body = []byte(spec.Form.Encode())
		c.ContentType = formContentType
	}
	return c
}

func (d Dispatcher) record(ctx context.Context, id string, spec domain.RequestSpec, start time.Time, err error) {
	if d.Stats == nil {
		return
	}
	ev := domain.StatsEvent{
		RequestID: id,
		Action:    spec.Action,
		Version:   spec.Version,
		Secure:    spec.Secure,
		Operation: spec.Operation,
		OK:        err == nil,
		Duration:  time.Since(start),
		At:        start,
	}
	var de *domain.Error
	if errors.As(err, &de) {
		ev.Kind = de.Kind
		ev.StatusCode = de.StatusCode
	}
	if rerr := d.Stats.Record(ctx, ev); rerr != nil {
		d.logger().Warn(ctx, "dispatch stats record failed", logging.RequestIDKey, id, "error", rerr.Error())
	}
}

func (d Dispatcher) requestID() string {
	if d.NewRequestID != nil {
		return d.NewRequestID()
	}
	return uuid.NewString()
}

func (d Dispatcher) logger() logging.Logger {
	if d.Logger == nil {
		return logging.Nop()
	}
	return d.Logger
}
