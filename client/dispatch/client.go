package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"stravan-client/client/config"
	"stravan-client/client/dispatch/application"
	"stravan-client/client/dispatch/domain"
	"stravan-client/client/dispatch/infra"
	"stravan-client/client/logging"
)

type Options struct {
	// Versions alimenta a VersionRegistry; precisa ter V1 e V2.
	Versions []domain.VersionEntry

	// PoolSize é ignorado quando Pool vem preenchido.
	PoolSize int
	Pool     *infra.ChanPool

	AcquireTimeout time.Duration

	// Transport padrão: infra.HTTPTransport com RequestTimeout e UserAgent.
	Transport      domain.Transport
	RequestTimeout time.Duration
	UserAgent      string

	Pacers domain.PacerStore
	Stats  domain.StatsStore
	Logger logging.Logger

	NewRequestID func() string
}

type Client struct {
	d    application.Dispatcher
	pool *infra.ChanPool

	stats    domain.StatsStore
	gatherer prometheus.Gatherer
	closers  []func() error
}

func New(opts Options) (*Client, error) {
	reg, err := domain.NewVersionRegistry(opts.Versions...)
	if err != nil {
		return nil, fmt.Errorf("dispatch: %w", err)
	}

	pool := opts.Pool
	if pool == nil {
		if opts.PoolSize <= 0 {
			return nil, errors.New("dispatch: pool size must be > 0")
		}
		pool = infra.NewChanPool(opts.PoolSize)
	}

	tr := opts.Transport
	if tr == nil {
		tr = &infra.HTTPTransport{Timeout: opts.RequestTimeout, UserAgent: opts.UserAgent}
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	return &Client{
		d: application.Dispatcher{
			Registry: reg,
			Admission: application.AdmissionService{
				Pool:           pool,
				AcquireTimeout: opts.AcquireTimeout,
			},
			Transport:    tr,
			Pacers:       opts.Pacers,
			Stats:        opts.Stats,
			Logger:       logger,
			NewRequestID: opts.NewRequestID,
		},
		pool:  pool,
		stats: opts.Stats,
	}, nil
}

// NewFromConfig monta o Client a partir de config.Config, incluindo pacing e o
// backend de stats. ctx controla a vida do janitor do pacing.
//
// Com STATS_BACKEND=redis o servidor precisa responder ao ping.
func NewFromConfig(ctx context.Context, cfg *config.Config, logger logging.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pool := infra.NewChanPool(cfg.PoolSize)
	opts := Options{
		Versions:       cfg.VersionEntries(),
		Pool:           pool,
		AcquireTimeout: cfg.AcquireTimeout,
		RequestTimeout: cfg.RequestTimeout,
		UserAgent:      cfg.UserAgent,
		Logger:         logger,
	}

	if cfg.RateRPS > 0 {
		pacers := infra.NewPaceStore(cfg.RateRPS, cfg.RateBurst)
		pacers.StartJanitor(ctx)
		opts.Pacers = pacers
	}

	var (
		gatherer prometheus.Gatherer
		closers  []func() error
	)
	switch cfg.StatsBackend {
	case config.StatsMemory:
		opts.Stats = infra.NewMemoryStatsStore(infra.WithTrackActions(cfg.StatsTrackActions))
	case config.StatsPrometheus:
		reg := prometheus.NewRegistry()
		store, err := infra.NewPromStatsStore(reg, pool)
		if err != nil {
			return nil, fmt.Errorf("dispatch: prometheus stats: %w", err)
		}
		opts.Stats = store
		gatherer = reg
	case config.StatsRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.StatsRedisAddr,
			Password: cfg.StatsRedisPassword,
			DB:       cfg.StatsRedisDB,
		})

		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		_, err := rdb.Ping(pingCtx).Result()
		cancel()
		if err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("dispatch: redis stats ping: %w", err)
		}

		opts.Stats = infra.NewRedisStatsStore(
			rdb,
			infra.WithStatsPrefix(cfg.StatsPrefix),
			infra.WithStatsTTL(cfg.StatsTTL),
			infra.WithStatsBucket(cfg.StatsBucket),
			infra.WithStatsTrackActions(cfg.StatsTrackActions),
		)
		closers = append(closers, rdb.Close)
	}

	c, err := New(opts)
	if err != nil {
		for _, fn := range closers {
			_ = fn()
		}
		return nil, err
	}
	c.gatherer = gatherer
	c.closers = closers
	return c, nil
}

// Close libera os recursos do backend de stats. Chamadas em voo não são canceladas.
func (c *Client) Close() error {
	var errs []error
	for _, fn := range c.closers {
		errs = append(errs, fn())
	}
	c.closers = nil
	return errors.Join(errs...)
}

// Stats devolve o StatsStore em uso (nil se desligado).
func (c *Client) Stats() domain.StatsStore { return c.stats }

// Gatherer devolve o registry prometheus quando STATS_BACKEND=prometheus.
func (c *Client) Gatherer() prometheus.Gatherer { return c.gatherer }

func (c *Client) InUse() int    { return c.pool.InUse() }
func (c *Client) PoolSize() int { return c.pool.Capacity() }

// FetchText faz GET (ou POST de formulário, com WithForm) e devolve o corpo como texto.
func (c *Client) FetchText(ctx context.Context, action string, opts ...CallOption) (string, error) {
	return c.d.ExecuteText(ctx, newSpec(action, domain.FetchText, nil, opts))
}

// FetchBytes é FetchText sem decodificação.
func (c *Client) FetchBytes(ctx context.Context, action string, opts ...CallOption) ([]byte, error) {
	return c.d.Execute(ctx, newSpec(action, domain.FetchBytes, nil, opts))
}

// SendText envia body como POST bruto (JSON por padrão) e devolve a resposta em texto.
func (c *Client) SendText(ctx context.Context, action, body string, opts ...CallOption) (string, error) {
	return c.d.ExecuteText(ctx, newSpec(action, domain.SendText, []byte(body), opts))
}

func (c *Client) SendBytes(ctx context.Context, action string, body []byte, opts ...CallOption) ([]byte, error) {
	return c.d.Execute(ctx, newSpec(action, domain.SendBytes, body, opts))
}

func newSpec(action string, op domain.Operation, body []byte, opts []CallOption) domain.RequestSpec {
	spec := domain.RequestSpec{
		Action:    action,
		Operation: op,
		Version:   domain.V1,
		Body:      body,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&spec)
		}
	}
	return spec
}
