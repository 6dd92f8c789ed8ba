package infra

import (
	"context"
	"strconv"

	"stravan-client/client/dispatch/domain"

	"github.com/prometheus/client_golang/prometheus"
)

// PromStatsStore exporta as estatísticas de despacho como métricas Prometheus.
//
// Labels têm cardinalidade fixa (versão, secure, operação, desfecho); a action
// não vira label.
type PromStatsStore struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	statuses *prometheus.CounterVec
}

// NewPromStatsStore registra os coletores em reg. Com pool != nil também
// exporta as vagas em uso e a capacidade.
func NewPromStatsStore(reg prometheus.Registerer, pool *ChanPool) (*PromStatsStore, error) {
	s := &PromStatsStore{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stravan",
			Subsystem: "dispatch",
			Name:      "requests_total",
			Help:      "Dispatched API calls by version, transport, operation and outcome.",
		}, []string{"version", "secure", "operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "stravan",
			Subsystem: "dispatch",
			Name:      "duration_seconds",
			Help:      "Time from admission request to outcome.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"version", "operation"}),
		statuses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stravan",
			Subsystem: "dispatch",
			Name:      "http_failures_total",
			Help:      "Non-2xx responses by status code.",
		}, []string{"code"}),
	}

	collectors := []prometheus.Collector{s.requests, s.duration, s.statuses}
	if pool != nil {
		collectors = append(collectors,
			prometheus.NewGaugeFunc(prometheus.GaugeOpts{
				Namespace: "stravan",
				Subsystem: "dispatch",
				Name:      "permits_in_use",
				Help:      "Admission permits currently held.",
			}, func() float64 { return float64(pool.InUse()) }),
			prometheus.NewGaugeFunc(prometheus.GaugeOpts{
				Namespace: "stravan",
				Subsystem: "dispatch",
				Name:      "permits_capacity",
				Help:      "Admission pool capacity.",
			}, func() float64 { return float64(pool.Capacity()) }),
		)
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *PromStatsStore) Record(_ context.Context, ev domain.StatsEvent) error {
	version := ev.Version.String()
	op := ev.Operation.String()

	s.requests.WithLabelValues(version, strconv.FormatBool(ev.Secure), op, outcomeField(ev)).Inc()
	s.duration.WithLabelValues(version, op).Observe(ev.Duration.Seconds())
	if ev.StatusCode != 0 {
		s.statuses.WithLabelValues(strconv.Itoa(ev.StatusCode)).Inc()
	}
	return nil
}
