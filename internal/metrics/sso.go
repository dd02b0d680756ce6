package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// SSO Prometheus metrics. Defined in a standalone package to avoid import
// cycles between the sso core and HTTP packages.

var (
	LoginAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sso_login_attempts_total",
		Help: "Login attempts by provider and outcome",
	}, []string{"provider", "status"})

	ExchangeLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sso_code_exchange_latency_ms",
		Help:    "Latencia del intercambio de código en milisegundos",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	}, []string{"provider"})

	ProviderErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sso_provider_errors_total",
		Help: "Provider round-trip failures by provider and stage",
	}, []string{"provider", "stage"})
)

// Register registers the SSO metrics on the given registry (or default if nil).
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{LoginAttempts, ExchangeLatency, ProviderErrors} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}
