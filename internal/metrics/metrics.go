// Package metrics holds the Prometheus counters of the identity service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Result labels.
const (
	ResultSuccess            = "success"
	ResultInvalidCredentials = "invalid_credentials"
	ResultConflict           = "conflict"
	ResultInvalid            = "invalid"
	ResultMissing            = "missing"
	ResultValid              = "valid"
	ResultError              = "error"
)

// Metrics groups the counters exported by the service.
type Metrics struct {
	Logins             *prometheus.CounterVec
	Registrations      *prometheus.CounterVec
	TokenVerifications *prometheus.CounterVec
}

// New creates the counters and registers them on reg. A nil reg leaves them
// unregistered, which is what tests usually want.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "identity",
			Name:      "logins_total",
			Help:      "Password authentication attempts by result.",
		}, []string{"result"}),
		Registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "identity",
			Name:      "registrations_total",
			Help:      "User registrations by result.",
		}, []string{"result"}),
		TokenVerifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "identity",
			Name:      "token_verifications_total",
			Help:      "Bearer token checks performed by the auth middleware.",
		}, []string{"result"}),
	}
	if reg != nil {
		reg.MustRegister(m.Logins, m.Registrations, m.TokenVerifications)
	}
	return m
}

// Login records a login attempt outcome.
func (m *Metrics) Login(result string) {
	if m == nil {
		return
	}
	m.Logins.WithLabelValues(result).Inc()
}

// Registration records a registration outcome.
func (m *Metrics) Registration(result string) {
	if m == nil {
		return
	}
	m.Registrations.WithLabelValues(result).Inc()
}

// TokenVerification records a middleware token check outcome.
func (m *Metrics) TokenVerification(result string) {
	if m == nil {
		return
	}
	m.TokenVerifications.WithLabelValues(result).Inc()
}
