package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCountersRegisterAndCount(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Login(ResultSuccess)
	m.Login(ResultSuccess)
	m.Login(ResultInvalidCredentials)
	m.Registration(ResultConflict)
	m.TokenVerification(ResultMissing)

	require.Equal(t, 2.0, testutil.ToFloat64(m.Logins.WithLabelValues(ResultSuccess)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Logins.WithLabelValues(ResultInvalidCredentials)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Registrations.WithLabelValues(ResultConflict)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.TokenVerifications.WithLabelValues(ResultMissing)))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	require.True(t, names["identity_logins_total"])
	require.True(t, names["identity_registrations_total"])
	require.True(t, names["identity_token_verifications_total"])
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	require.NotPanics(t, func() {
		m.Login(ResultSuccess)
		m.Registration(ResultSuccess)
		m.TokenVerification(ResultValid)
	})
}
