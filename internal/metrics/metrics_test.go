package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)

	m.StampGenerated("hospital")
	m.StampGenerated("hospital")
	m.StampGenerated("doctor")
	m.DocumentLoaded("PDF")
	m.PreviewRendered()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.stampsGenerated.WithLabelValues("hospital")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.stampsGenerated.WithLabelValues("doctor")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.documentsLoaded.WithLabelValues("PDF")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.previewsRendered))
}

func TestNilReceiverIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.StampGenerated("hospital")
		m.DocumentLoaded("IMAGE")
		m.PreviewRendered()
	})
}

func TestDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)
	_, err = New(reg)
	assert.Error(t, err)
}
