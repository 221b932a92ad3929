package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry(t *testing.T) {
	// Two registries may share the package collectors.
	first := NewRegistry()
	second := NewRegistry()

	before := testutil.ToFloat64(SimplifyErrors.WithLabelValues("test"))
	SimplifyErrors.WithLabelValues("test").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(SimplifyErrors.WithLabelValues("test")))

	families, err := first.Gather()
	require.NoError(t, err)
	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["dues_simplify_errors_total"])

	_, err = second.Gather()
	require.NoError(t, err)
}
