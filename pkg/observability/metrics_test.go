package observability_test

import (
	"testing"

	"github.com/aretw0/tabula"
	"github.com/aretw0/tabula/pkg/domain"
	"github.com/aretw0/tabula/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	table, err := tabula.New(tabula.Static(domain.Options[domain.Record]{
		Columns: []domain.ColumnDef[domain.Record]{{AccessorKey: "name"}},
	}), tabula.WithName("people"), tabula.WithLifecycleHooks(m.Hooks()))
	require.NoError(t, err)

	var engine *tabula.Engine[domain.Record]
	unsubscribe := table.Subscribe(func(e *tabula.Engine[domain.Record]) { engine = e })
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Active.WithLabelValues("people")))

	engine.SetSorting([]domain.ColumnSort{{ID: "name"}})
	engine.ResetState()
	unsubscribe()

	assert.Equal(t, 3.0, testutil.ToFloat64(m.Syncs.WithLabelValues("people")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StateChanges.WithLabelValues("people", "apply")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StateChanges.WithLabelValues("people", "replace")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Active.WithLabelValues("people")))
	assert.Greater(t, testutil.ToFloat64(m.StateKeys.WithLabelValues("people")), 0.0)
}

func TestNewMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	_, err = observability.NewMetrics(reg)
	assert.Error(t, err)
}
