package observability

import (
	"github.com/aretw0/tabula/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors fed by adapter lifecycle hooks.
type Metrics struct {
	Syncs        *prometheus.CounterVec
	StateChanges *prometheus.CounterVec
	Active       *prometheus.GaugeVec
	StateKeys    *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Syncs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tabula_syncs_total",
				Help: "Total number of engine synchronizations",
			},
			[]string{"table"},
		),
		StateChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tabula_state_changes_total",
				Help: "Total number of state changes reported by engines",
			},
			[]string{"table", "kind"},
		),
		Active: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tabula_active_tables",
				Help: "Whether a table adapter currently has subscribers",
			},
			[]string{"table"},
		),
		StateKeys: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tabula_state_keys",
				Help: "Number of state keys after the last synchronization",
			},
			[]string{"table"},
		),
	}

	for _, c := range []prometheus.Collector{m.Syncs, m.StateChanges, m.Active, m.StateKeys} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks recording into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnSync: func(e *domain.SyncEvent) {
			m.Syncs.WithLabelValues(e.Table).Inc()
			m.StateKeys.WithLabelValues(e.Table).Set(float64(len(e.State)))
		},
		OnStateChange: func(e *domain.StateChangeEvent) {
			kind := "replace"
			if e.Functional {
				kind = "apply"
			}
			m.StateChanges.WithLabelValues(e.Table, kind).Inc()
		},
		OnActivate: func(e *domain.ActivationEvent) {
			m.Active.WithLabelValues(e.Table).Set(1)
		},
		OnDeactivate: func(e *domain.ActivationEvent) {
			m.Active.WithLabelValues(e.Table).Set(0)
		},
	}
}
