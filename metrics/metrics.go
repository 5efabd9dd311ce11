// Package metrics exports store transaction counts to Prometheus.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/odvcencio/furry-model/state"
)

const namespace = "furry_model"

// Observer counts the transactions of one named store.
type Observer struct {
	store       string
	commits     *prometheus.CounterVec
	noops       *prometheus.CounterVec
	rollbacks   *prometheus.CounterVec
	subscribers *prometheus.GaugeVec
}

// New registers the store metrics on reg, or prometheus.DefaultRegisterer when
// reg is nil. Observers for several stores can share one registry; they are
// told apart by the store label.
func New(reg prometheus.Registerer, store string) *Observer {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return &Observer{
		store: store,
		commits: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commits_total",
			Help:      "Transactions that published a new snapshot.",
		}, []string{"store"})),
		noops: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "noops_total",
			Help:      "Transactions that finished without changing the snapshot.",
		}, []string{"store"})),
		rollbacks: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rollbacks_total",
			Help:      "Transactions discarded because the change failed or panicked.",
		}, []string{"store", "reason"})),
		subscribers: register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_commit_subscribers",
			Help:      "Subscribers notified by the most recent commit.",
		}, []string{"store"})),
	}
}

// Hooks returns transaction hooks that update the metrics.
func (o *Observer) Hooks() state.Hooks {
	if o == nil {
		return state.Hooks{}
	}
	return state.Hooks{
		OnCommit: func(c state.Commit) {
			o.commits.WithLabelValues(o.store).Inc()
			o.subscribers.WithLabelValues(o.store).Set(float64(c.Subscribers))
		},
		OnNoop: func() {
			o.noops.WithLabelValues(o.store).Inc()
		},
		OnRollback: func(err error) {
			reason := "error"
			if err == nil {
				reason = "panic"
			}
			o.rollbacks.WithLabelValues(o.store, reason).Inc()
		},
	}
}

// Option returns a store option installing the hooks.
func (o *Observer) Option() state.Option {
	return state.WithHooks(o.Hooks())
}

// register adds c to reg, reusing an identical collector registered earlier.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var exists prometheus.AlreadyRegisteredError
		if errors.As(err, &exists) {
			if prev, ok := exists.ExistingCollector.(C); ok {
				return prev
			}
		}
		panic(err)
	}
	return c
}
