// Package metrics holds the Prometheus collectors of the dispatch service.
// Every recorder is nil-safe so that handlers can run without metrics in tests.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "dispatch"

// Unassignment reasons.
const (
	ReasonRegions      = "regions"
	ReasonWorkingHours = "working_hours"
	ReasonCapacity     = "capacity"
)

// DispatchMetrics records assignment activity and store lock contention.
type DispatchMetrics struct {
	assigned   prometheus.Counter
	unassigned *prometheus.CounterVec
	completed  prometheus.Counter
	lockWait   *prometheus.HistogramVec
	orders     *prometheus.GaugeVec
}

// NewDispatchMetrics registers the dispatch collectors on reg.
// A nil registerer yields a recorder that drops everything.
func NewDispatchMetrics(reg prometheus.Registerer) *DispatchMetrics {
	if reg == nil {
		return &DispatchMetrics{}
	}
	assigned := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_assigned_total",
		Help:      "Orders assigned to couriers.",
	})
	unassigned := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_unassigned_total",
		Help:      "Orders taken back from couriers after a profile change.",
	}, []string{"reason"})
	completed := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_completed_total",
		Help:      "Orders completed by couriers.",
	})
	lockWait := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "store_lock_wait_seconds",
		Help:      "Time spent waiting for the store lock.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"backend"})
	orders := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "orders",
		Help:      "Orders in the store by status.",
	}, []string{"status"})
	reg.MustRegister(assigned, unassigned, completed, lockWait, orders)
	return &DispatchMetrics{
		assigned:   assigned,
		unassigned: unassigned,
		completed:  completed,
		lockWait:   lockWait,
		orders:     orders,
	}
}

func (m *DispatchMetrics) AddAssigned(n int) {
	if m == nil || m.assigned == nil || n <= 0 {
		return
	}
	m.assigned.Add(float64(n))
}

func (m *DispatchMetrics) AddUnassigned(reason string, n int) {
	if m == nil || m.unassigned == nil || n <= 0 {
		return
	}
	m.unassigned.WithLabelValues(reason).Add(float64(n))
}

func (m *DispatchMetrics) IncCompleted() {
	if m == nil || m.completed == nil {
		return
	}
	m.completed.Inc()
}

func (m *DispatchMetrics) ObserveLockWait(backend string, d time.Duration) {
	if m == nil || m.lockWait == nil {
		return
	}
	m.lockWait.WithLabelValues(backend).Observe(d.Seconds())
}

func (m *DispatchMetrics) SetOrders(status string, count int64) {
	if m == nil || m.orders == nil {
		return
	}
	m.orders.WithLabelValues(status).Set(float64(count))
}
