// Package monitoring exposes Prometheus metrics for the marketplace
// service layer.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	operationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketplace_operations_total",
			Help: "Ledger operations by name and outcome",
		},
		[]string{"operation", "status"},
	)

	domainEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketplace_domain_events_total",
			Help: "Domain events emitted by committed operations",
		},
		[]string{"event"},
	)

	presaleQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "presale_queue_length",
			Help: "Current number of buyers in the presale priority queue",
		},
	)
)

func RecordOperation(operation string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	operationsTotal.WithLabelValues(operation, status).Inc()
}

func RecordDomainEvent(name string) {
	domainEventsTotal.WithLabelValues(name).Inc()
}

func SetQueueLength(n int) {
	presaleQueueLength.Set(float64(n))
}
