// Package metrics collects and exposes Prometheus metrics for the
// attendance core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector counts attendance transitions and aggregation scans.
type Collector struct {
	checkInSuccess  prometheus.Counter
	checkOutSuccess prometheus.Counter
	transitionFail  *prometheus.CounterVec
	reportScans     *prometheus.CounterVec
}

// NewCollector registers the attendance metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		checkInSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "attendly_check_in_total",
			Help: "Total successful check-ins.",
		}),
		checkOutSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "attendly_check_out_total",
			Help: "Total successful check-outs.",
		}),
		transitionFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "attendly_transition_rejected_total",
			Help: "State machine transitions rejected, by reason.",
		}, []string{"reason"}),
		reportScans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "attendly_report_scans_total",
			Help: "Aggregation scans served, by scope.",
		}, []string{"scope"}),
	}

	reg.MustRegister(
		c.checkInSuccess,
		c.checkOutSuccess,
		c.transitionFail,
		c.reportScans,
	)

	return c
}

func (c *Collector) RecordCheckIn() {
	c.checkInSuccess.Inc()
}

func (c *Collector) RecordCheckOut() {
	c.checkOutSuccess.Inc()
}

// RecordRejectedTransition counts a failed precondition, labeled with the
// machine-readable reason (already_checked_in, check_in_required, ...).
func (c *Collector) RecordRejectedTransition(reason string) {
	c.transitionFail.WithLabelValues(reason).Inc()
}

func (c *Collector) RecordReportScan(scope string) {
	c.reportScans.WithLabelValues(scope).Inc()
}
