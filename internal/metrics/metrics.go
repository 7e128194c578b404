// Package metrics collects Prometheus counters for the identity core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector records auth decisions. It is shared read-only after startup.
type Collector struct {
	tokenVerified  prometheus.Counter
	tokenRejected  *prometheus.CounterVec
	authzDecisions *prometheus.CounterVec
	externalLogins *prometheus.CounterVec
}

// NewCollector registers the counters with reg and returns the collector.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		tokenVerified: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "auth_token_verified_total",
			Help: "Bearer tokens that passed verification.",
		}),
		tokenRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_token_rejected_total",
			Help: "Bearer tokens rejected, by reason.",
		}, []string{"reason"}),
		authzDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_ownership_decisions_total",
			Help: "Ownership guard decisions, by outcome.",
		}, []string{"outcome"}),
		externalLogins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_external_logins_total",
			Help: "External-provider login resolutions, by provider and completeness.",
		}, []string{"provider", "completeness"}),
	}

	reg.MustRegister(
		c.tokenVerified,
		c.tokenRejected,
		c.authzDecisions,
		c.externalLogins,
	)
	return c
}

func (c *Collector) RecordTokenVerified() {
	c.tokenVerified.Inc()
}

func (c *Collector) RecordTokenRejected(reason string) {
	c.tokenRejected.WithLabelValues(reason).Inc()
}

func (c *Collector) RecordOwnershipDecision(outcome string) {
	c.authzDecisions.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordExternalLogin(provider string, complete bool) {
	completeness := "incomplete"
	if complete {
		completeness = "complete"
	}
	c.externalLogins.WithLabelValues(provider, completeness).Inc()
}
