package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Dispatch outcomes.
const (
	OutcomeOK            = "ok"
	OutcomeUpstreamError = "upstream_error"
	OutcomeTransport     = "transport_error"
	OutcomeNotConfigured = "not_configured"
)

// DispatchTotal counts outbound dispatches per environment and outcome.
var DispatchTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "remote_console_dispatch_total",
		Help: "Outbound remote-admin dispatches by environment and outcome.",
	},
	[]string{"environment", "outcome"},
)
