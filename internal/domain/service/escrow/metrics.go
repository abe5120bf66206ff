package escrow

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals
var operationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "escrow",
		Name:      "operations_total",
		Help:      "Escrow operations by outcome.",
	},
	[]string{"operation", "outcome"},
)

func observe(operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}

	operationsTotal.WithLabelValues(operation, outcome).Inc()
}
