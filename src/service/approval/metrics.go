package approval

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	actionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nftrade",
		Name:      "actions_total",
		Help:      "Terminal outcomes of offer actions by action and outcome.",
	}, []string{"action", "outcome"})

	approvalsSubmittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "nftrade",
		Name:      "approvals_submitted_total",
		Help:      "Approval transactions submitted to the ledger.",
	})
)
