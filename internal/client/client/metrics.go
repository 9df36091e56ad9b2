package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// requestsTotal counts backend calls by method and outcome ("200", "401", "network", ...).
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recharge_client_requests_total",
		Help: "Total number of backend requests issued by the session client",
	}, []string{"method", "outcome"})

	// forcedLogoutsTotal counts responses that ended the session.
	forcedLogoutsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "recharge_client_forced_logouts_total",
		Help: "Total number of forced logouts caused by 401 responses from protected endpoints",
	})

	// exemptAuthFailuresTotal counts 401 responses from exempt endpoints.
	exemptAuthFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "recharge_client_exempt_auth_failures_total",
		Help: "Total number of 401 responses from endpoints exempt from forced logout",
	})
)
