package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var apiRequests = newOperationVec("api", "API request",
	prometheus.DefBuckets, "route", "status")

// API tracks requests served by the HTTP routes.
type API struct{}

func NewAPI() *API {
	return &API{}
}

func (API) Observe(route string, err error, started time.Time) {
	apiRequests.observe(started, route, status(err))
}
