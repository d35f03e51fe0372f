package httptransport

import "expvar"

var (
	metricRequestsTotal   = expvar.NewMap("http_engine_requests_total")
	metricRequestErrors   = expvar.NewMap("http_engine_request_errors_total")
	metricScheduleChanges = expvar.NewInt("http_paytable_changes_total")
)
