package engine

import "expvar"

var (
	metricResolutions      = expvar.NewMap("engine_resolutions_total")
	metricEVCacheHits      = expvar.NewInt("engine_ev_cache_hits_total")
	metricEVCacheSkipped   = expvar.NewInt("engine_ev_cache_full_skips_total")
	metricTemplateHits     = expvar.NewInt("engine_template_cache_hits_total")
	metricTemplateSkipped  = expvar.NewInt("engine_template_cache_full_skips_total")
	metricTableLoadErrors  = expvar.NewInt("engine_table_load_errors_total")
	metricBaselineFailures = expvar.NewInt("engine_baseline_violations_total")
)
