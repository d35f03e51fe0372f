package generator

import "expvar"

var (
	metricHandsWritten    = expvar.NewInt("generator_hands_written_total")
	metricCanonicalSolves = expvar.NewInt("generator_canonical_solves_total")
	metricMemoHits        = expvar.NewInt("generator_memo_hits_total")
	metricCheckpoints     = expvar.NewInt("generator_checkpoints_total")
	metricLedgerErrors    = expvar.NewInt("generator_ledger_errors_total")
)
