package reassembly

// Stats are per-stream counters. Snapshot via Reassembler.Stats().
type Stats struct {
	// Total packets handed to Submit
	Received uint64 `json:"received"`
	// Payloads handed to the sink (fast path, stale path and flushes)
	Written uint64 `json:"written"`
	// Packets parked in the reorder buffer
	Buffered uint64 `json:"buffered"`
	// Packets dropped because the sequence was already buffered
	Duplicates uint64 `json:"duplicates"`
	// Packets dropped on checksum mismatch
	Corrupted uint64 `json:"corrupted"`
	// Packets at or behind the cursor, re-written by policy
	StaleRewrites uint64 `json:"staleRewrites"`
	// Times the flush policy drained the full buffer
	Flushes uint64 `json:"flushes"`
	// Times the gap handler fired
	GapSignals uint64 `json:"gapSignals"`
}
