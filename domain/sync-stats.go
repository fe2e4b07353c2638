package domain

// SyncStats are monotonically increasing health counters. They reset to zero
// on start and are the sole machine-readable health surface.
type SyncStats struct {
	WsMessages      uint64
	AcceptedDeltas  uint64
	DroppedDeltas   uint64
	Resyncs         uint64
	SnapshotRetries uint64
}
