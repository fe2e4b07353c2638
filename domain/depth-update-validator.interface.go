package domain

// DepthUpdateValidator knows a venue's stream sequencing rules. localLast is
// the book's current lastUpdateId in every check.
type DepthUpdateValidator interface {
	// IsStale reports a retransmission already behind the local book.
	IsStale(delta *BufferedEvent, localLast uint64) bool

	// IsOutdated reports a delta fully reflected in the local book. Used when
	// draining the bootstrap buffer after a snapshot install.
	IsOutdated(delta *BufferedEvent, localLast uint64) bool

	// Bridges reports whether the delta's [U, u] interval covers localLast+1.
	Bridges(delta *BufferedEvent, localLast uint64) bool

	// IsSequential reports whether the delta may be applied on top of
	// localLast without a gap.
	IsSequential(delta *BufferedEvent, localLast uint64) bool
}
