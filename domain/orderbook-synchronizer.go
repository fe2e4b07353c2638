package domain

import (
	"sync"

	"github.com/gammazero/deque"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type SyncState string

const (
	SyncState_Stopped       SyncState = "Stopped"
	SyncState_Bootstrapping SyncState = "Bootstrapping"
	SyncState_Live          SyncState = "Live"
)

// OnBookUpdated observes every successful book mutation. The references are
// valid only for the duration of the call, and the callback must not re-enter
// the synchronizer.
type OnBookUpdated func(book *OrderBook, scales SymbolScales, stats SyncStats)

// OrderBookSynchronizer keeps a local order book provably in sync with the
// exchange. It bootstraps from a REST snapshot while buffering live deltas,
// bridges the snapshot's sequence id to the stream, validates continuity on
// every live delta, and restarts bootstrap on any violation.
//
// Every transition runs with the mutex held for its whole duration; external
// I/O callbacks re-enter through exported methods that take it. Asynchronous
// continuations carry the generation current at initiation and are dropped
// when it no longer matches, which is how in-flight work from a previous
// bootstrap cycle is invalidated without cancellation races.
type OrderBookSynchronizer struct {
	mu sync.Mutex

	state      SyncState
	generation uint64
	symbol     *MarketSymbol
	scales     SymbolScales
	book       *OrderBook
	stats      SyncStats

	snapshotInFlight      bool
	bufferedEvents        deque.Deque[BufferedEvent]
	hasFirstBuffered      bool
	firstBufferedUpdateID uint64

	liveFeed  LiveFeed
	snapshots SnapshotSource
	decoder   DepthDecoder
	validator DepthUpdateValidator

	onBookUpdated OnBookUpdated

	logger zerolog.Logger
}

func NewOrderBookSynchronizer(
	liveFeed LiveFeed,
	snapshots SnapshotSource,
	decoder DepthDecoder,
	validator DepthUpdateValidator,
	scales SymbolScales,
) *OrderBookSynchronizer {
	return &OrderBookSynchronizer{
		state:     SyncState_Stopped,
		scales:    scales,
		book:      NewOrderBook(),
		liveFeed:  liveFeed,
		snapshots: snapshots,
		decoder:   decoder,
		validator: validator,
		logger:    log.With().Str("component", "orderbook-sync").Logger(),
	}
}

// SetOnBookUpdated installs the mutation observer.
func (s *OrderBookSynchronizer) SetOnBookUpdated(onBookUpdated OnBookUpdated) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.onBookUpdated = onBookUpdated
}

// Start begins (or restarts) synchronization for symbol. Counters reset, any
// in-flight work from a previous cycle is invalidated.
func (s *OrderBookSynchronizer) Start(symbol *MarketSymbol) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	s.symbol = symbol
	s.stats = SyncStats{}
	s.logger.Info().Str("symbol", symbol.String()).Msg("starting order book synchronization")
	s.beginBootstrapCycle()
}

// Stop is safe and idempotent from any state.
func (s *OrderBookSynchronizer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	s.state = SyncState_Stopped
	s.snapshotInFlight = false
	s.resetBootstrapBuffer()
	s.symbol = nil
	s.liveFeed.Stop()
}

func (s *OrderBookSynchronizer) State() SyncState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

func (s *OrderBookSynchronizer) Stats() SyncStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.stats
}

func (s *OrderBookSynchronizer) Scales() SymbolScales {
	return s.scales
}

func (s *OrderBookSynchronizer) restartBootstrap() {
	if s.state == SyncState_Stopped || s.symbol == nil {
		return
	}

	s.generation++
	s.stats.Resyncs++
	s.logger.Warn().
		Str("symbol", s.symbol.String()).
		Uint64("resyncs", s.stats.Resyncs).
		Msg("sequence continuity lost, restarting bootstrap")
	s.beginBootstrapCycle()
}

func (s *OrderBookSynchronizer) resetBootstrapBuffer() {
	s.bufferedEvents.Clear()
	s.hasFirstBuffered = false
	s.firstBufferedUpdateID = 0
}

func (s *OrderBookSynchronizer) beginBootstrapCycle() {
	s.state = SyncState_Bootstrapping
	s.snapshotInFlight = false
	s.resetBootstrapBuffer()
	s.applySnapshotLocked(&OrderBookSnapshot{})
	s.liveFeed.Stop()
	s.startLiveFeed(s.generation)
	s.requestSnapshot(s.generation)
}

func (s *OrderBookSynchronizer) startLiveFeed(generation uint64) {
	s.liveFeed.Start(s.symbol, func(raw []byte) {
		s.onRawText(generation, raw)
	})
}

// onRawText handles one live frame. During bootstrap the payload is buffered
// by metadata only; in live state it is decoded and applied.
func (s *OrderBookSynchronizer) onRawText(generation uint64, raw []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation || s.state == SyncState_Stopped {
		return
	}

	s.stats.WsMessages++

	meta, ok := s.decoder.DeltaMetadata(raw)
	if !ok {
		s.stats.DroppedDeltas++
		return
	}

	if s.state == SyncState_Bootstrapping {
		if !s.hasFirstBuffered {
			s.hasFirstBuffered = true
			s.firstBufferedUpdateID = meta.FirstUpdate
		}
		s.bufferedEvents.PushBack(meta)
		if !s.snapshotInFlight {
			s.requestSnapshot(s.generation)
		}
		return
	}

	delta, ok := s.decoder.DecodeDelta(raw, s.scales)
	if !ok {
		s.stats.DroppedDeltas++
		return
	}
	s.applyDeltaChecked(delta, &meta)
}

func (s *OrderBookSynchronizer) requestSnapshot(generation uint64) {
	if s.snapshotInFlight || s.state != SyncState_Bootstrapping {
		return
	}

	s.snapshotInFlight = true
	s.snapshots.RequestAsync(func(snapshot *OrderBookSnapshot) {
		s.onSnapshotReady(generation, snapshot)
	})
}

func (s *OrderBookSynchronizer) onSnapshotReady(generation uint64, snapshot *OrderBookSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation || s.state != SyncState_Bootstrapping {
		return
	}

	s.snapshotInFlight = false

	if snapshot == nil {
		s.stats.SnapshotRetries++
		s.requestSnapshot(s.generation)
		return
	}

	if s.hasFirstBuffered && snapshot.LastUpdateID < s.firstBufferedUpdateID {
		// Snapshot predates the buffered stream, a newer one must exist.
		s.stats.SnapshotRetries++
		s.requestSnapshot(s.generation)
		return
	}

	s.applySnapshotLocked(snapshot)

	if !s.hasFirstBuffered {
		// Stay in bootstrap until at least one stream event is buffered; the
		// bridge is then validated against that first buffered event.
		return
	}

	for s.bufferedEvents.Len() > 0 {
		front := s.bufferedEvents.Front()
		if !s.validator.IsOutdated(&front, s.book.LastUpdateID()) {
			break
		}
		s.stats.DroppedDeltas++
		s.bufferedEvents.PopFront()
	}

	if s.bufferedEvents.Len() > 0 {
		front := s.bufferedEvents.Front()
		if !s.validator.Bridges(&front, s.book.LastUpdateID()) {
			s.restartBootstrap()
			return
		}
	}

	first := true
	for s.bufferedEvents.Len() > 0 {
		meta := s.bufferedEvents.PopFront()
		if first {
			// On futures, pu of the first event after the snapshot may not
			// equal the snapshot's lastUpdateId; the bridge was validated via
			// [U, u] above.
			meta.PrevLastUpdate = 0
			first = false
		}

		delta, ok := s.decoder.DecodeDelta(meta.Raw, s.scales)
		if !ok {
			s.stats.DroppedDeltas++
			continue
		}
		if !s.applyDeltaChecked(delta, &meta) {
			return
		}
	}

	s.resetBootstrapBuffer()
	s.state = SyncState_Live
	s.logger.Info().
		Str("symbol", s.symbol.String()).
		Uint64("lastUpdateId", s.book.LastUpdateID()).
		Msg("order book is live")
}

// applyDeltaChecked validates a delta against the local sequence and applies
// it. Returns false when the caller must stop processing: the machine was
// stopped or a restart was triggered.
func (s *OrderBookSynchronizer) applyDeltaChecked(delta *OrderBookDelta, meta *BufferedEvent) bool {
	if s.state == SyncState_Stopped {
		return false
	}

	if delta.FirstUpdate == 0 || delta.LastUpdate == 0 {
		s.stats.DroppedDeltas++
		return true
	}

	localLast := s.book.LastUpdateID()

	if s.validator.IsStale(meta, localLast) {
		// Stale retransmission, already behind the book.
		s.stats.DroppedDeltas++
		return true
	}

	if !s.validator.IsSequential(meta, localLast) {
		s.stats.DroppedDeltas++
		s.restartBootstrap()
		return false
	}

	s.book.ApplyDelta(delta)
	s.stats.AcceptedDeltas++
	s.notifyBookUpdated()
	return true
}

func (s *OrderBookSynchronizer) applySnapshotLocked(snapshot *OrderBookSnapshot) {
	s.book.ApplySnapshot(snapshot)
	s.notifyBookUpdated()
}

func (s *OrderBookSynchronizer) notifyBookUpdated() {
	if s.onBookUpdated != nil {
		s.onBookUpdated(s.book, s.scales, s.stats)
	}
}
