package binance

import (
	"math"

	"github.com/spooky-finn/go-binance-orderbook-sync/domain"
)

// FuturesDepthUpdateValidator implements the USDT-margined futures stream
// sequencing rules. Implements domain.DepthUpdateValidator.
//
// From the exchange docs: drop any event where u is <= lastUpdateId of the
// snapshot; the first processed event should have U <= lastUpdateId+1 AND
// u >= lastUpdateId+1; while listening, each event's pu should equal the
// previous event's u.
type FuturesDepthUpdateValidator struct{}

func (v *FuturesDepthUpdateValidator) IsStale(delta *domain.BufferedEvent, localLast uint64) bool {
	return delta.LastUpdate < localLast
}

func (v *FuturesDepthUpdateValidator) IsOutdated(delta *domain.BufferedEvent, localLast uint64) bool {
	return delta.LastUpdate <= localLast
}

func (v *FuturesDepthUpdateValidator) Bridges(delta *domain.BufferedEvent, localLast uint64) bool {
	expected := nextUpdateID(localLast)
	return delta.FirstUpdate <= expected && expected <= delta.LastUpdate
}

func (v *FuturesDepthUpdateValidator) IsSequential(delta *domain.BufferedEvent, localLast uint64) bool {
	expected := nextUpdateID(localLast)

	// pu == 0 is treated as absent; some venues omit it or zero it on the
	// first event after a snapshot.
	if delta.PrevLastUpdate != 0 {
		return delta.PrevLastUpdate == localLast ||
			(delta.FirstUpdate <= expected && expected <= delta.LastUpdate)
	}

	return delta.FirstUpdate <= expected
}

func nextUpdateID(localLast uint64) uint64 {
	if localLast == math.MaxUint64 {
		return localLast
	}
	return localLast + 1
}
