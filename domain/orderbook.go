package domain

import "github.com/google/btree"

// OrderBook holds both book sides keyed by price, bids descending and asks
// ascending. It is oblivious to sequence continuity: callers are expected to
// validate deltas before applying them.
type OrderBook struct {
	bids *btree.BTreeG[Level]
	asks *btree.BTreeG[Level]

	lastUpdateID uint64
}

const btreeDegree = 8

func NewOrderBook() *OrderBook {
	return &OrderBook{
		bids: btree.NewG(btreeDegree, func(a, b Level) bool { return a.Price > b.Price }),
		asks: btree.NewG(btreeDegree, func(a, b Level) bool { return a.Price < b.Price }),
	}
}

// ApplySnapshot replaces both sides with the snapshot's levels and adopts its
// sequence id. Zero-quantity levels are not stored.
func (ob *OrderBook) ApplySnapshot(snapshot *OrderBookSnapshot) {
	ob.bids.Clear(false)
	ob.asks.Clear(false)
	applySide(ob.bids, snapshot.Bids)
	applySide(ob.asks, snapshot.Asks)
	ob.lastUpdateID = snapshot.LastUpdateID
}

// ApplyDelta merges the delta's levels into the book. A zero quantity removes
// the price level.
func (ob *OrderBook) ApplyDelta(delta *OrderBookDelta) {
	applySide(ob.bids, delta.Bids)
	applySide(ob.asks, delta.Asks)
	ob.lastUpdateID = delta.LastUpdate
}

func applySide(side *btree.BTreeG[Level], levels []Level) {
	for _, lvl := range levels {
		if lvl.Qty == 0 {
			side.Delete(Level{Price: lvl.Price})
			continue
		}
		side.ReplaceOrInsert(lvl)
	}
}

func (ob *OrderBook) LastUpdateID() uint64 {
	return ob.lastUpdateID
}

func (ob *OrderBook) BidCount() int {
	return ob.bids.Len()
}

func (ob *OrderBook) AskCount() int {
	return ob.asks.Len()
}

// BestBid returns the highest-priced bid.
func (ob *OrderBook) BestBid() (Level, bool) {
	return ob.bids.Min()
}

// BestAsk returns the lowest-priced ask.
func (ob *OrderBook) BestAsk() (Level, bool) {
	return ob.asks.Min()
}

// EachBid visits bids best-first until fn returns false.
func (ob *OrderBook) EachBid(fn func(Level) bool) {
	ob.bids.Ascend(fn)
}

// EachAsk visits asks best-first until fn returns false.
func (ob *OrderBook) EachAsk(fn func(Level) bool) {
	ob.asks.Ascend(fn)
}

// TopBids returns up to limit bids, best first.
func (ob *OrderBook) TopBids(limit int) []Level {
	return topLevels(ob.bids, limit)
}

// TopAsks returns up to limit asks, best first.
func (ob *OrderBook) TopAsks(limit int) []Level {
	return topLevels(ob.asks, limit)
}

func topLevels(side *btree.BTreeG[Level], limit int) []Level {
	if limit <= 0 {
		return nil
	}

	out := make([]Level, 0, limit)
	side.Ascend(func(lvl Level) bool {
		out = append(out, lvl)
		return len(out) < limit
	})
	return out
}

// BidQty looks up the resting quantity at a bid price.
func (ob *OrderBook) BidQty(price uint64) (uint64, bool) {
	if lvl, ok := ob.bids.Get(Level{Price: price}); ok {
		return lvl.Qty, true
	}
	return 0, false
}

func (ob *OrderBook) AskQty(price uint64) (uint64, bool) {
	if lvl, ok := ob.asks.Get(Level{Price: price}); ok {
		return lvl.Qty, true
	}
	return 0, false
}
