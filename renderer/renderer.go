package renderer

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/spooky-finn/go-binance-orderbook-sync/domain"
	"github.com/spooky-finn/go-binance-orderbook-sync/helpers"
)

const (
	columnWidth = 16
	// Redraws are throttled; at 100ms stream speed a full repaint per delta
	// is unreadable anyway.
	defaultMinInterval = 200 * time.Millisecond
)

// Renderer paints the top of the book as a terminal table: asks descending,
// the mid price, then bids descending.
type Renderer struct {
	out    io.Writer
	symbol *domain.MarketSymbol
	scales domain.SymbolScales
	levels int

	minInterval time.Duration
	lastRender  time.Time
	now         func() time.Time
}

func New(out io.Writer, symbol *domain.MarketSymbol, scales domain.SymbolScales, levels int) *Renderer {
	return &Renderer{
		out:         out,
		symbol:      symbol,
		scales:      scales,
		levels:      levels,
		minInterval: defaultMinInterval,
		now:         time.Now,
	}
}

// Render repaints the book unless the previous paint was too recent. Safe to
// call from the synchronizer's observer: it only reads the book.
func (r *Renderer) Render(book *domain.OrderBook, stats domain.SyncStats) {
	now := r.now()
	if !r.lastRender.IsZero() && now.Sub(r.lastRender) < r.minInterval {
		return
	}
	r.lastRender = now

	var b strings.Builder

	// Home the cursor and clear; repainting in place avoids scrollback spam.
	b.WriteString("\033[H\033[2J")

	fmt.Fprintf(&b, "%s  depth %d  %s\n", r.symbol.Upper(), r.levels, now.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "lastUpdateId=%s ws=%d accepted=%d dropped=%d resyncs=%d snapshotRetries=%d\n",
		helpers.UintToString(book.LastUpdateID()),
		stats.WsMessages, stats.AcceptedDeltas, stats.DroppedDeltas,
		stats.Resyncs, stats.SnapshotRetries)

	fmt.Fprintf(&b, "%*s %*s\n", columnWidth, "PRICE", columnWidth, "QTY")
	b.WriteString(strings.Repeat("-", columnWidth*2+1) + "\n")

	asks := book.TopAsks(r.levels)
	for i := len(asks) - 1; i >= 0; i-- {
		r.writeLevel(&b, asks[i])
	}

	b.WriteString(r.midLine(book) + "\n")

	for _, lvl := range book.TopBids(r.levels) {
		r.writeLevel(&b, lvl)
	}

	fmt.Fprint(r.out, b.String())
}

func (r *Renderer) writeLevel(b *strings.Builder, lvl domain.Level) {
	fmt.Fprintf(b, "%*s %*s\n",
		columnWidth, domain.FormatScaled(lvl.Price, r.scales.PriceScale),
		columnWidth, domain.FormatScaled(lvl.Qty, r.scales.QtyScale))
}

func (r *Renderer) midLine(book *domain.OrderBook) string {
	bestBid, haveBid := book.BestBid()
	bestAsk, haveAsk := book.BestAsk()
	if !haveBid || !haveAsk {
		return strings.Repeat("-", columnWidth*2+1)
	}

	return fmt.Sprintf("%*s mid", columnWidth, midPrice(bestBid.Price, bestAsk.Price, r.scales.PriceScale))
}

// midPrice formats (bid+ask)/2. When the sum is odd the mid sits on a half
// tick, shown with one extra decimal place beyond the price scale.
func midPrice(bid, ask, scale uint64) string {
	if bid > math.MaxUint64-ask {
		return "-"
	}
	sum := bid + ask

	if sum%2 == 0 {
		return domain.FormatScaled(sum/2, scale)
	}
	if sum > math.MaxUint64/5 || scale > math.MaxUint64/10 {
		return domain.FormatScaled(sum/2, scale)
	}
	return domain.FormatScaled(sum*5, scale*10)
}
