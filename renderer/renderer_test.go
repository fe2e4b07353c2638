package renderer

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spooky-finn/go-binance-orderbook-sync/domain"
)

var renderScales = domain.SymbolScales{PriceScale: 100_000_000, QtyScale: 1000}

func newTestRenderer(t *testing.T, out *strings.Builder) *Renderer {
	symbol, err := domain.NewMarketSymbol("BTCUSDT")
	require.NoError(t, err)

	r := New(out, symbol, renderScales, 5)
	r.minInterval = 0
	return r
}

func testBook(t *testing.T) *domain.OrderBook {
	bid, ok := domain.ParseScaled("30000.00", renderScales.PriceScale)
	require.True(t, ok)
	ask, ok := domain.ParseScaled("30000.50", renderScales.PriceScale)
	require.True(t, ok)

	book := domain.NewOrderBook()
	book.ApplySnapshot(&domain.OrderBookSnapshot{
		LastUpdateID: 42,
		Bids:         []domain.Level{{Price: bid, Qty: 1500}},
		Asks:         []domain.Level{{Price: ask, Qty: 250}},
	})
	return book
}

func TestRenderer_Render(t *testing.T) {
	var out strings.Builder
	r := newTestRenderer(t, &out)

	r.Render(testBook(t), domain.SyncStats{WsMessages: 7, AcceptedDeltas: 3})

	painted := out.String()
	assert.Contains(t, painted, "BTCUSDT")
	assert.Contains(t, painted, "lastUpdateId=42")
	assert.Contains(t, painted, "accepted=3")
	assert.Contains(t, painted, "30000.0", "best bid formatted with the price scale")
	assert.Contains(t, painted, "30000.5", "best ask formatted with the price scale")
	assert.Contains(t, painted, "1.5", "bid qty formatted with the qty scale")
	assert.Contains(t, painted, "30000.25 mid", "mid sits between best bid and ask")
}

func TestRenderer_ThrottlesRedraw(t *testing.T) {
	var out strings.Builder
	r := newTestRenderer(t, &out)
	r.minInterval = time.Hour

	book := testBook(t)
	r.Render(book, domain.SyncStats{})
	first := out.Len()
	require.NotZero(t, first)

	r.Render(book, domain.SyncStats{})
	assert.Equal(t, first, out.Len(), "second paint suppressed inside the interval")
}

func TestMidPrice(t *testing.T) {
	assert.Equal(t, "30000.25", midPrice(
		3_000_000_000_000, 3_000_050_000_000, 100_000_000),
		"even sum lands on the scale")

	// Odd sum: one extra decimal place beyond the price scale.
	assert.Equal(t, "10.000000005", midPrice(1_000_000_000, 1_000_000_001, 100_000_000))
}

func TestRenderer_EmptyBook(t *testing.T) {
	var out strings.Builder
	r := newTestRenderer(t, &out)

	r.Render(domain.NewOrderBook(), domain.SyncStats{})
	assert.Contains(t, out.String(), "lastUpdateId=0")
}
