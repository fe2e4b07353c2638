package usecase

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/spooky-finn/go-binance-orderbook-sync/config"
	"github.com/spooky-finn/go-binance-orderbook-sync/domain"
	promclient "github.com/spooky-finn/go-binance-orderbook-sync/infrastructure/prometheus"
	"github.com/spooky-finn/go-binance-orderbook-sync/provider/binance"
	"github.com/spooky-finn/go-binance-orderbook-sync/renderer"
)

// BookWatchUseCase wires scale discovery, the exchange adapters and the
// synchronizer into one watch session on a terminal.
type BookWatchUseCase struct {
	cfg *config.Config
}

func NewBookWatchUseCase(cfg *config.Config) *BookWatchUseCase {
	return &BookWatchUseCase{cfg: cfg}
}

// Run blocks until ctx is canceled.
func (u *BookWatchUseCase) Run(ctx context.Context, symbolArg string, levels int) error {
	symbol, err := domain.NewMarketSymbol(symbolArg)
	if err != nil {
		return err
	}

	scales, err := binance.NewScalesSource(u.cfg).Scales(symbol)
	if err != nil {
		return fmt.Errorf("discovering symbol scales: %w", err)
	}
	log.Info().
		Str("symbol", symbol.String()).
		Uint64("priceScale", scales.PriceScale).
		Uint64("qtyScale", scales.QtyScale).
		Msg("discovered symbol scales")

	parser := binance.NewAPIParser()
	feed := binance.NewStreamClient(u.cfg)
	snapshots := binance.NewSnapshotSource(u.cfg, symbol, scales, parser)
	validator := &binance.FuturesDepthUpdateValidator{}

	sync := domain.NewOrderBookSynchronizer(feed, snapshots, parser, validator, scales)

	rend := renderer.New(os.Stdout, symbol, scales, levels)
	sync.SetOnBookUpdated(func(book *domain.OrderBook, scales domain.SymbolScales, stats domain.SyncStats) {
		rend.Render(book, stats)
		promclient.Observe(book, stats)
	})

	if u.cfg.MetricsAddr != "" {
		go promclient.StartPromClientServer(u.cfg.MetricsAddr)
	}

	sync.Start(symbol)
	<-ctx.Done()
	sync.Stop()

	return nil
}
