package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/spooky-finn/go-binance-orderbook-sync/config"
	"github.com/spooky-finn/go-binance-orderbook-sync/helpers"
	"github.com/spooky-finn/go-binance-orderbook-sync/logger"
	"github.com/spooky-finn/go-binance-orderbook-sync/usecase"
)

func main() {
	levels := flag.Int("levels", 25, "book levels to render per side")
	flag.Parse()

	symbol := flag.Arg(0)
	if symbol == "" {
		symbol = "btcusdt"
	}

	cfg := config.Load()
	logger.Init(cfg.LogLevel)

	if config.DebugMode {
		log.Debug().Str("config", helpers.ToJsonString(cfg)).Msg("loaded config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := usecase.NewBookWatchUseCase(cfg).Run(ctx, symbol, *levels); err != nil {
		log.Fatal().Err(err).Msg("book watch failed")
	}
}
