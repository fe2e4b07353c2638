package promclient

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/spooky-finn/go-binance-orderbook-sync/domain"
)

var WsMessagesGauge = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "orderbook_sync_ws_messages",
		Help: "websocket messages received since start",
	},
)

var AcceptedDeltasGauge = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "orderbook_sync_accepted_deltas",
		Help: "depth deltas applied to the book since start",
	},
)

var DroppedDeltasGauge = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "orderbook_sync_dropped_deltas",
		Help: "depth deltas dropped since start",
	},
)

var ResyncsGauge = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "orderbook_sync_resyncs",
		Help: "bootstrap restarts caused by sequence violations",
	},
)

var SnapshotRetriesGauge = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "orderbook_sync_snapshot_retries",
		Help: "snapshot fetches retried",
	},
)

var LastUpdateIDGauge = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "orderbook_sync_last_update_id",
		Help: "sequence id of the local book",
	},
)

var BidLevelsGauge = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "orderbook_sync_bid_levels",
		Help: "price levels resting on the bid side",
	},
)

var AskLevelsGauge = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "orderbook_sync_ask_levels",
		Help: "price levels resting on the ask side",
	},
)

// Observe publishes the current book shape and counters.
func Observe(book *domain.OrderBook, stats domain.SyncStats) {
	WsMessagesGauge.Set(float64(stats.WsMessages))
	AcceptedDeltasGauge.Set(float64(stats.AcceptedDeltas))
	DroppedDeltasGauge.Set(float64(stats.DroppedDeltas))
	ResyncsGauge.Set(float64(stats.Resyncs))
	SnapshotRetriesGauge.Set(float64(stats.SnapshotRetries))
	LastUpdateIDGauge.Set(float64(book.LastUpdateID()))
	BidLevelsGauge.Set(float64(book.BidCount()))
	AskLevelsGauge.Set(float64(book.AskCount()))
}

func StartPromClientServer(addr string) {
	reg := prometheus.NewRegistry()
	promHandler := promhttp.HandlerFor(reg, promhttp.HandlerOpts{})

	reg.MustRegister(WsMessagesGauge)
	reg.MustRegister(AcceptedDeltasGauge)
	reg.MustRegister(DroppedDeltasGauge)
	reg.MustRegister(ResyncsGauge)
	reg.MustRegister(SnapshotRetriesGauge)
	reg.MustRegister(LastUpdateIDGauge)
	reg.MustRegister(BidLevelsGauge)
	reg.MustRegister(AskLevelsGauge)
	reg.MustRegister(collectors.NewGoCollector())

	http.Handle("/metrics", promHandler)
	log.Info().Str("addr", addr).Msg("prometheus server listening")

	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatal().Err(err).Msg("failed to serve prometheus metrics")
	}
}
