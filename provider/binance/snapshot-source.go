package binance

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jpillora/backoff"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/spooky-finn/go-binance-orderbook-sync/config"
	"github.com/spooky-finn/go-binance-orderbook-sync/domain"
)

const snapshotRequestTimeout = 10 * time.Second

// SnapshotSource fetches depth snapshots from the futures REST API.
// Implements domain.SnapshotSource. The core retries failed fetches without
// bound; the backoff here keeps those retries from hammering the endpoint.
type SnapshotSource struct {
	endpoint string
	symbol   *domain.MarketSymbol
	limit    int
	scales   domain.SymbolScales
	parser   *APIParser

	client  *http.Client
	backoff *backoff.Backoff

	logger zerolog.Logger
}

func NewSnapshotSource(
	cfg *config.Config,
	symbol *domain.MarketSymbol,
	scales domain.SymbolScales,
	parser *APIParser,
) *SnapshotSource {
	return &SnapshotSource{
		endpoint: cfg.RestEndpoint,
		symbol:   symbol,
		limit:    cfg.SnapshotLimit,
		scales:   scales,
		parser:   parser,
		client:   &http.Client{Timeout: snapshotRequestTimeout},
		backoff: &backoff.Backoff{
			Min:    250 * time.Millisecond,
			Max:    5 * time.Second,
			Factor: 2,
			Jitter: true,
		},
		logger: log.With().Str("component", "binance-snapshot").Logger(),
	}
}

// RequestAsync fetches one snapshot on its own goroutine and reports the
// result exactly once. On failure the callback is delayed by the current
// backoff so the caller's immediate re-request does not hot-loop.
func (s *SnapshotSource) RequestAsync(onResult func(snapshot *domain.OrderBookSnapshot)) {
	go func() {
		snapshot := s.fetch()
		if snapshot == nil {
			time.Sleep(s.backoff.Duration())
		} else {
			s.backoff.Reset()
		}
		onResult(snapshot)
	}()
}

func (s *SnapshotSource) fetch() *domain.OrderBookSnapshot {
	url := fmt.Sprintf("%s/fapi/v1/depth?symbol=%s&limit=%d", s.endpoint, s.symbol.Upper(), s.limit)

	resp, err := s.client.Get(url)
	if err != nil {
		s.logger.Warn().Err(err).Msg("depth snapshot request failed")
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.Warn().Int("status", resp.StatusCode).Msg("depth snapshot rejected")
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		s.logger.Warn().Err(err).Msg("depth snapshot read failed")
		return nil
	}

	snapshot, ok := s.parser.DecodeSnapshot(body, s.scales)
	if !ok {
		s.logger.Warn().Msg("depth snapshot decode failed")
		return nil
	}

	return snapshot
}
