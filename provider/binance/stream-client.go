package binance

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/recws-org/recws"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/spooky-finn/go-binance-orderbook-sync/config"
	"github.com/spooky-finn/go-binance-orderbook-sync/domain"
)

const (
	handshakeTimeout = 5 * time.Second
	// The exchange pings roughly every 3 minutes and expects the connection
	// alive; the keep-alive also doubles as an idle-read watchdog.
	keepAliveTimeout = 30 * time.Second
)

// StreamClient subscribes to the futures diff-depth stream for one symbol and
// hands raw text frames to the consumer. Implements domain.LiveFeed.
//
// The underlying connection redials on its own; continuity across a redial is
// not promised, the consumer's sequence validation catches the gap.
type StreamClient struct {
	endpoint string
	speed    string

	mu   sync.Mutex
	conn *recws.RecConn
	done chan struct{}

	logger zerolog.Logger
}

func NewStreamClient(cfg *config.Config) *StreamClient {
	return &StreamClient{
		endpoint: cfg.WsEndpoint,
		speed:    cfg.StreamSpeed,
		logger:   log.With().Str("component", "binance-stream").Logger(),
	}
}

func (c *StreamClient) Start(symbol *domain.MarketSymbol, onText func(raw []byte)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked()

	topic := fmt.Sprintf("%s@depth@%s", symbol.Lower(), c.speed)
	url := fmt.Sprintf("%s/ws/%s", c.endpoint, topic)

	conn := &recws.RecConn{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: handshakeTimeout,
		KeepAliveTimeout: keepAliveTimeout,
		NonVerbose:       true,
	}
	conn.Dial(url, nil)

	c.conn = conn
	c.done = make(chan struct{})

	c.logger.Info().Str("topic", topic).Msg("subscribing to depth stream")
	go c.read(conn, c.done, onText)
}

func (c *StreamClient) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked()
}

func (c *StreamClient) stopLocked() {
	if c.conn == nil {
		return
	}

	close(c.done)
	c.conn.Close()
	c.conn = nil
	c.done = nil
}

func (c *StreamClient) read(conn *recws.RecConn, done chan struct{}, onText func(raw []byte)) {
	for {
		select {
		case <-done:
			return
		default:
		}

		messageType, msg, err := conn.ReadMessage()
		if err != nil {
			// The connection is redialing (or was stopped); back off the
			// read loop instead of spinning.
			select {
			case <-done:
				return
			case <-time.After(time.Second):
			}
			continue
		}

		if messageType != websocket.TextMessage {
			continue
		}

		onText(msg)
	}
}
