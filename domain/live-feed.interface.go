package domain

// LiveFeed delivers raw depth-stream frames for one symbol. After Start
// returns, the feed may invoke onText from any goroutine, zero or more times;
// the consumer serializes. Stop tears the transport down; combined with
// generation tagging on the consumer side, a frame racing a Stop is harmless.
type LiveFeed interface {
	Start(symbol *MarketSymbol, onText func(raw []byte))
	Stop()
}
