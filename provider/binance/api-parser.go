package binance

import (
	"encoding/json"

	"github.com/spooky-finn/go-binance-orderbook-sync/domain"
)

// APIParser decodes Binance futures depth payloads into domain types.
// Implements domain.DepthDecoder. Decoding is all-or-nothing: a missing
// field, a wrong JSON type, a malformed decimal or an overflow all yield
// absence, never a partial book.
type APIParser struct{}

func NewAPIParser() *APIParser {
	return &APIParser{}
}

type depthUpdateMessage struct {
	FirstUpdateID     *domain.JSONUint64 `json:"U"`
	FinalUpdateID     *domain.JSONUint64 `json:"u"`
	PrevFinalUpdateID *domain.JSONUint64 `json:"pu"`
	Bids              [][]string         `json:"b"`
	Asks              [][]string         `json:"a"`

	// Snapshot-style aliases accepted on some payload shapes.
	AltFirstUpdateID *domain.JSONUint64 `json:"firstUpdateId"`
	AltFinalUpdateID *domain.JSONUint64 `json:"finalUpdateId"`
	AltBids          [][]string         `json:"bids"`
	AltAsks          [][]string         `json:"asks"`
}

type depthSnapshotMessage struct {
	LastUpdateID *domain.JSONUint64 `json:"lastUpdateId"`
	Bids         [][]string         `json:"bids"`
	Asks         [][]string         `json:"asks"`
}

type deltaMetadataMessage struct {
	FirstUpdateID     *domain.JSONUint64 `json:"U"`
	FinalUpdateID     *domain.JSONUint64 `json:"u"`
	PrevFinalUpdateID *domain.JSONUint64 `json:"pu"`
}

// DeltaMetadata extracts (U, u, pu) without decoding level lists. pu missing
// or zero is carried as zero, meaning absent.
func (p *APIParser) DeltaMetadata(raw []byte) (domain.BufferedEvent, bool) {
	var msg deltaMetadataMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return domain.BufferedEvent{}, false
	}
	if msg.FirstUpdateID == nil || msg.FinalUpdateID == nil {
		return domain.BufferedEvent{}, false
	}

	first := uint64(*msg.FirstUpdateID)
	last := uint64(*msg.FinalUpdateID)
	if first == 0 || last == 0 || first > last {
		return domain.BufferedEvent{}, false
	}

	var prev uint64
	if msg.PrevFinalUpdateID != nil {
		prev = uint64(*msg.PrevFinalUpdateID)
	}

	return domain.BufferedEvent{
		Raw:            raw,
		FirstUpdate:    first,
		LastUpdate:     last,
		PrevLastUpdate: prev,
	}, true
}

func (p *APIParser) DecodeDelta(raw []byte, scales domain.SymbolScales) (*domain.OrderBookDelta, bool) {
	var msg depthUpdateMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, false
	}

	firstUpdate := firstExisting(msg.FirstUpdateID, msg.AltFirstUpdateID)
	finalUpdate := firstExisting(msg.FinalUpdateID, msg.AltFinalUpdateID)
	bids := firstExistingSide(msg.Bids, msg.AltBids)
	asks := firstExistingSide(msg.Asks, msg.AltAsks)
	if firstUpdate == nil || finalUpdate == nil || bids == nil || asks == nil {
		return nil, false
	}

	first := uint64(*firstUpdate)
	last := uint64(*finalUpdate)
	if first == 0 || last == 0 || first > last {
		return nil, false
	}

	parsedBids, ok := parseSide(bids, scales)
	if !ok {
		return nil, false
	}
	parsedAsks, ok := parseSide(asks, scales)
	if !ok {
		return nil, false
	}

	var prev uint64
	if msg.PrevFinalUpdateID != nil {
		prev = uint64(*msg.PrevFinalUpdateID)
	}

	return &domain.OrderBookDelta{
		FirstUpdate:    first,
		LastUpdate:     last,
		PrevLastUpdate: prev,
		Bids:           parsedBids,
		Asks:           parsedAsks,
	}, true
}

func (p *APIParser) DecodeSnapshot(raw []byte, scales domain.SymbolScales) (*domain.OrderBookSnapshot, bool) {
	var msg depthSnapshotMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, false
	}
	if msg.LastUpdateID == nil || msg.Bids == nil || msg.Asks == nil {
		return nil, false
	}

	parsedBids, ok := parseSide(msg.Bids, scales)
	if !ok {
		return nil, false
	}
	parsedAsks, ok := parseSide(msg.Asks, scales)
	if !ok {
		return nil, false
	}

	return &domain.OrderBookSnapshot{
		LastUpdateID: uint64(*msg.LastUpdateID),
		Bids:         parsedBids,
		Asks:         parsedAsks,
	}, true
}

func firstExisting(values ...*domain.JSONUint64) *domain.JSONUint64 {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

func firstExistingSide(sides ...[][]string) [][]string {
	for _, side := range sides {
		if side != nil {
			return side
		}
	}
	return nil
}

func parseSide(rows [][]string, scales domain.SymbolScales) ([]domain.Level, bool) {
	levels := make([]domain.Level, 0, len(rows))
	for _, row := range rows {
		if len(row) < 2 {
			return nil, false
		}
		price, ok := domain.ParseScaled(row[0], scales.PriceScale)
		if !ok {
			return nil, false
		}
		qty, ok := domain.ParseScaled(row[1], scales.QtyScale)
		if !ok {
			return nil, false
		}
		levels = append(levels, domain.Level{Price: price, Qty: qty})
	}
	return levels, true
}
