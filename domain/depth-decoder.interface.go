package domain

// DepthDecoder turns raw exchange payloads into typed snapshots and deltas.
// Every decode failure yields absence; no partial values are ever produced.
type DepthDecoder interface {
	// DeltaMetadata extracts sequence metadata without decoding level lists,
	// so payloads can be buffered and ordered before scales are known valid.
	DeltaMetadata(raw []byte) (BufferedEvent, bool)

	DecodeDelta(raw []byte, scales SymbolScales) (*OrderBookDelta, bool)
	DecodeSnapshot(raw []byte, scales SymbolScales) (*OrderBookSnapshot, bool)
}
