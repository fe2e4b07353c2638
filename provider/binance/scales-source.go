package binance

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/spooky-finn/go-binance-orderbook-sync/config"
	"github.com/spooky-finn/go-binance-orderbook-sync/domain"
)

// ScalesSource discovers a symbol's fixed-point scales from exchangeInfo.
type ScalesSource struct {
	endpoint string
	client   *http.Client
}

func NewScalesSource(cfg *config.Config) *ScalesSource {
	return &ScalesSource{
		endpoint: cfg.RestEndpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *ScalesSource) Scales(symbol *domain.MarketSymbol) (domain.SymbolScales, error) {
	url := fmt.Sprintf("%s/fapi/v1/exchangeInfo?symbol=%s", s.endpoint, symbol.Upper())

	resp, err := s.client.Get(url)
	if err != nil {
		return domain.SymbolScales{}, fmt.Errorf("exchangeInfo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.SymbolScales{}, fmt.Errorf("exchangeInfo HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.SymbolScales{}, fmt.Errorf("exchangeInfo read: %w", err)
	}

	return deriveScales(body, symbol.Upper())
}

type exchangeInfoResponse struct {
	Symbols []exchangeInfoSymbol `json:"symbols"`
}

type exchangeInfoSymbol struct {
	Symbol            string               `json:"symbol"`
	PricePrecision    *int64               `json:"pricePrecision"`
	QuantityPrecision *int64               `json:"quantityPrecision"`
	Filters           []exchangeInfoFilter `json:"filters"`
}

type exchangeInfoFilter struct {
	FilterType string `json:"filterType"`
	TickSize   string `json:"tickSize"`
	StepSize   string `json:"stepSize"`
}

// deriveScales builds SymbolScales from an exchangeInfo body: tick and step
// sizes set the base scales, precision fields may upgrade them, and the price
// scale is floored at domain.MinPriceScale.
func deriveScales(body []byte, wantedSymbol string) (domain.SymbolScales, error) {
	var info exchangeInfoResponse
	if err := json.Unmarshal(body, &info); err != nil {
		return domain.SymbolScales{}, fmt.Errorf("exchangeInfo decode: %w", err)
	}

	for _, sym := range info.Symbols {
		if sym.Symbol != wantedSymbol {
			continue
		}
		return scalesFromSymbolInfo(sym)
	}

	return domain.SymbolScales{}, fmt.Errorf("symbol not found in exchangeInfo: %s", wantedSymbol)
}

func scalesFromSymbolInfo(sym exchangeInfoSymbol) (domain.SymbolScales, error) {
	var tickSize, stepSize string
	for _, filter := range sym.Filters {
		switch filter.FilterType {
		case "PRICE_FILTER":
			tickSize = filter.TickSize
		case "LOT_SIZE":
			stepSize = filter.StepSize
		}
	}
	if tickSize == "" || stepSize == "" {
		return domain.SymbolScales{}, fmt.Errorf("missing PRICE_FILTER.tickSize or LOT_SIZE.stepSize")
	}

	scales := domain.SymbolScales{
		PriceScale: scaleFromStep(tickSize),
		QtyScale:   scaleFromStep(stepSize),
	}

	if upgraded, ok := scaleFromPrecision(sym.PricePrecision); ok && upgraded > scales.PriceScale {
		scales.PriceScale = upgraded
	}
	if upgraded, ok := scaleFromPrecision(sym.QuantityPrecision); ok && upgraded > scales.QtyScale {
		scales.QtyScale = upgraded
	}

	if scales.PriceScale < domain.MinPriceScale {
		scales.PriceScale = domain.MinPriceScale
	}

	return scales, nil
}

// scaleFromStep preserves the full fractional width of the step value.
// Trimming trailing zeros can under-estimate precision for some symbols.
func scaleFromStep(step string) uint64 {
	dot := strings.IndexByte(step, '.')
	if dot < 0 {
		return 1
	}

	decimals := len(step) - dot - 1
	scale := uint64(1)
	for i := 0; i < decimals; i++ {
		scale *= 10
	}
	return scale
}

func scaleFromPrecision(precision *int64) (uint64, bool) {
	if precision == nil {
		return 0, false
	}
	if *precision <= 0 {
		return 1, true
	}

	scale := uint64(1)
	for i := int64(0); i < *precision; i++ {
		if scale > math.MaxUint64/10 {
			return 0, false
		}
		scale *= 10
	}
	return scale, true
}
