package domain

// MinPriceScale is the precision floor for price scales. Keeping at least
// eight fractional digits means a later precision upgrade never rounds a
// stored price.
const MinPriceScale uint64 = 100_000_000

// SymbolScales carries the power-of-ten divisors implied by a symbol's tick
// and lot size. Immutable for the lifetime of a synchronizer.
type SymbolScales struct {
	PriceScale uint64
	QtyScale   uint64
}

func (s SymbolScales) Valid() bool {
	if _, ok := DecimalPlacesOfScale(s.PriceScale); !ok {
		return false
	}
	if _, ok := DecimalPlacesOfScale(s.QtyScale); !ok {
		return false
	}
	return true
}
