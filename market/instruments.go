// market/instruments.go
package market

// SymbolMeta is the static configuration used to synthesize quotes for a
// symbol. Spread is expressed in pips, Volatility in price units.
type SymbolMeta struct {
	Name       string  `json:"name" yaml:"name"`
	BasePrice  float64 `json:"basePrice" yaml:"base_price"`
	PipSize    float64 `json:"pipSize" yaml:"pip_size"`
	SpreadPips float64 `json:"spreadPips" yaml:"spread_pips"`
	Volatility float64 `json:"volatility" yaml:"volatility"`
}

// SymbolNames lists the tradable symbols in display order. The first entry
// supplies the parameters for unknown symbols.
var SymbolNames = []string{
	"EURUSD",
	"GBPUSD",
	"USDJPY",
	"XAUUSD",
	"NIFTY",
	"BANKNIFTY",
}

var Symbols = map[string]SymbolMeta{
	"EURUSD": {
		Name:       "EURUSD",
		BasePrice:  1.0850,
		PipSize:    0.0001,
		SpreadPips: 1.2,
		Volatility: 0.0020,
	},
	"GBPUSD": {
		Name:       "GBPUSD",
		BasePrice:  1.2650,
		PipSize:    0.0001,
		SpreadPips: 1.5,
		Volatility: 0.0025,
	},
	"USDJPY": {
		Name:       "USDJPY",
		BasePrice:  149.50,
		PipSize:    0.01,
		SpreadPips: 1.4,
		Volatility: 0.30,
	},
	"XAUUSD": {
		Name:       "XAUUSD",
		BasePrice:  2035.00,
		PipSize:    0.1,
		SpreadPips: 3,
		Volatility: 4.0,
	},
	"NIFTY": {
		Name:       "NIFTY",
		BasePrice:  22150.00,
		PipSize:    0.05,
		SpreadPips: 2,
		Volatility: 40,
	},
	"BANKNIFTY": {
		Name:       "BANKNIFTY",
		BasePrice:  47500.00,
		PipSize:    0.05,
		SpreadPips: 4,
		Volatility: 120,
	},
}

// Lookup returns the configuration for symbol. Unknown symbols borrow the
// first configured symbol's pip, spread and volatility around a base of 1.0.
func Lookup(symbol string) SymbolMeta {
	if meta, ok := Symbols[symbol]; ok {
		return meta
	}
	meta := Symbols[SymbolNames[0]]
	meta.Name = symbol
	meta.BasePrice = 1.0
	return meta
}

// Known reports whether symbol has its own configuration.
func Known(symbol string) bool {
	_, ok := Symbols[symbol]
	return ok
}
