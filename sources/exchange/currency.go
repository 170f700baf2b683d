package exchange

import "strings"

// Aliases maps non-code currency glyphs seen in chat exports onto ISO codes.
var Aliases = map[string]string{
	"₫": "VND",
}

// NormalizeCurrency resolves aliases and uppercases the code. It must run before any comparison or
// cache lookup.
func NormalizeCurrency(code string) string {
	code = strings.TrimSpace(code)
	if alias, ok := Aliases[code]; ok {
		return alias
	}
	return strings.ToUpper(code)
}

// PairKey is the cache key for a conversion from one currency to another.
func PairKey(from, to string) string {
	return NormalizeCurrency(from) + "." + NormalizeCurrency(to)
}
