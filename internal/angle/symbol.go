package angle

import "strings"

// SymbolKind is the provider naming convention a display name follows.
type SymbolKind int

const (
	// SingleToken is a san token name such as "sanUSDC_EUR".
	SingleToken SymbolKind = iota + 1
	// DualToken is a perpetual name such as "ANGLE perp".
	DualToken
	// MultiToken is an LP name such as "Uni-V3 agEUR-USDC LP".
	MultiToken
)

func (k SymbolKind) String() string {
	switch k {
	case SingleToken:
		return "single"
	case DualToken:
		return "dual"
	case MultiToken:
		return "multi"
	default:
		return "unknown"
	}
}

// ClassifySymbol picks the naming convention from the token count.
func ClassifySymbol(tokens []string) SymbolKind {
	switch len(tokens) {
	case 0, 1:
		return SingleToken
	case 2:
		return DualToken
	default:
		return MultiToken
	}
}

// SymbolTokens splits a raw name the way the provider separates its parts.
func SymbolTokens(name string) []string {
	return strings.Split(strings.Replace(name, "/", "-", 1), " ")
}

// DeriveSymbol turns a raw provider name into a display symbol.
func DeriveSymbol(name string) string {
	tokens := SymbolTokens(name)
	switch ClassifySymbol(tokens) {
	case DualToken:
		return dualSymbol(tokens)
	case MultiToken:
		return multiSymbol(tokens)
	default:
		return sanSymbol(tokens[0])
	}
}

func sanSymbol(token string) string {
	symbol := strings.TrimPrefix(token, "san")
	if idx := strings.IndexByte(symbol, '_'); idx >= 0 {
		symbol = symbol[:idx]
	}
	return symbol
}

func dualSymbol(tokens []string) string {
	return tokens[0] + " " + tokens[1]
}

// multiSymbol drops the venue prefix and anything after the pair.
func multiSymbol(tokens []string) string {
	return tokens[1] + " " + tokens[2]
}
