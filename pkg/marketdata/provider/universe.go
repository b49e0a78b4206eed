package provider

import (
	"sort"
	"strings"

	binance "github.com/adshao/go-binance/v2"
)

const universeQuoteAsset = "USDT"

// stableBaseAssets are quoted in USDT but track a dollar themselves.
var stableBaseAssets = map[string]struct{}{
	"BUSD":  {},
	"USDC":  {},
	"TUSD":  {},
	"USDP":  {},
	"FDUSD": {},
}

// leveragedSymbols are the listed leveraged tokens.
var leveragedSymbols = map[string]struct{}{
	"BTCUPUSDT": {}, "BTCDOWNUSDT": {},
	"ETHUPUSDT": {}, "ETHDOWNUSDT": {},
	"BNBUPUSDT": {}, "BNBDOWNUSDT": {},
	"ADAUPUSDT": {}, "ADADOWNUSDT": {},
	"XRPUPUSDT": {}, "XRPDOWNUSDT": {},
	"DOTUPUSDT": {}, "DOTDOWNUSDT": {},
	"LINKUPUSDT": {}, "LINKDOWNUSDT": {},
	"TRXUPUSDT": {}, "TRXDOWNUSDT": {},
	"LTCUPUSDT": {}, "LTCDOWNUSDT": {},
	"EOSUPUSDT": {}, "EOSDOWNUSDT": {},
	"XTZUPUSDT": {}, "XTZDOWNUSDT": {},
	"UNIUPUSDT": {}, "UNIDOWNUSDT": {},
	"FILUPUSDT": {}, "FILDOWNUSDT": {},
	"SXPUPUSDT": {}, "SXPDOWNUSDT": {},
	"AAVEUPUSDT": {}, "AAVEDOWNUSDT": {},
	"SUSHIUPUSDT": {}, "SUSHIDOWNUSDT": {},
	"YFIUPUSDT": {}, "YFIDOWNUSDT": {},
	"1INCHUPUSDT": {}, "1INCHDOWNUSDT": {},
	"BCHUPUSDT": {}, "BCHDOWNUSDT": {},
	"XLMUPUSDT": {}, "XLMDOWNUSDT": {},
}

// FilterUniverse keeps trading USDT spot pairs, dropping stablecoin bases and
// leveraged UP/DOWN tokens. The result is sorted.
//
// Besides the known leveraged list, a base asset named XUP or XDOWN is treated
// as leveraged when X is itself a base asset on the exchange, so JUP survives
// while BTCUP does not.
func FilterUniverse(symbols []binance.Symbol) []string {
	bases := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		bases[s.BaseAsset] = struct{}{}
	}

	out := make([]string, 0, len(symbols))

	for _, s := range symbols {
		if !IsScannable(s) || isDerivedLeveraged(s.BaseAsset, bases) {
			continue
		}

		out = append(out, s.Symbol)
	}

	sort.Strings(out)

	return out
}

// IsScannable reports whether one exchange symbol belongs in the universe,
// judged on its own fields.
func IsScannable(s binance.Symbol) bool {
	if !s.IsSpotTradingAllowed || s.Status != string(binance.SymbolStatusTypeTrading) {
		return false
	}

	if s.QuoteAsset != universeQuoteAsset {
		return false
	}

	if _, stable := stableBaseAssets[s.BaseAsset]; stable {
		return false
	}

	return !IsLeveragedToken(s.Symbol)
}

// IsLeveragedToken matches the known leveraged token list.
func IsLeveragedToken(symbol string) bool {
	_, ok := leveragedSymbols[symbol]

	return ok
}

func isDerivedLeveraged(base string, bases map[string]struct{}) bool {
	for _, suffix := range []string{"UP", "DOWN"} {
		underlying, found := strings.CutSuffix(base, suffix)
		if !found || underlying == "" {
			continue
		}

		if _, listed := bases[underlying]; listed {
			return true
		}
	}

	return false
}
