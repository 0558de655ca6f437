package coingecko

import "github.com/shopspring/decimal"

// marketCoin is one element of the /coins/markets response.
type marketCoin struct {
	ID                       string              `json:"id"`
	Symbol                   string              `json:"symbol"`
	Name                     string              `json:"name"`
	Image                    string              `json:"image"`
	CurrentPrice             decimal.NullDecimal `json:"current_price"`
	PriceChangePercentage24h decimal.NullDecimal `json:"price_change_percentage_24h"`
	MarketCap                decimal.NullDecimal `json:"market_cap"`
}

// simplePriceResponse maps coin id -> vs currency -> price.
type simplePriceResponse map[string]map[string]decimal.NullDecimal

// symbolIDs maps portfolio ticker symbols to CoinGecko coin ids. Unknown
// symbols fall back to their lowercase form.
var symbolIDs = map[string]string{
	"BTC":   "bitcoin",
	"ETH":   "ethereum",
	"ETC":   "ethereum-classic",
	"SOL":   "solana",
	"ADA":   "cardano",
	"DOT":   "polkadot",
	"MATIC": "polygon",
	"LINK":  "chainlink",
	"LTC":   "litecoin",
	"BNB":   "binancecoin",
	"XRP":   "ripple",
	"DOGE":  "dogecoin",
	"AVAX":  "avalanche-2",
	"UNI":   "uniswap",
	"USDT":  "tether",
	"PEPE":  "pepe",
	"SHIB":  "shiba-inu",
	"BONK":  "bonk",
	"WIF":   "dogwifcoin",
}
