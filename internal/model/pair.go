package model

import (
	"math"
	"strconv"
	"time"
)

// PairToken identifies one side of a trading pair.
type PairToken struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

// PriceChange holds percentage price deltas over fixed windows.
type PriceChange struct {
	M5  float64 `json:"m5"`
	H1  float64 `json:"h1"`
	H24 float64 `json:"h24"`
}

// Volume holds traded USD volume over fixed windows.
type Volume struct {
	M5  float64 `json:"m5"`
	H1  float64 `json:"h1"`
	H24 float64 `json:"h24"`
}

// Liquidity holds pool liquidity figures.
type Liquidity struct {
	USD float64 `json:"usd"`
}

// TxnCount holds buy/sell transaction counts for one window.
type TxnCount struct {
	Buys  int `json:"buys"`
	Sells int `json:"sells"`
}

// Txns holds transaction counts per window.
type Txns struct {
	M5 TxnCount `json:"m5"`
}

// Social is one external reference link attached to a pair.
type Social struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// Website is a project website link.
type Website struct {
	URL string `json:"url"`
}

// PairInfo carries the pair's reference links.
type PairInfo struct {
	Socials  []Social  `json:"socials"`
	Websites []Website `json:"websites"`
}

// Pair is one DexScreener pair snapshot.
type Pair struct {
	ChainID       string      `json:"chainId"`
	PairAddress   string      `json:"pairAddress"`
	BaseToken     PairToken   `json:"baseToken"`
	PriceUsd      string      `json:"priceUsd"`
	PriceChange   PriceChange `json:"priceChange"`
	Volume        Volume      `json:"volume"`
	Liquidity     Liquidity   `json:"liquidity"`
	MarketCap     float64     `json:"marketCap"`
	FDV           float64     `json:"fdv"`
	Txns          Txns        `json:"txns"`
	PairCreatedAt int64       `json:"pairCreatedAt"` // epoch ms
	URL           string      `json:"url"`
	Info          *PairInfo   `json:"info,omitempty"`
}

// PriceUSD parses the pair's USD price. Returns 0 when missing or malformed.
func (p *Pair) PriceUSD() float64 {
	v, err := strconv.ParseFloat(p.PriceUsd, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// CreatedAt converts PairCreatedAt to a time.Time. Zero when unset.
func (p *Pair) CreatedAt() time.Time {
	if p.PairCreatedAt == 0 {
		return time.Time{}
	}
	return time.UnixMilli(p.PairCreatedAt)
}

// AgeHours returns the pair age in hours at the given instant.
func (p *Pair) AgeHours(now time.Time) float64 {
	created := p.CreatedAt()
	if created.IsZero() {
		return 0
	}
	return now.Sub(created).Hours()
}

// BuySellRatio returns buys/sells for the 5-minute window.
// Buys with zero sells yield +Inf so the ratio clears any threshold.
func (p *Pair) BuySellRatio() float64 {
	buys := p.Txns.M5.Buys
	sells := p.Txns.M5.Sells
	if sells > 0 {
		return float64(buys) / float64(sells)
	}
	if buys > 0 {
		return math.Inf(1)
	}
	return 0
}
