package candidates

import (
	"time"

	"github.com/JermWang/disclaw/internal/model"
)

// DeriveMetrics builds a scoring snapshot from a pair. Fields the listings
// feed cannot provide (holders, concentration, authorities, deployer
// history) stay at their zero values, which the scoring engine treats as
// neutral.
func DeriveMetrics(pair *model.Pair, now time.Time) model.TokenMetrics {
	age := pair.AgeHours(now)
	return model.TokenMetrics{
		Mint:           pair.BaseToken.Address,
		Symbol:         pair.BaseToken.Symbol,
		Name:           pair.BaseToken.Name,
		Price:          pair.PriceUSD(),
		PriceChange24h: pair.PriceChange.H24,
		Volume24h:      pair.Volume.H24,
		VolumeChange:   volumeAcceleration(pair.Volume),
		Liquidity:      pair.Liquidity.USD,
		TokenAgeHours:  age,
		// The pool and the token are born together on a fresh listing,
		// so pair age stands in for LP age.
		LPAge: age,
	}
}

// volumeAcceleration compares the last hour's pace against the 24h average.
// +100% means the last hour ran at twice the trailing daily rate.
func volumeAcceleration(v model.Volume) float64 {
	if v.H24 <= 0 {
		return 0
	}
	hourlyAvg := v.H24 / 24
	if hourlyAvg <= 0 {
		return 0
	}
	return (v.H1/hourlyAvg - 1) * 100
}
