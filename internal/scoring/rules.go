package scoring

import (
	"fmt"

	"github.com/JermWang/disclaw/internal/model"
)

// rule is one signal's scoring logic: a fixed weight plus an evaluation
// function over a metrics snapshot. Keeping the table as data lets each
// rule be tested on its own and new signals added without touching the
// aggregation in Score.
type rule struct {
	Weight float64
	Eval   func(m model.TokenMetrics) (score float64, triggered bool, reason string)
}

var rules = map[model.SignalType]rule{
	model.SignalVolumeSpike: {
		Weight: 1.5,
		Eval: func(m model.TokenMetrics) (float64, bool, string) {
			triggered := m.VolumeChange > 50
			score := clamp(m.VolumeChange/20, 0, 10)
			if triggered {
				return score, true, fmt.Sprintf("Volume +%.0f%% spike detected", m.VolumeChange)
			}
			return score, false, fmt.Sprintf("Volume change %.0f%% below threshold", m.VolumeChange)
		},
	},
	model.SignalLiquidityChange: {
		Weight: 1.2,
		Eval: func(m model.TokenMetrics) (float64, bool, string) {
			triggered := m.LiquidityChange > 10
			score := clamp(5+m.LiquidityChange/5, 0, 10)
			if triggered {
				return score, true, fmt.Sprintf("Liquidity +%.1f%% increase", m.LiquidityChange)
			}
			return score, false, fmt.Sprintf("Liquidity stable at %.1f%%", m.LiquidityChange)
		},
	},
	model.SignalHolderGrowth: {
		Weight: 1.3,
		Eval: func(m model.TokenMetrics) (float64, bool, string) {
			triggered := m.HoldersChange > 5
			score := clamp(m.HoldersChange, 0, 10)
			if triggered {
				return score, true, fmt.Sprintf("Holders +%.1f%% growth", m.HoldersChange)
			}
			return score, false, fmt.Sprintf("Holder growth %.1f%% below threshold", m.HoldersChange)
		},
	},
	model.SignalWhaleAccumulation: {
		Weight: 1.4,
		Eval: func(m model.TokenMetrics) (float64, bool, string) {
			// Low concentration with rising holders reads as accumulation
			// without domination.
			triggered := m.TopHolderConcentration < 25 && m.HoldersChange > 3
			if triggered {
				return 7, true, "Healthy accumulation pattern detected"
			}
			return 4, false, "No clear whale accumulation signal"
		},
	},
	model.SignalDeployerActivity: {
		Weight: 1.6,
		Eval: func(m model.TokenMetrics) (float64, bool, string) {
			clean := m.DeployerRugCount == 0 && m.DeployerPriorTokens > 0
			switch {
			case clean:
				return 8, true, fmt.Sprintf("Deployer has clean history (%d prior tokens, 0 rugs)", m.DeployerPriorTokens)
			case m.DeployerRugCount > 0:
				return 2, false, fmt.Sprintf("WARNING: Deployer has %d prior rugs", m.DeployerRugCount)
			default:
				return 5, false, "New deployer - no history"
			}
		},
	},
	model.SignalSocialVelocity: {
		Weight: 1.0,
		Eval: func(m model.TokenMetrics) (float64, bool, string) {
			// Placeholder: no social data source is wired, so this signal
			// never triggers.
			return 5, false, "Social data not available"
		},
	},
	model.SignalPriceMomentum: {
		Weight: 1.2,
		Eval: func(m model.TokenMetrics) (float64, bool, string) {
			triggered := m.PriceChange24h > 20
			score := clamp(5+m.PriceChange24h/20, 0, 10)
			if triggered {
				return score, true, fmt.Sprintf("Strong momentum +%.1f%%", m.PriceChange24h)
			}
			return score, false, fmt.Sprintf("Price change %.1f%%", m.PriceChange24h)
		},
	},
	model.SignalDrawdownReclaim: {
		Weight: 1.4,
		Eval: func(m model.TokenMetrics) (float64, bool, string) {
			triggered := m.PriceChange24h > 10 && m.PriceChange24h < 50
			if triggered {
				return 7, true, "Potential reclaim pattern detected"
			}
			return 4, false, "No clear drawdown reclaim"
		},
	},
	model.SignalLPStability: {
		Weight: 1.3,
		Eval: func(m model.TokenMetrics) (float64, bool, string) {
			stable := m.LPLocked || m.LPAge > 6
			triggered := stable && abs(m.LiquidityChange) < 15
			switch {
			case triggered:
				locked := ""
				if m.LPLocked {
					locked = " (locked)"
				}
				return 8, true, fmt.Sprintf("LP stable%s, age %.1fh", locked, m.LPAge)
			case m.LPLocked:
				return 6, false, "LP locked but volatile"
			default:
				return 3, false, fmt.Sprintf("LP not locked, age %.1fh", m.LPAge)
			}
		},
	},
	model.SignalDistributionPattern: {
		Weight: 1.5,
		Eval: func(m model.TokenMetrics) (float64, bool, string) {
			healthy := m.TopHolderConcentration < 20
			triggered := healthy && m.Holders > 100
			score := 4.0
			if healthy {
				score = 8
			}
			if triggered {
				return score, true, fmt.Sprintf("Healthy distribution (top holder %.1f%%)", m.TopHolderConcentration)
			}
			return score, false, fmt.Sprintf("Concentrated distribution (%.1f%%)", m.TopHolderConcentration)
		},
	},
}

// Weight returns the fixed aggregation weight for a signal, 0 if unknown.
func Weight(signal model.SignalType) float64 {
	return rules[signal].Weight
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
