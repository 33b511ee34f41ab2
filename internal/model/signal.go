package model

// SignalType identifies an independently scorable market condition.
type SignalType string

const (
	SignalVolumeSpike         SignalType = "volume-spike"
	SignalLiquidityChange     SignalType = "liquidity-change"
	SignalHolderGrowth        SignalType = "holder-growth"
	SignalWhaleAccumulation   SignalType = "whale-accumulation"
	SignalDeployerActivity    SignalType = "deployer-activity"
	SignalSocialVelocity      SignalType = "social-velocity"
	SignalPriceMomentum       SignalType = "price-momentum"
	SignalDrawdownReclaim     SignalType = "drawdown-reclaim"
	SignalLPStability         SignalType = "lp-stability"
	SignalDistributionPattern SignalType = "distribution-pattern"
)

// AllSignals lists every known signal in a stable order.
var AllSignals = []SignalType{
	SignalVolumeSpike,
	SignalLiquidityChange,
	SignalHolderGrowth,
	SignalWhaleAccumulation,
	SignalDeployerActivity,
	SignalSocialVelocity,
	SignalPriceMomentum,
	SignalDrawdownReclaim,
	SignalLPStability,
	SignalDistributionPattern,
}

// SignalScore is one signal's scoring outcome.
type SignalScore struct {
	Signal    SignalType `json:"signal"`
	Score     float64    `json:"score"` // 0-10
	Weight    float64    `json:"weight"`
	Triggered bool       `json:"triggered"`
	Reason    string     `json:"reason"`
}

// ScoringResult is the full output of the scoring engine for one token.
type ScoringResult struct {
	OverallScore     float64       `json:"overallScore"` // 0-10
	Signals          []SignalScore `json:"signals"`
	PassesThresholds bool          `json:"passesThresholds"`
	FailedThresholds []string      `json:"failedThresholds"`
}

// TriggeredSignals returns only the signals that fired.
func (r ScoringResult) TriggeredSignals() []SignalScore {
	out := make([]SignalScore, 0, len(r.Signals))
	for _, s := range r.Signals {
		if s.Triggered {
			out = append(out, s)
		}
	}
	return out
}
