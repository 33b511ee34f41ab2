// Package scoring turns a token metrics snapshot and a policy into a
// normalized confidence score with per-signal diagnostics. Score is a pure
// function: same inputs always yield the same result, and malformed numeric
// input is neutralized rather than rejected.
package scoring

import (
	"fmt"
	"math"

	"github.com/JermWang/disclaw/internal/model"
)

// Score evaluates metrics against a policy. All threshold failures are
// collected rather than short-circuited; the overall score is the weighted
// average of triggered signals only, with authority and rug penalties
// applied afterwards, clamped to [0,10].
func Score(metrics model.TokenMetrics, policy model.Policy) model.ScoringResult {
	metrics = sanitize(metrics)

	failed := checkThresholds(metrics, policy.Thresholds)

	signals := make([]model.SignalScore, 0, len(policy.EnabledSignals))
	for _, sig := range policy.EnabledSignals {
		r, ok := rules[sig]
		if !ok {
			signals = append(signals, model.SignalScore{
				Signal: sig,
				Reason: "Unknown signal",
			})
			continue
		}
		score, triggered, reason := r.Eval(metrics)
		signals = append(signals, model.SignalScore{
			Signal:    sig,
			Score:     score,
			Weight:    r.Weight,
			Triggered: triggered,
			Reason:    reason,
		})
	}

	var overall float64
	var totalWeight, weightedSum float64
	for _, s := range signals {
		if !s.Triggered {
			continue
		}
		totalWeight += s.Weight
		weightedSum += s.Score * s.Weight
	}
	if totalWeight > 0 {
		overall = weightedSum / totalWeight
	}

	if metrics.MintAuthority {
		overall *= 0.7
	}
	if metrics.FreezeAuthority {
		overall *= 0.6
	}
	if metrics.DeployerRugCount > 0 {
		overall *= math.Max(0.5, 1-float64(metrics.DeployerRugCount)*0.15)
	}

	return model.ScoringResult{
		OverallScore:     clamp(overall, 0, 10),
		Signals:          signals,
		PassesThresholds: len(failed) == 0,
		FailedThresholds: failed,
	}
}

func checkThresholds(m model.TokenMetrics, t model.PolicyThresholds) []string {
	var failed []string
	if m.Liquidity < t.MinLiquidity {
		failed = append(failed, fmt.Sprintf("Liquidity $%.0f < min $%.0f", m.Liquidity, t.MinLiquidity))
	}
	if m.Volume24h < t.MinVolume24h {
		failed = append(failed, fmt.Sprintf("Volume $%.0f < min $%.0f", m.Volume24h, t.MinVolume24h))
	}
	if m.TokenAgeHours > t.MaxTokenAge {
		failed = append(failed, fmt.Sprintf("Token age %.1fh > max %.0fh", m.TokenAgeHours, t.MaxTokenAge))
	}
	if m.Holders < t.MinHolders {
		failed = append(failed, fmt.Sprintf("Holders %d < min %d", m.Holders, t.MinHolders))
	}
	if m.TopHolderConcentration > t.MaxTopHolderConcentration {
		failed = append(failed, fmt.Sprintf("Top holder concentration %.1f%% > max %.0f%%",
			m.TopHolderConcentration, t.MaxTopHolderConcentration))
	}
	return failed
}

// sanitize zeroes NaN and infinite numeric fields so every rule sees a
// finite value and Score stays total.
func sanitize(m model.TokenMetrics) model.TokenMetrics {
	for _, f := range []*float64{
		&m.Price, &m.PriceChange24h, &m.Volume24h, &m.VolumeChange,
		&m.Liquidity, &m.LiquidityChange, &m.HoldersChange,
		&m.TopHolderConcentration, &m.TokenAgeHours, &m.LPAge,
	} {
		if math.IsNaN(*f) || math.IsInf(*f, 0) {
			*f = 0
		}
	}
	return m
}
