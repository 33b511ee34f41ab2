// Package callcard builds immutable decision receipts from scoring results.
package callcard

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JermWang/disclaw/internal/model"
	"github.com/JermWang/disclaw/internal/policy"
	"github.com/JermWang/disclaw/internal/scoring"
)

const (
	policyVersion = "1.0.0"
	modelVersion  = "clawcord-v1.0"
	promptVersion = "1.0.0"
)

const maxPros = 5

// NewCallID returns a call id unique for practical purposes: millisecond
// timestamp in base36 plus six random characters.
func NewCallID() string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return strings.ToUpper(fmt.Sprintf("CC-%s-%s", ts, random))
}

// Generate builds a call card from a metrics snapshot, the policy it was
// scored under and the scoring result. The card is complete at return and
// never mutated afterwards.
func Generate(metrics model.TokenMetrics, pol model.Policy, result model.ScoringResult) model.CallCard {
	triggered := result.TriggeredSignals()

	triggers := make([]string, 0, len(triggered))
	ruleIDs := make([]string, 0, len(triggered))
	for _, s := range triggered {
		triggers = append(triggers, s.Reason)
		ruleIDs = append(ruleIDs, string(s.Signal))
	}

	now := time.Now().UTC()
	return model.CallCard{
		CallID:    NewCallID(),
		Timestamp: now,
		Token: model.TokenRef{
			Symbol: metrics.Symbol,
			Mint:   metrics.Mint,
			Name:   metrics.Name,
		},
		Policy: model.PolicyRef{
			Name:    pol.Name,
			Version: policyVersion,
			Hash:    policy.Hash(pol),
		},
		Triggers:     triggers,
		Pros:         pros(metrics),
		Risks:        Risks(metrics),
		Invalidation: Invalidation(metrics, pol),
		Confidence:   roundTenth(result.OverallScore),
		Metrics:      metrics,
		Receipts: model.Receipts{
			InputRefs:      []string{fmt.Sprintf("metrics:%s:%d", metrics.Mint, now.UnixMilli())},
			RulesTriggered: ruleIDs,
			ModelVersion:   modelVersion,
			PromptVersion:  promptVersion,
		},
	}
}

// pros derives positive talking points from the snapshot, independent of
// which signals triggered. Capped at maxPros, with a fallback when nothing
// stands out.
func pros(m model.TokenMetrics) []string {
	var out []string

	switch {
	case m.VolumeChange > 100:
		out = append(out, fmt.Sprintf("Strong volume momentum (+%.0f%%)", m.VolumeChange))
	case m.VolumeChange > 50:
		out = append(out, fmt.Sprintf("Good volume increase (+%.0f%%)", m.VolumeChange))
	}

	switch {
	case m.HoldersChange > 10:
		out = append(out, fmt.Sprintf("Rapid holder growth (+%.1f%%)", m.HoldersChange))
	case m.HoldersChange > 5:
		out = append(out, fmt.Sprintf("Healthy holder growth (+%.1f%%)", m.HoldersChange))
	}

	if m.LPLocked {
		out = append(out, "LP is locked")
	}
	if !m.MintAuthority && !m.FreezeAuthority {
		out = append(out, "No mint/freeze authority (renounced)")
	}
	if m.DeployerRugCount == 0 && m.DeployerPriorTokens > 0 {
		out = append(out, fmt.Sprintf("Clean deployer history (%d prior tokens)", m.DeployerPriorTokens))
	}
	if m.TopHolderConcentration < 15 {
		out = append(out, fmt.Sprintf("Well-distributed supply (top %.1f%%)", m.TopHolderConcentration))
	}
	if m.Liquidity > 20000 {
		out = append(out, fmt.Sprintf("Strong liquidity ($%.1fk)", m.Liquidity/1000))
	}

	if len(out) == 0 {
		out = append(out, "Meets minimum threshold requirements")
	}
	if len(out) > maxPros {
		out = out[:maxPros]
	}
	return out
}

// Risks derives typed risk flags from the snapshot.
func Risks(m model.TokenMetrics) []model.RiskFlag {
	var flags []model.RiskFlag

	if m.MintAuthority {
		flags = append(flags, model.RiskFlag{
			Severity: model.RiskHigh,
			Message:  "Mint authority enabled - supply can be inflated",
			Signal:   "general",
		})
	}
	if m.FreezeAuthority {
		flags = append(flags, model.RiskFlag{
			Severity: model.RiskHigh,
			Message:  "Freeze authority enabled - tokens can be frozen",
			Signal:   "general",
		})
	}
	if m.DeployerRugCount > 0 {
		flags = append(flags, model.RiskFlag{
			Severity: model.RiskHigh,
			Message:  fmt.Sprintf("Deployer has %d prior rug(s)", m.DeployerRugCount),
			Signal:   string(model.SignalDeployerActivity),
		})
	}

	if m.TopHolderConcentration > 30 {
		flags = append(flags, model.RiskFlag{
			Severity: model.RiskHigh,
			Message:  fmt.Sprintf("Top holder concentration very high (%.1f%%)", m.TopHolderConcentration),
			Signal:   string(model.SignalDistributionPattern),
		})
	} else if m.TopHolderConcentration > 20 {
		flags = append(flags, model.RiskFlag{
			Severity: model.RiskMedium,
			Message:  fmt.Sprintf("Top holder concentration elevated (%.1f%%)", m.TopHolderConcentration),
			Signal:   string(model.SignalDistributionPattern),
		})
	}

	if !m.LPLocked && m.LPAge < 6 {
		flags = append(flags, model.RiskFlag{
			Severity: model.RiskMedium,
			Message:  fmt.Sprintf("LP not locked and young (%.1fh)", m.LPAge),
			Signal:   string(model.SignalLPStability),
		})
	}
	if m.TokenAgeHours < 1 {
		flags = append(flags, model.RiskFlag{
			Severity: model.RiskMedium,
			Message:  fmt.Sprintf("Very new token (%.0f minutes old)", m.TokenAgeHours*60),
			Signal:   "general",
		})
	}

	if m.Holders < 100 {
		flags = append(flags, model.RiskFlag{
			Severity: model.RiskLow,
			Message:  fmt.Sprintf("Low holder count (%d)", m.Holders),
			Signal:   string(model.SignalHolderGrowth),
		})
	}
	if m.DeployerPriorTokens == 0 {
		flags = append(flags, model.RiskFlag{
			Severity: model.RiskLow,
			Message:  "First-time deployer - no track record",
			Signal:   string(model.SignalDeployerActivity),
		})
	}

	return flags
}

// Invalidation derives the conditions under which the call should be
// considered dead, relative to the policy and current levels.
func Invalidation(m model.TokenMetrics, pol model.Policy) []string {
	conditions := []string{
		fmt.Sprintf("Price drops >30%% from current level ($%.8f)", m.Price),
		fmt.Sprintf("24h volume drops below $%.0f", pol.Thresholds.MinVolume24h*0.5),
		fmt.Sprintf("Liquidity drops below $%.0f", m.Liquidity*0.7),
		"Holder count decreases by >10%",
	}
	if !m.LPLocked {
		conditions = append(conditions, "LP is removed or significantly reduced")
	}
	return conditions
}

// MetricsSource resolves a mint to a fresh metrics snapshot.
type MetricsSource interface {
	TokenMetrics(ctx context.Context, mint string) (*model.TokenMetrics, error)
}

// ErrMetricsUnavailable reports that no snapshot could be fetched for a mint.
var ErrMetricsUnavailable = errors.New("could not fetch token metrics")

// ProcessCallRequest runs the manual-call path: fetch metrics, score under
// the tenant's policy, reject when thresholds or the confidence floor fail,
// otherwise emit a card.
func ProcessCallRequest(ctx context.Context, mint string, pol model.Policy, src MetricsSource) (model.CallCard, error) {
	metrics, err := src.TokenMetrics(ctx, mint)
	if err != nil || metrics == nil {
		return model.CallCard{}, ErrMetricsUnavailable
	}

	result := scoring.Score(*metrics, pol)
	if !result.PassesThresholds {
		return model.CallCard{}, fmt.Errorf("token fails thresholds: %s",
			strings.Join(result.FailedThresholds, "; "))
	}
	if result.OverallScore < pol.Thresholds.MinConfidenceScore {
		return model.CallCard{}, fmt.Errorf("confidence %.1f below minimum %.1f",
			result.OverallScore, pol.Thresholds.MinConfidenceScore)
	}

	return Generate(*metrics, pol, result), nil
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
