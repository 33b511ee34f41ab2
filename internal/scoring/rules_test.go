package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JermWang/disclaw/internal/model"
)

func evalRule(t *testing.T, sig model.SignalType, m model.TokenMetrics) (float64, bool, string) {
	t.Helper()
	r, ok := rules[sig]
	require.True(t, ok, "rule %s not registered", sig)
	return r.Eval(m)
}

func TestRules_AllSignalsRegistered(t *testing.T) {
	for _, sig := range model.AllSignals {
		_, ok := rules[sig]
		assert.True(t, ok, "signal %s has no rule", sig)
	}
	assert.Len(t, rules, len(model.AllSignals))
}

func TestVolumeSpike(t *testing.T) {
	score, triggered, reason := evalRule(t, model.SignalVolumeSpike, model.TokenMetrics{VolumeChange: 120})
	assert.True(t, triggered)
	assert.InDelta(t, 6.0, score, 1e-9)
	assert.Contains(t, reason, "spike")

	_, triggered, _ = evalRule(t, model.SignalVolumeSpike, model.TokenMetrics{VolumeChange: 40})
	assert.False(t, triggered)

	// Clamped at 10 for extreme spikes.
	score, _, _ = evalRule(t, model.SignalVolumeSpike, model.TokenMetrics{VolumeChange: 1000})
	assert.Equal(t, 10.0, score)
}

func TestLiquidityChange(t *testing.T) {
	score, triggered, _ := evalRule(t, model.SignalLiquidityChange, model.TokenMetrics{LiquidityChange: 20})
	assert.True(t, triggered)
	assert.InDelta(t, 9.0, score, 1e-9)

	_, triggered, _ = evalRule(t, model.SignalLiquidityChange, model.TokenMetrics{LiquidityChange: 5})
	assert.False(t, triggered)
}

func TestHolderGrowth(t *testing.T) {
	score, triggered, _ := evalRule(t, model.SignalHolderGrowth, model.TokenMetrics{HoldersChange: 8})
	assert.True(t, triggered)
	assert.InDelta(t, 8.0, score, 1e-9)

	_, triggered, _ = evalRule(t, model.SignalHolderGrowth, model.TokenMetrics{HoldersChange: 4})
	assert.False(t, triggered)
}

func TestWhaleAccumulation(t *testing.T) {
	_, triggered, _ := evalRule(t, model.SignalWhaleAccumulation,
		model.TokenMetrics{TopHolderConcentration: 15, HoldersChange: 5})
	assert.True(t, triggered)

	_, triggered, _ = evalRule(t, model.SignalWhaleAccumulation,
		model.TokenMetrics{TopHolderConcentration: 40, HoldersChange: 5})
	assert.False(t, triggered)
}

func TestDeployerActivity(t *testing.T) {
	score, triggered, _ := evalRule(t, model.SignalDeployerActivity,
		model.TokenMetrics{DeployerPriorTokens: 5})
	assert.True(t, triggered)
	assert.Equal(t, 8.0, score)

	score, triggered, reason := evalRule(t, model.SignalDeployerActivity,
		model.TokenMetrics{DeployerPriorTokens: 5, DeployerRugCount: 2})
	assert.False(t, triggered)
	assert.Equal(t, 2.0, score)
	assert.Contains(t, reason, "WARNING")

	score, triggered, _ = evalRule(t, model.SignalDeployerActivity, model.TokenMetrics{})
	assert.False(t, triggered)
	assert.Equal(t, 5.0, score)
}

func TestSocialVelocityNeverTriggers(t *testing.T) {
	_, triggered, _ := evalRule(t, model.SignalSocialVelocity,
		model.TokenMetrics{VolumeChange: 1000, HoldersChange: 100})
	assert.False(t, triggered)
}

func TestPriceMomentum(t *testing.T) {
	score, triggered, _ := evalRule(t, model.SignalPriceMomentum, model.TokenMetrics{PriceChange24h: 40})
	assert.True(t, triggered)
	assert.InDelta(t, 7.0, score, 1e-9)

	_, triggered, _ = evalRule(t, model.SignalPriceMomentum, model.TokenMetrics{PriceChange24h: 10})
	assert.False(t, triggered)
}

func TestDrawdownReclaim(t *testing.T) {
	_, triggered, _ := evalRule(t, model.SignalDrawdownReclaim, model.TokenMetrics{PriceChange24h: 30})
	assert.True(t, triggered)

	// Above the band reads as a straight pump, not a reclaim.
	_, triggered, _ = evalRule(t, model.SignalDrawdownReclaim, model.TokenMetrics{PriceChange24h: 80})
	assert.False(t, triggered)
}

func TestLPStability(t *testing.T) {
	score, triggered, _ := evalRule(t, model.SignalLPStability,
		model.TokenMetrics{LPLocked: true, LiquidityChange: 5})
	assert.True(t, triggered)
	assert.Equal(t, 8.0, score)

	score, triggered, _ = evalRule(t, model.SignalLPStability,
		model.TokenMetrics{LPLocked: true, LiquidityChange: 40})
	assert.False(t, triggered)
	assert.Equal(t, 6.0, score)

	score, triggered, _ = evalRule(t, model.SignalLPStability,
		model.TokenMetrics{LPAge: 2, LiquidityChange: 5})
	assert.False(t, triggered)
	assert.Equal(t, 3.0, score)
}

func TestDistributionPattern(t *testing.T) {
	score, triggered, _ := evalRule(t, model.SignalDistributionPattern,
		model.TokenMetrics{TopHolderConcentration: 12, Holders: 500})
	assert.True(t, triggered)
	assert.Equal(t, 8.0, score)

	// Healthy spread but too few holders: good score, no trigger.
	score, triggered, _ = evalRule(t, model.SignalDistributionPattern,
		model.TokenMetrics{TopHolderConcentration: 12, Holders: 50})
	assert.False(t, triggered)
	assert.Equal(t, 8.0, score)

	score, triggered, _ = evalRule(t, model.SignalDistributionPattern,
		model.TokenMetrics{TopHolderConcentration: 45, Holders: 500})
	assert.False(t, triggered)
	assert.Equal(t, 4.0, score)
}

func TestWeight(t *testing.T) {
	assert.Equal(t, 1.6, Weight(model.SignalDeployerActivity))
	assert.Zero(t, Weight("nope"))
}
