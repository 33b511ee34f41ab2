package callcard

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JermWang/disclaw/internal/model"
	"github.com/JermWang/disclaw/internal/policy"
	"github.com/JermWang/disclaw/internal/scoring"
)

func strongMetrics() model.TokenMetrics {
	return model.TokenMetrics{
		Mint:                   "AbCdEfGhIjKlMnOpQrStUvWxYz1234567890abcdPUMP",
		Symbol:                 "TEST",
		Name:                   "Test Token",
		Price:                  0.00042,
		PriceChange24h:         30,
		Volume24h:              80000,
		VolumeChange:           150,
		Liquidity:              30000,
		LiquidityChange:        15,
		Holders:                800,
		HoldersChange:          12,
		TopHolderConcentration: 10,
		TokenAgeHours:          6,
		LPLocked:               true,
		LPAge:                  6,
		DeployerPriorTokens:    4,
	}
}

func TestNewCallID_Format(t *testing.T) {
	id := NewCallID()
	assert.True(t, strings.HasPrefix(id, "CC-"))
	assert.Equal(t, id, strings.ToUpper(id))
	parts := strings.Split(id, "-")
	require.Len(t, parts, 3)
	assert.Len(t, parts[2], 6)

	assert.NotEqual(t, id, NewCallID())
}

func TestGenerate_Card(t *testing.T) {
	m := strongMetrics()
	pol := policy.Default("guild-1")
	result := scoring.Score(m, pol)

	card := Generate(m, pol, result)

	assert.NotEmpty(t, card.CallID)
	assert.Equal(t, "TEST", card.Token.Symbol)
	assert.Equal(t, m.Mint, card.Token.Mint)
	assert.Equal(t, pol.Name, card.Policy.Name)
	assert.Equal(t, policy.Hash(pol), card.Policy.Hash)
	assert.Len(t, card.Triggers, len(result.TriggeredSignals()))
	assert.Equal(t, len(card.Triggers), len(card.Receipts.RulesTriggered))
	assert.NotEmpty(t, card.Pros)
	assert.NotEmpty(t, card.Invalidation)
	assert.Equal(t, "clawcord-v1.0", card.Receipts.ModelVersion)
	require.Len(t, card.Receipts.InputRefs, 1)
	assert.Contains(t, card.Receipts.InputRefs[0], m.Mint)

	// Confidence carries one decimal of the overall score.
	assert.InDelta(t, result.OverallScore, card.Confidence, 0.05)
	assert.Equal(t, card.Confidence, roundTenth(card.Confidence))
}

func TestPros_CappedAtFive(t *testing.T) {
	// strongMetrics hits more than five pro conditions.
	out := pros(strongMetrics())
	assert.Len(t, out, maxPros)
}

func TestPros_FallbackWhenNothingStandsOut(t *testing.T) {
	out := pros(model.TokenMetrics{TopHolderConcentration: 50, MintAuthority: true})
	require.Len(t, out, 1)
	assert.Equal(t, "Meets minimum threshold requirements", out[0])
}

func TestRisks_Severities(t *testing.T) {
	m := model.TokenMetrics{
		MintAuthority:          true,
		FreezeAuthority:        true,
		DeployerRugCount:       1,
		TopHolderConcentration: 35,
		TokenAgeHours:          0.5,
		Holders:                50,
	}
	flags := Risks(m)

	var high, medium, low int
	for _, f := range flags {
		switch f.Severity {
		case model.RiskHigh:
			high++
		case model.RiskMedium:
			medium++
		case model.RiskLow:
			low++
		}
	}
	// mint + freeze + rugs + concentration>30
	assert.Equal(t, 4, high)
	// LP young and unlocked + very new token
	assert.Equal(t, 2, medium)
	// low holders + first-time deployer
	assert.Equal(t, 2, low)
}

func TestRisks_ConcentrationBands(t *testing.T) {
	flags := Risks(model.TokenMetrics{TopHolderConcentration: 25, Holders: 500, TokenAgeHours: 5, LPLocked: true, DeployerPriorTokens: 1})
	require.Len(t, flags, 1)
	assert.Equal(t, model.RiskMedium, flags[0].Severity)
	assert.Equal(t, string(model.SignalDistributionPattern), flags[0].Signal)
}

func TestInvalidation_LPConditionOnlyWhenUnlocked(t *testing.T) {
	pol := policy.Default("g")
	m := strongMetrics()

	locked := Invalidation(m, pol)
	assert.Len(t, locked, 4)

	m.LPLocked = false
	unlocked := Invalidation(m, pol)
	require.Len(t, unlocked, 5)
	assert.Contains(t, unlocked[4], "LP is removed")
}

type staticSource struct {
	metrics *model.TokenMetrics
	err     error
}

func (s staticSource) TokenMetrics(context.Context, string) (*model.TokenMetrics, error) {
	return s.metrics, s.err
}

func TestProcessCallRequest_Success(t *testing.T) {
	m := strongMetrics()
	card, err := ProcessCallRequest(context.Background(), m.Mint, policy.Default("g"), staticSource{metrics: &m})
	require.NoError(t, err)
	assert.Equal(t, m.Mint, card.Token.Mint)
}

func TestProcessCallRequest_MetricsUnavailable(t *testing.T) {
	_, err := ProcessCallRequest(context.Background(), "mint", policy.Default("g"), staticSource{err: errors.New("boom")})
	assert.ErrorIs(t, err, ErrMetricsUnavailable)

	_, err = ProcessCallRequest(context.Background(), "mint", policy.Default("g"), staticSource{})
	assert.ErrorIs(t, err, ErrMetricsUnavailable)
}

func TestProcessCallRequest_ThresholdFailure(t *testing.T) {
	m := strongMetrics()
	m.Liquidity = 100
	_, err := ProcessCallRequest(context.Background(), m.Mint, policy.Default("g"), staticSource{metrics: &m})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fails thresholds")
}

func TestProcessCallRequest_ConfidenceFloor(t *testing.T) {
	m := strongMetrics()
	pol := policy.Default("g")
	pol.Thresholds.MinConfidenceScore = 10
	_, err := ProcessCallRequest(context.Background(), m.Mint, pol, staticSource{metrics: &m})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "below minimum")
}
