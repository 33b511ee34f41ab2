// Package policy builds and validates tenant policies from shipped presets.
package policy

import (
	"fmt"
	"time"

	"github.com/JermWang/disclaw/internal/model"
)

// presetConfig is the template a preset expands into.
type presetConfig struct {
	Name            string
	Description     string
	Thresholds      model.PolicyThresholds
	EnabledSignals  []model.SignalType
	AutopostCadence int
	MaxCallsPerDay  int
}

var presets = map[model.PolicyPreset]presetConfig{
	model.PresetFreshScanner: {
		Name:        "Fresh Scanner",
		Description: "Ultra-new launches (0-2h), strict rug filters, conservative post rate",
		Thresholds: model.PolicyThresholds{
			MinLiquidity:              5000,
			MinVolume24h:              1000,
			MaxTokenAge:               2,
			MinHolders:                50,
			MaxTopHolderConcentration: 30,
			MinConfidenceScore:        6,
		},
		EnabledSignals: []model.SignalType{
			model.SignalVolumeSpike,
			model.SignalHolderGrowth,
			model.SignalDeployerActivity,
			model.SignalDistributionPattern,
			model.SignalLPStability,
		},
		AutopostCadence: 30,
		MaxCallsPerDay:  10,
	},
	model.PresetMomentum: {
		Name:        "Momentum",
		Description: "Volume acceleration + social velocity + chart structure (2h-48h tokens)",
		Thresholds: model.PolicyThresholds{
			MinLiquidity:              10000,
			MinVolume24h:              5000,
			MaxTokenAge:               48,
			MinHolders:                100,
			MaxTopHolderConcentration: 25,
			MinConfidenceScore:        5,
		},
		EnabledSignals: []model.SignalType{
			model.SignalVolumeSpike,
			model.SignalPriceMomentum,
			model.SignalHolderGrowth,
			model.SignalSocialVelocity,
			model.SignalLiquidityChange,
		},
		AutopostCadence: 15,
		MaxCallsPerDay:  20,
	},
	model.PresetDipHunter: {
		Name:        "Dip Hunter",
		Description: "Drawdown + reclaim conditions + liquidity stability",
		Thresholds: model.PolicyThresholds{
			MinLiquidity:              15000,
			MinVolume24h:              3000,
			MaxTokenAge:               168,
			MinHolders:                200,
			MaxTopHolderConcentration: 20,
			MinConfidenceScore:        6,
		},
		EnabledSignals: []model.SignalType{
			model.SignalDrawdownReclaim,
			model.SignalLPStability,
			model.SignalHolderGrowth,
			model.SignalVolumeSpike,
			model.SignalPriceMomentum,
		},
		AutopostCadence: 60,
		MaxCallsPerDay:  8,
	},
	model.PresetWhaleFollow: {
		Name:        "Whale Follow",
		Description: "Wallet-cluster watchlist + accumulation patterns",
		Thresholds: model.PolicyThresholds{
			MinLiquidity:              20000,
			MinVolume24h:              10000,
			MaxTokenAge:               720,
			MinHolders:                300,
			MaxTopHolderConcentration: 35,
			MinConfidenceScore:        5,
		},
		EnabledSignals: []model.SignalType{
			model.SignalWhaleAccumulation,
			model.SignalVolumeSpike,
			model.SignalHolderGrowth,
			model.SignalLiquidityChange,
		},
		AutopostCadence: 30,
		MaxCallsPerDay:  15,
	},
	model.PresetDeployerReputation: {
		Name:        "Deployer Reputation",
		Description: "Deployer history + prior rugs/abandoned charts flags",
		Thresholds: model.PolicyThresholds{
			MinLiquidity:              8000,
			MinVolume24h:              2000,
			MaxTokenAge:               24,
			MinHolders:                75,
			MaxTopHolderConcentration: 25,
			MinConfidenceScore:        7,
		},
		EnabledSignals: []model.SignalType{
			model.SignalDeployerActivity,
			model.SignalDistributionPattern,
			model.SignalLPStability,
			model.SignalHolderGrowth,
		},
		AutopostCadence: 45,
		MaxCallsPerDay:  12,
	},
	model.PresetCommunityStrength: {
		Name:        "Community Strength",
		Description: "Holder growth, retention, distribution, chatter quality",
		Thresholds: model.PolicyThresholds{
			MinLiquidity:              12000,
			MinVolume24h:              4000,
			MaxTokenAge:               336,
			MinHolders:                500,
			MaxTopHolderConcentration: 15,
			MinConfidenceScore:        6,
		},
		EnabledSignals: []model.SignalType{
			model.SignalHolderGrowth,
			model.SignalSocialVelocity,
			model.SignalDistributionPattern,
			model.SignalVolumeSpike,
			model.SignalLPStability,
		},
		AutopostCadence: 120,
		MaxCallsPerDay:  5,
	},
}

// PresetInfo describes a preset for listing surfaces.
type PresetInfo struct {
	Preset      model.PolicyPreset
	Name        string
	Description string
}

// Presets returns all shipped presets in a stable order.
func Presets() []PresetInfo {
	order := []model.PolicyPreset{
		model.PresetFreshScanner,
		model.PresetMomentum,
		model.PresetDipHunter,
		model.PresetWhaleFollow,
		model.PresetDeployerReputation,
		model.PresetCommunityStrength,
	}
	out := make([]PresetInfo, 0, len(order))
	for _, p := range order {
		cfg := presets[p]
		out = append(out, PresetInfo{Preset: p, Name: cfg.Name, Description: cfg.Description})
	}
	return out
}

// New expands a preset into a concrete policy for one tenant, with optional
// threshold overrides. Autopost starts disabled.
func New(guildID string, preset model.PolicyPreset, overrides *model.PolicyThresholds) (model.Policy, error) {
	cfg, ok := presets[preset]
	if !ok {
		return model.Policy{}, fmt.Errorf("unknown policy preset %q", preset)
	}

	thresholds := cfg.Thresholds
	if overrides != nil {
		thresholds = *overrides
	}

	signals := make([]model.SignalType, len(cfg.EnabledSignals))
	copy(signals, cfg.EnabledSignals)

	return model.Policy{
		ID:              fmt.Sprintf("%s-%s-%d", guildID, preset, time.Now().UnixMilli()),
		Name:            cfg.Name,
		Preset:          preset,
		Description:     cfg.Description,
		Thresholds:      thresholds,
		EnabledSignals:  signals,
		AutopostEnabled: false,
		AutopostCadence: cfg.AutopostCadence,
		MaxCallsPerDay:  cfg.MaxCallsPerDay,
	}, nil
}

// Default returns the policy new tenants start with.
func Default(guildID string) model.Policy {
	p, _ := New(guildID, model.PresetMomentum, nil)
	return p
}

// ValidateThresholds returns every validation error in the given thresholds.
func ValidateThresholds(t model.PolicyThresholds) []string {
	var errs []string
	if t.MinLiquidity < 0 {
		errs = append(errs, "minimum liquidity must be positive")
	}
	if t.MinVolume24h < 0 {
		errs = append(errs, "minimum volume must be positive")
	}
	if t.MaxTokenAge < 0 {
		errs = append(errs, "max token age must be positive")
	}
	if t.MinHolders < 1 {
		errs = append(errs, "minimum holders must be at least 1")
	}
	if t.MaxTopHolderConcentration < 0 || t.MaxTopHolderConcentration > 100 {
		errs = append(errs, "top holder concentration must be between 0-100%")
	}
	if t.MinConfidenceScore < 0 || t.MinConfidenceScore > 10 {
		errs = append(errs, "confidence score must be between 0-10")
	}
	return errs
}
