package model

// PolicyPreset names a shipped policy template.
type PolicyPreset string

const (
	PresetFreshScanner       PolicyPreset = "fresh-scanner"
	PresetMomentum           PolicyPreset = "momentum"
	PresetDipHunter          PolicyPreset = "dip-hunter"
	PresetWhaleFollow        PolicyPreset = "whale-follow"
	PresetDeployerReputation PolicyPreset = "deployer-reputation"
	PresetCommunityStrength  PolicyPreset = "community-strength"
)

// PolicyThresholds are the hard acceptance gates a token must clear.
type PolicyThresholds struct {
	MinLiquidity              float64 `json:"minLiquidity"` // USD
	MinVolume24h              float64 `json:"minVolume24h"` // USD
	MaxTokenAge               float64 `json:"maxTokenAge"`  // hours
	MinHolders                int     `json:"minHolders"`
	MaxTopHolderConcentration float64 `json:"maxTopHolderConcentration"` // percent
	MinConfidenceScore        float64 `json:"minConfidenceScore"`        // 0-10
}

// Policy is a tenant's named configuration of thresholds, enabled signals
// and posting cadence. Mutated only by tenant admin actions.
type Policy struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Preset          PolicyPreset     `json:"preset"`
	Description     string           `json:"description"`
	Thresholds      PolicyThresholds `json:"thresholds"`
	EnabledSignals  []SignalType     `json:"enabledSignals"`
	AutopostEnabled bool             `json:"autopostEnabled"`
	AutopostCadence int              `json:"autopostCadence"`           // minutes
	QuietHoursStart *int             `json:"quietHoursStart,omitempty"` // UTC hour 0-23
	QuietHoursEnd   *int             `json:"quietHoursEnd,omitempty"`   // UTC hour 0-23
	MaxCallsPerDay  int              `json:"maxCallsPerDay"`
}
