package policy

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/JermWang/disclaw/internal/model"
)

// Hash fingerprints the decision-relevant parts of a policy. Two policies
// with the same preset, thresholds and enabled signals hash identically, so
// a call card can prove which configuration produced it.
func Hash(p model.Policy) string {
	payload := struct {
		Preset         model.PolicyPreset     `json:"preset"`
		Thresholds     model.PolicyThresholds `json:"thresholds"`
		EnabledSignals []model.SignalType     `json:"enabledSignals"`
	}{p.Preset, p.Thresholds, p.EnabledSignals}

	data, err := json.Marshal(payload)
	if err != nil {
		return "00000000"
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:4])
}
