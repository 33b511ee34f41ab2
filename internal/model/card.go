package model

import "time"

// RiskSeverity grades a risk flag.
type RiskSeverity string

const (
	RiskHigh   RiskSeverity = "high"
	RiskMedium RiskSeverity = "medium"
	RiskLow    RiskSeverity = "low"
)

// RiskFlag is a single typed risk attached to a call card.
type RiskFlag struct {
	Severity RiskSeverity `json:"type"`
	Message  string       `json:"message"`
	Signal   string       `json:"signal"` // SignalType or "general"
}

// TokenRef identifies the token a card was issued for.
type TokenRef struct {
	Symbol string `json:"symbol"`
	Mint   string `json:"mint"`
	Name   string `json:"name"`
}

// PolicyRef pins the policy a card was scored under.
type PolicyRef struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Hash    string `json:"hash"`
}

// Receipts records what produced a card, for auditability.
type Receipts struct {
	InputRefs      []string `json:"inputRefs"`
	RulesTriggered []string `json:"rulesTriggered"`
	ModelVersion   string   `json:"modelVersion"`
	PromptVersion  string   `json:"promptVersion"`
}

// CallCard is an immutable decision receipt for one call.
// Created once, never mutated.
type CallCard struct {
	CallID       string       `json:"callId"`
	Timestamp    time.Time    `json:"timestamp"`
	Token        TokenRef     `json:"token"`
	Policy       PolicyRef    `json:"policy"`
	Triggers     []string     `json:"triggers"`
	Pros         []string     `json:"pros"`
	Risks        []RiskFlag   `json:"risks"`
	Invalidation []string     `json:"invalidation"`
	Confidence   float64      `json:"confidence"` // 0-10, one decimal
	Metrics      TokenMetrics `json:"metrics"`
	Receipts     Receipts     `json:"receipts"`
}

// RiskCounts tallies risks by severity for compact display.
func (c *CallCard) RiskCounts() (high, medium, low int) {
	for _, r := range c.Risks {
		switch r.Severity {
		case RiskHigh:
			high++
		case RiskMedium:
			medium++
		case RiskLow:
			low++
		}
	}
	return
}
