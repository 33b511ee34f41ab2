package model

import "time"

// TriggerSource indicates what produced a call.
type TriggerSource string

const (
	TriggerManual  TriggerSource = "manual"
	TriggerAuto    TriggerSource = "auto"
	TriggerMention TriggerSource = "mention"
)

// AlertMention is a tenant's mention preference for pinned-token alerts.
type AlertMention string

const (
	MentionEveryone AlertMention = "everyone"
	MentionHere     AlertMention = "here"
	MentionNone     AlertMention = "none"
)

// WatchlistItem is one tracked token, wallet, deployer or ticker.
type WatchlistItem struct {
	Type    string    `json:"type"` // "token", "wallet", "deployer", "ticker"
	Value   string    `json:"value"`
	Label   string    `json:"label,omitempty"`
	AddedBy string    `json:"addedBy"`
	AddedAt time.Time `json:"addedAt"`
}

// DisplaySettings are per-tenant rendering preferences.
type DisplaySettings struct {
	ShowCreatorWhale bool `json:"showCreatorWhale"`
}

// TenantConfig is everything stored per Discord guild.
type TenantConfig struct {
	GuildID      string          `json:"guildId"`
	GuildName    string          `json:"guildName"`
	ChannelID    string          `json:"channelId"`
	ChannelName  string          `json:"channelName"`
	Policy       Policy          `json:"policy"`
	Display      DisplaySettings `json:"display"`
	AlertMention AlertMention    `json:"alertMention"`
	Watchlist    []WatchlistItem `json:"watchlist"`
	AdminUsers   []string        `json:"adminUsers"`
	CallCount    int             `json:"callCount"`
	LastCallAt   *time.Time      `json:"lastCallAt,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// CallLog is one append-only record of a dispatched call.
type CallLog struct {
	ID          string        `json:"id"`
	GuildID     string        `json:"guildId"`
	ChannelID   string        `json:"channelId"`
	Card        CallCard      `json:"callCard"`
	TriggeredBy TriggerSource `json:"triggeredBy"`
	UserID      string        `json:"userId,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// CallPerformance tracks post-call price action for one call card.
// AthPrice is monotonically non-decreasing; BonusAlertSent latches
// false->true exactly once.
type CallPerformance struct {
	CallID         string     `json:"callId"`
	GuildID        string     `json:"guildId"`
	ChannelID      string     `json:"channelId"`
	TokenAddress   string     `json:"tokenAddress"`
	TokenSymbol    string     `json:"tokenSymbol"`
	CallPrice      float64    `json:"callPrice"`
	CallAt         time.Time  `json:"callAt"`
	AthPrice       float64    `json:"athPrice"`
	AthAt          time.Time  `json:"athAt"`
	LastPrice      float64    `json:"lastPrice"`
	LastCheckedAt  time.Time  `json:"lastCheckedAt"`
	BonusAlertSent bool       `json:"bonusAlertSent"`
	BonusAlertAt   *time.Time `json:"bonusAlertAt,omitempty"`
}

// ROIPct returns the percentage gain of price over the call price.
func (p *CallPerformance) ROIPct(price float64) float64 {
	if p.CallPrice <= 0 {
		return 0
	}
	return (price - p.CallPrice) / p.CallPrice * 100
}
