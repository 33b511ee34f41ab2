// Package alert watches a single pinned token and pushes pump and
// major-buy alerts to every configured tenant channel.
package alert

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/JermWang/disclaw/internal/model"
	"github.com/JermWang/disclaw/internal/notifier"
	"github.com/JermWang/disclaw/internal/provider"
	"github.com/JermWang/disclaw/internal/storage"
)

// Kind names one alert trigger, used for per-tenant cooldown bookkeeping.
type Kind string

const (
	KindPump     Kind = "pump"
	KindMajorBuy Kind = "major_buy"
)

const (
	// DefaultPinnedMint is the token the monitor watches unless configured
	// otherwise.
	DefaultPinnedMint = "8JFUtwhEzSmrVa56re8rZdathHc9fqmr2em9XMQMpump"

	// wsolMint prices SOL through its canonical wrapped pair.
	wsolMint = "So11111111111111111111111111111111111111112"

	cooldown       = 30 * time.Minute
	solPriceTTL    = 5 * time.Minute
	fallbackSOLUSD = 150.0

	pumpMinM5ChangePct = 25.0
	pumpMinVolumeM5USD = 5000.0

	majorBuyMinRatio  = 1.2
	majorBuyMinAvgSOL = 8.0
)

// Monitor checks the pinned token each cycle and fans matching alerts out
// to tenants, honoring a per-tenant per-kind cooldown.
type Monitor struct {
	store    storage.Storage
	provider provider.Provider
	notifier notifier.Notifier
	mint     string
	log      zerolog.Logger
	now      func() time.Time
	running  atomic.Bool

	mu          sync.Mutex
	lastSent    map[string]time.Time // "<guildID>:<kind>"
	solPrice    float64
	solPricedAt time.Time
}

// New creates a monitor for the given pinned mint. An empty mint falls
// back to DefaultPinnedMint.
func New(store storage.Storage, p provider.Provider, n notifier.Notifier, mint string, log zerolog.Logger) *Monitor {
	if mint == "" {
		mint = DefaultPinnedMint
	}
	return &Monitor{
		store:    store,
		provider: p,
		notifier: n,
		mint:     mint,
		log:      log.With().Str("component", "alert").Str("mint", mint).Logger(),
		now:      time.Now,
		lastSent: make(map[string]time.Time),
	}
}

// Check evaluates the pinned token once. Pump takes precedence over major
// buy; at most one alert kind fires per cycle. Overlapping invocations are
// skipped.
func (m *Monitor) Check(ctx context.Context) {
	if !m.running.CompareAndSwap(false, true) {
		m.log.Warn().Msg("alert check already running, skipping cycle")
		return
	}
	defer m.running.Store(false)

	pair, err := m.provider.PairByMint(ctx, m.mint)
	if err != nil {
		m.log.Warn().Err(err).Msg("pinned pair lookup failed")
		return
	}
	if pair == nil {
		return
	}

	kind, content, ok := m.evaluate(ctx, pair)
	if !ok {
		return
	}
	m.dispatch(ctx, kind, content)
}

func (m *Monitor) evaluate(ctx context.Context, pair *model.Pair) (Kind, string, bool) {
	if pair.PriceChange.M5 >= pumpMinM5ChangePct && pair.Volume.M5 >= pumpMinVolumeM5USD {
		return KindPump, notifier.FormatPumpAlert(pair), true
	}

	buys := pair.Txns.M5.Buys
	if pair.PriceChange.M5 >= 0 && buys >= 1 && pair.BuySellRatio() >= majorBuyMinRatio {
		avgBuySOL := pair.Volume.M5 / float64(buys) / m.solPriceUSD(ctx)
		if avgBuySOL >= majorBuyMinAvgSOL {
			return KindMajorBuy, notifier.FormatMajorBuyAlert(pair, avgBuySOL), true
		}
	}
	return "", "", false
}

func (m *Monitor) dispatch(ctx context.Context, kind Kind, content string) {
	tenants, err := m.store.AllTenants(ctx)
	if err != nil {
		m.log.Error().Err(err).Msg("load tenants failed")
		return
	}

	now := m.now().UTC()
	m.pruneCooldowns(now)

	sent := 0
	for i := range tenants {
		tenant := &tenants[i]
		if tenant.ChannelID == "" {
			continue
		}
		key := tenant.GuildID + ":" + string(kind)
		m.mu.Lock()
		last, seen := m.lastSent[key]
		m.mu.Unlock()
		if seen && now.Sub(last) < cooldown {
			continue
		}

		msg := content
		if prefix := mentionPrefix(tenant.AlertMention); prefix != "" {
			msg = prefix + "\n" + msg
		}
		if err := m.notifier.Send(ctx, tenant.ChannelID, msg); err != nil {
			m.log.Warn().Err(err).Str("guild_id", tenant.GuildID).Msg("alert send failed")
			continue
		}
		m.mu.Lock()
		m.lastSent[key] = now
		m.mu.Unlock()
		sent++
	}
	if sent > 0 {
		m.log.Info().Str("kind", string(kind)).Int("tenants", sent).Msg("pinned alert dispatched")
	}
}

func mentionPrefix(pref model.AlertMention) string {
	switch pref {
	case model.MentionEveryone:
		return "@everyone"
	case model.MentionHere:
		return "@here"
	default:
		return ""
	}
}

func (m *Monitor) pruneCooldowns(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, at := range m.lastSent {
		if now.Sub(at) >= cooldown {
			delete(m.lastSent, key)
		}
	}
}

// solPriceUSD returns a cached SOL price, refreshed through the wrapped
// SOL pair at most every five minutes. Lookup failure falls back to a
// fixed price rather than suppressing the alert.
func (m *Monitor) solPriceUSD(ctx context.Context) float64 {
	now := m.now().UTC()

	m.mu.Lock()
	if m.solPrice > 0 && now.Sub(m.solPricedAt) < solPriceTTL {
		price := m.solPrice
		m.mu.Unlock()
		return price
	}
	m.mu.Unlock()

	price := fallbackSOLUSD
	pair, err := m.provider.PairByMint(ctx, wsolMint)
	if err != nil || pair == nil {
		m.log.Warn().Err(err).Msg("SOL price lookup failed, using fallback")
	} else if p := pair.PriceUSD(); p > 0 {
		price = p
	}

	m.mu.Lock()
	m.solPrice = price
	m.solPricedAt = now
	m.mu.Unlock()
	return price
}
