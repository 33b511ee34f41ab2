// Package tracker follows price action after a call goes out and fires a
// one-shot bonus alert when the token keeps running.
package tracker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/JermWang/disclaw/internal/model"
	"github.com/JermWang/disclaw/internal/notifier"
	"github.com/JermWang/disclaw/internal/provider"
	"github.com/JermWang/disclaw/internal/storage"
)

const (
	// Calls older than this drop out of the tracking set.
	lookback = 30 * 24 * time.Hour
	// Per-tenant cap on rows re-priced each cycle, newest calls first.
	trackLimit = 200

	// All four momentum conditions must hold for the bonus alert.
	bonusMinROIPct       = 30.0
	bonusMinM5ChangePct  = 10.0
	bonusMinBuySellRatio = 2.0
	bonusMinVolumeM5USD  = 5000.0
)

// Tracker re-prices tracked calls and maintains their ATH watermark.
type Tracker struct {
	store    storage.Storage
	provider provider.Provider
	notifier notifier.Notifier
	log      zerolog.Logger
	now      func() time.Time
	running  atomic.Bool
}

// New creates a performance tracker.
func New(store storage.Storage, p provider.Provider, n notifier.Notifier, log zerolog.Logger) *Tracker {
	return &Tracker{
		store:    store,
		provider: p,
		notifier: n,
		log:      log.With().Str("component", "tracker").Logger(),
		now:      time.Now,
	}
}

// CheckAll re-prices every tracked call across all tenants. Overlapping
// invocations are skipped; one slow pass must not stack on the next tick.
func (t *Tracker) CheckAll(ctx context.Context) {
	if !t.running.CompareAndSwap(false, true) {
		t.log.Warn().Msg("performance check already running, skipping cycle")
		return
	}
	defer t.running.Store(false)

	tenants, err := t.store.AllTenants(ctx)
	if err != nil {
		t.log.Error().Err(err).Msg("load tenants failed")
		return
	}

	since := t.now().UTC().Add(-lookback)
	checked := 0
	for i := range tenants {
		tenant := &tenants[i]
		perfs, err := t.store.PerformancesSince(ctx, tenant.GuildID, since, trackLimit)
		if err != nil {
			t.log.Error().Err(err).Str("guild_id", tenant.GuildID).Msg("load performances failed")
			continue
		}
		for j := range perfs {
			t.checkOne(ctx, tenant, &perfs[j])
			checked++
		}
	}
	t.log.Debug().Int("checked", checked).Msg("performance cycle complete")
}

func (t *Tracker) checkOne(ctx context.Context, tenant *model.TenantConfig, perf *model.CallPerformance) {
	pair, err := t.provider.PairByMint(ctx, perf.TokenAddress)
	if err != nil {
		t.log.Warn().Err(err).Str("mint", perf.TokenAddress).Msg("re-price failed")
		return
	}
	if pair == nil {
		// Pair gone from the feed, usually a pulled pool. Keep the row
		// as-is so the last known state stays queryable.
		return
	}

	price := pair.PriceUSD()
	if price <= 0 {
		return
	}

	now := t.now().UTC()
	perf.LastPrice = price
	perf.LastCheckedAt = now
	if price > perf.AthPrice {
		perf.AthPrice = price
		perf.AthAt = now
	}

	roi := perf.ROIPct(price)
	if !perf.BonusAlertSent && t.bonusConditionsMet(roi, pair) {
		msg := notifier.FormatBonusAlert(perf, pair, roi)
		if err := t.notifier.Send(ctx, perf.ChannelID, msg); err != nil {
			t.log.Warn().Err(err).Str("call_id", perf.CallID).Msg("bonus alert send failed")
		} else {
			perf.BonusAlertSent = true
			perf.BonusAlertAt = &now
			t.log.Info().
				Str("call_id", perf.CallID).
				Str("symbol", perf.TokenSymbol).
				Float64("roi_pct", roi).
				Str("guild_id", tenant.GuildID).
				Msg("bonus alert sent")
		}
	}

	if err := t.store.UpsertPerformance(ctx, perf); err != nil {
		t.log.Error().Err(err).Str("call_id", perf.CallID).Msg("persist performance failed")
	}
}

func (t *Tracker) bonusConditionsMet(roiPct float64, pair *model.Pair) bool {
	return roiPct >= bonusMinROIPct &&
		pair.PriceChange.M5 >= bonusMinM5ChangePct &&
		pair.BuySellRatio() >= bonusMinBuySellRatio &&
		pair.Volume.M5 >= bonusMinVolumeM5USD
}

// Seed records the starting state for a freshly dispatched call so the
// next cycle picks it up. Call price, ATH and last price all start equal.
func Seed(card *model.CallCard, guildID, channelID string, price float64, at time.Time) *model.CallPerformance {
	return &model.CallPerformance{
		CallID:        card.CallID,
		GuildID:       guildID,
		ChannelID:     channelID,
		TokenAddress:  card.Token.Mint,
		TokenSymbol:   card.Token.Symbol,
		CallPrice:     price,
		CallAt:        at,
		AthPrice:      price,
		AthAt:         at,
		LastPrice:     price,
		LastCheckedAt: at,
	}
}
