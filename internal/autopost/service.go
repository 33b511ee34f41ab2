// Package autopost runs the periodic dispatch loop: scan for candidates,
// apply each tenant's policy and posting limits, and deliver calls.
//
// Dedup state lives in process memory. Running two instances against the
// same tenant set can double-send within a cycle; run one dispatcher per
// deployment.
package autopost

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/JermWang/disclaw/internal/alert"
	"github.com/JermWang/disclaw/internal/callcard"
	"github.com/JermWang/disclaw/internal/candidates"
	"github.com/JermWang/disclaw/internal/model"
	"github.com/JermWang/disclaw/internal/notifier"
	"github.com/JermWang/disclaw/internal/scoring"
	"github.com/JermWang/disclaw/internal/storage"
	"github.com/JermWang/disclaw/internal/tracker"
)

const (
	// Candidates below this reference score never go out, regardless of
	// tenant policy.
	defaultMinScore = 6.5

	defaultScanEvery = time.Minute
	performanceEvery = 5 * time.Minute
	pinnedAlertEvery = time.Minute
	dedupWindow      = 24 * time.Hour
	dedupLookupLimit = 200
)

// CycleResult summarizes one scan-and-dispatch pass.
type CycleResult struct {
	Candidates int // eligible candidates this cycle
	Sent       int // calls delivered across all tenants
}

// Service owns the cron loop and the dispatch logic.
type Service struct {
	source   *candidates.Source
	store    storage.Storage
	notifier notifier.Notifier
	tracker  *tracker.Tracker
	alerts   *alert.Monitor

	cron      *cron.Cron
	minScore  float64
	scanEvery time.Duration
	log       zerolog.Logger
	now       func() time.Time
	ctx       context.Context

	running  atomic.Bool
	scanning atomic.Bool
}

// Options tune the service. Zero values fall back to defaults.
type Options struct {
	MinScore  float64
	ScanEvery time.Duration
}

// New wires the dispatch service.
func New(ctx context.Context, src *candidates.Source, store storage.Storage, n notifier.Notifier, trk *tracker.Tracker, alerts *alert.Monitor, opts Options, log zerolog.Logger) *Service {
	minScore := opts.MinScore
	if minScore <= 0 {
		minScore = defaultMinScore
	}
	scanEvery := opts.ScanEvery
	if scanEvery <= 0 {
		scanEvery = defaultScanEvery
	}
	return &Service{
		source:    src,
		store:     store,
		notifier:  n,
		tracker:   trk,
		alerts:    alerts,
		cron:      cron.New(),
		minScore:  minScore,
		scanEvery: scanEvery,
		log:       log.With().Str("component", "autopost").Logger(),
		now:       time.Now,
		ctx:       ctx,
	}
}

// Start registers the periodic tasks and fires each once immediately.
// Calling Start on a running service is a no-op with a warning.
func (s *Service) Start() error {
	if !s.running.CompareAndSwap(false, true) {
		s.log.Warn().Msg("service already running")
		return nil
	}

	// A stopped cron keeps its registered entries, so a restart must build
	// a fresh one or every timer doubles.
	s.cron = cron.New()

	entries := []struct {
		spec string
		run  func()
	}{
		{fmt.Sprintf("@every %s", s.scanEvery), func() { s.ScanAndNotify(s.ctx) }},
		{fmt.Sprintf("@every %s", performanceEvery), func() { s.tracker.CheckAll(s.ctx) }},
		{fmt.Sprintf("@every %s", pinnedAlertEvery), func() { s.alerts.Check(s.ctx) }},
	}
	for _, e := range entries {
		if _, err := s.cron.AddFunc(e.spec, e.run); err != nil {
			s.running.Store(false)
			return fmt.Errorf("register task %q: %w", e.spec, err)
		}
	}
	s.cron.Start()

	for _, e := range entries {
		go e.run()
	}

	s.log.Info().
		Dur("scan_every", s.scanEvery).
		Float64("min_score", s.minScore).
		Msg("autopost service started")
	return nil
}

// Stop halts the cron loop. In-flight tasks finish on their own.
func (s *Service) Stop() {
	if !s.running.CompareAndSwap(true, false) {
		return
	}
	s.cron.Stop()
	s.log.Info().Msg("autopost service stopped")
}

// IsRunning reports whether the cron loop is active.
func (s *Service) IsRunning() bool {
	return s.running.Load()
}

// ClearSeenSet resets candidate dedup so the next scan re-evaluates
// everything the feed returns.
func (s *Service) ClearSeenSet() {
	s.source.Reset()
}

// ScanAndNotify runs one dispatch cycle. Overlapping cycles are skipped.
func (s *Service) ScanAndNotify(ctx context.Context) CycleResult {
	if !s.scanning.CompareAndSwap(false, true) {
		s.log.Warn().Msg("scan already in progress, skipping cycle")
		return CycleResult{}
	}
	defer s.scanning.Store(false)

	all := s.source.Scan(ctx)
	eligible := make([]candidates.Candidate, 0, len(all))
	for _, c := range all {
		if !c.PassesFilter || c.Score < s.minScore {
			continue
		}
		if !notifier.HasTwitterLink(&c.Pair) {
			s.log.Debug().Str("mint", c.Mint).Msg("candidate has no Twitter link, skipping")
			continue
		}
		s.log.Debug().
			Str("symbol", c.Symbol).
			Float64("score", c.Score).
			Str("liquidity_usd", humanize.Commaf(c.Metrics.Liquidity)).
			Str("volume_24h_usd", humanize.Commaf(c.Metrics.Volume24h)).
			Msg("eligible candidate")
		eligible = append(eligible, c)
	}

	result := CycleResult{Candidates: len(eligible)}
	if len(eligible) == 0 {
		return result
	}

	tenants, err := s.store.AllTenants(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("load tenants failed")
		return result
	}

	for i := range tenants {
		result.Sent += s.dispatchToTenant(ctx, &tenants[i], eligible)
	}

	s.log.Info().
		Int("candidates", result.Candidates).
		Int("sent", result.Sent).
		Int("tenants", len(tenants)).
		Msg("dispatch cycle complete")
	return result
}

// dispatchToTenant delivers every eligible candidate the tenant's limits
// allow, returning the number of calls sent.
func (s *Service) dispatchToTenant(ctx context.Context, tenant *model.TenantConfig, eligible []candidates.Candidate) int {
	log := s.log.With().Str("guild_id", tenant.GuildID).Logger()

	if tenant.ChannelID == "" || !tenant.Policy.AutopostEnabled {
		return 0
	}

	now := s.now().UTC()
	if inQuietHours(tenant.Policy, now) {
		log.Debug().Msg("within quiet hours, skipping")
		return 0
	}

	budget, ok := s.remainingDailyBudget(ctx, tenant, now)
	if !ok {
		return 0
	}
	if budget <= 0 {
		log.Debug().Int("max_per_day", tenant.Policy.MaxCallsPerDay).Msg("daily call cap reached")
		return 0
	}

	posted, err := s.recentMints(ctx, tenant.GuildID, now)
	if err != nil {
		log.Error().Err(err).Msg("load recent calls failed")
		return 0
	}

	sent := 0
	for i := range eligible {
		if budget <= 0 {
			break
		}
		c := &eligible[i]
		if posted[c.Mint] {
			continue
		}

		// Re-score under the tenant's policy for the card receipt. The
		// eligibility gate already ran against the reference policy; tenant
		// thresholds are not re-applied here because the listings feed
		// cannot supply holder data.
		result := scoring.Score(c.Metrics, tenant.Policy)
		card := callcard.Generate(c.Metrics, tenant.Policy, result)

		msg := notifier.FormatCandidateCall(c, tenant.Display)
		if err := s.notifier.Send(ctx, tenant.ChannelID, msg); err != nil {
			log.Warn().Err(err).Str("mint", c.Mint).Msg("call delivery failed")
			continue
		}

		if err := s.recordCall(ctx, tenant, c, &card, now); err != nil {
			log.Error().Err(err).Str("call_id", card.CallID).Msg("record call failed")
		}
		posted[c.Mint] = true
		budget--
		sent++
	}
	return sent
}

func (s *Service) recordCall(ctx context.Context, tenant *model.TenantConfig, c *candidates.Candidate, card *model.CallCard, now time.Time) error {
	entry := &model.CallLog{
		ID:          card.CallID,
		GuildID:     tenant.GuildID,
		ChannelID:   tenant.ChannelID,
		Card:        *card,
		TriggeredBy: model.TriggerAuto,
		CreatedAt:   now,
	}
	if err := s.store.AppendCallLog(ctx, entry); err != nil {
		return fmt.Errorf("append call log: %w", err)
	}

	perf := tracker.Seed(card, tenant.GuildID, tenant.ChannelID, c.Pair.PriceUSD(), now)
	if err := s.store.UpsertPerformance(ctx, perf); err != nil {
		return fmt.Errorf("seed performance: %w", err)
	}
	return nil
}

// remainingDailyBudget counts today's calls (UTC day) against the tenant
// cap. A cap of zero or below means unlimited.
func (s *Service) remainingDailyBudget(ctx context.Context, tenant *model.TenantConfig, now time.Time) (int, bool) {
	if tenant.Policy.MaxCallsPerDay <= 0 {
		return int(^uint(0) >> 1), true
	}
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	today, err := s.store.CallLogsSince(ctx, tenant.GuildID, dayStart, 0)
	if err != nil {
		s.log.Error().Err(err).Str("guild_id", tenant.GuildID).Msg("count today's calls failed")
		return 0, false
	}
	return tenant.Policy.MaxCallsPerDay - len(today), true
}

// recentMints returns the mints this tenant was already called on within
// the dedup window.
func (s *Service) recentMints(ctx context.Context, guildID string, now time.Time) (map[string]bool, error) {
	logs, err := s.store.CallLogsSince(ctx, guildID, now.Add(-dedupWindow), dedupLookupLimit)
	if err != nil {
		return nil, err
	}
	posted := make(map[string]bool, len(logs))
	for i := range logs {
		posted[logs[i].Card.Token.Mint] = true
	}
	return posted, nil
}

// inQuietHours reports whether the UTC hour falls inside the policy's
// quiet window. A window with start >= end wraps past midnight.
func inQuietHours(pol model.Policy, now time.Time) bool {
	if pol.QuietHoursStart == nil || pol.QuietHoursEnd == nil {
		return false
	}
	start, end := *pol.QuietHoursStart, *pol.QuietHoursEnd
	h := now.Hour()
	if start < end {
		return h >= start && h < end
	}
	return h >= start || h < end
}
