// Package candidates surfaces newly listed tokens worth scoring: it polls
// the market-data feed, applies a tenant-independent base filter, suppresses
// mints already seen, and ranks survivors against a reference policy.
package candidates

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/JermWang/disclaw/internal/model"
	"github.com/JermWang/disclaw/internal/policy"
	"github.com/JermWang/disclaw/internal/provider"
	"github.com/JermWang/disclaw/internal/scoring"
)

const (
	defaultListLimit = 50
	seenTTL          = 24 * time.Hour
)

// Filter is the base acceptance gate applied before any tenant policy.
type Filter struct {
	MinLiquidityUSD        float64
	MinVolumeM5            float64
	MinHolders             int
	MaxAgeHours            float64
	ExcludeRuggedDeployers bool
}

// DefaultFilter is the stock base filter for fresh listings.
var DefaultFilter = Filter{
	MinLiquidityUSD:        10000,
	MinVolumeM5:            2000,
	MinHolders:             0, // the listings feed carries no holder data
	MaxAgeHours:            24,
	ExcludeRuggedDeployers: true,
}

// Candidate is one surfaced asset with everything a scheduler needs to
// decide on it.
type Candidate struct {
	Mint           string
	Symbol         string
	Pair           model.Pair
	Metrics        model.TokenMetrics
	Score          float64
	PassesFilter   bool
	FilterFailures []string
}

// Source polls the provider and produces ranked candidates.
type Source struct {
	provider  provider.Provider
	filter    Filter
	refPolicy model.Policy
	seen      *seenSet
	listLimit int
	log       zerolog.Logger
	now       func() time.Time
}

// New creates a candidate source using the given base filter.
func New(p provider.Provider, filter Filter, log zerolog.Logger) *Source {
	return &Source{
		provider:  p,
		filter:    filter,
		refPolicy: policy.Default("reference"),
		seen:      newSeenSet(seenTTL),
		listLimit: defaultListLimit,
		log:       log.With().Str("component", "candidates").Logger(),
		now:       time.Now,
	}
}

// Scan pulls recent listings and returns scored candidates. Provider
// failure is recovered locally: the error is logged and an empty slice
// returned, never propagated.
func (s *Source) Scan(ctx context.Context) []Candidate {
	now := s.now().UTC()
	s.seen.Prune(now)

	pairs, err := s.provider.ListRecentListings(ctx, s.listLimit)
	if err != nil {
		s.log.Error().Err(err).Msg("list recent listings failed, returning no candidates")
		return nil
	}

	out := make([]Candidate, 0, len(pairs))
	for i := range pairs {
		pair := pairs[i]
		mint := pair.BaseToken.Address
		if mint == "" || s.seen.Has(mint, now) {
			continue
		}
		s.seen.Add(mint, now)

		metrics := DeriveMetrics(&pair, now)
		failures := s.applyFilter(&pair, metrics)
		result := scoring.Score(metrics, s.refPolicy)

		out = append(out, Candidate{
			Mint:           mint,
			Symbol:         pair.BaseToken.Symbol,
			Pair:           pair,
			Metrics:        metrics,
			Score:          result.OverallScore,
			PassesFilter:   len(failures) == 0,
			FilterFailures: failures,
		})
	}

	s.log.Debug().
		Int("listings", len(pairs)).
		Int("candidates", len(out)).
		Int("seen_size", s.seen.Len()).
		Msg("scan complete")
	return out
}

func (s *Source) applyFilter(pair *model.Pair, m model.TokenMetrics) []string {
	var failures []string
	if m.Liquidity < s.filter.MinLiquidityUSD {
		failures = append(failures, fmt.Sprintf("liquidity $%.0f < min $%.0f", m.Liquidity, s.filter.MinLiquidityUSD))
	}
	if pair.Volume.M5 < s.filter.MinVolumeM5 {
		failures = append(failures, fmt.Sprintf("5m volume $%.0f < min $%.0f", pair.Volume.M5, s.filter.MinVolumeM5))
	}
	if m.Holders < s.filter.MinHolders {
		failures = append(failures, fmt.Sprintf("holders %d < min %d", m.Holders, s.filter.MinHolders))
	}
	if s.filter.MaxAgeHours > 0 && m.TokenAgeHours > s.filter.MaxAgeHours {
		failures = append(failures, fmt.Sprintf("age %.1fh > max %.0fh", m.TokenAgeHours, s.filter.MaxAgeHours))
	}
	if s.filter.ExcludeRuggedDeployers && m.DeployerRugCount > 0 {
		failures = append(failures, fmt.Sprintf("deployer has %d prior rugs", m.DeployerRugCount))
	}
	return failures
}

// Reset clears the seen set so every listing is re-evaluated next scan.
func (s *Source) Reset() {
	s.seen.Clear()
}

// TokenMetrics resolves a mint to a fresh snapshot, satisfying the manual
// call path's metrics source.
func (s *Source) TokenMetrics(ctx context.Context, mint string) (*model.TokenMetrics, error) {
	pair, err := s.provider.PairByMint(ctx, mint)
	if err != nil {
		return nil, fmt.Errorf("pair lookup: %w", err)
	}
	if pair == nil {
		return nil, nil
	}
	m := DeriveMetrics(pair, s.now().UTC())
	return &m, nil
}
