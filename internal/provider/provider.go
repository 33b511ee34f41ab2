// Package provider fetches market data for Solana pairs.
package provider

import (
	"context"

	"github.com/JermWang/disclaw/internal/model"
)

// Provider is the market-data edge of the pipeline. Implementations must
// bound every call with the context; a timeout is recoverable and never
// fatal to a cycle.
type Provider interface {
	// ListRecentListings returns up to limit recently listed pairs,
	// most recent first.
	ListRecentListings(ctx context.Context, limit int) ([]model.Pair, error)
	// PairByMint resolves a mint to its primary pair. Returns (nil, nil)
	// when the mint is unknown to the feed.
	PairByMint(ctx context.Context, mint string) (*model.Pair, error)
	Name() string
}
