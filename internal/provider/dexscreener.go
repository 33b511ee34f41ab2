package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/JermWang/disclaw/internal/model"
)

const (
	dexBaseURL     = "https://api.dexscreener.com"
	dexChainID     = "solana"
	dexBatchSize   = 30 // tokens/v1 accepts up to 30 comma-separated addresses
	dexHTTPTimeout = 15 * time.Second
)

// DexScreener implements Provider over the public DexScreener REST API.
type DexScreener struct {
	BaseURL string
	Client  *http.Client
}

// NewDexScreener creates a client with a bounded timeout.
func NewDexScreener() *DexScreener {
	return &DexScreener{
		BaseURL: dexBaseURL,
		Client:  &http.Client{Timeout: dexHTTPTimeout},
	}
}

func (d *DexScreener) Name() string { return "dexscreener" }

// tokenProfile is one entry of the latest token-profiles feed.
type tokenProfile struct {
	ChainID      string `json:"chainId"`
	TokenAddress string `json:"tokenAddress"`
}

// ListRecentListings pulls the latest token profiles, keeps the Solana ones
// and resolves them to pairs, most recent first.
func (d *DexScreener) ListRecentListings(ctx context.Context, limit int) ([]model.Pair, error) {
	body, err := d.get(ctx, "/token-profiles/latest/v1")
	if err != nil {
		return nil, fmt.Errorf("fetch token profiles: %w", err)
	}

	var profiles []tokenProfile
	if err := json.Unmarshal(body, &profiles); err != nil {
		return nil, fmt.Errorf("decode token profiles: %w", err)
	}

	mints := make([]string, 0, limit)
	for _, p := range profiles {
		if p.ChainID != dexChainID || p.TokenAddress == "" {
			continue
		}
		mints = append(mints, p.TokenAddress)
		if len(mints) >= limit {
			break
		}
	}
	if len(mints) == 0 {
		return nil, nil
	}

	pairs := make([]model.Pair, 0, len(mints))
	for start := 0; start < len(mints); start += dexBatchSize {
		end := start + dexBatchSize
		if end > len(mints) {
			end = len(mints)
		}
		batch, err := d.pairsForMints(ctx, mints[start:end])
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, batch...)
	}

	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].PairCreatedAt > pairs[j].PairCreatedAt
	})
	if len(pairs) > limit {
		pairs = pairs[:limit]
	}
	return pairs, nil
}

// PairByMint resolves a mint to its deepest-liquidity pair.
func (d *DexScreener) PairByMint(ctx context.Context, mint string) (*model.Pair, error) {
	pairs, err := d.pairsForMints(ctx, []string{mint})
	if err != nil {
		return nil, err
	}
	if len(pairs) == 0 {
		return nil, nil
	}

	best := pairs[0]
	for _, p := range pairs[1:] {
		if p.Liquidity.USD > best.Liquidity.USD {
			best = p
		}
	}
	return &best, nil
}

func (d *DexScreener) pairsForMints(ctx context.Context, mints []string) ([]model.Pair, error) {
	path := fmt.Sprintf("/tokens/v1/%s/%s", dexChainID, strings.Join(mints, ","))
	body, err := d.get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("fetch pairs: %w", err)
	}

	var pairs []model.Pair
	if err := json.Unmarshal(body, &pairs); err != nil {
		return nil, fmt.Errorf("decode pairs: %w", err)
	}
	return pairs, nil
}

func (d *DexScreener) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.BaseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := d.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dexscreener fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("dexscreener read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("dexscreener: status %d, body: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
