package candidates

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JermWang/disclaw/internal/model"
	"github.com/JermWang/disclaw/internal/provider"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func freshPair(mint string) model.Pair {
	return model.Pair{
		ChainID:     "solana",
		PairAddress: "pair-" + mint,
		BaseToken:   model.PairToken{Address: mint, Symbol: "TKN", Name: "Token"},
		PriceUsd:    "0.001",
		PriceChange: model.PriceChange{M5: 5, H1: 20, H24: 40},
		Volume:      model.Volume{M5: 5000, H1: 20000, H24: 60000},
		Liquidity:   model.Liquidity{USD: 25000},
		MarketCap:   100000,
		Txns:        model.Txns{M5: model.TxnCount{Buys: 20, Sells: 10}},
		// Listed two hours before testNow.
		PairCreatedAt: testNow.Add(-2 * time.Hour).UnixMilli(),
		URL:           "https://dexscreener.com/solana/pair-" + mint,
	}
}

func newTestSource(p provider.Provider) *Source {
	s := New(p, DefaultFilter, zerolog.Nop())
	s.now = func() time.Time { return testNow }
	return s
}

func TestScan_SurfacesFreshListing(t *testing.T) {
	mock := provider.NewMock()
	mock.Listings = []model.Pair{freshPair("mint-a")}
	s := newTestSource(mock)

	out := s.Scan(context.Background())
	require.Len(t, out, 1)
	c := out[0]
	assert.Equal(t, "mint-a", c.Mint)
	assert.Equal(t, "TKN", c.Symbol)
	assert.True(t, c.PassesFilter)
	assert.Empty(t, c.FilterFailures)
	assert.Greater(t, c.Score, 0.0)
	assert.InDelta(t, 2.0, c.Metrics.TokenAgeHours, 0.01)
}

func TestScan_ProviderFailureYieldsEmpty(t *testing.T) {
	mock := provider.NewMock()
	mock.ListErr = errors.New("rate limited")
	s := newTestSource(mock)

	assert.Empty(t, s.Scan(context.Background()))
}

func TestScan_SeenSuppressionAndReset(t *testing.T) {
	mock := provider.NewMock()
	mock.Listings = []model.Pair{freshPair("mint-a")}
	s := newTestSource(mock)

	require.Len(t, s.Scan(context.Background()), 1)
	assert.Empty(t, s.Scan(context.Background()), "second scan must suppress the seen mint")

	s.Reset()
	assert.Len(t, s.Scan(context.Background()), 1)
}

func TestScan_SeenEntriesExpire(t *testing.T) {
	mock := provider.NewMock()
	mock.Listings = []model.Pair{freshPair("mint-a")}
	s := newTestSource(mock)

	require.Len(t, s.Scan(context.Background()), 1)

	// A day later the seen entry has aged out. Keep the pair itself young
	// so only dedup state is exercised.
	later := testNow.Add(25 * time.Hour)
	s.now = func() time.Time { return later }
	fresh := freshPair("mint-a")
	fresh.PairCreatedAt = later.Add(-1 * time.Hour).UnixMilli()
	mock.Listings = []model.Pair{fresh}

	assert.Len(t, s.Scan(context.Background()), 1)
}

func TestScan_FilterFailures(t *testing.T) {
	low := freshPair("mint-low")
	low.Liquidity.USD = 500
	low.Volume.M5 = 100
	old := freshPair("mint-old")
	old.PairCreatedAt = testNow.Add(-48 * time.Hour).UnixMilli()

	mock := provider.NewMock()
	mock.Listings = []model.Pair{low, old}
	s := newTestSource(mock)

	out := s.Scan(context.Background())
	require.Len(t, out, 2)

	assert.False(t, out[0].PassesFilter)
	require.Len(t, out[0].FilterFailures, 2)
	assert.Contains(t, out[0].FilterFailures[0], "liquidity")
	assert.Contains(t, out[0].FilterFailures[1], "5m volume")

	assert.False(t, out[1].PassesFilter)
	require.Len(t, out[1].FilterFailures, 1)
	assert.Contains(t, out[1].FilterFailures[0], "age")
}

func TestScan_SkipsEmptyMint(t *testing.T) {
	anon := freshPair("")
	mock := provider.NewMock()
	mock.Listings = []model.Pair{anon}
	s := newTestSource(mock)

	assert.Empty(t, s.Scan(context.Background()))
}

func TestDeriveMetrics(t *testing.T) {
	pair := freshPair("mint-a")
	m := DeriveMetrics(&pair, testNow)

	assert.Equal(t, "mint-a", m.Mint)
	assert.Equal(t, 0.001, m.Price)
	assert.Equal(t, 40.0, m.PriceChange24h)
	assert.Equal(t, 60000.0, m.Volume24h)
	assert.Equal(t, 25000.0, m.Liquidity)
	// H1 of 20000 against an hourly average of 2500 is 700% acceleration.
	assert.InDelta(t, 700.0, m.VolumeChange, 1e-9)
	assert.InDelta(t, 2.0, m.TokenAgeHours, 0.01)
	assert.Equal(t, m.TokenAgeHours, m.LPAge)
	assert.Zero(t, m.Holders)
}

func TestTokenMetrics_UnknownMint(t *testing.T) {
	s := newTestSource(provider.NewMock())
	m, err := s.TokenMetrics(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestTokenMetrics_Known(t *testing.T) {
	mock := provider.NewMock()
	mock.SetPair("mint-a", freshPair("mint-a"))
	s := newTestSource(mock)

	m, err := s.TokenMetrics(context.Background(), "mint-a")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "mint-a", m.Mint)
}
