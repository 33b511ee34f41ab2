package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.Handler) (*DexScreener, *httptest.Server) {
	srv := httptest.NewServer(handler)
	d := NewDexScreener()
	d.BaseURL = srv.URL
	return d, srv
}

func TestListRecentListings(t *testing.T) {
	d, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/token-profiles/latest/v1":
			fmt.Fprint(w, `[
				{"chainId":"solana","tokenAddress":"mint-a"},
				{"chainId":"ethereum","tokenAddress":"0xdead"},
				{"chainId":"solana","tokenAddress":"mint-b"}
			]`)
		case strings.HasPrefix(r.URL.Path, "/tokens/v1/solana/"):
			assert.Equal(t, "mint-a,mint-b", strings.TrimPrefix(r.URL.Path, "/tokens/v1/solana/"))
			fmt.Fprint(w, `[
				{"pairAddress":"p1","baseToken":{"address":"mint-a","symbol":"AAA"},"priceUsd":"0.001","pairCreatedAt":1000},
				{"pairAddress":"p2","baseToken":{"address":"mint-b","symbol":"BBB"},"priceUsd":"0.002","pairCreatedAt":2000}
			]`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	pairs, err := d.ListRecentListings(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, pairs, 2)
	// Newest listing first.
	assert.Equal(t, "BBB", pairs[0].BaseToken.Symbol)
	assert.Equal(t, "AAA", pairs[1].BaseToken.Symbol)
}

func TestListRecentListings_NoSolanaProfiles(t *testing.T) {
	d, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"chainId":"ethereum","tokenAddress":"0xdead"}]`)
	}))
	defer srv.Close()

	pairs, err := d.ListRecentListings(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, pairs)
}

func TestPairByMint_PicksDeepestLiquidity(t *testing.T) {
	d, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"pairAddress":"shallow","liquidity":{"usd":5000}},
			{"pairAddress":"deep","liquidity":{"usd":50000}},
			{"pairAddress":"mid","liquidity":{"usd":20000}}
		]`)
	}))
	defer srv.Close()

	pair, err := d.PairByMint(context.Background(), "mint-a")
	require.NoError(t, err)
	require.NotNil(t, pair)
	assert.Equal(t, "deep", pair.PairAddress)
}

func TestPairByMint_Unknown(t *testing.T) {
	d, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()

	pair, err := d.PairByMint(context.Background(), "mint-x")
	require.NoError(t, err)
	assert.Nil(t, pair)
}

func TestGet_ErrorStatus(t *testing.T) {
	d, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := d.PairByMint(context.Background(), "mint-a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}
