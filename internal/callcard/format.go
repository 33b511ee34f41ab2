package callcard

import (
	"fmt"
	"math"
	"strings"

	"github.com/JermWang/disclaw/internal/model"
)

// FormatCard renders a card as a Discord markdown message.
func FormatCard(card *model.CallCard) string {
	high, medium, low := card.RiskCounts()
	mint := ShortMint(card.Token.Mint)
	dexURL := "https://dexscreener.com/solana/" + card.Token.Mint

	priceLine := fmt.Sprintf("%s (%+.1f%%/24h)", FormatUSD(card.Metrics.Price), card.Metrics.PriceChange24h)
	metricsLine := strings.Join([]string{
		"Price " + priceLine,
		"Vol " + ShortNumber(card.Metrics.Volume24h),
		"Liq " + ShortNumber(card.Metrics.Liquidity),
		fmt.Sprintf("Holders %d", card.Metrics.Holders),
		fmt.Sprintf("Age %.1fh", card.Metrics.TokenAgeHours),
	}, " | ")
	metaLine := fmt.Sprintf("Triggers %d | Pros %d | Risks %dH/%dM/%dL | ID %s",
		len(card.Triggers), len(card.Pros), high, medium, low, card.CallID)
	contractLine := fmt.Sprintf("CA: `%s` | 📊 [DexScreener](%s)", card.Token.Mint, dexURL)

	return strings.Join([]string{
		fmt.Sprintf("**$%s** `%s` | Score %.1f/10 | %s", card.Token.Symbol, mint, card.Confidence, card.Policy.Name),
		metricsLine,
		metaLine,
		contractLine,
	}, "\n")
}

// FormatCardCompact renders the two-line variant used in log listings.
func FormatCardCompact(card *model.CallCard) string {
	high, medium, low := card.RiskCounts()
	mint := ShortMint(card.Token.Mint)
	dexURL := "https://dexscreener.com/solana/" + card.Token.Mint

	return strings.Join([]string{
		fmt.Sprintf("**$%s** `%s` | Score %.1f/10 | Trig %d | Risks %dH/%dM/%dL",
			card.Token.Symbol, mint, card.Confidence, len(card.Triggers), high, medium, low),
		fmt.Sprintf("CA: `%s` | 📊 [DexScreener](%s) | ID %s", card.Token.Mint, dexURL, card.CallID),
	}, "\n")
}

// ShortMint abbreviates a mint address for display.
func ShortMint(mint string) string {
	if len(mint) <= 10 {
		return mint
	}
	return mint[:6] + "..." + mint[len(mint)-4:]
}

// FormatUSD renders a USD price with precision scaled to its magnitude.
func FormatUSD(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return "$0"
	}
	switch {
	case value >= 1:
		return fmt.Sprintf("$%.2f", value)
	case value >= 0.01:
		return fmt.Sprintf("$%.4f", value)
	default:
		return fmt.Sprintf("$%.8f", value)
	}
}

// ShortNumber renders a value in compact 1.23M / 45.6K notation.
func ShortNumber(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return "0"
	}
	switch {
	case value >= 1e9:
		return fmt.Sprintf("%.2fB", value/1e9)
	case value >= 1e6:
		return fmt.Sprintf("%.2fM", value/1e6)
	case value >= 1e3:
		return fmt.Sprintf("%.1fK", value/1e3)
	default:
		return fmt.Sprintf("%.0f", value)
	}
}

// RatioLabel renders a buy/sell ratio, using the infinity sign when a window
// had buys but no sells.
func RatioLabel(ratio float64) string {
	if math.IsInf(ratio, 1) {
		return "∞"
	}
	if ratio == 0 {
		return "0x"
	}
	return fmt.Sprintf("%.2fx", ratio)
}
