package notifier

import (
	"fmt"
	"strings"

	"github.com/JermWang/disclaw/internal/callcard"
	"github.com/JermWang/disclaw/internal/candidates"
	"github.com/JermWang/disclaw/internal/model"
)

// SocialLink is one external reference link ready for display.
type SocialLink struct {
	Label string
	URL   string
}

var socialPriority = []string{"twitter", "telegram", "discord", "medium", "github", "reddit"}

var socialLabels = map[string]string{
	"twitter":  "X",
	"telegram": "Telegram",
	"discord":  "Discord",
	"medium":   "Medium",
	"github":   "GitHub",
	"reddit":   "Reddit",
}

func normalizeSocialType(t string) string {
	n := strings.ToLower(t)
	if n == "x" {
		return "twitter"
	}
	return n
}

// SocialLinks extracts up to four display links from a pair, well-known
// platforms first, website last.
func SocialLinks(pair *model.Pair) []SocialLink {
	if pair.Info == nil {
		return nil
	}

	byType := make(map[string]string)
	for _, s := range pair.Info.Socials {
		t := normalizeSocialType(s.Type)
		if t == "" || s.URL == "" {
			continue
		}
		if _, ok := byType[t]; !ok {
			byType[t] = s.URL
		}
	}

	var ordered []SocialLink
	for _, t := range socialPriority {
		if url, ok := byType[t]; ok {
			ordered = append(ordered, SocialLink{Label: socialLabels[t], URL: url})
			delete(byType, t)
		}
	}
	for t, url := range byType {
		label := socialLabels[t]
		if label == "" {
			label = t
		}
		ordered = append(ordered, SocialLink{Label: label, URL: url})
	}

	for _, site := range pair.Info.Websites {
		if site.URL != "" {
			ordered = append(ordered, SocialLink{Label: "Website", URL: site.URL})
			break
		}
	}

	if len(ordered) > 4 {
		ordered = ordered[:4]
	}
	return ordered
}

// HasTwitterLink reports whether a pair carries a verifiable Twitter/X
// profile. Autopost uses this as a hard quality gate.
func HasTwitterLink(pair *model.Pair) bool {
	if pair.Info == nil {
		return false
	}
	for _, s := range pair.Info.Socials {
		if normalizeSocialType(s.Type) == "twitter" {
			return true
		}
		url := strings.ToLower(s.URL)
		if strings.Contains(url, "twitter.com") || strings.Contains(url, "x.com") {
			return true
		}
	}
	return false
}

// FormatCandidateCall renders the autopost message for one candidate.
func FormatCandidateCall(c *candidates.Candidate, display model.DisplaySettings) string {
	pair := &c.Pair
	priceChange := pair.PriceChange.M5
	buys := pair.Txns.M5.Buys
	sells := pair.Txns.M5.Sells
	ratio := callcard.RatioLabel(pair.BuySellRatio())
	priceLine := fmt.Sprintf("%s (%+.1f%% 5m)", callcard.FormatUSD(pair.PriceUSD()), priceChange)

	var warnings []string
	if pair.Liquidity.USD < 10000 {
		warnings = append(warnings, "Low liq")
	}
	if priceChange < -10 {
		warnings = append(warnings, "Dumping")
	}
	warningLine := ""
	if len(warnings) > 0 {
		warningLine = " | Flags " + strings.Join(warnings, ", ")
	}

	links := SocialLinks(pair)
	if len(links) > 2 {
		links = links[:2]
	}
	parts := make([]string, 0, len(links))
	for _, l := range links {
		parts = append(parts, fmt.Sprintf("[%s](%s)", l.Label, l.URL))
	}
	socialPart := ""
	if len(parts) > 0 {
		socialPart = "🔗 " + strings.Join(parts, " • ") + " | "
	}

	lines := []string{
		fmt.Sprintf("🎓 **$%s** | Score %.1f | Price %s", c.Symbol, c.Score, priceLine),
		fmt.Sprintf("Liq $%s | Vol5m $%s | MCap $%s | Buys/Sells 5m %d/%d (%s)%s",
			callcard.ShortNumber(pair.Liquidity.USD),
			callcard.ShortNumber(pair.Volume.M5),
			callcard.ShortNumber(pair.MarketCap),
			buys, sells, ratio, warningLine),
	}
	if display.ShowCreatorWhale {
		if line := creatorWhaleLine(c.Metrics); line != "" {
			lines = append(lines, line)
		}
	}
	lines = append(lines, fmt.Sprintf("%s📊 [DexScreener](%s) | `%s`",
		socialPart, pair.URL, callcard.ShortMint(c.Mint)))

	return strings.Join(lines, "\n")
}

func creatorWhaleLine(m model.TokenMetrics) string {
	if !m.CreatorIsWhale || m.CreatorAddress == "" {
		return ""
	}
	return fmt.Sprintf("🐋 Creator wallet %.2f%% | `%s`", m.CreatorHoldPct, callcard.ShortMint(m.CreatorAddress))
}

// FormatPumpAlert renders the pinned-token pump alert.
func FormatPumpAlert(pair *model.Pair) string {
	return strings.Join([]string{
		fmt.Sprintf("🚀 **$%s PUMPING** | +%.1f%% in 5m", pair.BaseToken.Symbol, pair.PriceChange.M5),
		fmt.Sprintf("Price %s | Vol5m $%s | Buys/Sells 5m %d/%d (%s)",
			callcard.FormatUSD(pair.PriceUSD()),
			callcard.ShortNumber(pair.Volume.M5),
			pair.Txns.M5.Buys, pair.Txns.M5.Sells, callcard.RatioLabel(pair.BuySellRatio())),
		fmt.Sprintf("📊 [DexScreener](%s) | `%s`", pair.URL, callcard.ShortMint(pair.BaseToken.Address)),
	}, "\n")
}

// FormatMajorBuyAlert renders the pinned-token whale-buying alert.
func FormatMajorBuyAlert(pair *model.Pair, avgBuySOL float64) string {
	return strings.Join([]string{
		fmt.Sprintf("🐋 **$%s MAJOR BUYS** | avg buy %.1f SOL", pair.BaseToken.Symbol, avgBuySOL),
		fmt.Sprintf("Price %s (%+.1f%% 5m) | Buys/Sells 5m %d/%d (%s) | Vol5m $%s",
			callcard.FormatUSD(pair.PriceUSD()), pair.PriceChange.M5,
			pair.Txns.M5.Buys, pair.Txns.M5.Sells, callcard.RatioLabel(pair.BuySellRatio()),
			callcard.ShortNumber(pair.Volume.M5)),
		fmt.Sprintf("📊 [DexScreener](%s) | `%s`", pair.URL, callcard.ShortMint(pair.BaseToken.Address)),
	}, "\n")
}

// FormatBonusAlert renders the one-shot momentum follow-up for a tracked call.
func FormatBonusAlert(perf *model.CallPerformance, pair *model.Pair, roiPct float64) string {
	price := pair.PriceUSD()
	if price <= 0 {
		price = perf.LastPrice
	}
	ath := perf.AthPrice
	if ath <= 0 {
		ath = price
	}

	return strings.Join([]string{
		fmt.Sprintf("⚡ **BONUS BUYING POWER** | **$%s** +%.1f%% since call", perf.TokenSymbol, roiPct),
		fmt.Sprintf("Price %s (%+.1f%% 5m) | Buys/Sells 5m %d/%d (%s) | Vol5m $%s | ATH %s",
			callcard.FormatUSD(price), pair.PriceChange.M5,
			pair.Txns.M5.Buys, pair.Txns.M5.Sells, callcard.RatioLabel(pair.BuySellRatio()),
			callcard.ShortNumber(pair.Volume.M5), callcard.FormatUSD(ath)),
		fmt.Sprintf("📊 [DexScreener](%s) | `%s`", pair.URL, perf.CallID),
	}, "\n")
}
