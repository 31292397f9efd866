package notifier

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/sentinel-quant/sentinel/internal/tracker"
	"github.com/sentinel-quant/sentinel/internal/types"
)

const rule = "------------------------------"

// priceFormat picks a display precision matching the price magnitude, so
// sub-dollar altcoins keep their significant digits.
func priceFormat(price float64) string {
	switch {
	case price > 100:
		return "%.2f"
	case price > 1:
		return "%.4f"
	default:
		return "%.6f"
	}
}

func fmtPrice(price, reference float64) string {
	return fmt.Sprintf(priceFormat(reference), price)
}

// FormatSignal renders a signal as a Markdown alert message.
func FormatSignal(sig types.Signal) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", rule)
	fmt.Fprintf(&b, "*%s* %s\n", sig.Symbol, sig.Direction)
	fmt.Fprintf(&b, "%s\n\n", rule)

	fmt.Fprintf(&b, "*Score:* %d/100 %s\n", sig.Score, sig.Strength)
	fmt.Fprintf(&b, "*Price:* `%s`\n", fmtPrice(sig.Price, sig.Price))
	fmt.Fprintf(&b, "*Position size:* %.0f%% of deposit\n\n", sig.PositionSizePct)

	fmt.Fprintf(&b, "*Entry zone:* `%s` - `%s`\n",
		fmtPrice(sig.EntryLow, sig.Price), fmtPrice(sig.EntryHigh, sig.Price))
	fmt.Fprintf(&b, "*Stop loss:* `%s`\n", fmtPrice(sig.StopLoss, sig.Price))
	fmt.Fprintf(&b, "*TP1 (partial):* `%s`\n", fmtPrice(sig.TakeProfit1, sig.Price))
	fmt.Fprintf(&b, "*TP2 (full):* `%s`\n", fmtPrice(sig.TakeProfit2, sig.Price))
	fmt.Fprintf(&b, "*Risk/Reward:* 1:%.1f\n", sig.RiskReward)
	fmt.Fprintf(&b, "*Auto exit:* after %s\n\n", sig.ExitAfter)

	fmt.Fprintf(&b, "*Indicators:*\n")
	for _, op := range sig.Primary {
		fmt.Fprintf(&b, "  - %s: %s\n", op.Name, op.Rationale)
	}

	if len(sig.Extra) > 0 {
		fmt.Fprintf(&b, "*Auxiliary:*\n")
		for _, op := range sig.Extra {
			fmt.Fprintf(&b, "  - %s: %s\n", op.Name, op.Rationale)
		}
	}

	fmt.Fprintf(&b, "*Volume:* %s\n", sig.VolumeQuality)

	if sig.Levels != nil {
		if len(sig.Levels.Supports) > 0 {
			sup := lo.MaxBy(sig.Levels.Supports, func(a, b types.PivotLevel) bool {
				return a.Price > b.Price
			})
			fmt.Fprintf(&b, "*Support:* `%s` (%dx)\n", fmtPrice(sup.Price, sig.Price), sup.Touches)
		}
		if len(sig.Levels.Resistances) > 0 {
			res := lo.MinBy(sig.Levels.Resistances, func(a, b types.PivotLevel) bool {
				return a.Price < b.Price
			})
			fmt.Fprintf(&b, "*Resistance:* `%s` (%dx)\n", fmtPrice(res.Price, sig.Price), res.Touches)
		}
	}

	if sig.MarketFilterNote != "" {
		fmt.Fprintf(&b, "*Market:* %s\n", sig.MarketFilterNote)
	}

	confirm := "confirmed"
	if !sig.ConfirmationAligned {
		confirm = "not confirmed"
	}
	fmt.Fprintf(&b, "*Higher timeframe:* %s, %s\n\n", confirm, sig.ConfirmationDetails)

	fmt.Fprintf(&b, "%s\n", sig.CreatedAt.UTC().Format("2006-01-02 15:04 UTC"))
	fmt.Fprintf(&b, "%s\n", rule)
	fmt.Fprintf(&b, "_DYOR, not financial advice._")

	return b.String()
}

// FormatExit renders an exit event as a Markdown alert message.
func FormatExit(event tracker.ExitEvent) string {
	pos := event.Position

	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", rule)
	fmt.Fprintf(&b, "*%s*\n", event.Reason.String())
	fmt.Fprintf(&b, "%s\n\n", rule)

	fmt.Fprintf(&b, "*%s* %s\n", pos.Symbol, pos.Direction)
	fmt.Fprintf(&b, "Entry: `%s`\n", fmtPrice(pos.EntryPrice, pos.EntryPrice))
	fmt.Fprintf(&b, "Exit:  `%s`\n\n", fmtPrice(event.Price, pos.EntryPrice))

	fmt.Fprintf(&b, "*PnL:* `%+.2f%%`\n", event.PnLPct)
	fmt.Fprintf(&b, "Size: %.0f%% of deposit\n", pos.PositionSizePct)

	if !event.Terminal {
		fmt.Fprintf(&b, "Stop moved to breakeven: `%s`\n", fmtPrice(pos.StopLoss, pos.EntryPrice))
		fmt.Fprintf(&b, "Waiting for TP2: `%s`\n", fmtPrice(pos.TakeProfit2, pos.EntryPrice))
	}

	fmt.Fprintf(&b, "%s", rule)

	return b.String()
}
