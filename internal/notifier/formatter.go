package notifier

import (
	"fmt"
	"strings"
	"time"

	"FxSentinel/internal/model"
)

// maxLedgerLines caps how many trades /trades lists.
const maxLedgerLines = 10

// Status is the snapshot rendered by the /status command.
type Status struct {
	Now           time.Time
	Session       model.Session
	Pairs         []string
	Providers     []string
	MaxPerSession int
	Counts        map[model.Session]int
	TotalTrades   int
}

// FormatTrade formats a confirmed paper trade into a signal alert.
func FormatTrade(t *model.Trade) string {
	var b strings.Builder
	b.WriteString("📈 <b>Forex Signal Alert</b>\n")
	b.WriteString(fmt.Sprintf("Pair: %s\n", t.Pair))
	b.WriteString(fmt.Sprintf("Signal: %s\n", t.Signal))
	b.WriteString(fmt.Sprintf("Entry: %.5f\n", t.Entry))
	b.WriteString(fmt.Sprintf("SL: %.5f\n", t.StopLoss))
	b.WriteString(fmt.Sprintf("TP: %.5f\n", t.TakeProfit))
	b.WriteString(fmt.Sprintf("RR: %.2f\n", t.RiskReward))
	b.WriteString(fmt.Sprintf("Session: %s\n", t.Session))
	b.WriteString(fmt.Sprintf("Time: %s", t.OpenedAt.UTC().Format("2006-01-02 15:04 UTC")))
	return b.String()
}

// FormatLedger lists the most recent paper trades, newest last.
func FormatLedger(trades []model.Trade) string {
	if len(trades) == 0 {
		return "📒 No paper trades yet."
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📒 <b>Paper trades</b> (%d)\n\n", len(trades)))
	start := 0
	if len(trades) > maxLedgerLines {
		start = len(trades) - maxLedgerLines
		b.WriteString(fmt.Sprintf("… %d older trades omitted\n", start))
	}
	for _, t := range trades[start:] {
		b.WriteString(fmt.Sprintf("%s %s %s @ %.5f (SL %.5f / TP %.5f) %s\n",
			t.OpenedAt.UTC().Format("01-02 15:04"), t.Pair, t.Signal, t.Entry, t.StopLoss, t.TakeProfit, t.Session))
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatStatus renders the current session and per-session trade usage.
func FormatStatus(st Status) string {
	var b strings.Builder
	b.WriteString("🛰 <b>Bot status</b>\n\n")
	b.WriteString(fmt.Sprintf("Time: %s\n", st.Now.UTC().Format("2006-01-02 15:04 UTC")))
	b.WriteString(fmt.Sprintf("Session: %s\n", st.Session))
	b.WriteString(fmt.Sprintf("Pairs: %s\n", strings.Join(st.Pairs, ", ")))
	b.WriteString(fmt.Sprintf("Providers: %s\n", strings.Join(st.Providers, " → ")))
	for _, s := range []model.Session{model.SessionLondon, model.SessionNY} {
		b.WriteString(fmt.Sprintf("%s trades: %d/%d\n", s, st.Counts[s], st.MaxPerSession))
	}
	b.WriteString(fmt.Sprintf("Total trades: %d", st.TotalTrades))
	return b.String()
}

// FormatHelp lists the available chat commands.
func FormatHelp() string {
	return "Available commands:\n• /trades - recent paper trades\n• /status - session and trade usage\n• /help - this message"
}
