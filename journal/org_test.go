package journal

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatTradeOrg(t *testing.T) {
	t.Parallel()

	rec := sampleTrade("01HV3K9Z8QABCDEF", time.Date(2024, 3, 15, 14, 20, 30, 0, time.UTC))
	result := FormatTradeOrg(rec)

	assert.True(t, strings.HasPrefix(result, "** Trade: BUY NIFTY (01HV3K9Z)\n"))
	assert.Contains(t, result, ":TRADE_ID: 01HV3K9Z8QABCDEF")
	assert.Contains(t, result, ":ACCOUNT_ID: A1")
	assert.Contains(t, result, ":LOTS: 1.50")
	assert.Contains(t, result, ":ENTRY_PRICE: 22150.10000")
	assert.Contains(t, result, ":OPEN_TIME: 2024-03-15T13:50:30Z")
	assert.Contains(t, result, ":CLOSE_TIME: 2024-03-15T14:20:30Z")
	assert.Contains(t, result, ":PIPS: 50.0")
	assert.Contains(t, result, ":PNL: ₹740")
	assert.Contains(t, result, ":COMMISSION: 10.50")
	assert.Contains(t, result, ":REASON: quick")
	assert.Contains(t, result, ":END:")
	assert.Contains(t, result, "*** Review")
}

func TestFormatTradesOrg(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 3, 15, 14, 20, 30, 0, time.UTC)
	out := FormatTradesOrg([]TradeRecord{sampleTrade("T1", at), sampleTrade("T2", at)})

	assert.Equal(t, 2, strings.Count(out, "** Trade:"))
	assert.Contains(t, out, ":END:\n\n*** Thesis")
	assert.Empty(t, FormatTradesOrg(nil))
}
