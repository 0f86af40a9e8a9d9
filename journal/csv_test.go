package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rustyeddy/evalsim/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	fh, err := os.Open(path)
	require.NoError(t, err)
	defer fh.Close()

	rows, err := csv.NewReader(fh).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVJournalHeaders(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tradesPath := filepath.Join(dir, "trades.csv")
	equityPath := filepath.Join(dir, "equity.csv")

	j, err := NewCSV(tradesPath, equityPath)
	require.NoError(t, err)
	require.NoError(t, j.Close())

	trades := readCSV(t, tradesPath)
	require.Len(t, trades, 1)
	assert.Equal(t, tradeHeader, trades[0])

	equity := readCSV(t, equityPath)
	require.Len(t, equity, 1)
	assert.Equal(t, equityHeader, equity[0])
}

func TestCSVJournalRecords(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tradesPath := filepath.Join(dir, "trades.csv")
	equityPath := filepath.Join(dir, "equity.csv")

	j, err := NewCSV(tradesPath, equityPath)
	require.NoError(t, err)

	closeAt := time.Date(2024, 1, 2, 4, 5, 6, 0, time.UTC)
	require.NoError(t, j.RecordTrade(sampleTrade("T1", closeAt)))
	require.NoError(t, j.RecordEquity(EquitySnapshot{
		AccountID: "A1",
		Time:      closeAt,
		Balance:   market.Rupees(100739) + 50,
		Equity:    market.Rupees(100739) + 50,
		PnL:       market.Rupees(739) + 50,
		DailyPnL:  market.Rupees(739) + 50,
		Status:    "evaluation",
	}))
	require.NoError(t, j.Close())

	trades := readCSV(t, tradesPath)
	require.Len(t, trades, 2)
	assert.Equal(t, []string{
		"T1", "A1", "NIFTY", "buy", "1.500000", "22150.100000", "22152.600000",
		"2024-01-02T03:35:06Z", "2024-01-02T04:05:06Z", "50.0", "739.50", "10.50", "quick",
	}, trades[1])

	equity := readCSV(t, equityPath)
	require.Len(t, equity, 2)
	assert.Equal(t, []string{
		"A1", "2024-01-02T04:05:06Z", "100739.50", "100739.50", "739.50", "739.50", "evaluation",
	}, equity[1])
}

func TestCSVJournalAppends(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tradesPath := filepath.Join(dir, "trades.csv")
	equityPath := filepath.Join(dir, "equity.csv")

	closeAt := time.Date(2024, 1, 2, 4, 5, 6, 0, time.UTC)
	for _, id := range []string{"T1", "T2"} {
		j, err := NewCSV(tradesPath, equityPath)
		require.NoError(t, err)
		require.NoError(t, j.RecordTrade(sampleTrade(id, closeAt)))
		require.NoError(t, j.Close())
	}

	trades := readCSV(t, tradesPath)
	require.Len(t, trades, 3)
	assert.Equal(t, tradeHeader, trades[0])
	assert.Equal(t, "T1", trades[1][0])
	assert.Equal(t, "T2", trades[2][0])
	assert.Len(t, readCSV(t, equityPath), 1)
}
