package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

type CSVJournal struct {
	trades *csv.Writer
	equity *csv.Writer
	tf, ef *os.File
}

var (
	tradeHeader  = []string{"trade_id", "account_id", "symbol", "direction", "lots", "entry_price", "exit_price", "open_time", "close_time", "pips", "pnl", "commission", "reason"}
	equityHeader = []string{"account_id", "time", "balance", "equity", "pnl", "daily_pnl", "status"}
)

// NewCSV opens (or creates) the two CSV files for appending. Headers are
// written only to empty files so repeated runs extend the same journal.
func NewCSV(tradesPath, equityPath string) (*CSVJournal, error) {
	tf, tw, err := openCSV(tradesPath, tradeHeader)
	if err != nil {
		return nil, err
	}
	ef, ew, err := openCSV(equityPath, equityHeader)
	if err != nil {
		tf.Close()
		return nil, err
	}
	return &CSVJournal{tw, ew, tf, ef}, nil
}

func openCSV(path string, header []string) (*os.File, *csv.Writer, error) {
	fh, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}
	info, err := fh.Stat()
	if err != nil {
		fh.Close()
		return nil, nil, err
	}

	w := csv.NewWriter(fh)
	if info.Size() == 0 {
		if err := w.Write(header); err != nil {
			fh.Close()
			return nil, nil, err
		}
		w.Flush()
		if err := w.Error(); err != nil {
			fh.Close()
			return nil, nil, err
		}
	}
	return fh, w, nil
}

func (j *CSVJournal) RecordTrade(t TradeRecord) error {
	err := j.trades.Write([]string{
		t.TradeID,
		t.AccountID,
		t.Symbol,
		t.Direction,
		f(t.Lots),
		f(t.EntryPrice),
		f(t.ExitPrice),
		t.OpenTime.Format(time.RFC3339),
		t.CloseTime.Format(time.RFC3339),
		strconv.FormatFloat(t.Pips, 'f', 1, 64),
		t.PnL.String(),
		t.Commission.String(),
		t.Reason,
	})
	if err != nil {
		return err
	}
	j.trades.Flush()
	return j.trades.Error()
}

func (j *CSVJournal) RecordEquity(e EquitySnapshot) error {
	err := j.equity.Write([]string{
		e.AccountID,
		e.Time.Format(time.RFC3339),
		e.Balance.String(),
		e.Equity.String(),
		e.PnL.String(),
		e.DailyPnL.String(),
		e.Status,
	})
	if err != nil {
		return err
	}

	j.equity.Flush()
	return j.equity.Error()
}

func (j *CSVJournal) Close() error {
	j.trades.Flush()
	if err := j.trades.Error(); err != nil {
		return err
	}
	j.equity.Flush()
	if err := j.equity.Error(); err != nil {
		return err
	}

	if err := j.tf.Close(); err != nil {
		return err
	}
	if err := j.ef.Close(); err != nil {
		return err
	}
	return nil
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
