package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordTrade(t *testing.T) {
	before := testutil.ToFloat64(tradesTotal.WithLabelValues("NIFTY", "buy", "win"))
	RecordTrade("NIFTY", "buy", true)
	RecordTrade("NIFTY", "buy", false)

	assert.Equal(t, before+1, testutil.ToFloat64(tradesTotal.WithLabelValues("NIFTY", "buy", "win")))
	assert.GreaterOrEqual(t, testutil.ToFloat64(tradesTotal.WithLabelValues("NIFTY", "buy", "loss")), 1.0)
}

func TestCounters(t *testing.T) {
	RecordSkipped("no account selected")
	RecordAccountCreated("one-step")
	RecordStatusTransition("one-step", "passed")
	RecordPhaseAdvance()
	RecordPersistError("save")

	assert.GreaterOrEqual(t, testutil.ToFloat64(tradesSkippedTotal.WithLabelValues("no account selected")), 1.0)
	assert.GreaterOrEqual(t, testutil.ToFloat64(accountsCreatedTotal.WithLabelValues("one-step")), 1.0)
	assert.GreaterOrEqual(t, testutil.ToFloat64(statusTransitionsTotal.WithLabelValues("one-step", "passed")), 1.0)
	assert.GreaterOrEqual(t, testutil.ToFloat64(phaseAdvancesTotal), 1.0)
	assert.GreaterOrEqual(t, testutil.ToFloat64(persistErrorsTotal.WithLabelValues("save")), 1.0)
}

func TestHandlerExposesCounters(t *testing.T) {
	RecordAccountCreated("two-step")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "evalsim_accounts_created_total")
}
