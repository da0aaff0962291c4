package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.LoanCreated()
	m.InstallmentCollected(false)
	m.InstallmentCollected(true)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.loansCreated))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.installmentsCollected))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.loansCompleted))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.LoanCreated()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "loanbook_loans_created_total 1")
	assert.Contains(t, string(body), "loanbook_installments_collected_total 0")
}
