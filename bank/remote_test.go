package bank

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ledgerServer(t *testing.T, handler http.HandlerFunc) *RemoteLedger {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewRemoteLedger(srv.URL, "secret", time.Second, 2)
}

func writeEnvelope(w http.ResponseWriter, hasActive bool) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  true,
		"message": "ok",
		"data":    ActiveLoanResponse{BankNo: "BK123", HasActiveLoan: hasActive},
	})
}

func TestRemoteLedger_HasActiveLoan(t *testing.T) {
	ledger := ledgerServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bank/active-loans", r.URL.Path)
		assert.Equal(t, "BK123", r.URL.Query().Get("bank_no"))
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		writeEnvelope(w, true)
	})

	active, err := ledger.HasActiveLoan(context.Background(), "BK123")
	require.NoError(t, err)
	assert.True(t, active)
}

func TestRemoteLedger_RetriesServerErrors(t *testing.T) {
	var calls int32
	ledger := ledgerServer(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		writeEnvelope(w, false)
	})

	active, err := ledger.HasActiveLoan(context.Background(), "BK123")
	require.NoError(t, err)
	assert.False(t, active)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestRemoteLedger_Unavailable(t *testing.T) {
	ledger := ledgerServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := ledger.HasActiveLoan(context.Background(), "BK123")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestRemoteLedger_ClientErrorIsUnavailableWithoutRetry(t *testing.T) {
	var calls int32
	ledger := ledgerServer(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := ledger.HasActiveLoan(context.Background(), "BK123")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
