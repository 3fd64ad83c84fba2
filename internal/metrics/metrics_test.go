package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveTransaction(t *testing.T) {
	m := New()

	m.ObserveTransaction("DEPOSIT", 5000)
	m.ObserveTransaction("DEPOSIT", 2000)
	m.ObserveTransaction("WITHDRAW", 3000)

	if got := testutil.ToFloat64(m.transactions.WithLabelValues("DEPOSIT")); got != 2 {
		t.Errorf("deposit count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.amounts.WithLabelValues("DEPOSIT")); got != 7000 {
		t.Errorf("deposit amount = %v, want 7000", got)
	}
	if got := testutil.ToFloat64(m.amounts.WithLabelValues("WITHDRAW")); got != 3000 {
		t.Errorf("withdraw amount = %v, want 3000", got)
	}
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	m := New()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/balance/{studentId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	server := httptest.NewServer(m.Middleware(mux))
	defer server.Close()

	for _, id := range []string{"1", "2", "3"} {
		resp, err := http.Get(server.URL + "/api/balance/" + id)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()
	}

	got := testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "GET /api/balance/{studentId}", "403"))
	if got != 3 {
		t.Errorf("request count = %v, want 3", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ObserveTransaction("DEPOSIT", 1)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "tabungan_transactions_recorded_total") {
		t.Errorf("metrics output missing ledger counter:\n%s", body)
	}
}
