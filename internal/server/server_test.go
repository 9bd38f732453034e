package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/freydema/spacetrader-agent/internal/agent"
)

type fakeSource struct{ status agent.Status }

func (f *fakeSource) Status() agent.Status { return f.status }

func TestHealthz(t *testing.T) {
	s := New(":0", &fakeSource{})
	rr := httptest.NewRecorder()
	s.http.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
}

func TestStatusReturnsSnapshot(t *testing.T) {
	s := New(":0", &fakeSource{status: agent.Status{
		State:     "EXECUTE_CONTRACT",
		Credits:   64000,
		FleetSize: 3,
	}})
	rr := httptest.NewRecorder()
	s.http.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/status", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var got agent.Status
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if got.State != "EXECUTE_CONTRACT" || got.Credits != 64000 || got.FleetSize != 3 {
		t.Errorf("snapshot = %+v", got)
	}
}

func TestMetricsEndpointMounted(t *testing.T) {
	s := New(":0", &fakeSource{})
	rr := httptest.NewRecorder()
	s.http.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
}
