package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/rotnitxe/yourprime/internal/recovery"
)

// newTestServer creates an httptest server routing requests to handler
// functions keyed by path, verifying the client hits the expected endpoints.
func newTestServer(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			t.Errorf("unexpected request path: %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
}

func writeTestJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatal(err)
	}
}

// TestMuscleBatteryRequest verifies path-escaping of accented muscle names
// and response decoding.
func TestMuscleBatteryRequest(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/recovery/Cuádriceps": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, recovery.BatteryResult{
				Muscle:        "Cuádriceps",
				RecoveryScore: 73.5,
				Status:        recovery.StatusRecovering,
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	res, err := client.MuscleBattery(context.Background(), "Cuádriceps")
	if err != nil {
		t.Fatalf("MuscleBattery error: %v", err)
	}
	if res.RecoveryScore != 73.5 {
		t.Errorf("score = %v, want 73.5", res.RecoveryScore)
	}
	if res.Status != recovery.StatusRecovering {
		t.Errorf("status = %q, want recovering", res.Status)
	}
}

// TestSystemicFatigueRequest verifies the systemic endpoint path and decode.
func TestSystemicFatigueRequest(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/recovery/systemic": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, recovery.SystemicResult{Score: 91, Status: recovery.StatusFresh})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	res, err := client.SystemicFatigue(context.Background())
	if err != nil {
		t.Fatalf("SystemicFatigue error: %v", err)
	}
	if res.Score != 91 {
		t.Errorf("score = %v, want 91", res.Score)
	}
}

// TestVolumeBreakdownQueryParams verifies the window query param is sent only
// when positive.
func TestVolumeBreakdownQueryParams(t *testing.T) {
	var gotWindow string
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/volume/Pectorales": func(w http.ResponseWriter, r *http.Request) {
			gotWindow = r.URL.Query().Get("window")
			writeTestJSON(t, w, map[string]any{"muscle": "Pectorales", "window_days": 14})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	b, err := client.VolumeBreakdown(context.Background(), "Pectorales", 14)
	if err != nil {
		t.Fatalf("VolumeBreakdown error: %v", err)
	}
	if gotWindow != "14" {
		t.Errorf("window param = %q, want 14", gotWindow)
	}
	if b.WindowDays != 14 {
		t.Errorf("window days = %d, want 14", b.WindowDays)
	}

	if _, err := client.VolumeBreakdown(context.Background(), "Pectorales", 0); err != nil {
		t.Fatalf("VolumeBreakdown error: %v", err)
	}
	if gotWindow != "" {
		t.Errorf("window param = %q, want omitted for 0", gotWindow)
	}
}

// TestErrorResponse verifies non-200 responses surface the body in the error.
func TestErrorResponse(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/recovery/systemic": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"database unavailable"}`, http.StatusInternalServerError)
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	if _, err := client.SystemicFatigue(context.Background()); err == nil {
		t.Error("expected error for 500 response")
	}
}

// TestMusclesCached verifies the muscle list is fetched once and cached.
func TestMusclesCached(t *testing.T) {
	calls := 0
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/muscles": func(w http.ResponseWriter, r *http.Request) {
			calls++
			writeTestJSON(t, w, []string{"Pectorales", "Dorsales"})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	first := client.Muscles()
	second := client.Muscles()

	if calls != 1 {
		t.Errorf("listing endpoint called %d times, want 1", calls)
	}
	if len(first) != 2 || len(second) != 2 {
		t.Errorf("muscle lists = %v / %v, want 2 entries each", first, second)
	}
}

// TestMusclesConcurrent verifies concurrent callers share one fetch. MCP tool
// handlers run per-request goroutines, so the lazy cache must be safe under
// the race detector.
func TestMusclesConcurrent(t *testing.T) {
	var (
		mu    sync.Mutex
		calls int
	)
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/muscles": func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			calls++
			mu.Unlock()
			writeTestJSON(t, w, []string{"Pectorales", "Dorsales"})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := client.Muscles(); len(got) != 2 {
				t.Errorf("muscle list = %v, want 2 entries", got)
			}
		}()
	}
	wg.Wait()

	if calls != 1 {
		t.Errorf("listing endpoint called %d times, want 1", calls)
	}
}
