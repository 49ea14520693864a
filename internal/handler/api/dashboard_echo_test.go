package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	models "SignalDash/internal/domain/models"
	"SignalDash/internal/render/snapshot"
	xhttp "SignalDash/pkg/http"
	xlogger "SignalDash/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context, time.Duration) error { return p.err }

func newEcho(t *testing.T, holder *snapshot.Holder, pinger *stubPinger) *echo.Echo {
	t.Helper()
	h := NewDashboardEchoHandler(xlogger.Nop(), holder, nil)
	if pinger != nil {
		h = NewDashboardEchoHandler(xlogger.Nop(), holder, *pinger)
	}
	reg := prometheus.NewRegistry()
	return xhttp.NewServer([]xhttp.Handler{h}, xhttp.WithMetrics("/metrics", reg, reg)).Echo()
}

func liveHolder() *snapshot.Holder {
	mk := func(seq uint64, asset string, dir models.Direction) models.SignalRow {
		ev := models.SignalEvent{Asset: asset, Direction: dir, Timeframe: "1m", Confidence: 75}
		return models.SignalRow{Seq: seq, Asset: asset, Direction: string(dir), Event: ev}
	}
	h := snapshot.NewHolder()
	h.Render(models.Projection{
		Phase:       models.PhaseLive,
		Connection:  &models.ConnectionView{Status: "✅ Connected"},
		Performance: &models.PerformanceView{WinRate: "50.0%"},
		Signals: &models.SignalsView{HistorySize: 3, Rows: []models.SignalRow{
			mk(3, "EURUSD", models.DirectionCall),
			mk(2, "BTCUSD", models.DirectionPut),
			mk(1, "EURUSD", models.DirectionPut),
		}},
	})
	return h
}

type dashboardEnvelope struct {
	Status int                      `json:"status"`
	Data   models.DashboardResponse `json:"data"`
}

func get(t *testing.T, e *echo.Echo, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestDashboardNotReady(t *testing.T) {
	e := newEcho(t, snapshot.NewHolder(), nil)
	if rec := get(t, e, "/api/dashboard"); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestDashboardFilters(t *testing.T) {
	holder := liveHolder()
	e := newEcho(t, holder, nil)

	cases := []struct {
		target string
		seqs   []uint64
	}{
		{"/api/dashboard", []uint64{3, 2, 1}},
		{"/api/dashboard?asset=EURUSD", []uint64{3, 1}},
		{"/api/dashboard?q=put", []uint64{2, 1}},
		{"/api/dashboard?asset=EURUSD&q=PUT", []uint64{1}},
		{"/api/dashboard?asset=XAUUSD", nil},
	}
	for _, tc := range cases {
		rec := get(t, e, tc.target)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status = %d", tc.target, rec.Code)
		}
		var env dashboardEnvelope
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s: decode: %v", tc.target, err)
		}
		rows := env.Data.Projection.Signals.Rows
		if len(rows) != len(tc.seqs) {
			t.Fatalf("%s: rows = %d, want %d", tc.target, len(rows), len(tc.seqs))
		}
		for i, r := range rows {
			if r.Seq != tc.seqs[i] {
				t.Fatalf("%s: row %d seq = %d, want %d", tc.target, i, r.Seq, tc.seqs[i])
			}
		}
		if len(env.Data.Assets) != 2 || env.Data.Projection.Signals.HistorySize != 3 {
			t.Fatalf("%s: assets=%v history=%d", tc.target, env.Data.Assets, env.Data.Projection.Signals.HistorySize)
		}
	}

	// filtering never mutates the held projection
	if n := len(holder.Latest().Signals.Rows); n != 3 {
		t.Fatalf("held rows = %d", n)
	}
}

func TestDashboardValidation(t *testing.T) {
	e := newEcho(t, liveHolder(), nil)
	rec := get(t, e, "/api/dashboard?asset=ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	e := newEcho(t, liveHolder(), &stubPinger{})
	rec := get(t, e, "/health")
	var resp models.HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.Code != http.StatusOK || resp.Status != "ok" || resp.Phase != models.PhaseLive || resp.VisibleSignals != 3 || resp.Backend != "ok" {
		t.Fatalf("health = %d %+v", rec.Code, resp)
	}

	e = newEcho(t, snapshot.NewHolder(), &stubPinger{err: errors.New("refused")})
	rec = get(t, e, "/health")
	resp = models.HealthResponse{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "starting" || resp.Backend != "unreachable" {
		t.Fatalf("health while loading = %+v", resp)
	}
}

func TestHealthReportsPushChannel(t *testing.T) {
	h := NewDashboardEchoHandler(xlogger.Nop(), liveHolder(), stubPinger{}).
		WithPushCheck(stubPinger{err: errors.New("redis down")})
	reg := prometheus.NewRegistry()
	e := xhttp.NewServer([]xhttp.Handler{h}, xhttp.WithMetrics("/metrics", reg, reg)).Echo()

	rec := get(t, e, "/health")
	var resp models.HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Backend != "ok" || resp.Push != "unreachable" {
		t.Fatalf("health = %+v", resp)
	}
}
