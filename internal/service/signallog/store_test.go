package signallog

import (
	"reflect"
	"testing"
	"time"

	"SignalDash/internal/domain/models"
)

func sig(asset string, dir models.Direction, tf string) models.SignalEvent {
	return models.SignalEvent{
		Timestamp:  time.Date(2024, 10, 10, 10, 0, 0, 0, time.UTC),
		Asset:      asset,
		Direction:  dir,
		Timeframe:  tf,
		Confidence: 80,
	}
}

func TestRecordKeepsNewestFirstAndTrims(t *testing.T) {
	s := New(DefaultCapacity)
	for i := 0; i < 21; i++ {
		ev := sig("EURUSD", models.DirectionCall, "1m")
		ev.Confidence = float64(i)
		s.Record(ev)
	}
	if s.Len() != 20 {
		t.Fatalf("expected 20 visible, got %d", s.Len())
	}
	if s.HistoryLen() != 21 {
		t.Fatalf("expected 21 in history, got %d", s.HistoryLen())
	}
	vis := s.Visible()
	if vis[0].Event.Confidence != 20 || vis[19].Event.Confidence != 1 {
		t.Fatalf("unexpected order head=%v tail=%v", vis[0].Event.Confidence, vis[19].Event.Confidence)
	}
	if !vis[0].Highlight {
		t.Errorf("expected new entry to be highlighted")
	}
}

func TestReplaceAll(t *testing.T) {
	s := New(2)
	s.Record(sig("OLD", models.DirectionHold, "5m"))

	s.ReplaceAll([]models.SignalEvent{
		sig("A", models.DirectionCall, "1m"),
		sig("B", models.DirectionPut, "1m"),
		sig("C", models.DirectionPut, "1m"),
	})
	ev := s.Events()
	if len(ev) != 2 || ev[0].Asset != "A" || ev[1].Asset != "B" {
		t.Fatalf("unexpected visible log %+v", ev)
	}
	hist := s.History()
	if len(hist) != 3 || hist[0].Asset != "C" || hist[2].Asset != "A" {
		t.Fatalf("unexpected history %+v", hist)
	}
	for _, e := range s.Visible() {
		if e.Highlight {
			t.Errorf("snapshot entries must not be highlighted")
		}
	}
}

func TestFilterByAsset(t *testing.T) {
	s := New(DefaultCapacity)
	s.Record(sig("EURUSD", models.DirectionCall, "1m"))
	s.Record(sig("BTC", models.DirectionPut, "5m"))
	s.Record(sig("EURUSD", models.DirectionHold, "2m"))

	before := s.Visible()
	if got := s.FilterByAsset(AllAssets); !reflect.DeepEqual(got, s.Events()) {
		t.Fatalf("filter all must be identity")
	}
	got := s.FilterByAsset("EURUSD")
	if len(got) != 2 {
		t.Fatalf("expected 2 EURUSD signals, got %d", len(got))
	}
	for _, ev := range got {
		if ev.Asset != "EURUSD" {
			t.Fatalf("filter leaked asset %s", ev.Asset)
		}
	}
	if !reflect.DeepEqual(before, s.Visible()) {
		t.Fatalf("filter mutated store")
	}
}

func TestSearch(t *testing.T) {
	events := []models.SignalEvent{
		sig("EURUSD", models.DirectionCall, "1m"),
		sig("BTC", models.DirectionPut, "5M"),
		sig("XAUUSD", models.DirectionHold, "5m"),
	}

	cases := []struct {
		query string
		want  []string
	}{
		{"", []string{"EURUSD", "BTC", "XAUUSD"}},
		{"usd", []string{"EURUSD", "XAUUSD"}},
		{"put", []string{"BTC"}},
		{"5m", []string{"XAUUSD"}},
		{"5M", []string{"BTC"}},
		{"nothing", nil},
	}
	for _, tc := range cases {
		got := Search(events, tc.query)
		var assets []string
		for _, ev := range got {
			assets = append(assets, ev.Asset)
		}
		if !reflect.DeepEqual(assets, tc.want) {
			t.Errorf("query %q: got %v, want %v", tc.query, assets, tc.want)
		}
	}
}

func TestClearHighlight(t *testing.T) {
	s := New(DefaultCapacity)
	seq := s.Record(sig("EURUSD", models.DirectionCall, "1m"))
	if !s.ClearHighlight(seq) {
		t.Fatalf("expected highlight to be cleared")
	}
	if s.ClearHighlight(seq) {
		t.Fatalf("second clear must report no change")
	}
	if s.ClearHighlight(seq + 100) {
		t.Fatalf("unknown seq must report no change")
	}
}

func TestAssets(t *testing.T) {
	got := Assets([]models.SignalEvent{
		sig("A", models.DirectionCall, ""),
		sig("B", models.DirectionCall, ""),
		sig("A", models.DirectionPut, ""),
	})
	if !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Fatalf("unexpected assets %v", got)
	}
}

func at(asset string, sec int) models.SignalEvent {
	ev := sig(asset, models.DirectionCall, "1m")
	ev.Timestamp = ev.Timestamp.Add(time.Duration(sec) * time.Second)
	return ev
}

func TestMergeAddsOnlyMissingEvents(t *testing.T) {
	s := New(3)
	s.Record(at("A", 1))
	s.Record(at("B", 2))

	// snapshot: most recent first, B is already held
	added := s.Merge([]models.SignalEvent{at("C", 3), at("B", 2)})
	if added != 1 {
		t.Fatalf("added = %d, want 1", added)
	}
	ev := s.Events()
	if len(ev) != 3 || ev[0].Asset != "C" || ev[1].Asset != "B" || ev[2].Asset != "A" {
		t.Fatalf("unexpected visible log %+v", ev)
	}
	if s.HistoryLen() != 3 {
		t.Fatalf("history = %d, want 3", s.HistoryLen())
	}
	if s.Visible()[0].Highlight {
		t.Errorf("merged entries must not be highlighted")
	}
	if !s.Contains(at("C", 3)) || s.Contains(at("C", 4)) {
		t.Errorf("Contains does not match by content")
	}
}

func TestMergeNeverShrinksHistory(t *testing.T) {
	s := New(DefaultCapacity)
	var snapshot []models.SignalEvent
	for i := 0; i < 21; i++ {
		ev := at("EURUSD", i)
		s.Record(ev)
		snapshot = append([]models.SignalEvent{ev}, snapshot...)
	}
	// the backend only returns its 20 most recent
	if added := s.Merge(snapshot[:20]); added != 0 {
		t.Fatalf("added = %d, want 0", added)
	}
	if s.Len() != 20 || s.HistoryLen() != 21 {
		t.Fatalf("visible=%d history=%d", s.Len(), s.HistoryLen())
	}
}

func TestMergeKeepsRepeatedEvents(t *testing.T) {
	s := New(DefaultCapacity)
	s.Record(at("A", 1))
	if added := s.Merge([]models.SignalEvent{at("A", 1), at("A", 1)}); added != 1 {
		t.Fatalf("added = %d, want 1", added)
	}
	if s.HistoryLen() != 2 {
		t.Fatalf("history = %d, want 2", s.HistoryLen())
	}
}
