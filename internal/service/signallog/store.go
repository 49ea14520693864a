package signallog

import (
	"strings"
	"time"

	"SignalDash/internal/domain/models"
)

// AllAssets disables asset filtering.
const AllAssets = "all"

// DefaultCapacity is the number of signals kept in the visible log.
const DefaultCapacity = 20

// Entry is a signal as held by the visible log.
type Entry struct {
	Seq       uint64
	Event     models.SignalEvent
	Highlight bool
}

// Store keeps the visible log (bounded, newest first) and the unbounded backing
// history used for aggregates and search. Not safe for concurrent use.
type Store struct {
	capacity int
	visible  []Entry
	history  []models.SignalEvent
	counts   map[key]int
	seq      uint64
}

// key identifies a signal by content; the backend assigns no ids.
type key struct {
	at        time.Time
	asset     string
	direction models.Direction
	timeframe string
}

func keyOf(ev models.SignalEvent) key {
	return key{at: ev.Timestamp.UTC(), asset: ev.Asset, direction: ev.Direction, timeframe: ev.Timeframe}
}

// New creates a store whose visible log holds at most capacity entries.
func New(capacity int) *Store {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Store{
		capacity: capacity,
		visible:  make([]Entry, 0, capacity+1),
		counts:   make(map[key]int),
	}
}

// Record inserts ev at the head of the visible log, highlighted, and returns its
// sequence number.
func (s *Store) Record(ev models.SignalEvent) uint64 {
	return s.insert(ev, true)
}

func (s *Store) insert(ev models.SignalEvent, highlight bool) uint64 {
	s.seq++
	s.visible = append(s.visible, Entry{})
	copy(s.visible[1:], s.visible[:len(s.visible)-1])
	s.visible[0] = Entry{Seq: s.seq, Event: ev, Highlight: highlight}
	if len(s.visible) > s.capacity {
		s.visible = s.visible[:s.capacity]
	}
	s.history = append(s.history, ev)
	s.counts[keyOf(ev)]++
	return s.seq
}

// Merge adds the events of a snapshot, given most recent first, that the store does
// not hold yet. They are inserted oldest first without a highlight. History is never
// shortened. It returns the number of events added.
func (s *Store) Merge(events []models.SignalEvent) int {
	seen := make(map[key]int, len(events))
	added := 0
	for i := len(events) - 1; i >= 0; i-- {
		k := keyOf(events[i])
		seen[k]++
		if seen[k] <= s.counts[k] {
			continue
		}
		s.insert(events[i], false)
		added++
	}
	return added
}

// Contains reports whether an event with the same content is already held.
func (s *Store) Contains(ev models.SignalEvent) bool {
	return s.counts[keyOf(ev)] > 0
}

// ReplaceAll discards all state and loads events, given most recent first.
func (s *Store) ReplaceAll(events []models.SignalEvent) {
	s.visible = s.visible[:0]
	for i, ev := range events {
		if i == s.capacity {
			break
		}
		s.seq++
		s.visible = append(s.visible, Entry{Seq: s.seq, Event: ev})
	}
	// history is kept in arrival order, oldest first
	s.history = make([]models.SignalEvent, 0, len(events))
	s.counts = make(map[key]int, len(events))
	for i := len(events) - 1; i >= 0; i-- {
		s.history = append(s.history, events[i])
		s.counts[keyOf(events[i])]++
	}
}

// ClearHighlight drops the highlight flag of the entry with seq, if still visible.
func (s *Store) ClearHighlight(seq uint64) bool {
	for i := range s.visible {
		if s.visible[i].Seq == seq {
			changed := s.visible[i].Highlight
			s.visible[i].Highlight = false
			return changed
		}
	}
	return false
}

// Visible returns a copy of the visible log, newest first.
func (s *Store) Visible() []Entry {
	out := make([]Entry, len(s.visible))
	copy(out, s.visible)
	return out
}

// Events returns the visible log's events, newest first.
func (s *Store) Events() []models.SignalEvent {
	out := make([]models.SignalEvent, len(s.visible))
	for i, e := range s.visible {
		out[i] = e.Event
	}
	return out
}

// History returns a copy of the backing history, oldest first.
func (s *Store) History() []models.SignalEvent {
	out := make([]models.SignalEvent, len(s.history))
	copy(out, s.history)
	return out
}

func (s *Store) Len() int { return len(s.visible) }

func (s *Store) HistoryLen() int { return len(s.history) }

// FilterByAsset projects the visible log onto one asset, or returns it whole for "all".
func (s *Store) FilterByAsset(asset string) []models.SignalEvent {
	return FilterByAsset(s.Events(), asset)
}

// Search projects the visible log onto entries matching query.
func (s *Store) Search(query string) []models.SignalEvent {
	return Search(s.Events(), query)
}

// FilterByAsset returns the events whose asset equals asset. "all" and "" keep everything.
func FilterByAsset(events []models.SignalEvent, asset string) []models.SignalEvent {
	out := make([]models.SignalEvent, 0, len(events))
	for _, ev := range events {
		if MatchesAsset(ev, asset) {
			out = append(out, ev)
		}
	}
	return out
}

// Search returns the events matching query, see Matches.
func Search(events []models.SignalEvent, query string) []models.SignalEvent {
	out := make([]models.SignalEvent, 0, len(events))
	for _, ev := range events {
		if Matches(ev, query) {
			out = append(out, ev)
		}
	}
	return out
}

// MatchesAsset reports whether ev passes the asset filter.
func MatchesAsset(ev models.SignalEvent, asset string) bool {
	return asset == "" || asset == AllAssets || ev.Asset == asset
}

// Matches reports whether ev matches a search query: case-insensitive on asset and
// direction, case-sensitive on timeframe. The empty query matches everything.
func Matches(ev models.SignalEvent, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(ev.Asset), q) ||
		strings.Contains(strings.ToLower(string(ev.Direction)), q) ||
		strings.Contains(ev.Timeframe, query)
}

// Assets lists the distinct assets of events in first-seen order.
func Assets(events []models.SignalEvent) []string {
	seen := make(map[string]struct{}, len(events))
	var out []string
	for _, ev := range events {
		if _, ok := seen[ev.Asset]; ok {
			continue
		}
		seen[ev.Asset] = struct{}{}
		out = append(out, ev.Asset)
	}
	return out
}
