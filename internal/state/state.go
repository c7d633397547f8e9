// Package state provides thread-safe ownership of the catalog and the
// currently displayed star systems.
package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/litescript/ls-exoplanets/internal/catalog"
	"github.com/litescript/ls-exoplanets/internal/metrics"
)

// EventType represents the type of state change event.
type EventType string

const (
	EventCatalogLoaded EventType = "CATALOG_LOADED"
	EventFilterApplied EventType = "FILTER_APPLIED"
	EventFilterStale   EventType = "FILTER_STALE"
	EventFilterFailed  EventType = "FILTER_FAILED"
	EventFilterReset   EventType = "FILTER_RESET"
	EventFetchFailed   EventType = "FETCH_FAILED"
)

// Event is an entry in the activity log shown to the user.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Detail    string    `json:"detail,omitempty"`
}

// Source says where the current catalog came from.
type Source string

const (
	SourceNone  Source = ""
	SourceLive  Source = "live"
	SourceCache Source = "cache"
)

// Manager handles all shared application state with thread-safe access.
type Manager struct {
	mu sync.RWMutex

	// Catalog
	rows          []catalog.Row
	systems       catalog.SystemMap
	source        Source
	lastFetch     time.Time
	lastError     error
	fetchDuration time.Duration

	// Filter sequencing. issued is the last sequence handed out, applied the
	// last one whose result (or reset) took effect.
	issued        uint64
	applied       uint64
	filterActive  bool
	filterMatches int

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int

	metrics *metrics.Metrics
}

// Config holds configuration for the state manager.
type Config struct {
	MaxEvents int
	Metrics   *metrics.Metrics // optional
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxEvents: 50,
	}
}

// NewManager creates a new state manager.
func NewManager(cfg Config) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	return &Manager{
		maxEvents: maxEvents,
		events:    make([]Event, 0, maxEvents),
		metrics:   cfg.Metrics,
	}
}

// Update records a fetch result. On success the catalog is replaced,
// regrouped from scratch, and any filter (applied or in flight) is dropped.
// On failure the previous catalog stays.
func (m *Manager) Update(res catalog.FetchResult, source Source) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastFetch = res.FetchedAt
	m.lastError = res.Error
	m.fetchDuration = res.Duration

	if res.Error != nil {
		m.addEvent(EventFetchFailed, res.Error.Error())
		return
	}
	if res.Rows == nil {
		return
	}

	m.rows = res.Rows
	m.source = source
	m.systems = catalog.Group(m.rows)
	m.applied = m.issued
	m.filterActive = false
	m.filterMatches = 0

	m.addEvent(EventCatalogLoaded, fmt.Sprintf("%d systems, %d planets (%s)",
		m.systems.Len(), len(m.rows), source))
	m.metrics.SetScene(m.systems.Len(), m.systems.PlanetCount())
}

// BeginFilter hands out the sequence number for a new filter request.
func (m *Manager) BeginFilter() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.issued++
	return m.issued
}

// CompleteFilter applies a filter result to the current catalog. Results
// older than the last applied filter or reset are discarded and it returns
// false.
func (m *Manager) CompleteFilter(seq uint64, names []string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if seq <= m.applied {
		m.addEvent(EventFilterStale, fmt.Sprintf("request #%d superseded", seq))
		m.metrics.StaleResponse()
		return false
	}

	m.systems = catalog.ApplyFilter(m.rows, names)
	m.applied = seq
	m.filterActive = true
	m.filterMatches = len(names)
	m.lastError = nil

	m.addEvent(EventFilterApplied, fmt.Sprintf("%d matches, %d systems shown",
		len(names), m.systems.Len()))
	m.metrics.SetScene(m.systems.Len(), m.systems.PlanetCount())
	return true
}

// FailFilter records a failed filter request. The displayed systems are
// left untouched, but the request still settles: responses to older
// requests arriving later are stale. Failures of superseded requests are
// ignored.
func (m *Manager) FailFilter(seq uint64, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if seq <= m.applied {
		return
	}
	m.applied = seq
	m.lastError = err
	m.addEvent(EventFilterFailed, err.Error())
}

// ResetFilter shows the full catalog again and supersedes every filter
// request issued so far.
func (m *Manager) ResetFilter() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.systems = catalog.Group(m.rows)
	m.applied = m.issued
	m.filterActive = false
	m.filterMatches = 0

	m.addEvent(EventFilterReset, "")
	m.metrics.SetScene(m.systems.Len(), m.systems.PlanetCount())
}

// addEvent adds an event to the ring buffer.
func (m *Manager) addEvent(t EventType, detail string) {
	e := Event{Type: t, Timestamp: time.Now(), Detail: detail}
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

// Snapshot represents an immutable snapshot of current state.
type Snapshot struct {
	Systems       catalog.SystemMap
	RowCount      int
	Source        Source
	LastFetch     time.Time
	LastError     error
	FetchDuration time.Duration
	FilterActive  bool
	FilterMatches int
	FilterPending bool
	Events        []Event
}

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return Snapshot{
		Systems:       m.systems,
		RowCount:      len(m.rows),
		Source:        m.source,
		LastFetch:     m.lastFetch,
		LastError:     m.lastError,
		FetchDuration: m.fetchDuration,
		FilterActive:  m.filterActive,
		FilterMatches: m.filterMatches,
		FilterPending: m.issued > m.applied,
		Events:        m.getEventsOrdered(),
	}
}

// Systems returns the systems currently on display.
func (m *Manager) Systems() catalog.SystemMap {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.systems
}

// Rows returns the raw catalog.
func (m *Manager) Rows() []catalog.Row {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]catalog.Row, len(m.rows))
	copy(out, m.rows)
	return out
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	if len(m.events) < m.maxEvents {
		result := make([]Event, len(m.events))
		copy(result, m.events)
		return result
	}

	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		idx := (m.eventWriteAt + i) % m.maxEvents
		result[i] = m.events[idx]
	}
	return result
}

// RecentEvents returns the last n events.
func (m *Manager) RecentEvents(n int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

// HasData returns true once a catalog has been loaded.
func (m *Manager) HasData() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rows != nil
}
