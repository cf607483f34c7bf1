package discovery

import (
	"sync"
	"time"

	"github.com/karoux/oscsync/internal/logging"
	"github.com/karoux/oscsync/internal/metrics"
)

// registryEntry pairs a record with its expiry deadline. A zero deadline
// never expires (seeded entries).
type registryEntry struct {
	rec     ServiceRecord
	expires time.Time
}

// Registry is the deduplicated set of known services, keyed by record ID.
// It is owned by a single Browser instance; there is no process-wide
// registry, so independent instances never share state.
//
// Entries registered from answers expire after the record's TTL. The
// resolver in use filters zero-TTL goodbye answers before delivery, so a
// departed peer is typically observed as an expired entry rather than a
// goodbye; expiry is what lets the peer's re-advertisement register as
// new and re-trigger synchronization.
type Registry struct {
	mu      sync.Mutex
	records map[string]registryEntry

	// now is the clock, replaceable in tests.
	now func() time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		records: make(map[string]registryEntry),
		now:     time.Now,
	}
}

// purgeLocked drops expired entries. Callers hold r.mu.
func (r *Registry) purgeLocked(now time.Time) {
	for id, e := range r.records {
		if !e.expires.IsZero() && !e.expires.After(now) {
			delete(r.records, id)
			logging.LogServiceEvent(id, "expired")
		}
	}
	metrics.ServicesRegistered.Set(float64(len(r.records)))
}

// Seed pre-registers an ID without a full record and without expiry. Used
// at startup for this process's own advertised service so self-discovery
// never triggers synchronization.
func (r *Registry) Seed(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[id] = registryEntry{rec: ServiceRecord{ID: id}}
	metrics.ServicesRegistered.Set(float64(len(r.records)))
}

// Register stores a record and reports whether it was newly added.
// A goodbye record removes any existing entry with the same ID instead of
// being stored. An already-known, unexpired ID is left untouched (dedup);
// an expired entry is replaced and reported as new.
func (r *Registry) Register(rec ServiceRecord) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.purgeLocked(now)

	if rec.Goodbye {
		if _, ok := r.records[rec.ID]; ok {
			delete(r.records, rec.ID)
			logging.LogServiceEvent(rec.ID, "goodbye")
		}
		metrics.ServicesRegistered.Set(float64(len(r.records)))
		return false
	}

	if _, ok := r.records[rec.ID]; ok {
		return false
	}

	var expires time.Time
	if rec.TTL > 0 {
		expires = now.Add(time.Duration(rec.TTL) * time.Second)
	}
	r.records[rec.ID] = registryEntry{rec: rec, expires: expires}
	metrics.ServicesRegistered.Set(float64(len(r.records)))
	logging.LogServiceEvent(rec.ID, "registered")
	return true
}

// Contains reports whether an ID is registered and unexpired.
func (r *Registry) Contains(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.purgeLocked(r.now())
	_, ok := r.records[id]
	return ok
}

// Remove deletes an entry if present.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[id]; ok {
		delete(r.records, id)
		metrics.ServicesRegistered.Set(float64(len(r.records)))
		logging.LogServiceEvent(id, "removed")
	}
}

// Records returns a snapshot of all unexpired records.
func (r *Registry) Records() []ServiceRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.purgeLocked(r.now())
	out := make([]ServiceRecord, 0, len(r.records))
	for _, e := range r.records {
		out = append(out, e.rec)
	}
	return out
}

// Len returns the number of unexpired records.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.purgeLocked(r.now())
	return len(r.records)
}
