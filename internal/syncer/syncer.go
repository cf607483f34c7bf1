package syncer

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/karoux/oscsync/internal/logging"
	"github.com/karoux/oscsync/internal/metrics"
	"github.com/karoux/oscsync/internal/oscquery"
)

// ParametersPath is the conventional sub-path holding the avatar's
// parameter namespace in a peer's document.
const ParametersPath = "/avatar/parameters"

// defaultFetchTimeout bounds a single namespace fetch so a hung peer
// eventually releases the single-flight guard.
const defaultFetchTimeout = 10 * time.Second

// UpdateFunc receives the current flat parameter map whenever it changes,
// including the empty map published on peer loss.
type UpdateFunc func(params map[string]any)

// Syncer fetches a peer's namespace document over HTTP, flattens it, and
// republishes it as a flat address-to-value map.
//
// At most one fetch is in flight at a time; concurrent calls are dropped,
// not queued. All published state is owned by the instance — two Syncers
// never share anything.
type Syncer struct {
	client   *http.Client
	onUpdate UpdateFunc

	inFlight atomic.Bool

	mu       sync.Mutex
	params   map[string]any
	peerHost string
	peerPort int
}

// New creates a Syncer publishing updates through onUpdate. A nil callback
// is allowed; the flat map is then only observable via Snapshot.
func New(onUpdate UpdateFunc) *Syncer {
	return &Syncer{
		client:   &http.Client{Timeout: defaultFetchTimeout},
		onUpdate: onUpdate,
		params:   make(map[string]any),
	}
}

// Fetch retrieves and flattens the namespace served at host:port.
//
// If a fetch is already in flight the call returns immediately without
// issuing a request. On success the published map is replaced wholesale
// and the callback fires with the new map. On transport failure the peer
// is forgotten, the map is cleared, and the callback fires with an empty
// map. On decode or processing failure the previous state is preserved
// and no callback fires.
func (s *Syncer) Fetch(host string, port int) {
	if !s.inFlight.CompareAndSwap(false, true) {
		logging.Debug("Fetch already in flight, dropping request",
			zap.String("host", host),
			zap.Int("port", port),
		)
		return
	}
	defer s.inFlight.Store(false)

	s.mu.Lock()
	s.peerHost = host
	s.peerPort = port
	s.mu.Unlock()

	logging.LogFetch(host, port, "started")

	url := fmt.Sprintf("http://%s/", net.JoinHostPort(host, strconv.Itoa(port)))
	resp, err := s.client.Get(url)
	if err != nil {
		s.handleTransportFailure(host, port, err)
		return
	}
	defer resp.Body.Close()

	// A non-2xx answer means the peer is reachable but the document is
	// unusable: a processing failure, not peer loss. Previous state is
	// preserved and the error body is never flattened.
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.SyncFailuresTotal.Inc()
		logging.Error("Namespace fetch returned error status",
			zap.String("host", host),
			zap.Int("port", port),
			zap.Int("status", resp.StatusCode),
		)
		return
	}

	var root oscquery.Node
	if err := json.NewDecoder(resp.Body).Decode(&root); err != nil {
		metrics.SyncFailuresTotal.Inc()
		logging.Error("Failed to decode namespace document",
			zap.String("host", host),
			zap.Int("port", port),
			zap.Error(err),
		)
		return
	}

	params := oscquery.Find(&root, ParametersPath)
	if params == nil || len(params.Contents()) == 0 {
		logging.Warn("No parameters found in namespace document",
			zap.String("host", host),
			zap.Int("port", port),
		)
		return
	}

	flat := oscquery.Flatten(params)

	s.mu.Lock()
	s.params = flat
	s.mu.Unlock()

	metrics.SyncsTotal.Inc()
	logging.LogFetch(host, port, "completed")
	logging.Debug("Published flat parameter map",
		zap.Int("parameters", len(flat)),
	)

	if s.onUpdate != nil {
		s.onUpdate(flat)
	}
}

// handleTransportFailure forgets the peer and publishes an empty map so
// downstream consumers see the peer as gone rather than holding stale
// data.
func (s *Syncer) handleTransportFailure(host string, port int, err error) {
	metrics.SyncFailuresTotal.Inc()
	logging.Error("Namespace fetch failed",
		zap.String("host", host),
		zap.Int("port", port),
		zap.Error(err),
	)

	empty := make(map[string]any)

	s.mu.Lock()
	s.peerHost = ""
	s.peerPort = 0
	s.params = empty
	s.mu.Unlock()

	if s.onUpdate != nil {
		s.onUpdate(empty)
	}
}

// Refetch repeats the fetch against the last known peer. A no-op when no
// peer is known.
func (s *Syncer) Refetch() {
	s.mu.Lock()
	host, port := s.peerHost, s.peerPort
	s.mu.Unlock()

	if host == "" {
		return
	}
	s.Fetch(host, port)
}

// Snapshot returns the currently published flat parameter map. The map is
// replaced wholesale on update and must not be mutated by callers.
func (s *Syncer) Snapshot() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}

// Peer returns the last known peer address, or "" when none is known.
func (s *Syncer) Peer() (host string, port int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.peerHost, s.peerPort
}
