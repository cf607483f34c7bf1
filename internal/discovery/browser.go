package discovery

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/karoux/oscsync/internal/logging"
	"github.com/karoux/oscsync/internal/metrics"
)

// SyncTrigger is the synchronization hook invoked when a qualifying peer
// is discovered. Satisfied by *syncer.Syncer.
type SyncTrigger interface {
	Fetch(host string, port int)
}

// Browser listens for mDNS answers for both OSCQuery service types and
// maintains the service registry. Qualifying query services trigger the
// configured SyncTrigger.
type Browser struct {
	registry   *Registry
	trigger    SyncTrigger
	peerPrefix string

	// OnService, when set, is invoked for every newly registered record.
	OnService func(ServiceRecord)

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewBrowser creates a browser over the given registry. The trigger may be
// nil, in which case discovery only maintains the registry.
func NewBrowser(registry *Registry, trigger SyncTrigger, peerPrefix string) *Browser {
	if peerPrefix == "" {
		peerPrefix = DefaultPeerPrefix
	}
	return &Browser{
		registry:   registry,
		trigger:    trigger,
		peerPrefix: peerPrefix,
	}
}

// Start begins browsing for both service types. The underlying resolver
// owns interface monitoring and periodic re-queries, so repeated queries
// on interface changes need no handling here. Startup failure of either
// browse is returned to the caller; nothing is left running.
func (b *Browser) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel

	for _, svc := range []string{ServiceTypeQuery, ServiceTypeOSC} {
		if err := b.browse(ctx, svc); err != nil {
			cancel()
			b.wg.Wait()
			return fmt.Errorf("failed to browse for %s: %w", svc, err)
		}
	}
	return nil
}

// browse starts one resolver for a service type and consumes its answers.
func (b *Browser) browse(ctx context.Context, service string) error {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.consume(entries)
	}()

	if err := resolver.Browse(ctx, service, ServiceDomain, entries); err != nil {
		return fmt.Errorf("failed to browse for mDNS services: %w", err)
	}
	return nil
}

// consume drains one answer channel. A malformed answer must never take
// down the discovery loop, so each entry is handled behind a recover.
func (b *Browser) consume(entries <-chan *zeroconf.ServiceEntry) {
	for entry := range entries {
		if entry == nil {
			continue
		}
		b.handleEntry(entry)
	}
}

// handleEntry applies the discovery rules to a single answer:
// skip OSC-UDP records, treat zero TTL as a goodbye, dedup by record ID,
// and trigger synchronization for new peers matching the expected instance
// name prefix.
func (b *Browser) handleEntry(entry *zeroconf.ServiceEntry) {
	defer func() {
		if r := recover(); r != nil {
			logging.Warn("Discarding malformed discovery answer",
				zap.Any("panic", r),
			)
		}
	}()

	rec := recordFromEntry(entry)

	// Only the HTTP query service type participates in synchronization;
	// the OSC UDP advertisement is tracking noise from our perspective.
	if rec.ServiceType != ServiceTypeQuery {
		return
	}

	// The resolver in use drops zero-TTL answers before delivery, so
	// departures are normally observed as registry expiry instead; the
	// branch handles transports that do deliver goodbyes.
	if rec.Goodbye {
		metrics.GoodbyesTotal.Inc()
		b.registry.Register(rec) // removes the matching entry
		return
	}

	if !b.registry.Register(rec) {
		// Already known.
		return
	}

	if b.OnService != nil {
		b.OnService(rec)
	}

	if !strings.HasPrefix(rec.InstanceName, b.peerPrefix) || rec.Address == nil {
		return
	}

	logging.Info("Peer query service discovered",
		zap.String("service_id", rec.ID),
		zap.String("address", rec.Address.String()),
		zap.Int("port", rec.Port),
	)

	if b.trigger != nil {
		// The fetch does network I/O; keep it off the answer path.
		go b.trigger.Fetch(rec.Address.String(), rec.Port)
	}
}

// Close stops both browse loops and waits for their consumers to drain.
// Idempotent.
func (b *Browser) Close() {
	b.closeOnce.Do(func() {
		if b.cancel != nil {
			b.cancel()
		}
		b.wg.Wait()
	})
}
