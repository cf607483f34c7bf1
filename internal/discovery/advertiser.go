package discovery

import (
	"fmt"
	"sync"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/karoux/oscsync/internal/logging"
)

// Advertiser announces this process's OSCQuery HTTP service and OSC UDP
// endpoint under a single instance name.
type Advertiser struct {
	instanceName string
	queryPort    int

	query *zeroconf.Server
	osc   *zeroconf.Server

	closeOnce sync.Once
}

// NewAdvertiser registers both services via mDNS. The query port is the
// HTTP port the query server bound at construction; the OSC port is
// supplied by the caller. Registration failure is fatal: the advertiser
// does not come up half-announced.
func NewAdvertiser(instanceName string, queryPort, oscPort int) (*Advertiser, error) {
	txt := []string{"txtvers=1"}

	query, err := zeroconf.Register(instanceName, ServiceTypeQuery, ServiceDomain, queryPort, txt, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register %s service: %w", ServiceTypeQuery, err)
	}

	osc, err := zeroconf.Register(instanceName, ServiceTypeOSC, ServiceDomain, oscPort, txt, nil)
	if err != nil {
		query.Shutdown()
		return nil, fmt.Errorf("failed to register %s service: %w", ServiceTypeOSC, err)
	}

	logging.Info("Advertising services",
		zap.String("instance", instanceName),
		zap.Int("query_port", queryPort),
		zap.Int("osc_port", oscPort),
	)

	return &Advertiser{
		instanceName: instanceName,
		queryPort:    queryPort,
		query:        query,
		osc:          osc,
	}, nil
}

// ID returns the registry key of this process's own query service. The
// browser pre-seeds its registry with it so our own multicast announcements
// never trigger synchronization.
func (a *Advertiser) ID() string {
	return RecordID(a.instanceName, a.queryPort)
}

// Close withdraws both advertisements. Idempotent; the owner calls it
// exactly once on shutdown rather than relying on finalization.
func (a *Advertiser) Close() {
	a.closeOnce.Do(func() {
		a.query.Shutdown()
		a.osc.Shutdown()
		logging.Info("Advertisements withdrawn",
			zap.String("instance", a.instanceName),
		)
	})
}
