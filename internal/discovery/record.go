package discovery

import (
	"fmt"
	"net"
	"strings"

	"github.com/grandcat/zeroconf"
)

const (
	// ServiceTypeQuery is the mDNS service type of the OSCQuery HTTP server.
	ServiceTypeQuery = "_oscjson._tcp"

	// ServiceTypeOSC is the mDNS service type of the OSC UDP endpoint.
	ServiceTypeOSC = "_osc._udp"

	// ServiceDomain is the mDNS domain (link-local).
	ServiceDomain = "local."

	// DefaultPeerPrefix gates which discovered query services trigger
	// synchronization.
	DefaultPeerPrefix = "VRChat-Client-"
)

// ServiceRecord is one discovered network service. Records are immutable;
// registry updates replace them wholesale.
type ServiceRecord struct {
	// ID is the registry dedup key: instance name plus port.
	ID string

	// InstanceName is the advertised instance (e.g. "VRChat-Client-ABC123").
	InstanceName string

	// ServiceType is ServiceTypeQuery or ServiceTypeOSC.
	ServiceType string

	// Address is the resolved address, nil when the answer carried none.
	Address net.IP

	// Port is the advertised SRV port.
	Port int

	// TTL is the advertised record time-to-live in seconds. Registry
	// entries expire after it elapses; zero means no expiry.
	TTL uint32

	// Goodbye marks a zero-TTL withdrawal record.
	Goodbye bool
}

// RecordID builds the canonical dedup key for an instance/port pair.
func RecordID(instance string, port int) string {
	return fmt.Sprintf("%s:%d", instance, port)
}

// String returns a human-readable representation of the record.
func (r ServiceRecord) String() string {
	addr := "?"
	if r.Address != nil {
		addr = r.Address.String()
	}
	return fmt.Sprintf("%s (%s) at %s:%d", r.InstanceName, r.ServiceType, addr, r.Port)
}

// recordFromEntry converts a zeroconf answer into a ServiceRecord.
//
// When an answer carries multiple addresses the first IPv4 wins, falling
// back to the first IPv6. This is a known simplification: dual-stack peers
// get whichever family the resolver reported first.
func recordFromEntry(entry *zeroconf.ServiceEntry) ServiceRecord {
	var addr net.IP
	if len(entry.AddrIPv4) > 0 {
		addr = entry.AddrIPv4[0]
	} else if len(entry.AddrIPv6) > 0 {
		addr = entry.AddrIPv6[0]
	}

	return ServiceRecord{
		ID:           RecordID(entry.Instance, entry.Port),
		InstanceName: entry.Instance,
		ServiceType:  strings.Trim(entry.Service, "."),
		Address:      addr,
		Port:         entry.Port,
		TTL:          entry.TTL,
		Goodbye:      entry.TTL == 0,
	}
}
