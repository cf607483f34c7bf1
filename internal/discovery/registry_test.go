package discovery

import (
	"net"
	"testing"
	"time"
)

func record(instance string, port int) ServiceRecord {
	return ServiceRecord{
		ID:           RecordID(instance, port),
		InstanceName: instance,
		ServiceType:  ServiceTypeQuery,
		Address:      net.ParseIP("192.168.1.20"),
		Port:         port,
	}
}

func TestRegistry_RegisterDedup(t *testing.T) {
	reg := NewRegistry()
	rec := record("VRChat-Client-ABC123", 8062)

	if !reg.Register(rec) {
		t.Fatal("first Register() = false, want true")
	}
	if reg.Register(rec) {
		t.Error("second Register() = true, want false (dedup)")
	}
	if reg.Len() != 1 {
		t.Errorf("Len() = %d, want 1", reg.Len())
	}
}

func TestRegistry_GoodbyeRemoves(t *testing.T) {
	reg := NewRegistry()
	rec := record("VRChat-Client-ABC123", 8062)
	reg.Register(rec)

	goodbye := rec
	goodbye.Goodbye = true
	if reg.Register(goodbye) {
		t.Error("goodbye Register() = true, want false")
	}
	if reg.Contains(rec.ID) {
		t.Error("goodbye should remove the registered entry")
	}

	// A later non-goodbye record with the same ID is accepted as new.
	if !reg.Register(rec) {
		t.Error("re-Register() after goodbye = false, want true")
	}
}

func TestRegistry_GoodbyeForUnknownIsNoop(t *testing.T) {
	reg := NewRegistry()
	goodbye := record("VRChat-Client-XYZ", 9000)
	goodbye.Goodbye = true

	if reg.Register(goodbye) {
		t.Error("goodbye for unknown ID should not register")
	}
	if reg.Len() != 0 {
		t.Errorf("Len() = %d, want 0", reg.Len())
	}
}

func TestRegistry_Seed(t *testing.T) {
	reg := NewRegistry()
	reg.Seed("OSCSync:51234")

	if !reg.Contains("OSCSync:51234") {
		t.Error("seeded ID should be contained")
	}
	if reg.Register(ServiceRecord{ID: "OSCSync:51234", ServiceType: ServiceTypeQuery}) {
		t.Error("Register() of a seeded ID should dedup")
	}
}

func TestRegistry_EntryExpiry(t *testing.T) {
	reg := NewRegistry()
	cur := time.Now()
	reg.now = func() time.Time { return cur }

	rec := record("VRChat-Client-ABC123", 8062)
	rec.TTL = 120
	if !reg.Register(rec) {
		t.Fatal("first Register() = false, want true")
	}

	// Before expiry: normal dedup.
	cur = cur.Add(119 * time.Second)
	if reg.Register(rec) {
		t.Error("Register() before expiry = true, want false (dedup)")
	}

	// After expiry the entry is gone and re-registration is accepted as
	// new. This is how a departed peer's re-advertisement gets through
	// when no goodbye was delivered.
	cur = cur.Add(2 * time.Second)
	if reg.Contains(rec.ID) {
		t.Error("Contains() after expiry = true, want false")
	}
	if !reg.Register(rec) {
		t.Error("Register() after expiry = false, want true")
	}
}

func TestRegistry_SeedNeverExpires(t *testing.T) {
	reg := NewRegistry()
	cur := time.Now()
	reg.now = func() time.Time { return cur }

	reg.Seed("OSCSync:51234")
	cur = cur.Add(24 * time.Hour)

	if !reg.Contains("OSCSync:51234") {
		t.Error("seeded ID expired; it must never expire")
	}
}

func TestRegistry_Records(t *testing.T) {
	reg := NewRegistry()
	reg.Register(record("a", 1))
	reg.Register(record("b", 2))

	if got := len(reg.Records()); got != 2 {
		t.Errorf("len(Records()) = %d, want 2", got)
	}
}
