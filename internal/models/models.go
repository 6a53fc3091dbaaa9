package models

import (
	"net/netip"
	"slices"
	"strings"
	"time"
)

// NameserverAddrs holds the addresses one delegated nameserver resolves to,
// split by address family. Both slices are sets: ordering carries no meaning
// and must never register as a change. A resolution failure for one family
// is represented as an empty set for that family.
type NameserverAddrs struct {
	IPv4 []netip.Addr `json:"ipv4"`
	IPv6 []netip.Addr `json:"ipv6"`
}

// NewNameserverAddrs deduplicates and sorts both families so the
// persisted form is deterministic. Slices are never left nil so the
// JSON encoding is always an array.
func NewNameserverAddrs(ipv4, ipv6 []netip.Addr) NameserverAddrs {
	return NameserverAddrs{
		IPv4: normalizeAddrs(ipv4),
		IPv6: normalizeAddrs(ipv6),
	}
}

func normalizeAddrs(addrs []netip.Addr) (normalized []netip.Addr) {
	normalized = make([]netip.Addr, 0, len(addrs))
	for _, addr := range addrs {
		addr = addr.Unmap()
		if !slices.Contains(normalized, addr) {
			normalized = append(normalized, addr)
		}
	}
	slices.SortFunc(normalized, netip.Addr.Compare)
	return normalized
}

// String renders both families compactly, for logs and alert payloads.
func (n NameserverAddrs) String() string {
	ipv4 := make([]string, len(n.IPv4))
	for i, addr := range n.IPv4 {
		ipv4[i] = addr.String()
	}
	ipv6 := make([]string, len(n.IPv6))
	for i, addr := range n.IPv6 {
		ipv6[i] = addr.String()
	}
	return "ipv4=[" + strings.Join(ipv4, " ") + "] " +
		"ipv6=[" + strings.Join(ipv6, " ") + "]"
}

// Equal compares both families as unordered sets.
func (n NameserverAddrs) Equal(other NameserverAddrs) bool {
	return addrSetsEqual(n.IPv4, other.IPv4) &&
		addrSetsEqual(n.IPv6, other.IPv6)
}

func addrSetsEqual(a, b []netip.Addr) bool {
	setA := make(map[netip.Addr]struct{}, len(a))
	for _, addr := range a {
		setA[addr.Unmap()] = struct{}{}
	}
	setB := make(map[netip.Addr]struct{}, len(b))
	for _, addr := range b {
		setB[addr.Unmap()] = struct{}{}
	}
	if len(setA) != len(setB) {
		return false
	}
	for addr := range setA {
		if _, ok := setB[addr]; !ok {
			return false
		}
	}
	return true
}

// DelegationSet is the full nameserver address state of one hosted zone
// at one instant, keyed by nameserver hostname. The provider assigned
// zone id keys the enclosing map rather than living in the struct,
// matching the persisted document layout.
type DelegationSet struct {
	ZoneName    string                     `json:"zone_name"`
	Nameservers map[string]NameserverAddrs `json:"nameservers"`
}

func (d DelegationSet) Equal(other DelegationSet) bool {
	if d.ZoneName != other.ZoneName ||
		len(d.Nameservers) != len(other.Nameservers) {
		return false
	}
	for host, addrs := range d.Nameservers {
		otherAddrs, ok := other.Nameservers[host]
		if !ok || !addrs.Equal(otherAddrs) {
			return false
		}
	}
	return true
}

// HistoryEntry is one accepted state of all monitored zones, keyed by
// provider zone id. Entries form a single append-only sequence shared
// across zones; the tail entry is the last accepted state for every zone.
type HistoryEntry struct {
	Timestamp      time.Time                `json:"timestamp"`
	DelegationSets map[string]DelegationSet `json:"delegation_sets"`
}

type ChangeKind string

const (
	// ChangeIPAddresses signals the addresses behind a delegated
	// nameserver differ from the last accepted snapshot.
	ChangeIPAddresses ChangeKind = "ip_change"
)

// ChangeRecord describes one detected nameserver address change.
// Records are ephemeral: produced by the detector, handed to the
// notifier and discarded.
type ChangeRecord struct {
	ID              string
	Kind            ChangeKind
	ZoneName        string
	DelegationSetID string
	Nameserver      string
	OldAddrs        NameserverAddrs
	NewAddrs        NameserverAddrs
	DetectedAt      time.Time
}

// DelegationSetID extracts the final path segment of a provider zone id,
// for example Z3M3LMPEXAMPLE from /hostedzone/Z3M3LMPEXAMPLE.
func DelegationSetID(zoneID string) string {
	if i := strings.LastIndexByte(zoneID, '/'); i >= 0 {
		return zoneID[i+1:]
	}
	return zoneID
}
