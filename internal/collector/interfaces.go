package collector

import (
	"context"
	"net/netip"

	"github.com/zonewatch/zonewatch/internal/provider"
)

type DNSProvider interface {
	ListZones(ctx context.Context) ([]provider.Zone, error)
	GetNameservers(ctx context.Context, zoneID string) ([]string, error)
}

type Resolver interface {
	LookupIPv4(ctx context.Context, host string) ([]netip.Addr, error)
	LookupIPv6(ctx context.Context, host string) ([]netip.Addr, error)
}
