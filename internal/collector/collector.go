// Package collector builds the current delegation snapshot of a hosted
// zone by listing the provider zones matching its name and resolving
// the addresses of every delegated nameserver.
package collector

import (
	"context"
	"errors"
	"net"
	"net/netip"
	"strings"

	"github.com/rs/zerolog"
	"github.com/zonewatch/zonewatch/internal/models"
)

type Collector struct {
	provider DNSProvider
	resolver Resolver
	logger   zerolog.Logger
}

func New(provider DNSProvider, resolver Resolver,
	logger zerolog.Logger) *Collector {
	return &Collector{
		provider: provider,
		resolver: resolver,
		logger:   logger,
	}
}

// Collect lists all hosted zones from the provider and resolves the
// nameserver addresses of every zone whose name matches zoneName,
// ignoring any trailing dot on either side. The returned map is keyed
// by provider zone ID and is empty if no hosted zone matches. Zones
// are listed on every call so a zone recreated under the same name
// with a new ID is picked up.
func (c *Collector) Collect(ctx context.Context, zoneName string) (
	current map[string]models.DelegationSet, err error) {
	providerZones, err := c.provider.ListZones(ctx)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSuffix(zoneName, ".")
	current = make(map[string]models.DelegationSet)
	for _, providerZone := range providerZones {
		if strings.TrimSuffix(providerZone.Name, ".") != name {
			continue
		}

		delegationSet, err := c.collectZone(ctx, providerZone.ID, name)
		if err != nil {
			return nil, err
		}
		current[providerZone.ID] = delegationSet
	}

	return current, nil
}

func (c *Collector) collectZone(ctx context.Context, zoneID, zoneName string) (
	delegationSet models.DelegationSet, err error) {
	nameservers, err := c.provider.GetNameservers(ctx, zoneID)
	if err != nil {
		return models.DelegationSet{}, err
	}

	delegationSet = models.DelegationSet{
		ZoneName:    zoneName,
		Nameservers: make(map[string]models.NameserverAddrs, len(nameservers)),
	}
	for _, nameserver := range nameservers {
		ipv4 := c.lookup(ctx, c.resolver.LookupIPv4, nameserver, "ipv4")
		ipv6 := c.lookup(ctx, c.resolver.LookupIPv6, nameserver, "ipv6")
		delegationSet.Nameservers[nameserver] = models.NewNameserverAddrs(ipv4, ipv6)
	}

	return delegationSet, nil
}

// lookup resolves one address family of one nameserver. Resolution
// failures degrade to an empty set for the family so one dark
// nameserver never blocks the snapshot.
func (c *Collector) lookup(ctx context.Context,
	lookupFamily func(ctx context.Context, host string) ([]netip.Addr, error),
	nameserver, family string) (addresses []netip.Addr) {
	addresses, err := lookupFamily(ctx, nameserver)
	if err != nil {
		event := c.logger.Warn()
		if isNotFound(err) {
			event = c.logger.Debug()
		}
		event.Err(err).
			Str("nameserver", nameserver).
			Str("family", family).
			Msg("resolution_failed")
		return nil
	}
	return addresses
}

func isNotFound(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr) && dnsErr.IsNotFound
}
