// Package resolver resolves nameserver hostnames to their IP
// addresses, either with the Go default resolver or by querying
// a fixed DNS server address.
package resolver

import (
	"context"
	"fmt"
	"net"
	"net/netip"

	"github.com/miekg/dns"
)

type Client struct {
	systemResolver *net.Resolver
	exchanger      Exchanger
	address        string
}

// New creates a resolution client from the settings given.
// If the settings address is empty, lookups go through the Go
// default resolver, otherwise DNS queries are sent directly to
// the server at that address.
func New(settings Settings) (client *Client, err error) {
	settings.SetDefaults()
	err = settings.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating settings: %w", err)
	}

	if *settings.Address == "" {
		return &Client{
			systemResolver: net.DefaultResolver,
		}, nil
	}

	return &Client{
		exchanger: &dns.Client{Timeout: settings.Timeout},
		address:   *settings.Address,
	}, nil
}

// LookupIPv4 resolves host to its IPv4 addresses.
func (c *Client) LookupIPv4(ctx context.Context, host string) (
	addresses []netip.Addr, err error) {
	if c.systemResolver != nil {
		return c.lookupSystem(ctx, "ip4", host)
	}
	return c.exchange(ctx, host, dns.TypeA)
}

// LookupIPv6 resolves host to its IPv6 addresses.
func (c *Client) LookupIPv6(ctx context.Context, host string) (
	addresses []netip.Addr, err error) {
	if c.systemResolver != nil {
		return c.lookupSystem(ctx, "ip6", host)
	}
	return c.exchange(ctx, host, dns.TypeAAAA)
}

func (c *Client) lookupSystem(ctx context.Context, network, host string) (
	addresses []netip.Addr, err error) {
	addresses, err = c.systemResolver.LookupNetIP(ctx, network, host)
	if err != nil {
		return nil, err
	}
	for i := range addresses {
		addresses[i] = addresses[i].Unmap()
	}
	return addresses, nil
}
