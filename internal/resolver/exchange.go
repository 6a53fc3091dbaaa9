package resolver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"

	"github.com/miekg/dns"
)

var (
	ErrRcodeNotSuccess = errors.New("response rcode is not success")
	ErrIPMalformed     = errors.New("IP address malformed")
)

func (c *Client) exchange(ctx context.Context, host string, qType uint16) (
	addresses []netip.Addr, err error) {
	message := &dns.Msg{
		MsgHdr: dns.MsgHdr{
			Opcode:           dns.OpcodeQuery,
			RecursionDesired: true,
		},
		Question: []dns.Question{
			{
				Name:   dns.Fqdn(host),
				Qtype:  qType,
				Qclass: dns.ClassINET,
			},
		},
	}

	response, _, err := c.exchanger.ExchangeContext(ctx, message, c.address)
	if err != nil {
		return nil, fmt.Errorf("exchanging DNS message: %w", err)
	}

	if response.Rcode != dns.RcodeSuccess {
		return nil, fmt.Errorf("%w: %s", ErrRcodeNotSuccess,
			dns.RcodeToString[response.Rcode])
	}

	addresses = make([]netip.Addr, 0, len(response.Answer))
	for _, answer := range response.Answer {
		var ip net.IP
		switch rr := answer.(type) {
		case *dns.A:
			if qType != dns.TypeA {
				continue
			}
			ip = rr.A
		case *dns.AAAA:
			if qType != dns.TypeAAAA {
				continue
			}
			ip = rr.AAAA
		default: // CNAME and other chain records
			continue
		}

		address, ok := netip.AddrFromSlice(ip)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrIPMalformed, ip)
		}
		addresses = append(addresses, address.Unmap())
	}

	return addresses, nil
}
