package resolver

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/qdm12/gosettings"
	"github.com/qdm12/gotree"
)

type Settings struct {
	// Address is the address of the DNS server to use, in the
	// form host:port. It defaults to the empty string, in which
	// case the Go default resolver is used.
	Address *string
	Timeout time.Duration
}

func (s *Settings) SetDefaults() {
	s.Address = gosettings.DefaultPointer(s.Address, "")
	const defaultTimeout = 5 * time.Second
	s.Timeout = gosettings.DefaultComparable(s.Timeout, defaultTimeout)
}

var (
	ErrAddressHostEmpty   = errors.New("address host is empty")
	ErrAddressPortInvalid = errors.New("address port is invalid")
	ErrTimeoutTooLow      = errors.New("timeout is too low")
)

func (s Settings) Validate() (err error) {
	if *s.Address != "" {
		err = validateServerAddress(*s.Address)
		if err != nil {
			return err
		}
	}

	const minTimeout = 10 * time.Millisecond
	if s.Timeout < minTimeout {
		return fmt.Errorf("%w: %s is below the minimum %s",
			ErrTimeoutTooLow, s.Timeout, minTimeout)
	}

	return nil
}

func validateServerAddress(address string) (err error) {
	host, port, err := net.SplitHostPort(address)
	if err != nil {
		return fmt.Errorf("splitting host and port from address: %w", err)
	}

	if host == "" {
		return fmt.Errorf("%w: in %s", ErrAddressHostEmpty, address)
	}

	portNumber, err := strconv.ParseUint(port, 10, 16)
	if err != nil || portNumber == 0 {
		return fmt.Errorf("%w: %q in %s", ErrAddressPortInvalid, port, address)
	}

	return nil
}

func (s Settings) String() string {
	return s.ToLinesNode().String()
}

func (s Settings) ToLinesNode() *gotree.Node {
	if *s.Address == "" {
		return gotree.New("Resolver: use Go default resolver")
	}

	node := gotree.New("Resolver")
	node.Appendf("Address: %s", *s.Address)
	node.Appendf("Timeout: %s", s.Timeout)
	return node
}
