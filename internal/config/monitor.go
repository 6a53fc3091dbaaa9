package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/qdm12/gosettings"
	"github.com/qdm12/gosettings/reader"
	"github.com/qdm12/gotree"
)

type Monitor struct {
	// ErrorBackoff is how long a zone monitoring loop waits
	// before retrying after a failed cycle, capped to the zone
	// poll interval.
	ErrorBackoff time.Duration
}

func (m *Monitor) setDefaults() {
	const defaultErrorBackoff = time.Minute
	m.ErrorBackoff = gosettings.DefaultComparable(m.ErrorBackoff, defaultErrorBackoff)
}

var ErrErrorBackoffTooLow = errors.New("error backoff is too low")

func (m Monitor) Validate() (err error) {
	const minErrorBackoff = time.Second
	if m.ErrorBackoff < minErrorBackoff {
		return fmt.Errorf("%w: %s is below the minimum %s",
			ErrErrorBackoffTooLow, m.ErrorBackoff, minErrorBackoff)
	}

	return nil
}

func (m Monitor) String() string {
	return m.toLinesNode().String()
}

func (m Monitor) toLinesNode() *gotree.Node {
	node := gotree.New("Monitor")
	node.Appendf("Error backoff: %s", m.ErrorBackoff)
	return node
}

func (m *Monitor) read(r *reader.Reader) (err error) {
	m.ErrorBackoff, err = r.Duration("ERROR_BACKOFF")
	return err
}
