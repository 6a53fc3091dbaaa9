// Package noop provides a no-op service standing in for optional
// services disabled by configuration, so the startup sequence can
// treat every service slot uniformly.
package noop

import "context"

// Service does nothing and never errors. Its value is the name it
// reports, suffixed to make the disabled state visible in logs.
type Service string

func New(name string) Service {
	return Service(name)
}

func (s Service) String() string {
	return string(s) + " (disabled)"
}

func (s Service) Start(context.Context) (runError <-chan error, startErr error) {
	return nil, nil //nolint:nilnil
}

func (s Service) Stop() (err error) {
	return nil
}
