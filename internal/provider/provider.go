// Package provider implements read access to hosted zones
// at DNS providers, each exposing the zones of an account
// together with their delegated nameservers.
package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Provider names accepted by New.
const (
	Route53 = "route53"
	GCloud  = "gcloud"
)

// Zone is a hosted zone listed by a DNS provider. Name is kept
// in the provider form, usually with a trailing dot, and ID is
// the provider specific zone identifier, for example
// /hostedzone/Z0123456789ABCDEFGHIJ for Route53.
type Zone struct {
	Name string
	ID   string
}

// Provider can list the hosted zones of an account and fetch
// the delegated nameservers of one hosted zone.
type Provider interface {
	String() string
	ListZones(ctx context.Context) (zones []Zone, err error)
	GetNameservers(ctx context.Context, zoneID string) (nameservers []string, err error)
}

// Settings contains the settings to create a provider.
// Client is only used by the Route53 provider, since the
// Cloud DNS service builds its own authenticated client.
type Settings struct {
	Name               string
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	GCPProject         string
	GCPCredentialsJSON []byte
	Client             *http.Client
}

var (
	ErrProviderUnknown  = errors.New("unknown provider")
	ErrGCPProjectNotSet = errors.New("GCP project is not set")
)

// New creates a provider from the settings given, which must
// have a Name matching one of the provider name constants.
func New(ctx context.Context, settings Settings) (provider Provider, err error) {
	switch settings.Name {
	case Route53:
		return newRoute53(ctx, settings)
	case GCloud:
		return newGCloud(ctx, settings)
	default:
		return nil, fmt.Errorf("%w: %q", ErrProviderUnknown, settings.Name)
	}
}
