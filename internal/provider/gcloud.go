package provider

import (
	"context"
	"fmt"

	clouddns "google.golang.org/api/dns/v1"
	"google.golang.org/api/option"
)

type gcloudProvider struct {
	project string
	zones   *clouddns.ManagedZonesService
}

func newGCloud(ctx context.Context, settings Settings) (provider *gcloudProvider, err error) {
	if settings.GCPProject == "" {
		return nil, fmt.Errorf("%w", ErrGCPProjectNotSet)
	}

	options := make([]option.ClientOption, 0, 2)
	options = append(options, option.WithScopes(clouddns.NdevClouddnsReadonlyScope))
	if len(settings.GCPCredentialsJSON) > 0 {
		options = append(options, option.WithCredentialsJSON(settings.GCPCredentialsJSON))
	}

	service, err := clouddns.NewService(ctx, options...)
	if err != nil {
		return nil, fmt.Errorf("creating Cloud DNS service: %w", err)
	}

	return &gcloudProvider{
		project: settings.GCPProject,
		zones:   clouddns.NewManagedZonesService(service),
	}, nil
}

func (p *gcloudProvider) String() string {
	return GCloud
}

func (p *gcloudProvider) ListZones(ctx context.Context) (zones []Zone, err error) {
	err = p.zones.List(p.project).Pages(ctx,
		func(response *clouddns.ManagedZonesListResponse) error {
			for _, managedZone := range response.ManagedZones {
				zones = append(zones, Zone{
					Name: managedZone.DnsName,
					ID:   managedZone.Name,
				})
			}
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("listing managed zones: %w", err)
	}
	return zones, nil
}

func (p *gcloudProvider) GetNameservers(ctx context.Context, zoneID string) (
	nameservers []string, err error) {
	managedZone, err := p.zones.Get(p.project, zoneID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("getting managed zone %s: %w", zoneID, err)
	}
	return managedZone.NameServers, nil
}
