package provider

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/route53"
)

type route53API interface {
	ListHostedZones(ctx context.Context, input *route53.ListHostedZonesInput,
		optFns ...func(*route53.Options)) (*route53.ListHostedZonesOutput, error)
	GetHostedZone(ctx context.Context, input *route53.GetHostedZoneInput,
		optFns ...func(*route53.Options)) (*route53.GetHostedZoneOutput, error)
}

type route53Provider struct {
	api route53API
}

func newRoute53(ctx context.Context, settings Settings) (provider *route53Provider, err error) {
	options := make([]func(*config.LoadOptions) error, 0, 3)
	if settings.Client != nil {
		options = append(options, config.WithHTTPClient(settings.Client))
	}
	if settings.AWSRegion != "" {
		options = append(options, config.WithRegion(settings.AWSRegion))
	}
	if settings.AWSAccessKeyID != "" {
		options = append(options, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				settings.AWSAccessKeyID, settings.AWSSecretAccessKey, "")))
	}

	cfg, err := config.LoadDefaultConfig(ctx, options...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS configuration: %w", err)
	}

	return &route53Provider{
		api: route53.NewFromConfig(cfg),
	}, nil
}

func (p *route53Provider) String() string {
	return Route53
}

func (p *route53Provider) ListZones(ctx context.Context) (zones []Zone, err error) {
	input := new(route53.ListHostedZonesInput)
	for {
		output, err := p.api.ListHostedZones(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("listing hosted zones: %w", err)
		}

		for _, hostedZone := range output.HostedZones {
			zones = append(zones, Zone{
				Name: aws.ToString(hostedZone.Name),
				ID:   aws.ToString(hostedZone.Id),
			})
		}

		if !output.IsTruncated {
			return zones, nil
		}
		input.Marker = output.NextMarker
	}
}

func (p *route53Provider) GetNameservers(ctx context.Context, zoneID string) (
	nameservers []string, err error) {
	output, err := p.api.GetHostedZone(ctx, &route53.GetHostedZoneInput{
		Id: aws.String(zoneID),
	})
	if err != nil {
		return nil, fmt.Errorf("getting hosted zone %s: %w", zoneID, err)
	}

	if output.DelegationSet == nil {
		// private hosted zones have no delegation set.
		return nil, nil
	}
	return output.DelegationSet.NameServers, nil
}
