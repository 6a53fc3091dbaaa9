package config

import (
	"fmt"

	"github.com/qdm12/gosettings"
	"github.com/qdm12/gosettings/reader"
	"github.com/qdm12/gosettings/validate"
	"github.com/qdm12/gotree"
	"github.com/zonewatch/zonewatch/internal/provider"
)

type Provider struct {
	// Name is the DNS provider to read hosted zones from,
	// either "route53" or "gcloud".
	Name string
	// AWSRegion is the AWS region for Route53, which can be
	// left empty to use the SDK defaults chain.
	AWSRegion string
	// AWSAccessKeyID is the static AWS access key ID, which can
	// be left empty to use the SDK defaults chain.
	AWSAccessKeyID string
	// AWSSecretAccessKey is the static AWS secret access key.
	AWSSecretAccessKey string
	// GCPProject is the Google Cloud project ID, required when
	// Name is "gcloud".
	GCPProject string
	// GCPCredentialsJSON is the Google Cloud service account
	// credentials in JSON form, which can be left empty to use
	// the application default credentials.
	GCPCredentialsJSON string
}

func (p *Provider) setDefaults() {
	p.Name = gosettings.DefaultComparable(p.Name, provider.Route53)
}

func (p Provider) Validate() (err error) {
	err = validate.IsOneOf(p.Name, provider.Route53, provider.GCloud)
	if err != nil {
		return fmt.Errorf("environment variable PROVIDER: %w", err)
	}

	return nil
}

func (p Provider) String() string {
	return p.toLinesNode().String()
}

func (p Provider) toLinesNode() *gotree.Node {
	node := gotree.New("Provider")
	node.Appendf("Name: %s", p.Name)
	switch p.Name {
	case provider.Route53:
		if p.AWSRegion != "" {
			node.Appendf("AWS region: %s", p.AWSRegion)
		}
		if p.AWSAccessKeyID != "" {
			node.Appendf("AWS static credentials: set")
		}
	case provider.GCloud:
		node.Appendf("GCP project: %s", p.GCPProject)
		if p.GCPCredentialsJSON != "" {
			node.Appendf("GCP credentials: set")
		}
	}
	return node
}

func (p *Provider) read(r *reader.Reader) {
	p.Name = r.String("PROVIDER")
	p.AWSRegion = r.String("AWS_REGION")
	p.AWSAccessKeyID = r.String("AWS_ACCESS_KEY_ID", reader.ForceLowercase(false))
	p.AWSSecretAccessKey = r.String("AWS_SECRET_ACCESS_KEY", reader.ForceLowercase(false))
	p.GCPProject = r.String("GCP_PROJECT")
	p.GCPCredentialsJSON = r.String("GOOGLE_APPLICATION_CREDENTIALS_JSON",
		reader.ForceLowercase(false))
}
