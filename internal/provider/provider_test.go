package provider

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_New(t *testing.T) {
	t.Parallel()

	client := &http.Client{Timeout: time.Second}

	testCases := map[string]struct {
		settings       Settings
		providerString string
		errWrapped     error
		errMessage     string
	}{
		"route53": {
			settings: Settings{
				Name:               Route53,
				AWSRegion:          "us-east-1",
				AWSAccessKeyID:     "AKIAEXAMPLE",
				AWSSecretAccessKey: "secret",
				Client:             client,
			},
			providerString: "route53",
		},
		"gcloud_project_missing": {
			settings: Settings{
				Name: GCloud,
			},
			errWrapped: ErrGCPProjectNotSet,
			errMessage: "GCP project is not set",
		},
		"unknown_provider": {
			settings: Settings{
				Name: "cloudflare",
			},
			errWrapped: ErrProviderUnknown,
			errMessage: `unknown provider: "cloudflare"`,
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			provider, err := New(context.Background(), testCase.settings)

			assert.ErrorIs(t, err, testCase.errWrapped)
			if testCase.errWrapped != nil {
				assert.EqualError(t, err, testCase.errMessage)
				assert.Nil(t, provider)
				return
			}
			require.NotNil(t, provider)
			assert.Equal(t, testCase.providerString, provider.String())
		})
	}
}
