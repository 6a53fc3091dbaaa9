package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	clouddns "google.golang.org/api/dns/v1"
	"google.golang.org/api/option"
)

func newTestGCloudProvider(t *testing.T, server *httptest.Server) *gcloudProvider {
	t.Helper()
	service, err := clouddns.NewService(context.Background(),
		option.WithHTTPClient(server.Client()),
		option.WithEndpoint(server.URL))
	require.NoError(t, err)
	return &gcloudProvider{
		project: "test-project",
		zones:   clouddns.NewManagedZonesService(service),
	}
}

func Test_gcloudProvider_ListZones(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/dns/v1/projects/test-project/managedZones", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			switch pageToken := r.URL.Query().Get("pageToken"); pageToken {
			case "":
				fmt.Fprint(w, `{
					"managedZones": [
						{"name": "example-com", "dnsName": "example.com."}
					],
					"nextPageToken": "token-2"
				}`)
			case "token-2":
				fmt.Fprint(w, `{
					"managedZones": [
						{"name": "example-org", "dnsName": "example.org."}
					]
				}`)
			default:
				t.Errorf("unexpected page token %q", pageToken)
			}
		}))
	t.Cleanup(server.Close)

	provider := newTestGCloudProvider(t, server)

	zones, err := provider.ListZones(context.Background())

	require.NoError(t, err)
	expectedZones := []Zone{
		{Name: "example.com.", ID: "example-com"},
		{Name: "example.org.", ID: "example-org"},
	}
	assert.Equal(t, expectedZones, zones)
}

func Test_gcloudProvider_GetNameservers(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/dns/v1/projects/test-project/managedZones/example-com", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{
				"name": "example-com",
				"dnsName": "example.com.",
				"nameServers": [
					"ns-cloud-a1.googledomains.com.",
					"ns-cloud-a2.googledomains.com."
				]
			}`)
		}))
	t.Cleanup(server.Close)

	provider := newTestGCloudProvider(t, server)

	nameservers, err := provider.GetNameservers(context.Background(), "example-com")

	require.NoError(t, err)
	expectedNameservers := []string{
		"ns-cloud-a1.googledomains.com.",
		"ns-cloud-a2.googledomains.com.",
	}
	assert.Equal(t, expectedNameservers, nameservers)
}

func Test_gcloudProvider_GetNameservers_apiError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error": {"code": 404, "message": "zone not found"}}`)
		}))
	t.Cleanup(server.Close)

	provider := newTestGCloudProvider(t, server)

	nameservers, err := provider.GetNameservers(context.Background(), "missing-zone")

	require.Error(t, err)
	assert.ErrorContains(t, err, "getting managed zone missing-zone")
	assert.Nil(t, nameservers)
}
