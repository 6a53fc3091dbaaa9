package notify

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zonewatch/zonewatch/internal/models"
)

func testChange() models.ChangeRecord {
	return models.ChangeRecord{
		ID:              "d4f9c1f2-8a43-4a7e-9c2b-59a4f6f5a111",
		Kind:            models.ChangeIPAddresses,
		ZoneName:        "example.com",
		DelegationSetID: "Z123",
		Nameserver:      "ns-1.example.net",
		OldAddrs: models.NewNameserverAddrs(
			[]netip.Addr{netip.MustParseAddr("1.2.3.4")}, nil),
		NewAddrs: models.NewNameserverAddrs(
			[]netip.Addr{netip.MustParseAddr("5.6.7.8")},
			[]netip.Addr{netip.MustParseAddr("2001:db8::1")}),
		DetectedAt: time.Date(2024, time.May, 6, 7, 8, 9, 0, time.UTC),
	}
}

// backquoted turns every ' into a backtick so expected payloads with
// markdown code spans can be written as raw string literals.
func backquoted(s string) string {
	return strings.ReplaceAll(s, "'", "`")
}

func Test_Client_Alert(t *testing.T) {
	t.Parallel()

	var bodies []string
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			bodies = append(bodies, string(body))
		}))
	t.Cleanup(server.Close)

	client := New(server.Client(), server.URL, zerolog.Nop())

	client.Alert(context.Background(), "#dns-alerts",
		[]models.ChangeRecord{testChange()})

	require.Len(t, bodies, 1)
	assert.JSONEq(t, backquoted(`{
		"channel": "#dns-alerts",
		"attachments": [
			{
				"color": "#FF0000",
				"blocks": [
					{
						"type": "header",
						"text": {
							"type": "plain_text",
							"text": "🚨 Nameserver Alert! 🚨",
							"emoji": true
						}
					},
					{
						"type": "section",
						"fields": [
							{"type": "mrkdwn", "text": "*Domain:*\nexample.com"},
							{"type": "mrkdwn", "text": "*Detection Time:*\n2024-05-06 07:08:09"}
						]
					},
					{
						"type": "section",
						"text": {
							"type": "mrkdwn",
							"text": "📝 *Nameserver IP Change*\n*Zone:* example.com\n*ID:* '/hostedzone/Z123'\n*Nameserver:* 'ns-1.example.net'"
						}
					},
					{
						"type": "section",
						"fields": [
							{"type": "mrkdwn", "text": "*Previous IPs:*\n'ipv4=[1.2.3.4] ipv6=[]'"},
							{"type": "mrkdwn", "text": "*New IPs:*\n'ipv4=[5.6.7.8] ipv6=[2001:db8::1]'"}
						]
					},
					{
						"type": "context",
						"elements": [
							{"type": "mrkdwn", "text": "🔍 Zonewatch Nameserver Monitor"}
						]
					}
				]
			},
			{
				"color": "#FF0000",
				"blocks": [
					{
						"type": "actions",
						"elements": [
							{
								"type": "button",
								"text": {
									"type": "plain_text",
									"text": "✅ Resolve",
									"emoji": true
								},
								"style": "primary",
								"action_id": "resolve_nameserver_change"
							}
						]
					}
				]
			}
		]
	}`), bodies[0])
}

func Test_Client_Alert_noChannel(t *testing.T) {
	t.Parallel()

	var body []byte
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			var err error
			body, err = io.ReadAll(r.Body)
			require.NoError(t, err)
		}))
	t.Cleanup(server.Close)

	client := New(server.Client(), server.URL, zerolog.Nop())

	client.Alert(context.Background(), "",
		[]models.ChangeRecord{testChange()})

	assert.NotContains(t, string(body), `"channel"`)
}

func Test_Client_Alert_deliveryFailure(t *testing.T) {
	t.Parallel()

	requests := 0
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			requests++
			w.WriteHeader(http.StatusInternalServerError)
		}))
	t.Cleanup(server.Close)

	logBuffer := bytes.NewBuffer(nil)
	logger := zerolog.New(logBuffer)
	client := New(server.Client(), server.URL, logger)

	changes := []models.ChangeRecord{testChange(), testChange()}
	client.Alert(context.Background(), "#dns-alerts", changes)

	// one failed delivery does not stop the remaining records
	assert.Equal(t, 2, requests)
	failures := strings.Count(logBuffer.String(), "alert_delivery_failed")
	assert.Equal(t, 2, failures)
}
