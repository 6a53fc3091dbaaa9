// Package healthchecksio pings a healthchecks.io check, so a dead or
// wedged monitor shows up there as a missed ping.
package healthchecksio

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	uuid       string
}

// New creates a healthchecks.io client pinging the check uuid
// under baseURL. An empty uuid makes Ping a no-op.
func New(httpClient *http.Client, baseURL, uuid string) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		uuid:       uuid,
	}
}

var ErrStatusCode = errors.New("bad status code")

// State is the ping kind, appended to the check URL except for Ok.
type State string

const (
	Start State = "start" // program launch
	Ok    State = "ok"    // monitor cycle completed
	Fail  State = "fail"  // monitor cycle failed
	Exit0 State = "0"     // clean shutdown
	Exit1 State = "1"     // shutdown on error
)

func (c *Client) Ping(ctx context.Context, state State) (err error) {
	if c.uuid == "" {
		return nil
	}

	url := c.baseURL + "/" + c.uuid
	if state != Ok {
		url += "/" + string(state)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("doing http request: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %d %s", ErrStatusCode,
			response.StatusCode, response.Status)
	}

	return nil
}
