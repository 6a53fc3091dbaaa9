// Package notify delivers nameserver change alerts and recovery notices
// to a Slack incoming webhook.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

type Client struct {
	httpClient *http.Client
	webhookURL string
	logger     zerolog.Logger
}

// New creates a new Slack webhook client posting to the given URL.
func New(httpClient *http.Client, webhookURL string,
	logger zerolog.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		webhookURL: webhookURL,
		logger:     logger,
	}
}

var ErrStatusCode = errors.New("bad status code")

func (c *Client) post(ctx context.Context, message payload) (err error) {
	buffer := bytes.NewBuffer(nil)
	encoder := json.NewEncoder(buffer)
	err = encoder.Encode(message)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.webhookURL, buffer)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("doing http request: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %d: %s", ErrStatusCode,
			response.StatusCode, bodyToSingleLine(response.Body))
	}

	return nil
}

func bodyToSingleLine(body io.Reader) (s string) {
	b, err := io.ReadAll(body)
	if err != nil {
		return ""
	}
	s = strings.ReplaceAll(string(b), "\n", " ")
	s = strings.ReplaceAll(s, "\r", "")
	return strings.TrimSpace(s)
}
