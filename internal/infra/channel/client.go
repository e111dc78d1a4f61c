package channel

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"staybook/internal/pkg/config"
	"staybook/internal/pkg/errs"
)

const maxReplyBytes = 1 << 20

// Client is the raw HTTP transport to the channel manager. It attaches the
// transport-level credentials and nothing else; classification of the reply
// belongs to the adapter.
type Client struct {
	httpClient *http.Client
	endpoint   string
	username   string
	password   string
}

func NewClient(cfg config.ChannelConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		endpoint:   cfg.EndpointURL,
		username:   cfg.Username,
		password:   cfg.Password,
	}
}

// Post sends one request body and returns the status code with the raw
// reply. A non-nil error means the exchange itself failed; HTTP error
// statuses are returned to the caller for classification.
func (c *Client) Post(ctx context.Context, body []byte) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, nil, errs.Wrap(err, "failed to build channel request")
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, errs.Wrap(err, "channel request failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return resp.StatusCode, nil, errs.Wrap(err, "failed to read channel reply")
	}
	return resp.StatusCode, raw, nil
}
