package gaia

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	// EndpointRealtime serves both live data and the setup-time
	// reachability check, the station has no separate info endpoint.
	EndpointRealtime = "/realtime/"

	defaultTimeout = 10 * time.Second
)

type Config struct {
	// Host is the station address, without scheme. Stations only speak
	// plain http on the local network.
	Host    string
	Logger  *zap.SugaredLogger
	Timeout time.Duration
}

// Client talks to a single GAIA station. Safe for concurrent use, though
// the coordinator serializes calls anyway.
type Client struct {
	host string
	http *resty.Client
	log  *zap.SugaredLogger
}

func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	hc := resty.New().
		SetBaseURL("http://" + cfg.Host).
		SetTimeout(timeout).
		// return 3xx as-is instead of following it
		SetRedirectPolicy(resty.RedirectPolicyFunc(func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}))
	return &Client{
		host: cfg.Host,
		http: hc,
		log:  log,
	}
}

// Fetch does a single GET of the given endpoint and decodes the body as a
// JSON object. One attempt, no retries; the poll interval is the retry.
func (c *Client) Fetch(ctx context.Context, endpoint string) (map[string]any, error) {
	url := "http://" + c.host + endpoint
	resp, err := c.http.R().SetContext(ctx).Get(endpoint)
	if err != nil {
		return nil, c.classify(err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, &APIError{URL: url, StatusCode: resp.StatusCode()}
	}
	body := resp.Body()
	c.log.Debugf("response from %s (first 200 chars): %s", url, clip(body, 200))

	var data map[string]any
	if err := json.Unmarshal(body, &data); err != nil {
		c.log.Errorf("invalid JSON from %s: %s, response: %s", url, err, clip(body, 500))
		return nil, &APIError{URL: url, Reason: "invalid JSON: " + err.Error(), Err: err}
	}
	// a bare `null` body decodes into a nil map without error
	if data == nil {
		c.log.Errorf("invalid JSON from %s: body is not an object, response: %s", url, clip(body, 500))
		return nil, &APIError{URL: url, Reason: "JSON body is not an object"}
	}
	return data, nil
}

// Realtime fetches the current readings from the station.
func (c *Client) Realtime(ctx context.Context) (map[string]any, error) {
	return c.Fetch(ctx, EndpointRealtime)
}

func (c *Client) classify(err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &TimeoutError{Host: c.host, Err: err}
	case errors.As(err, &netErr) && netErr.Timeout():
		return &TimeoutError{Host: c.host, Err: err}
	default:
		return &ConnectionError{Host: c.host, Err: err}
	}
}

func clip(b []byte, max int) string {
	s := strings.TrimSpace(string(b))
	if len(s) > max {
		return s[:max]
	}
	return s
}
