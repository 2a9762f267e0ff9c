// Package client issues blockade REST calls and classifies their outcomes.
//
// Every method maps to exactly one remote endpoint. Outcomes are classified
// as *TransportError (round trip failed), *ServerError (non-2xx, raw body
// attached), or *DecodeError (2xx with an unparsable body). The package
// never retries; retry policy belongs to the orchestration layer.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jmurph/blockadectl/internal/observability"
	"github.com/jmurph/blockadectl/internal/protocol"
)

// Doer is the transport collaborator: send one request, get a status code
// and body back. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config carries the connection settings for one service host.
type Config struct {
	// Host is the service base, e.g. "http://127.0.0.1:5000". A bare
	// host:port gets an http scheme prepended.
	Host string

	// HTTPClient overrides the transport; defaults to an *http.Client
	// with Timeout applied.
	HTTPClient Doer

	Timeout time.Duration
}

// WithDefaults fills unset fields with usable values.
func (c Config) WithDefaults() Config {
	c.Host = strings.TrimRight(strings.TrimSpace(c.Host), "/")
	if c.Host != "" && !strings.Contains(c.Host, "://") {
		c.Host = "http://" + c.Host
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	return c
}

// Client talks to one blockade service host.
type Client struct {
	cfg Config
}

// New constructs a client for the given host.
func New(cfg Config) (*Client, error) {
	cfg = cfg.WithDefaults()
	if cfg.Host == "" {
		return nil, ErrHostRequired
	}
	return &Client{cfg: cfg}, nil
}

// Host returns the normalized service base URL.
func (c *Client) Host() string { return c.cfg.Host }

// List returns the names of all blockades the service knows. An envelope
// without the blockades key decodes to an empty list.
func (c *Client) List(ctx context.Context) ([]string, error) {
	raw, err := c.send(ctx, http.MethodGet, "list", c.url(), nil)
	if err != nil {
		return nil, err
	}
	var envelope protocol.ListResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, &DecodeError{Err: err}
	}
	if envelope.Blockades == nil {
		return []string{}, nil
	}
	return envelope.Blockades, nil
}

// Get fetches the observed state of one blockade.
func (c *Client) Get(ctx context.Context, name string) (protocol.State, error) {
	raw, err := c.send(ctx, http.MethodGet, "get", c.url(name), nil)
	if err != nil {
		return protocol.State{}, err
	}
	var state protocol.State
	if err := json.Unmarshal(raw, &state); err != nil {
		return protocol.State{}, &DecodeError{Err: err}
	}
	return state, nil
}

// Create posts cfg as a new blockade under name.
func (c *Client) Create(ctx context.Context, name string, cfg protocol.Config) error {
	_, err := c.send(ctx, http.MethodPost, "create", c.url(name), cfg)
	return err
}

// Command runs one lifecycle action against the named containers.
func (c *Client) Command(ctx context.Context, name string, command protocol.Command, containers []string) error {
	payload := protocol.CommandArgs{Command: command, ContainerNames: containers}
	_, err := c.send(ctx, http.MethodPost, "command", c.url(name, "action"), payload)
	return err
}

// SetNetworkState applies one link-quality profile to the named containers
// in a single request.
func (c *Client) SetNetworkState(ctx context.Context, name string, status protocol.NetworkStatus, containers []string) error {
	payload := protocol.NetArgs{NetworkState: status, ContainerNames: containers}
	_, err := c.send(ctx, http.MethodPost, "network_state", c.url(name, "network_state"), payload)
	return err
}

// Partition applies the given container groupings verbatim.
func (c *Client) Partition(ctx context.Context, name string, partitions [][]string) error {
	payload := protocol.PartitionArgs{Partitions: partitions}
	_, err := c.send(ctx, http.MethodPost, "partition", c.url(name, "partitions"), payload)
	return err
}

// RestoreNetwork merges all containers back into one partition and resets
// link-quality overrides.
func (c *Client) RestoreNetwork(ctx context.Context, name string) error {
	_, err := c.send(ctx, http.MethodDelete, "restore", c.url(name, "partitions"), nil)
	return err
}

// Delete tears the blockade down on the service side.
func (c *Client) Delete(ctx context.Context, name string) error {
	_, err := c.send(ctx, http.MethodDelete, "delete", c.url(name), nil)
	return err
}

func (c *Client) url(parts ...string) string {
	var b strings.Builder
	b.WriteString(c.cfg.Host)
	b.WriteString("/blockade")
	for _, part := range parts {
		b.WriteString("/")
		b.WriteString(part)
	}
	return b.String()
}

// send performs one round trip and returns the raw body of a 2xx response.
func (c *Client) send(ctx context.Context, method, endpoint, url string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, &DecodeError{Err: err}
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-Id", requestID)

	start := time.Now()
	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		observability.ObserveRequest(method, endpoint, "error", time.Since(start))
		log.Debug().Str("request_id", requestID).Str("method", method).Str("url", url).
			Err(err).Msg("blockade request failed")
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		observability.ObserveRequest(method, endpoint, "error", time.Since(start))
		return nil, &TransportError{Err: err}
	}

	observability.ObserveRequest(method, endpoint, strconv.Itoa(resp.StatusCode), time.Since(start))
	log.Debug().Str("request_id", requestID).Str("method", method).Str("url", url).
		Int("status", resp.StatusCode).Msg("blockade request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ServerError{Status: resp.StatusCode, Body: string(raw)}
	}
	return raw, nil
}
