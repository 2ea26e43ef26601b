// Package relay entrega los efectos commiteados (mint, register_receive,
// set_viewing_key) a un servicio HTTP externo que los traduce a la chain.
package relay

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pet-market-engine/internal/host"
	"pet-market-engine/internal/platform/httpclient"
)

var (
	ErrRelayNotConfigured = errors.New("relay client not configured")
	ErrRelayUnauthorized  = errors.New("relay unauthorized")
	ErrRelayUpstream      = errors.New("relay upstream error")
)

const publishPath = "/v1/effects"

// Config del relay. BaseURL y APIKey normalmente vienen de la config / env.
type Config struct {
	BaseURL string
	APIKey  string

	// Opcional: header de la API key. Por defecto "X-Api-Key".
	APIKeyHeader string

	Timeout time.Duration
}

type Client struct {
	hc           *httpclient.Client
	apiKey       string
	apiKeyHeader string
}

var _ host.EffectSink = (*Client)(nil)

func NewClient(cfg Config) (*Client, error) {
	h := strings.TrimSpace(cfg.APIKeyHeader)
	if h == "" {
		h = "X-Api-Key"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	hc, err := httpclient.NewWithBaseURL(strings.TrimSpace(cfg.BaseURL), timeout)
	if err != nil {
		return nil, fmt.Errorf("relay: %w", err)
	}
	return &Client{
		hc:           hc,
		apiKey:       strings.TrimSpace(cfg.APIKey),
		apiKeyHeader: h,
	}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.hc != nil && c.hc.BaseURL != "" && c.apiKey != ""
}

type publishRequest struct {
	Contract string        `json:"contract"`
	CallID   string        `json:"call_id"`
	Effects  []host.Effect `json:"effects"`
}

type publishResponse struct {
	Accepted int `json:"accepted"`
}

// Publish manda los efectos de una llamada. call_id sirve de clave de
// idempotencia del lado del relay.
func (c *Client) Publish(ctx context.Context, contract, callID string, effects []host.Effect) error {
	if !c.IsConfigured() {
		return ErrRelayNotConfigured
	}
	if len(effects) == 0 {
		return nil
	}

	var out publishResponse
	err := c.hc.DoJSON(ctx, http.MethodPost, publishPath, map[string]string{
		c.apiKeyHeader:    c.apiKey,
		"Idempotency-Key": callID,
	}, publishRequest{Contract: contract, CallID: callID, Effects: effects}, &out)
	if err != nil {
		var he *httpclient.HTTPError
		if errors.As(err, &he) && (he.StatusCode == http.StatusUnauthorized || he.StatusCode == http.StatusForbidden) {
			return ErrRelayUnauthorized
		}
		return fmt.Errorf("%w: %v", ErrRelayUpstream, err)
	}
	if out.Accepted != 0 && out.Accepted != len(effects) {
		return fmt.Errorf("%w: accepted %d of %d effects", ErrRelayUpstream, out.Accepted, len(effects))
	}
	return nil
}
