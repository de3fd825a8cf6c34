package processor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/exp/slog"
)

// Environment selects which processor host the relay talks to.
type Environment string

const (
	Sandbox Environment = "sandbox"
	Live    Environment = "live"
)

// BaseURL returns the API host for the environment. Anything that is not
// explicitly live goes to the sandbox.
func (e Environment) BaseURL() string {
	if e == Live {
		return "https://api-m.paypal.com"
	}
	return "https://api-m.sandbox.paypal.com"
}

// UpstreamError is a non-2xx response from the processor. The body is kept
// verbatim so callers can log what the processor actually said.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("processor status=%d body=%s", e.StatusCode, strings.TrimSpace(e.Body))
}

// Client is a minimal client for the processor's REST API: OAuth2
// client-credentials token endpoint, checkout orders, and identity
// client-token generation.
type Client struct {
	Base   string
	HTTP   *http.Client
	logger *slog.Logger

	clientID     string
	clientSecret string
}

func New(base, clientID, clientSecret string, hc *http.Client, logger *slog.Logger) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		Base:         strings.TrimRight(base, "/"),
		HTTP:         hc,
		logger:       logger.With(slog.String("component", "processor")),
		clientID:     clientID,
		clientSecret: clientSecret,
	}
}

// AccessToken performs the client-credentials exchange and returns a fresh
// bearer token. Tokens are never cached or reused; every order or identity
// call starts with a new exchange.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	form := url.Values{"grant_type": {"client_credentials"}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Base+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("building token request: %w", err)
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("token exchange: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return "", upstreamError(resp)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decoding token response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("processor returned empty access token")
	}

	return payload.AccessToken, nil
}

// CreateOrder submits a new order and returns the processor's response. The
// raw body is preserved so the relay can pass it through unchanged.
func (c *Client) CreateOrder(ctx context.Context, order OrderRequest) (*Order, error) {
	return c.postOrder(ctx, c.Base+"/v2/checkout/orders", order)
}

// OrderAction applies an action verb (e.g. capture) to an existing order.
func (c *Client) OrderAction(ctx context.Context, orderID, intent string) (*Order, error) {
	target := fmt.Sprintf("%s/v2/checkout/orders/%s/%s", c.Base, url.PathEscape(orderID), url.PathEscape(intent))
	return c.postOrder(ctx, target, struct{}{})
}

// GenerateClientToken requests an identity client token, optionally scoped to
// a customer. Without a customer id the scoping field is omitted entirely.
func (c *Client) GenerateClientToken(ctx context.Context, customerID string) (string, error) {
	token, err := c.AccessToken(ctx)
	if err != nil {
		return "", err
	}

	body := map[string]string{}
	if customerID != "" {
		body["customer_id"] = customerID
	}
	b, _ := json.Marshal(body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Base+"/v1/identity/generate-token", bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("building client-token request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("generate-token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return "", upstreamError(resp)
	}

	var payload struct {
		ClientToken string `json:"client_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decoding client-token response: %w", err)
	}

	return payload.ClientToken, nil
}

func (c *Client) postOrder(ctx context.Context, target string, body any) (*Order, error) {
	token, err := c.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding order payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("building order request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("order request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading order response: %w", err)
	}

	if resp.StatusCode/100 != 2 {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	order := &Order{Raw: raw}
	if err := json.Unmarshal(raw, order); err != nil {
		return nil, fmt.Errorf("decoding order response: %w", err)
	}

	c.logger.Debug("order call completed",
		slog.String("order_id", order.ID),
		slog.String("status", order.Status),
	)

	return order, nil
}

func upstreamError(resp *http.Response) error {
	b, _ := io.ReadAll(resp.Body)
	return &UpstreamError{StatusCode: resp.StatusCode, Body: string(b)}
}
