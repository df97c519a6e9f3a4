package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client is a Stripe-style HTTP gateway client: form-encoded requests,
// bearer secret key, JSON responses. Every call is bounded by the client
// timeout and the caller's context.
type Client struct {
	baseURL   string
	secretKey string
	http      *http.Client
}

func NewClient(baseURL, secretKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:   strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		secretKey: secretKey,
		http:      &http.Client{Timeout: timeout},
	}
}

func (c *Client) CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*Intent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amount, 10))
	form.Set("currency", currency)
	for k, v := range metadata {
		form.Set("metadata["+k+"]", v)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *Client) RetrieveIntent(ctx context.Context, id string) (*Intent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/payment_intents/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

func (c *Client) do(req *http.Request) (*Intent, error) {
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payment gateway: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if len(data) == 0 {
			data = []byte(resp.Status)
		}
		return nil, fmt.Errorf("payment gateway: %s", strings.TrimSpace(string(data)))
	}

	var intent Intent
	if err := json.NewDecoder(resp.Body).Decode(&intent); err != nil {
		return nil, fmt.Errorf("payment gateway: decode response: %w", err)
	}
	return &intent, nil
}
