// Package vk adapts the VK Bot API as the survey's chat transport: it
// delivers outbound prompts with inline keyboards, resolves respondent
// profiles and receives inbound events via the Callback API webhook.
package vk

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/dmelnikov/healthwave/internal/logging"
	"github.com/dmelnikov/healthwave/pkg/domain"
	"github.com/dmelnikov/healthwave/pkg/ports"
	"github.com/google/uuid"
)

const (
	defaultBaseURL = "https://api.vk.com"
	apiVersion     = "5.131"
)

// Client talks to the VK Bot API. It implements ports.Transport via Send
// and ports.ProfileDirectory via Resolve.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	logger     *slog.Logger
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL points the client at a different API host (tests).
func WithBaseURL(base string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(base, "/")
	}
}

// WithLogger configures the client logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a VK API client with the given access token.
func NewClient(token string, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		baseURL:    defaultBaseURL,
		token:      token,
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type apiError struct {
	Code    int    `json:"error_code"`
	Message string `json:"error_msg"`
}

func (e *apiError) Error() string {
	return fmt.Sprintf("vk api error %d: %s", e.Code, e.Message)
}

type envelope struct {
	Response json.RawMessage `json:"response"`
	Error    *apiError       `json:"error"`
}

// call posts a form-encoded API request and decodes the response payload
// into out (when out is non-nil).
func (c *Client) call(ctx context.Context, method string, params url.Values, out any) error {
	params.Set("access_token", c.token)
	params.Set("v", apiVersion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/method/"+method, strings.NewReader(params.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", method, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	if env.Error != nil {
		return fmt.Errorf("%s failed: %w", method, env.Error)
	}
	if out != nil {
		if err := json.Unmarshal(env.Response, out); err != nil {
			return fmt.Errorf("failed to decode %s payload: %w", method, err)
		}
	}
	return nil
}

// Send delivers one outbound message, rendering the keyboard if present.
func (c *Client) Send(ctx context.Context, msg domain.Outbound) error {
	params := url.Values{}
	params.Set("peer_id", msg.Recipient)
	params.Set("random_id", strconv.FormatUint(uint64(uuid.New().ID()), 10))
	params.Set("message", msg.Text)

	if msg.Keyboard != nil {
		kb, err := BuildKeyboard(msg.Keyboard.Options, msg.Keyboard.PayloadKey)
		if err != nil {
			return fmt.Errorf("failed to build keyboard: %w", err)
		}
		params.Set("keyboard", kb)
	}

	if err := c.call(ctx, "messages.send", params, nil); err != nil {
		return err
	}
	c.logger.Debug("message sent", "peer", msg.Recipient)
	return nil
}

// Resolve looks up the respondent's profile via users.get.
func (c *Client) Resolve(ctx context.Context, identity string) (ports.Profile, error) {
	params := url.Values{}
	params.Set("user_ids", identity)

	var users []struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	if err := c.call(ctx, "users.get", params, &users); err != nil {
		return ports.Profile{}, err
	}
	if len(users) == 0 {
		return ports.Profile{}, fmt.Errorf("no profile for id %s", identity)
	}
	return ports.Profile{LastName: users[0].LastName, FirstName: users[0].FirstName}, nil
}
