package vk

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dmelnikov/healthwave/internal/logging"
	"github.com/dmelnikov/healthwave/pkg/domain"
)

// HandlerFunc consumes one inbound event. Implementations never return an
// error: collaborator failures are handled and logged inside the core, and
// the webhook must acknowledge regardless, or VK redelivers the event.
type HandlerFunc func(ctx context.Context, in domain.Inbound)

// Callback serves the VK Callback API webhook and converts message_new
// updates into domain.Inbound events.
type Callback struct {
	confirmation string
	secret       string
	handler      HandlerFunc
	logger       *slog.Logger
}

// CallbackOption configures the Callback.
type CallbackOption func(*Callback)

// WithSecret enables the shared-secret check on incoming updates.
func WithSecret(secret string) CallbackOption {
	return func(c *Callback) {
		c.secret = secret
	}
}

// WithCallbackLogger configures the webhook logger.
func WithCallbackLogger(logger *slog.Logger) CallbackOption {
	return func(c *Callback) {
		c.logger = logger
	}
}

// NewCallback creates the webhook handler. confirmation is the code VK
// expects back when it probes the endpoint.
func NewCallback(confirmation string, handler HandlerFunc, opts ...CallbackOption) *Callback {
	c := &Callback{
		confirmation: confirmation,
		handler:      handler,
		logger:       logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Handler returns the webhook endpoint for mounting on a router.
func (c *Callback) Handler() http.HandlerFunc {
	return c.handle
}

type update struct {
	Type   string `json:"type"`
	Secret string `json:"secret"`
	Object struct {
		Message struct {
			FromID  int64  `json:"from_id"`
			Text    string `json:"text"`
			Payload string `json:"payload"`
		} `json:"message"`
	} `json:"object"`
}

func (c *Callback) handle(w http.ResponseWriter, r *http.Request) {
	var u update
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		c.logger.Warn("invalid callback body", "err", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	if c.secret != "" && u.Secret != c.secret {
		c.logger.Warn("callback secret mismatch")
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	switch u.Type {
	case "confirmation":
		w.Write([]byte(c.confirmation))
		return
	case "message_new":
		c.handler(r.Context(), toInbound(u))
	}
	w.Write([]byte("ok"))
}

// toInbound maps a message_new update to the transport-neutral event shape.
// VK encodes the button payload as a JSON object string; keyboards here tag
// buttons with a single key, so the first pair wins.
func toInbound(u update) domain.Inbound {
	in := domain.Inbound{
		Sender: strconv.FormatInt(u.Object.Message.FromID, 10),
		Text:   u.Object.Message.Text,
	}
	if raw := u.Object.Message.Payload; raw != "" {
		var pairs map[string]string
		if err := json.Unmarshal([]byte(raw), &pairs); err == nil {
			for k, v := range pairs {
				in.Payload = &domain.Payload{Key: k, Value: v}
				break
			}
		}
	}
	return in
}
