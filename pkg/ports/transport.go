package ports

import (
	"context"

	"github.com/dmelnikov/healthwave/pkg/domain"
)

// Transport delivers outbound messages to the chat platform.
// A failed delivery affects only that recipient; callers log and move on.
type Transport interface {
	Send(ctx context.Context, msg domain.Outbound) error
}
