package bus

import (
	"context"

	"github.com/vendorconnect/vendorconnect-backend/internal/realtime"
)

// Bus carries events out of the process. Consumers live in other services,
// so it is publish-only here.
type Bus interface {
	Publish(ctx context.Context, msg realtime.Message) error
	Close() error
}

type noopBus struct{}

// NewNoopBus drops every message. It stands in for Redis when REDIS_ADDR is
// not configured.
func NewNoopBus() Bus { return noopBus{} }

func (noopBus) Publish(context.Context, realtime.Message) error { return nil }
func (noopBus) Close() error                                   { return nil }
