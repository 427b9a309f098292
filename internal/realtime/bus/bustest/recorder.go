// Package bustest provides a bus.Bus that keeps what it was handed, for tests.
package bustest

import (
	"context"
	"sync"

	"github.com/vendorconnect/vendorconnect-backend/internal/realtime"
)

type Recorder struct {
	mu        sync.Mutex
	published []realtime.Message
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Publish(_ context.Context, msg realtime.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.published = append(r.published, msg)
	return nil
}

func (r *Recorder) Published() []realtime.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]realtime.Message(nil), r.published...)
}

func (r *Recorder) Close() error { return nil }
