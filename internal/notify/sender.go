// Package notify composes the result message and delivers it to a chat channel.
package notify

import (
	"context"
	"fmt"
	"io"
)

// Sender delivers a composed message to its single configured destination.
type Sender interface {
	Send(ctx context.Context, text string) error
	// Name returns a human-readable identifier for the sender (e.g. "discord").
	Name() string
}

// DeliveryError reports a failed send. Delivery is never retried.
type DeliveryError struct {
	Channel string
	Err     error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("failed to deliver message via %s: %v", e.Channel, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// WriterSender prints messages instead of posting them.
type WriterSender struct {
	W io.Writer
}

func (s WriterSender) Send(_ context.Context, text string) error {
	if _, err := fmt.Fprintln(s.W, text); err != nil {
		return &DeliveryError{Channel: s.Name(), Err: err}
	}
	return nil
}

func (s WriterSender) Name() string { return "stdout" }
