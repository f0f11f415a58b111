package services

import "context"

// NopPublisher discards payment events. Used when AMQP is not
// configured.
type NopPublisher struct{}

func (NopPublisher) PublishPaymentCreated(context.Context, int64, int64) error { return nil }
func (NopPublisher) PublishPaymentDeleted(context.Context, int64, int64) error { return nil }
