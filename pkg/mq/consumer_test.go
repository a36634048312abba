package mq

import (
	"testing"

	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"

	"teamflow/pkg/trace"
)

func TestContextFromHeaders(t *testing.T) {
	t.Run("restores trace id from delivery headers", func(t *testing.T) {
		headers := amqp091.Table{trace.HeaderName(): "a1b2c3d4e5f60718293a4b5c6d7e8f90"}
		ctx := contextFromHeaders(headers)
		assert.Equal(t, "a1b2c3d4e5f60718293a4b5c6d7e8f90", trace.FromContext(ctx))
	})

	t.Run("no header", func(t *testing.T) {
		ctx := contextFromHeaders(amqp091.Table{})
		assert.Empty(t, trace.FromContext(ctx))
	})

	t.Run("nil headers", func(t *testing.T) {
		ctx := contextFromHeaders(nil)
		assert.Empty(t, trace.FromContext(ctx))
	})

	t.Run("non-string header value ignored", func(t *testing.T) {
		headers := amqp091.Table{trace.HeaderName(): int32(7)}
		ctx := contextFromHeaders(headers)
		assert.Empty(t, trace.FromContext(ctx))
	})
}
