package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRequestID(ctx))

	ctx = SetRequestID(ctx, "req-1")
	assert.Equal(t, "req-1", GetRequestID(ctx))
}

func TestLogger(t *testing.T) {
	ctx := context.Background()
	assert.NotNil(t, Logger(ctx))

	core, logs := observer.New(zap.InfoLevel)
	ctx = SetLogger(ctx, zap.New(core))
	Logger(ctx).Info("hello")

	assert.Equal(t, 1, logs.Len())
}
