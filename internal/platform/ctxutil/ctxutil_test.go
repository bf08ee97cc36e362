// Copyright (c) 2026 AfterMe. All rights reserved.

package ctxutil_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afterme/afterme/internal/platform/ctxutil"
)

func TestRequestID_RoundTrip(t *testing.T) {
	ctx := ctxutil.WithRequestID(context.Background(), "req-123")
	assert.Equal(t, "req-123", ctxutil.GetRequestID(ctx))
}

func TestRequestID_MissingReturnsEmpty(t *testing.T) {
	assert.Equal(t, "", ctxutil.GetRequestID(context.Background()))
}

func TestLogger_RoundTrip(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	ctx := ctxutil.WithLogger(context.Background(), logger)

	got := ctxutil.GetLogger(ctx)
	require.NotNil(t, got)
	assert.Same(t, logger, got)
}

func TestLogger_MissingFallsBackToDefault(t *testing.T) {
	got := ctxutil.GetLogger(context.Background())
	require.NotNil(t, got)
	assert.Same(t, slog.Default(), got)
}
