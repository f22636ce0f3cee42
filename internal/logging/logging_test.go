package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextRoundTrip(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	ctx := ContextWithLogger(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx))
	assert.Nil(t, FromContext(context.Background()))

	unchanged := ContextWithLogger(context.Background(), nil)
	assert.Nil(t, FromContext(unchanged))
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "warn", "json")
	require.NoError(t, err)

	logger.Info("dropped")
	logger.Warn("kept", "employee_id", "E1")
	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, `"employee_id":"E1"`)

	buf.Reset()
	logger, err = New(&buf, "DEBUG", "text")
	require.NoError(t, err)
	logger.Debug("visible")
	assert.True(t, strings.Contains(buf.String(), "msg=visible"))

	_, err = New(&buf, "loud", "json")
	assert.Error(t, err)
	_, err = New(&buf, "info", "xml")
	assert.Error(t, err)
}
