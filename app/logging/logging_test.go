package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/Semior001/newsdigest/pkg/logx"
	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/slog"
)

func TestMiddleware(t *testing.T) {
	buf := &bytes.Buffer{}
	lg := slog.New(&logx.Chain{
		Middleware: []logx.Middleware{Middleware},
		Handler:    slog.HandlerOptions{}.NewTextHandler(buf),
	})

	ctx := ContextWithRunID(context.Background(), "run-1")
	lg.InfoCtx(ctx, "run started")
	assert.Contains(t, buf.String(), "run_id=run-1")
	assert.NotContains(t, buf.String(), "topic=")

	buf.Reset()
	lg.InfoCtx(ContextWithTopic(ctx, "madrid"), "collected")
	assert.Contains(t, buf.String(), "run_id=run-1")
	assert.Contains(t, buf.String(), "topic=madrid")

	buf.Reset()
	lg.Info("no context")
	assert.NotContains(t, buf.String(), "run_id=")
}

func TestFromContext(t *testing.T) {
	_, ok := RunIDFromContext(context.Background())
	assert.False(t, ok)

	slug, ok := TopicFromContext(ContextWithTopic(context.Background(), "espana"))
	assert.True(t, ok)
	assert.Equal(t, "espana", slug)
}
