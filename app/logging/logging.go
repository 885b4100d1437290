// Package logging provides context-carried log attributes of a generation run.
package logging

import (
	"context"

	"github.com/Semior001/newsdigest/pkg/logx"
	"golang.org/x/exp/slog"
)

type runIDKey struct{}

type topicKey struct{}

// ContextWithRunID returns a new context with the given run ID.
func ContextWithRunID(parent context.Context, runID string) context.Context {
	return context.WithValue(parent, runIDKey{}, runID)
}

// RunIDFromContext returns run id from context.
func RunIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(runIDKey{}).(string)
	return v, ok
}

// ContextWithTopic returns a new context with the given topic slug.
func ContextWithTopic(parent context.Context, slug string) context.Context {
	return context.WithValue(parent, topicKey{}, slug)
}

// TopicFromContext returns topic slug from context.
func TopicFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(topicKey{}).(string)
	return v, ok
}

// Middleware adds run id and topic, if present in context, to every record.
func Middleware(next logx.HandleFunc) logx.HandleFunc {
	return func(ctx context.Context, rec slog.Record) error {
		if ctx == nil {
			return next(ctx, rec)
		}
		if runID, ok := RunIDFromContext(ctx); ok {
			rec.AddAttrs(slog.String("run_id", runID))
		}
		if slug, ok := TopicFromContext(ctx); ok {
			rec.AddAttrs(slog.String("topic", slug))
		}
		return next(ctx, rec)
	}
}
