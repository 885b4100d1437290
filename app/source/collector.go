package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/Semior001/newsdigest/app/store"
	"golang.org/x/exp/slog"
)

// Mode defines how the results of several sources are merged.
type Mode string

const (
	// ModeAll concatenates the results of all sources.
	ModeAll Mode = "all"
	// ModeFirst takes the results of the first source that returned anything.
	ModeFirst Mode = "first"
)

// ParseMode parses the merge mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeAll, ModeFirst:
		return m, nil
	case "":
		return ModeAll, nil
	default:
		return "", fmt.Errorf("unknown collection mode %q", s)
	}
}

// Collector queries sources in priority order and merges their results.
type Collector struct {
	Logger  *slog.Logger
	Sources []Source
	Mode    Mode
}

// Request describes what to collect.
type Request struct {
	// Queries is the fallback chain, the next query is tried only if
	// the previous one yielded nothing.
	Queries []string
	// Extra sources are queried after the collector's own ones.
	Extra []Source
	Limit int
}

// Collect returns up to req.Limit unique headlines. Failing sources
// are logged and treated as empty, Collect never fails.
func (c *Collector) Collect(ctx context.Context, req Request) []store.Headline {
	sources := append(append([]Source{}, c.Sources...), req.Extra...)

	for i, q := range req.Queries {
		res := c.collect(ctx, sources, q, req.Limit)
		if len(res) > 0 {
			if i > 0 {
				c.Logger.InfoCtx(ctx, "fallback query yielded headlines",
					slog.String("query", q), slog.Int("attempt", i+1))
			}
			return res
		}

		c.Logger.InfoCtx(ctx, "no headlines for query", slog.String("query", q))
	}

	return nil
}

func (c *Collector) collect(ctx context.Context, sources []Source, query string, limit int) []store.Headline {
	var collected []store.Headline

	for _, src := range sources {
		if ctx.Err() != nil {
			c.Logger.WarnCtx(ctx, "collection interrupted", slog.Any("err", ctx.Err()))
			break
		}

		hs, err := src.Headlines(ctx, query, limit)
		switch {
		case errors.Is(err, ErrNoCredentials):
			c.Logger.WarnCtx(ctx, "source skipped, no credentials", slog.String("source", src.Name()))
			continue
		case err != nil:
			c.Logger.WarnCtx(ctx, "failed to get headlines",
				slog.String("source", src.Name()),
				slog.String("query", query),
				slog.Any("err", err))
			continue
		}

		c.Logger.DebugCtx(ctx, "headlines received",
			slog.String("source", src.Name()),
			slog.String("query", query),
			slog.Int("count", len(hs)))

		if c.Mode == ModeFirst {
			if unique := store.Dedupe(hs); len(unique) > 0 {
				return store.Truncate(unique, limit)
			}
			continue
		}

		collected = append(collected, hs...)
	}

	return store.Truncate(store.Dedupe(collected), limit)
}
