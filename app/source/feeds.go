package source

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Semior001/newsdigest/app/store"
	"golang.org/x/exp/slog"
)

// Feeds reads headlines from a fixed list of RSS/Atom feeds.
// Feeds are not searchable, so the query is ignored.
type Feeds struct {
	Logger *slog.Logger
	Client *http.Client
	URLs   []string
}

// Name returns the name of the source.
func (f *Feeds) Name() string { return "feeds" }

// Headlines returns up to limit items of every feed, in the order
// of URLs. A feed that fails is skipped, the error is returned only
// if every feed failed.
func (f *Feeds) Headlines(ctx context.Context, _ string, limit int) ([]store.Headline, error) {
	var res []store.Headline
	var lastErr error
	failed := 0

	for _, u := range f.URLs {
		feed, err := getFeed(ctx, f.Logger, f.Client, u)
		if err != nil {
			f.Logger.WarnCtx(ctx, "failed to read feed", slog.String("url", u), slog.Any("err", err))
			lastErr = err
			failed++
			continue
		}

		res = append(res, feedHeadlines(feed, "", limit)...)
	}

	if len(f.URLs) > 0 && failed == len(f.URLs) {
		return nil, fmt.Errorf("all %d feeds failed, last error: %w", failed, lastErr)
	}

	return res, nil
}
