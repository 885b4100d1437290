package source

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Semior001/newsdigest/app/store"
	"golang.org/x/exp/slog"
)

// GoogleNewsURL is the default endpoint of the Google News search RSS gateway.
const GoogleNewsURL = "https://news.google.com/rss/search"

// GoogleNews searches headlines via the Google News RSS gateway.
type GoogleNews struct {
	Logger  *slog.Logger
	Client  *http.Client
	BaseURL string
	// HL, GL and CEID select the edition, e.g. "es", "ES" and "ES:es".
	HL   string
	GL   string
	CEID string
}

// Name returns the name of the source.
func (g *GoogleNews) Name() string { return "google-news" }

// Headlines returns the search results for the query.
func (g *GoogleNews) Headlines(ctx context.Context, query string, limit int) ([]store.Headline, error) {
	base := g.BaseURL
	if base == "" {
		base = GoogleNewsURL
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("hl", valueOr(g.HL, "es"))
	q.Set("gl", valueOr(g.GL, "ES"))
	q.Set("ceid", valueOr(g.CEID, "ES:es"))

	feed, err := getFeed(ctx, g.Logger, g.Client, base+"?"+q.Encode())
	if err != nil {
		return nil, err
	}

	return feedHeadlines(feed, "Google News", limit), nil
}

func valueOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
