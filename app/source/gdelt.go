package source

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Semior001/newsdigest/app/store"
	"golang.org/x/exp/slog"
)

// GDELTURL is the default endpoint of the GDELT DOC 2.0 API.
const GDELTURL = "https://api.gdeltproject.org/api/v2/doc/doc"

// GDELT searches articles in the GDELT project article list.
type GDELT struct {
	Logger  *slog.Logger
	Client  *http.Client
	BaseURL string
}

type gdeltArticle struct {
	Title    string `json:"title"`
	SeenDate string `json:"seendate"`
	URL      string `json:"url"`
	ShareURL string `json:"shareurl"`
	Domain   string `json:"domain"`
}

type gdeltResponse struct {
	Articles []gdeltArticle `json:"articles"`
	Article  *gdeltArticle  `json:"article"`
}

// Name returns the name of the source.
func (g *GDELT) Name() string { return "gdelt" }

// Headlines returns the article list for the query.
func (g *GDELT) Headlines(ctx context.Context, query string, limit int) ([]store.Headline, error) {
	base := g.BaseURL
	if base == "" {
		base = GDELTURL
	}

	q := url.Values{}
	q.Set("query", query)
	q.Set("mode", "artlist")
	if limit > 0 {
		q.Set("maxrecords", strconv.Itoa(limit))
	}
	q.Set("format", "json")

	var resp gdeltResponse
	if err := getJSON(ctx, g.Logger, g.Client, base+"?"+q.Encode(), &resp); err != nil {
		return nil, err
	}

	arts := resp.Articles
	if len(arts) == 0 && resp.Article != nil {
		arts = []gdeltArticle{*resp.Article}
	}

	res := make([]store.Headline, 0, len(arts))
	for _, art := range arts {
		if limit >= 0 && len(res) >= limit {
			break
		}

		title := strings.TrimSpace(art.Title)
		if title == "" {
			title = art.SeenDate
		}

		link := art.URL
		if link == "" {
			link = art.ShareURL
		}

		res = append(res, store.Headline{Title: title, URL: link, Source: "GDELT"})
	}

	return res, nil
}
