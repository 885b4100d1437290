package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Semior001/newsdigest/app/store"
	"golang.org/x/exp/slog"
)

// NewsAPIURL is the default endpoint of the NewsAPI "everything" search.
const NewsAPIURL = "https://newsapi.org/v2/everything"

// NewsAPI searches headlines in newsapi.org.
type NewsAPI struct {
	Logger *slog.Logger
	Client *http.Client
	// BaseURL overrides NewsAPIURL, if set.
	BaseURL  string
	APIKey   string
	Language string
}

type newsAPIResponse struct {
	Status       string `json:"status"`
	Code         string `json:"code"`
	Message      string `json:"message"`
	TotalResults int    `json:"totalResults"`
	Articles     []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		URLToImage  string `json:"urlToImage"`
	} `json:"articles"`
}

// Name returns the name of the source.
func (n *NewsAPI) Name() string { return "newsapi" }

// Headlines returns the most recent articles matching the query.
func (n *NewsAPI) Headlines(ctx context.Context, query string, limit int) ([]store.Headline, error) {
	if n.APIKey == "" {
		return nil, ErrNoCredentials
	}

	base := n.BaseURL
	if base == "" {
		base = NewsAPIURL
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("sortBy", "publishedAt")
	if limit > 0 {
		q.Set("pageSize", strconv.Itoa(limit))
	}
	q.Set("apiKey", n.APIKey)
	if n.Language != "" {
		q.Set("language", n.Language)
	}

	var resp newsAPIResponse
	if err := getJSON(ctx, n.Logger, n.Client, base+"?"+q.Encode(), &resp); err != nil {
		return nil, err
	}

	if resp.Status != "ok" {
		return nil, fmt.Errorf("newsapi responded with status %q: %s: %s", resp.Status, resp.Code, resp.Message)
	}

	res := make([]store.Headline, 0, len(resp.Articles))
	for _, art := range resp.Articles {
		if limit >= 0 && len(res) >= limit {
			break
		}

		src := art.Source.Name
		if src == "" {
			src = "NewsAPI"
		}

		res = append(res, store.Headline{
			Title:    strings.TrimSpace(art.Title),
			Summary:  PlainText(art.Description),
			URL:      art.URL,
			Source:   src,
			ImageURL: art.URLToImage,
		})
	}

	return res, nil
}
