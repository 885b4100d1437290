// Package source contains adapters to the services headlines are collected from
// and the collector that merges them.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/Semior001/newsdigest/app/store"
	"github.com/mmcdole/gofeed"
	"golang.org/x/exp/slog"
)

//go:generate moq -out mock_source.go . Source

// Source provides headlines for a query.
type Source interface {
	Name() string
	Headlines(ctx context.Context, query string, limit int) ([]store.Headline, error)
}

// ErrNoCredentials is returned by sources that require a key which is not configured.
var ErrNoCredentials = errors.New("no credentials configured")

// ErrBadStatus is returned when a remote service responds with a non-2xx status code.
var ErrBadStatus = errors.New("bad status code")

const maxErrorBody = 512

func get(ctx context.Context, lg *slog.Logger, cl *http.Client, u string, accept string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := cl.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if err := resp.Body.Close(); err != nil {
			lg.WarnCtx(ctx, "failed to close response body", slog.Any("err", err))
		}
		return nil, fmt.Errorf("%w: %d: %s", ErrBadStatus, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return resp.Body, nil
}

func getJSON(ctx context.Context, lg *slog.Logger, cl *http.Client, u string, v any) error {
	body, err := get(ctx, lg, cl, u, "application/json")
	if err != nil {
		return err
	}
	defer func() {
		if err := body.Close(); err != nil {
			lg.WarnCtx(ctx, "failed to close response body", slog.Any("err", err))
		}
	}()

	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func getFeed(ctx context.Context, lg *slog.Logger, cl *http.Client, u string) (*gofeed.Feed, error) {
	body, err := get(ctx, lg, cl, u, "application/rss+xml, application/atom+xml, application/xml;q=0.9, text/xml;q=0.8, */*;q=0.1")
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := body.Close(); err != nil {
			lg.WarnCtx(ctx, "failed to close response body", slog.Any("err", err))
		}
	}()

	feed, err := gofeed.NewParser().Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	return feed, nil
}

// feedHeadlines converts at most limit feed items into headlines.
// Source falls back to the feed title, if empty.
func feedHeadlines(feed *gofeed.Feed, source string, limit int) []store.Headline {
	if source == "" {
		source = strings.TrimSpace(feed.Title)
	}
	if source == "" {
		source = "RSS"
	}

	res := make([]store.Headline, 0, len(feed.Items))
	for _, item := range feed.Items {
		if limit >= 0 && len(res) >= limit {
			break
		}

		summary := item.Description
		if summary == "" {
			summary = item.Content
		}

		h := store.Headline{
			Title:   strings.TrimSpace(item.Title),
			Summary: PlainText(summary),
			URL:     strings.TrimSpace(item.Link),
			Source:  source,
		}
		if item.Image != nil {
			h.ImageURL = item.Image.URL
		}

		res = append(res, h)
	}

	return res
}

// PlainText strips HTML markup from s and collapses whitespace.
func PlainText(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}

	if !strings.ContainsAny(s, "<&") {
		return strings.Join(strings.Fields(s), " ")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}

	return strings.Join(strings.Fields(doc.Text()), " ")
}
