// Package revisor enriches collected headlines with the content of
// the pages they link to.
package revisor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/Semior001/newsdigest/app/store"
	"golang.org/x/exp/slog"
)

// maxPageSize limits the amount of HTML read from a single page.
const maxPageSize = 2 << 20

// Service fills the gaps of headlines from their linked pages.
type Service struct {
	log       *slog.Logger
	cl        *http.Client
	extractor Extractor
	maxLen    int
}

// NewService creates new service. Summaries taken from pages are cut
// to maxLen runes, zero means no limit.
func NewService(lg *slog.Logger, cl *http.Client, extractor Extractor, maxLen int) *Service {
	return &Service{
		log:       lg,
		cl:        cl,
		extractor: extractor,
		maxLen:    maxLen,
	}
}

// GetPage downloads and extracts the page at u.
func (s *Service) GetPage(ctx context.Context, u string) (Page, error) {
	s.log.DebugCtx(ctx, "extracting page", slog.String("url", u))

	pageURL, err := url.Parse(u)
	if err != nil {
		return Page{}, fmt.Errorf("parse url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return Page{}, fmt.Errorf("build request: %w", err)
	}

	resp, err := s.cl.Do(req)
	if err != nil {
		return Page{}, fmt.Errorf("do request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			s.log.WarnCtx(ctx, "failed to close response body", slog.Any("err", err))
		}
	}()

	ok := resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices
	if !ok {
		return Page{}, fmt.Errorf("bad status code: %d", resp.StatusCode)
	}

	page, err := s.extractor.Extract(io.LimitReader(resp.Body, maxPageSize), pageURL)
	if err != nil {
		return Page{}, fmt.Errorf("extract page: %w", err)
	}

	return page, nil
}

// Enrich returns a copy of hs where headlines without summary get the
// excerpt of their page, and headlines without image get the page's
// lead image. Pages that fail to load are skipped.
func (s *Service) Enrich(ctx context.Context, hs []store.Headline) []store.Headline {
	res := make([]store.Headline, len(hs))
	copy(res, hs)

	for i, h := range res {
		if h.Summary != "" || h.URL == "" {
			continue
		}

		if ctx.Err() != nil {
			s.log.WarnCtx(ctx, "enrichment interrupted", slog.Any("err", ctx.Err()))
			break
		}

		page, err := s.GetPage(ctx, h.URL)
		if err != nil {
			s.log.WarnCtx(ctx, "failed to get page, summary left empty",
				slog.String("url", h.URL), slog.Any("err", err))
			continue
		}

		summary := page.Excerpt
		if summary == "" {
			summary = page.Content
		}
		res[i].Summary = store.TruncateText(summary, s.maxLen)

		if h.ImageURL == "" {
			res[i].ImageURL = page.ImageURL
		}
	}

	return res
}
