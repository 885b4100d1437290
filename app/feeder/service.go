// Package feeder runs the generation of topic feeds: it collects
// headlines, processes them and writes the rendered documents.
package feeder

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/Semior001/newsdigest/app/logging"
	"github.com/Semior001/newsdigest/app/render"
	"github.com/Semior001/newsdigest/app/source"
	"github.com/Semior001/newsdigest/app/store"
	"github.com/Semior001/newsdigest/app/topic"
	"golang.org/x/exp/slog"
	"golang.org/x/sync/errgroup"
)

//go:generate moq -out mock_collector.go . Collector
//go:generate moq -out mock_publisher.go . Publisher

// Collector collects headlines for a request.
type Collector interface {
	Collect(ctx context.Context, req source.Request) []store.Headline
}

// Processor transforms collected headlines, e.g. translates them.
// Processors are best-effort and never fail.
type Processor interface {
	Headlines(ctx context.Context, hs []store.Headline) []store.Headline
}

// ProcessorFunc is an adapter to use ordinary functions as Processor.
type ProcessorFunc func(ctx context.Context, hs []store.Headline) []store.Headline

// Headlines calls f(ctx, hs).
func (f ProcessorFunc) Headlines(ctx context.Context, hs []store.Headline) []store.Headline {
	return f(ctx, hs)
}

// Publisher delivers the headlines of a topic somewhere else than files.
type Publisher interface {
	Publish(ctx context.Context, t topic.Topic, hs []store.Headline) error
}

// Service generates feeds.
type Service struct {
	Logger    *slog.Logger
	Collector Collector
	// Processors are applied in order to the collected headlines.
	Processors []Processor
	// Publisher is optional.
	Publisher Publisher
	// TopicSources returns sources specific to the topic, optional.
	TopicSources func(t topic.Topic) []source.Source

	Renderer *render.Renderer
	Layout   render.Layout
	OutDir   string
	MaxItems int
	// Workers is the number of topics processed at the same time.
	Workers int

	// Combined, if set, describes the document that gathers all topics.
	Combined *render.Channel
	// CombinedItems limits headlines per topic in the combined document.
	CombinedItems int
}

// Report describes the outcome of a run.
type Report struct {
	// Written holds paths of written files.
	Written []string
	// Failed holds errors of topics that could not be written, by slug.
	Failed map[string]error
}

// Run generates a feed file per topic. A failure of a topic is logged
// and reported, other topics are still generated. Topics left unfinished
// by a cancelled context keep their previous files. Run returns an error
// only if the output directory is not usable.
func (s *Service) Run(ctx context.Context, topics []topic.Topic) (Report, error) {
	if err := os.MkdirAll(s.OutDir, 0o750); err != nil {
		return Report{}, fmt.Errorf("make output directory: %w", err)
	}

	rep := Report{Failed: map[string]error{}}
	sections := make([]render.Section, len(topics))
	mu := &sync.Mutex{}

	workers := s.Workers
	if workers < 1 {
		workers = 1
	}

	ewg := &errgroup.Group{}
	ewg.SetLimit(workers)

	for i, t := range topics {
		i, t := i, t
		ewg.Go(func() error {
			ctx := logging.ContextWithTopic(ctx, t.Slug)

			hs, path, err := s.topic(ctx, t)
			if s.CombinedItems > 0 {
				hs = store.Truncate(hs, s.CombinedItems)
			}
			sections[i] = render.Section{Topic: t, Headlines: hs}

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				s.Logger.ErrorCtx(ctx, "failed to generate topic feed", slog.Any("err", err))
				rep.Failed[t.Slug] = err
				return nil
			}

			rep.Written = append(rep.Written, path)
			return nil
		})
	}

	_ = ewg.Wait()

	switch {
	case s.Combined == nil:
	case ctx.Err() != nil:
		rep.Failed[s.Combined.Slug] = fmt.Errorf("combined feed: %w", ctx.Err())
	default:
		path, err := s.write(s.Combined.Slug, func(buf *bytes.Buffer) error {
			return s.Renderer.Combined(buf, *s.Combined, sections)
		})
		if err != nil {
			s.Logger.ErrorCtx(ctx, "failed to generate combined feed", slog.Any("err", err))
			rep.Failed[s.Combined.Slug] = err
		} else {
			rep.Written = append(rep.Written, path)
		}
	}

	sort.Strings(rep.Written)

	s.Logger.InfoCtx(ctx, "feeds generated",
		slog.Int("written", len(rep.Written)),
		slog.Int("failed", len(rep.Failed)))

	return rep, nil
}

// topic generates the feed of a single topic and returns the headlines
// it was rendered with, without placeholder.
func (s *Service) topic(ctx context.Context, t topic.Topic) ([]store.Headline, string, error) {
	req := source.Request{Queries: t.Queries, Limit: s.MaxItems}
	if len(req.Queries) == 0 {
		req.Queries = []string{t.Query()}
	}
	if s.TopicSources != nil {
		req.Extra = s.TopicSources(t)
	}

	hs := s.Collector.Collect(ctx, req)
	if err := ctx.Err(); err != nil {
		return nil, "", fmt.Errorf("collect headlines: %w", err)
	}
	s.Logger.InfoCtx(ctx, "headlines collected", slog.Int("count", len(hs)))

	for _, p := range s.Processors {
		hs = p.Headlines(ctx, hs)
	}
	// an interrupted run must not replace the previous feed
	if err := ctx.Err(); err != nil {
		return nil, "", fmt.Errorf("process headlines: %w", err)
	}

	rendered := hs
	if len(rendered) == 0 {
		s.Logger.WarnCtx(ctx, "no headlines found, rendering placeholder")
		rendered = []store.Headline{render.Placeholder(t)}
	}

	path, err := s.write(t.Slug, func(buf *bytes.Buffer) error {
		return s.Renderer.Topic(buf, s.Layout, t, rendered)
	})
	if err != nil {
		return hs, "", err
	}

	s.Logger.InfoCtx(ctx, "feed written", slog.String("path", path))

	if s.Publisher != nil && len(hs) > 0 {
		if err := s.Publisher.Publish(ctx, t, hs); err != nil {
			s.Logger.WarnCtx(ctx, "failed to publish headlines", slog.Any("err", err))
		}
	}

	return hs, path, nil
}

// write renders the document into memory and then replaces the file,
// so that readers never observe a partially written feed.
func (s *Service) write(slug string, renderFn func(buf *bytes.Buffer) error) (string, error) {
	buf := &bytes.Buffer{}
	if err := renderFn(buf); err != nil {
		return "", fmt.Errorf("render: %w", err)
	}

	path := filepath.Join(s.OutDir, slug+s.Renderer.Ext)

	f, err := os.CreateTemp(s.OutDir, "."+slug+"-*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	if _, err = f.Write(buf.Bytes()); err == nil {
		err = f.Sync()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Chmod(f.Name(), 0o644)
	}
	if err == nil {
		err = os.Rename(f.Name(), path)
	}
	if err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("write %s: %w", path, err)
	}

	return path, nil
}
