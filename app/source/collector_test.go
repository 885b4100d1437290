package source

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/Semior001/newsdigest/app/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

func staticSource(name string, res map[string][]store.Headline, err error) *SourceMock {
	return &SourceMock{
		NameFunc: func() string { return name },
		HeadlinesFunc: func(_ context.Context, query string, limit int) ([]store.Headline, error) {
			if err != nil {
				return nil, err
			}
			return store.Truncate(res[query], limit), nil
		},
	}
}

func TestCollector_Collect_All(t *testing.T) {
	newsapi := staticSource("newsapi", nil, ErrNoCredentials)
	google := staticSource("google-news", map[string][]store.Headline{
		"madrid": {
			{Title: "Madrid presenta presupuestos", URL: "https://g/1", Source: "Google News"},
			{Title: "Metro de Madrid", URL: "https://g/2", Source: "Google News"},
		},
	}, nil)
	gdelt := staticSource("gdelt", nil, errors.New("connection reset"))
	feeds := staticSource("feeds", map[string][]store.Headline{
		"madrid": {
			{Title: "  madrid presenta   PRESUPUESTOS", URL: "https://f/1", Source: "El País"},
			{Title: "", URL: "https://f/empty"},
			{Title: "Lluvias en Madrid", URL: "https://f/2", Source: "El País"},
		},
	}, nil)

	c := &Collector{Logger: nopLogger, Sources: []Source{newsapi, google, gdelt}, Mode: ModeAll}

	hs := c.Collect(context.Background(), Request{Queries: []string{"madrid"}, Extra: []Source{feeds}, Limit: 10})
	assert.Equal(t, []store.Headline{
		{Title: "Madrid presenta presupuestos", URL: "https://g/1", Source: "Google News"},
		{Title: "Metro de Madrid", URL: "https://g/2", Source: "Google News"},
		{Title: "Lluvias en Madrid", URL: "https://f/2", Source: "El País"},
	}, hs)

	// every source is asked exactly once with the topic limit
	for _, src := range []*SourceMock{newsapi, google, gdelt, feeds} {
		calls := src.HeadlinesCalls()
		require.Len(t, calls, 1, src.Name())
		assert.Equal(t, 10, calls[0].Limit)
	}

	hs = c.Collect(context.Background(), Request{Queries: []string{"madrid"}, Extra: []Source{feeds}, Limit: 2})
	assert.Equal(t, []string{"Madrid presenta presupuestos", "Metro de Madrid"}, titles(hs))
}

func TestCollector_Collect_NoCredentials(t *testing.T) {
	buf := &bytes.Buffer{}
	lg := slog.New(slog.HandlerOptions{Level: slog.LevelDebug}.NewTextHandler(buf))

	c := &Collector{Logger: lg, Sources: []Source{staticSource("newsapi", nil, ErrNoCredentials)}, Mode: ModeAll}
	assert.Empty(t, c.Collect(context.Background(), Request{Queries: []string{"madrid"}, Limit: 10}))

	assert.Contains(t, buf.String(), `level=WARN msg="source skipped, no credentials" source=newsapi`)
}

func TestCollector_Collect_First(t *testing.T) {
	empty := staticSource("empty", map[string][]store.Headline{"q": {{Title: "   "}}}, nil)
	failing := staticSource("failing", nil, errors.New("boom"))
	first := staticSource("first", map[string][]store.Headline{"q": {{Title: "A"}, {Title: "a"}, {Title: "B"}}}, nil)
	second := staticSource("second", map[string][]store.Headline{"q": {{Title: "C"}}}, nil)

	c := &Collector{Logger: nopLogger, Sources: []Source{empty, failing, first, second}, Mode: ModeFirst}

	hs := c.Collect(context.Background(), Request{Queries: []string{"q"}, Limit: 5})
	assert.Equal(t, []string{"A", "B"}, titles(hs))
	assert.Empty(t, second.HeadlinesCalls(), "sources after the first non-empty one must not be queried")
}

func TestCollector_Collect_FallbackQueries(t *testing.T) {
	src := staticSource("google-news", map[string][]store.Headline{
		"economía España": {{Title: "El PIB crece"}},
		"Spain economy":   {{Title: "Spain GDP grows"}},
	}, nil)

	c := &Collector{Logger: nopLogger, Sources: []Source{src}, Mode: ModeAll}

	hs := c.Collect(context.Background(), Request{
		Queries: []string{"PIB OR inflación OR empleo", "economía España", "Spain economy"},
		Limit:   3,
	})
	assert.Equal(t, []string{"El PIB crece"}, titles(hs))

	calls := src.HeadlinesCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, "PIB OR inflación OR empleo", calls[0].Query)
	assert.Equal(t, "economía España", calls[1].Query)
}

func TestCollector_Collect_Nothing(t *testing.T) {
	c := &Collector{
		Logger:  nopLogger,
		Sources: []Source{staticSource("failing", nil, errors.New("timeout"))},
		Mode:    ModeAll,
	}

	assert.Empty(t, c.Collect(context.Background(), Request{Queries: []string{"a", "b"}, Limit: 3}))
	assert.Empty(t, c.Collect(context.Background(), Request{Limit: 3}))
}

func TestCollector_Collect_Canceled(t *testing.T) {
	src := staticSource("google-news", map[string][]store.Headline{"q": {{Title: "A"}}}, nil)
	c := &Collector{Logger: nopLogger, Sources: []Source{src}, Mode: ModeAll}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Empty(t, c.Collect(ctx, Request{Queries: []string{"q"}, Limit: 3}))
	assert.Empty(t, src.HeadlinesCalls())
}
