// Package cmd contains commands for the application.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Semior001/newsdigest/app/feeder"
	"github.com/Semior001/newsdigest/app/logging"
	"github.com/Semior001/newsdigest/app/publish"
	"github.com/Semior001/newsdigest/app/render"
	"github.com/Semior001/newsdigest/app/revisor"
	"github.com/Semior001/newsdigest/app/source"
	"github.com/Semior001/newsdigest/app/store"
	"github.com/Semior001/newsdigest/app/topic"
	"github.com/Semior001/newsdigest/app/translate"
	"github.com/Semior001/newsdigest/pkg/logx"
	"github.com/go-pkgz/requester"
	"github.com/go-pkgz/requester/middleware"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"golang.org/x/exp/slog"
)

// Generate is a command to generate the feeds.
type Generate struct {
	Topics  string   `long:"topics" env:"TOPICS" description:"YAML file with topics, embedded defaults if empty"`
	Only    []string `long:"only" env:"ONLY" env-delim:"," description:"generate only the topics with these slugs"`
	Sources []string `long:"sources" env:"SOURCES" env-delim:"," default:"newsapi" default:"google-news" default:"gdelt" default:"feeds" description:"sources in priority order"`
	Feeds   []string `long:"feed" env:"FEEDS" env-delim:"," default:"https://feeds.reuters.com/reuters/topNews" default:"https://feeds.bbci.co.uk/mundo/rss.xml" default:"https://feeds.elpais.com/mrss-s/pages/ep/site/elpais.com/section/economia" default:"https://e00-elmundo.uecdn.es/elmundo/rss/portada.xml" default:"https://www.abc.es/rss/feeds/abcPortada.xml" default:"https://www.elconfidencial.com/rss/section/espana/" default:"https://www.elmundo.es/elmundo/rss/espana.xml" description:"RSS feeds queried for every topic"`

	Mode          string        `long:"mode" env:"MODE" default:"all" choice:"all" choice:"first" description:"take all sources or the first one with results"`
	MaxItems      int           `long:"max-items" env:"MAX_ITEMS" default:"10" description:"max headlines per topic"`
	Workers       int           `long:"workers" env:"WORKERS" default:"1" description:"topics processed at the same time"`
	Timeout       time.Duration `long:"timeout" env:"TIMEOUT" default:"12s" description:"timeout of a single request"`
	MaxConcurrent int           `long:"max-concurrent" env:"MAX_CONCURRENT" default:"4" description:"max simultaneous requests"`
	UserAgent     string        `long:"user-agent" env:"USER_AGENT" default:"newsdigest (+https://github.com/Semior001/newsdigest)" description:"user agent of requests"`
	StorePath     string        `long:"store-path" env:"STORE_PATH" description:"parent dir for bolt files, translations are not persisted if empty"`
	Enrich        bool          `long:"enrich" env:"ENRICH" description:"fill empty summaries from the linked pages"`

	NewsAPI struct {
		Key      string `long:"key" env:"KEY" description:"NewsAPI key"`
		Language string `long:"language" env:"LANGUAGE" description:"restrict NewsAPI results to the language"`
	} `group:"newsapi" namespace:"newsapi" env-namespace:"NEWSAPI"`

	Translate struct {
		Backend   string        `long:"backend" env:"BACKEND" default:"mymemory" choice:"mymemory" choice:"openai" choice:"none" description:"translation backend"`
		From      string        `long:"from" env:"FROM" default:"en" description:"language of untranslated headlines"`
		To        string        `long:"to" env:"TO" default:"es" description:"language of the feeds"`
		Email     string        `long:"email" env:"EMAIL" description:"email to raise MyMemory quota"`
		Delay     time.Duration `long:"delay" env:"DELAY" default:"100ms" description:"pause between translation requests"`
		Summaries bool          `long:"summaries" env:"SUMMARIES" description:"translate summaries too"`
		CacheSize int           `long:"cache-size" env:"CACHE_SIZE" default:"1000" description:"translations kept in memory"`
	} `group:"translate" namespace:"translate" env-namespace:"TRANSLATE"`

	OpenAI struct {
		Token     string        `long:"token" env:"TOKEN" description:"OpenAI token"`
		Model     string        `long:"model" env:"MODEL" default:"gpt-3.5-turbo" description:"OpenAI model"`
		MaxTokens int           `long:"max-tokens" env:"MAX_TOKENS" default:"200" description:"max tokens for OpenAI"`
		Timeout   time.Duration `long:"timeout" env:"TIMEOUT" default:"1m" description:"timeout for OpenAI calls"`
	} `group:"openai" namespace:"openai" env-namespace:"OPENAI"`

	Telegram struct {
		Token   string   `long:"token" env:"TOKEN" description:"telegram token, digests are not sent if empty"`
		ChatIDs []string `long:"chat-ids" env:"CHAT_IDS" env-delim:"," description:"chats to send digests to"`
	} `group:"telegram" namespace:"telegram" env-namespace:"TELEGRAM"`

	Render struct {
		Layout        string `long:"layout" env:"LAYOUT" default:"digest" choice:"digest" choice:"items" description:"layout of topic feeds"`
		BaseURL       string `long:"base-url" env:"BASE_URL" default:"https://edekmm.github.io/Noticias-diarias/docs/" description:"public location of the files"`
		Out           string `long:"out" env:"OUT" default:"docs" description:"output directory"`
		Ext           string `long:"ext" env:"EXT" default:".xml.txt" description:"extension of the files"`
		Location      string `long:"location" env:"LOCATION" default:"Europe/Madrid" description:"time zone of the dates"`
		Combined      bool   `long:"combined" env:"COMBINED" description:"also write a document with all topics"`
		CombinedSlug  string `long:"combined-slug" env:"COMBINED_SLUG" default:"noticias-diarias" description:"file name of the combined document"`
		CombinedTitle string `long:"combined-title" env:"COMBINED_TITLE" default:"Noticias Diarias - España" description:"title of the combined document"`
		CombinedItems int    `long:"combined-items" env:"COMBINED_ITEMS" default:"3" description:"headlines per topic in the combined document"`
		SummaryLen    int    `long:"summary-len" env:"SUMMARY_LEN" default:"250" description:"max summary length in the combined document"`
	} `group:"render" namespace:"render" env-namespace:"RENDER"`
}

// Execute runs the command.
func (g Generate) Execute(_ []string) error {
	lg := slog.Default()

	if g.MaxItems < 1 {
		return fmt.Errorf("max items must be positive, got %d", g.MaxItems)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx = logging.ContextWithRunID(ctx, uuid.NewString())

	topics, err := g.topics()
	if err != nil {
		return err
	}

	mode, err := source.ParseMode(g.Mode)
	if err != nil {
		return err
	}

	layout, err := render.ParseLayout(g.Render.Layout)
	if err != nil {
		return err
	}

	cl := g.client(lg, g.Timeout, true)

	sources, err := g.sources(lg, cl)
	if err != nil {
		return err
	}

	var st store.Interface
	if g.StorePath != "" {
		if err = os.MkdirAll(g.StorePath, 0o750); err != nil {
			return fmt.Errorf("make store dir: %w", err)
		}

		bolt, err := store.NewBolt(g.StorePath)
		if err != nil {
			return fmt.Errorf("make store: %w", err)
		}
		defer func() {
			if err := bolt.Close(); err != nil {
				lg.ErrorCtx(ctx, "close bolt store", slog.Any("err", err))
			}
		}()
		st = bolt
	}

	loc := render.LoadLocation(g.Render.Location)

	svc := &feeder.Service{
		Logger: lg.With(slog.String("prefix", "feeder")),
		Collector: &source.Collector{
			Logger:  lg.With(slog.String("prefix", "collector")),
			Sources: sources,
			Mode:    mode,
		},
		TopicSources: func(t topic.Topic) []source.Source {
			if len(t.Feeds) == 0 {
				return nil
			}
			return []source.Source{&source.Feeds{
				Logger: lg.With(slog.String("prefix", "topic-feeds")),
				Client: cl,
				URLs:   t.Feeds,
			}}
		},
		Renderer: &render.Renderer{
			BaseURL:    g.Render.BaseURL,
			Ext:        g.Render.Ext,
			Location:   loc,
			SummaryLen: g.Render.SummaryLen,
		},
		Layout:        layout,
		OutDir:        g.Render.Out,
		MaxItems:      g.MaxItems,
		Workers:       g.Workers,
		CombinedItems: g.Render.CombinedItems,
	}

	if g.Enrich {
		rev := revisor.NewService(
			lg.With(slog.String("prefix", "revisor")),
			cl,
			revisor.NewExtractor(false),
			g.Render.SummaryLen,
		)
		svc.Processors = append(svc.Processors, feeder.ProcessorFunc(rev.Enrich))
	}

	if tr := g.translator(lg, st); tr != nil {
		svc.Processors = append(svc.Processors, &translate.Service{
			Logger:     lg.With(slog.String("prefix", "translate")),
			Translator: tr,
			From:       g.Translate.From,
			To:         g.Translate.To,
			Summaries:  g.Translate.Summaries,
		})
	}

	if g.Telegram.Token != "" {
		tg, err := publish.NewTelegram(lg.With(slog.String("prefix", "telegram")), publish.TelegramParams{
			Token:    g.Telegram.Token,
			ChatIDs:  g.Telegram.ChatIDs,
			Client:   g.client(lg, g.Timeout, false),
			Location: loc,
		})
		if err != nil {
			return fmt.Errorf("make telegram publisher: %w", err)
		}
		svc.Publisher = tg
	}

	if g.Render.Combined {
		titles := lo.Map(topics, func(t topic.Topic, _ int) string { return t.Title })
		svc.Combined = &render.Channel{
			Slug:        g.Render.CombinedSlug,
			Title:       g.Render.CombinedTitle,
			Description: "Noticias destacadas: " + strings.Join(titles, ", ") + ".",
		}
	}

	lg.InfoCtx(ctx, "generating feeds",
		slog.Int("topics", len(topics)),
		slog.String("mode", string(mode)),
		slog.String("layout", string(layout)),
		slog.String("out", g.Render.Out))

	rep, err := svc.Run(ctx, topics)
	if err != nil {
		return fmt.Errorf("run feeder: %w", err)
	}

	for slug, err := range rep.Failed {
		lg.WarnCtx(ctx, "topic failed", slog.String("slug", slug), slog.Any("err", err))
	}

	return nil
}

func (g Generate) topics() ([]topic.Topic, error) {
	topics := topic.Defaults()
	if g.Topics != "" {
		var err error
		if topics, err = topic.Load(g.Topics); err != nil {
			return nil, fmt.Errorf("load topics: %w", err)
		}
	}

	if len(g.Only) == 0 {
		return topics, nil
	}

	slugs := lo.Map(topics, func(t topic.Topic, _ int) string { return t.Slug })
	if unknown, _ := lo.Difference(g.Only, slugs); len(unknown) > 0 {
		return nil, fmt.Errorf("unknown topics: %s", strings.Join(unknown, ", "))
	}

	return lo.Filter(topics, func(t topic.Topic, _ int) bool { return lo.Contains(g.Only, t.Slug) }), nil
}

func (g Generate) sources(lg *slog.Logger, cl *http.Client) ([]source.Source, error) {
	var res []source.Source
	for _, name := range g.Sources {
		switch name {
		case "newsapi":
			res = append(res, &source.NewsAPI{
				Logger:   lg.With(slog.String("prefix", "newsapi")),
				Client:   cl,
				APIKey:   g.NewsAPI.Key,
				Language: g.NewsAPI.Language,
			})
			if g.NewsAPI.Key == "" {
				lg.Warn("newsapi key is not set, newsapi will be skipped")
			}
		case "google-news":
			res = append(res, &source.GoogleNews{
				Logger: lg.With(slog.String("prefix", "google-news")),
				Client: cl,
			})
		case "gdelt":
			res = append(res, &source.GDELT{
				Logger: lg.With(slog.String("prefix", "gdelt")),
				Client: cl,
			})
		case "feeds":
			if len(g.Feeds) == 0 {
				continue
			}
			res = append(res, &source.Feeds{
				Logger: lg.With(slog.String("prefix", "feeds")),
				Client: cl,
				URLs:   g.Feeds,
			})
		default:
			return nil, fmt.Errorf("unknown source %q", name)
		}
	}

	if len(res) == 0 {
		return nil, errors.New("no sources configured")
	}

	return res, nil
}

// translator builds the translation chain, nil if translation is off.
func (g Generate) translator(lg *slog.Logger, st store.Interface) translate.Translator {
	var tr translate.Translator
	switch g.Translate.Backend {
	case "none", "":
		return nil
	case "openai":
		tr = translate.NewChatGPT(
			lg.With(slog.String("prefix", "chatgpt")),
			g.client(lg, g.OpenAI.Timeout, true),
			g.OpenAI.Token,
			g.OpenAI.Model,
			g.OpenAI.MaxTokens,
		)
	default:
		tr = &translate.MyMemory{
			Logger: lg.With(slog.String("prefix", "mymemory")),
			Client: g.client(lg, g.Timeout, true),
			Email:  g.Translate.Email,
		}
	}

	return translate.NewCached(
		lg.With(slog.String("prefix", "translation-cache")),
		&translate.Polite{Translator: tr, Delay: g.Translate.Delay},
		st,
		g.Translate.CacheSize,
		0,
	)
}

// client makes an HTTP client. Requests are logged at debug level if
// logged is set, secrets are masked.
func (g Generate) client(lg *slog.Logger, timeout time.Duration, logged bool) *http.Client {
	mws := []middleware.RoundTripperHandler{
		middleware.Header("User-Agent", g.UserAgent),
		middleware.MaxConcurrent(lo.Max([]int{g.MaxConcurrent, 1})),
	}

	if logged {
		mws = append(mws, logx.LoggingRoundTripper(lg.With(slog.String("prefix", "http")), logx.RoundTripperOpts{
			Level:         slog.LevelDebug,
			SecretHeaders: []string{"Authorization"},
			SecretQuery:   []string{"apiKey", "de"},
		}))
	}

	return requester.New(http.Client{Timeout: timeout}, mws...).Client()
}
