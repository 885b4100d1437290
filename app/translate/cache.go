package translate

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Semior001/newsdigest/app/store"
	cache "github.com/go-pkgz/expirable-cache/v2"
	"golang.org/x/exp/slog"
)

// Cached is a translator that remembers translations in memory and,
// if Store is set, between runs.
type Cached struct {
	log   *slog.Logger
	tr    Translator
	store store.Interface
	cache cache.Cache[string, string]
}

// NewCached makes a cached translator. st may be nil.
func NewCached(lg *slog.Logger, tr Translator, st store.Interface, maxKeys int, ttl time.Duration) *Cached {
	c := cache.NewCache[string, string]().
		WithLRU().
		WithMaxKeys(maxKeys)
	if ttl > 0 {
		c = c.WithTTL(ttl)
	}

	return &Cached{log: lg, tr: tr, store: st, cache: c}
}

// Stat returns cache stats.
func (c *Cached) Stat() cache.Stats { return c.cache.Stat() }

// Translate returns the remembered translation or asks the underlying
// translator and remembers its answer.
func (c *Cached) Translate(ctx context.Context, text, from, to string) (string, error) {
	key := store.TranslationKey{From: from, To: to, Text: text}

	if res, ok := c.cache.Get(key.String()); ok {
		return res, nil
	}

	if c.store != nil {
		tr, err := c.store.GetTranslation(ctx, key)
		switch {
		case err == nil:
			c.cache.Set(key.String(), tr.Result, 0)
			return tr.Result, nil
		case !errors.Is(err, store.ErrNotFound):
			c.log.WarnCtx(ctx, "failed to read stored translation", slog.Any("err", err))
		}
	}

	res, err := c.tr.Translate(ctx, text, from, to)
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(res) == "" {
		return res, nil
	}

	c.cache.Set(key.String(), res, 0)

	if c.store != nil {
		if err := c.store.PutTranslation(ctx, store.Translation{TranslationKey: key, Result: res}); err != nil {
			c.log.WarnCtx(ctx, "failed to store translation", slog.Any("err", err))
		}
	}

	return res, nil
}
