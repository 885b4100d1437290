// Package translate contains best-effort translation of headlines.
package translate

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Semior001/newsdigest/app/store"
	"golang.org/x/exp/slog"
)

//go:generate moq -out mock_translator.go . Translator

// Translator translates text between languages.
type Translator interface {
	Translate(ctx context.Context, text, from, to string) (string, error)
}

// Service translates headlines that do not look like they are
// already written in the target language. Translation is best-effort:
// whatever goes wrong, the original text is kept.
type Service struct {
	Logger     *slog.Logger
	Translator Translator
	From       string
	To         string
	// Summaries enables translation of headline summaries, not only titles.
	Summaries bool
}

// Text returns the translation of s, or s itself if it looks Spanish
// already or if the translation failed.
func (s *Service) Text(ctx context.Context, text string) string {
	if strings.TrimSpace(text) == "" || LooksSpanish(text) {
		return text
	}

	res, err := s.Translator.Translate(ctx, text, s.From, s.To)
	if err != nil {
		s.Logger.WarnCtx(ctx, "failed to translate, keeping original",
			slog.String("text", text), slog.Any("err", err))
		return text
	}

	if strings.TrimSpace(res) == "" {
		return text
	}

	return res
}

// Headlines returns a copy of hs with translated titles and, if enabled,
// summaries.
func (s *Service) Headlines(ctx context.Context, hs []store.Headline) []store.Headline {
	res := make([]store.Headline, len(hs))
	for i, h := range hs {
		h.Title = s.Text(ctx, h.Title)
		if s.Summaries {
			h.Summary = s.Text(ctx, h.Summary)
		}
		res[i] = h
	}
	return res
}

const spanishMarks = "áéíóúñü¿¡ÁÉÍÓÚÑÜ"

// LooksSpanish reports whether s contains characters specific to Spanish.
func LooksSpanish(s string) bool { return strings.ContainsAny(s, spanishMarks) }

// Polite is a translator that keeps at least Delay between two calls
// to the underlying translator.
type Polite struct {
	Translator
	Delay time.Duration

	mu   sync.Mutex
	last time.Time
}

// Translate waits for the delay to pass since the previous call and
// calls the underlying translator.
func (p *Polite) Translate(ctx context.Context, text, from, to string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if wait := p.Delay - time.Since(p.last); !p.last.IsZero() && wait > 0 {
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}

	defer func() { p.last = time.Now() }()
	return p.Translator.Translate(ctx, text, from, to)
}
