// Package store contains entities and services to process and contain them.
package store

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
)

// ErrNotFound is an error that is returned when the requested entity is not found.
var ErrNotFound = errors.New("not found")

// Interface defines methods for the persistent translation store.
type Interface interface {
	PutTranslation(ctx context.Context, tr Translation) error
	GetTranslation(ctx context.Context, key TranslationKey) (Translation, error)
	Close() error
}

// Headline is a single news item collected from a source.
type Headline struct {
	Title    string `json:"title"`
	Summary  string `json:"summary,omitempty"`
	URL      string `json:"url,omitempty"`
	Source   string `json:"source,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// TranslationKey identifies a translated text.
type TranslationKey struct {
	From string `json:"from"`
	To   string `json:"to"`
	Text string `json:"text"`
}

// String returns a key suitable for caches and buckets.
func (k TranslationKey) String() string { return k.From + "|" + k.To + "|" + k.Text }

// Translation is a translated text along with its source.
type Translation struct {
	TranslationKey
	Result string `json:"result"`
}

// NormalizeTitle returns the title trimmed, with whitespace runs collapsed
// to a single space and lower-cased. Two headlines with the same normalized
// title are considered duplicates.
func NormalizeTitle(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Dedupe drops headlines with empty titles and keeps only the first
// occurrence of every normalized title, preserving order.
func Dedupe(hs []Headline) []Headline {
	hs = lo.Filter(hs, func(h Headline, _ int) bool { return NormalizeTitle(h.Title) != "" })
	return lo.UniqBy(hs, func(h Headline) string { return NormalizeTitle(h.Title) })
}

// Truncate returns at most n first headlines.
func Truncate(hs []Headline, n int) []Headline {
	if n < 0 || len(hs) <= n {
		return hs
	}
	return hs[:n]
}

// TruncateText cuts s to at most n runes, marking the cut with an
// ellipsis. Non-positive n means no limit.
func TruncateText(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:n])) + "…"
}
