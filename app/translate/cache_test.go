package translate

import (
	"context"
	"errors"
	"testing"

	"github.com/Semior001/newsdigest/app/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCached_Translate(t *testing.T) {
	tr := upperTranslator()
	c := NewCached(nopLogger, tr, nil, 10, 0)

	for i := 0; i < 3; i++ {
		res, err := c.Translate(context.Background(), "hello", "en", "es")
		require.NoError(t, err)
		assert.Equal(t, "HELLO", res)
	}

	res, err := c.Translate(context.Background(), "hello", "en", "fr")
	require.NoError(t, err)
	assert.Equal(t, "HELLO", res)

	assert.Len(t, tr.TranslateCalls(), 2)
	assert.Equal(t, 2, c.Stat().Hits)
	assert.Equal(t, 2, c.Stat().Misses)
}

func TestCached_Translate_Errors(t *testing.T) {
	tr := &TranslatorMock{TranslateFunc: func(context.Context, string, string, string) (string, error) {
		return "", errors.New("boom")
	}}
	c := NewCached(nopLogger, tr, nil, 10, 0)

	for i := 0; i < 2; i++ {
		_, err := c.Translate(context.Background(), "hello", "en", "es")
		assert.Error(t, err)
	}
	assert.Len(t, tr.TranslateCalls(), 2, "failures must not be cached")
}

func TestCached_Translate_Store(t *testing.T) {
	bolt, err := store.NewBolt(t.TempDir())
	require.NoError(t, err)
	defer bolt.Close()

	tr := upperTranslator()

	res, err := NewCached(nopLogger, tr, bolt, 10, 0).Translate(context.Background(), "hello", "en", "es")
	require.NoError(t, err)
	assert.Equal(t, "HELLO", res)

	// new cache, as in the next run, must take the translation from the store
	res, err = NewCached(nopLogger, tr, bolt, 10, 0).Translate(context.Background(), "hello", "en", "es")
	require.NoError(t, err)
	assert.Equal(t, "HELLO", res)

	assert.Len(t, tr.TranslateCalls(), 1)

	stored, err := bolt.GetTranslation(context.Background(), store.TranslationKey{From: "en", To: "es", Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "HELLO", stored.Result)
}

func TestCached_Translate_Blank(t *testing.T) {
	bolt, err := store.NewBolt(t.TempDir())
	require.NoError(t, err)
	defer bolt.Close()

	tr := &TranslatorMock{TranslateFunc: func(context.Context, string, string, string) (string, error) {
		return "  ", nil
	}}
	c := NewCached(nopLogger, tr, bolt, 10, 0)

	for i := 0; i < 2; i++ {
		res, err := c.Translate(context.Background(), "hello", "en", "es")
		require.NoError(t, err)
		assert.Equal(t, "  ", res)
	}
	assert.Len(t, tr.TranslateCalls(), 2)

	_, err = bolt.GetTranslation(context.Background(), store.TranslationKey{From: "en", To: "es", Text: "hello"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}
