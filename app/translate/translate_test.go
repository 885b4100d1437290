package translate

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Semior001/newsdigest/app/store"
	"github.com/Semior001/newsdigest/pkg/logx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

var nopLogger = slog.New(logx.NoOp())

func upperTranslator() *TranslatorMock {
	return &TranslatorMock{
		TranslateFunc: func(_ context.Context, text, from, to string) (string, error) {
			return strings.ToUpper(text), nil
		},
	}
}

func TestLooksSpanish(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"Spain economy grows", false},
		{"La economía crece", true},
		{"¿Qué pasa en Madrid?", true},
		{"España", true},
		{"ÉXITO", true},
		{"Madrid hosts summit", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, LooksSpanish(tt.in))
		})
	}
}

func TestService_Text(t *testing.T) {
	tr := upperTranslator()
	svc := &Service{Logger: nopLogger, Translator: tr, From: "en", To: "es"}

	assert.Equal(t, "SPAIN ECONOMY", svc.Text(context.Background(), "Spain economy"))
	assert.Equal(t, "La economía crece", svc.Text(context.Background(), "La economía crece"))
	assert.Equal(t, "", svc.Text(context.Background(), ""))
	assert.Equal(t, "  ", svc.Text(context.Background(), "  "))

	calls := tr.TranslateCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "en", calls[0].From)
	assert.Equal(t, "es", calls[0].To)
}

func TestService_Text_Failure(t *testing.T) {
	svc := &Service{
		Logger: nopLogger,
		Translator: &TranslatorMock{TranslateFunc: func(context.Context, string, string, string) (string, error) {
			return "", errors.New("dial tcp: connection refused")
		}},
		From: "en", To: "es",
	}

	assert.Equal(t, "Spain economy", svc.Text(context.Background(), "Spain economy"))

	svc.Translator = &TranslatorMock{TranslateFunc: func(context.Context, string, string, string) (string, error) {
		return "   ", nil
	}}
	assert.Equal(t, "Spain economy", svc.Text(context.Background(), "Spain economy"))
}

func TestService_Headlines(t *testing.T) {
	in := []store.Headline{
		{Title: "Spain economy grows", Summary: "GDP up", URL: "https://a"},
		{Title: "La inflación baja", Summary: "datos", URL: "https://b"},
	}

	svc := &Service{Logger: nopLogger, Translator: upperTranslator(), From: "en", To: "es"}
	got := svc.Headlines(context.Background(), in)
	assert.Equal(t, []store.Headline{
		{Title: "SPAIN ECONOMY GROWS", Summary: "GDP up", URL: "https://a"},
		{Title: "La inflación baja", Summary: "datos", URL: "https://b"},
	}, got)
	assert.Equal(t, "Spain economy grows", in[0].Title, "input must not be modified")

	svc.Summaries = true
	got = svc.Headlines(context.Background(), in)
	assert.Equal(t, "GDP UP", got[0].Summary)
	assert.Equal(t, "DATOS", got[1].Summary)
}

func TestPolite_Translate(t *testing.T) {
	var calledAt []time.Time
	p := &Polite{
		Translator: &TranslatorMock{TranslateFunc: func(_ context.Context, text, _, _ string) (string, error) {
			calledAt = append(calledAt, time.Now())
			return text, nil
		}},
		Delay: 50 * time.Millisecond,
	}

	for i := 0; i < 3; i++ {
		_, err := p.Translate(context.Background(), "a", "en", "es")
		require.NoError(t, err)
	}

	require.Len(t, calledAt, 3)
	assert.GreaterOrEqual(t, calledAt[1].Sub(calledAt[0]), 50*time.Millisecond)
	assert.GreaterOrEqual(t, calledAt[2].Sub(calledAt[1]), 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Translate(ctx, "a", "en", "es")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, calledAt, 3)
}
