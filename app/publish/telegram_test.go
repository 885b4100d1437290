package publish

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Semior001/newsdigest/app/store"
	"github.com/Semior001/newsdigest/app/topic"
	"github.com/Semior001/newsdigest/pkg/logx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

var nopLogger = slog.New(logx.NoOp())

type sent struct {
	ChatID    string
	Text      string
	ParseMode string
}

func telegramServer(t *testing.T, failChat string) (*httptest.Server, func() []sent) {
	var mu sync.Mutex
	var msgs []sent

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		w.Header().Set("Content-Type", "application/json")

		switch {
		case strings.HasSuffix(r.URL.Path, "/getMe"):
			assert.Equal(t, "/bottoken/getMe", r.URL.Path)
			_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"digest","username":"digest_bot"}}`))
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			if r.PostForm.Get("chat_id") == failChat {
				_, _ = w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`))
				return
			}
			mu.Lock()
			msgs = append(msgs, sent{
				ChatID:    r.PostForm.Get("chat_id"),
				Text:      r.PostForm.Get("text"),
				ParseMode: r.PostForm.Get("parse_mode"),
			})
			mu.Unlock()
			_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":1,"type":"private"}}}`))
		default:
			t.Errorf("unexpected request to %s", r.URL.Path)
		}
	}))

	return ts, func() []sent {
		mu.Lock()
		defer mu.Unlock()
		return append([]sent(nil), msgs...)
	}
}

func TestTelegram_Publish(t *testing.T) {
	ts, messages := telegramServer(t, "")
	defer ts.Close()

	tg, err := NewTelegram(nopLogger, TelegramParams{
		Token:    "token",
		ChatIDs:  []string{"100", " -200"},
		Endpoint: ts.URL + "/bot%s/%s",
		Client:   ts.Client(),
	})
	require.NoError(t, err)
	tg.now = func() time.Time { return time.Date(2026, time.October, 17, 9, 0, 0, 0, time.UTC) }

	err = tg.Publish(context.Background(), topic.Topic{Title: "España", Icon: "🇪🇸"}, []store.Headline{
		{Title: "Uno & dos", URL: "https://a/1", Source: "El País"},
		{Title: "Tres"},
	})
	require.NoError(t, err)

	msgs := messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "100", msgs[0].ChatID)
	assert.Equal(t, "-200", msgs[1].ChatID)
	assert.Equal(t, "HTML", msgs[0].ParseMode)
	assert.Equal(t, "🇪🇸 <b>España</b> - 17/10/2026\n\n"+
		"1. <a href=\"https://a/1\">Uno &amp; dos</a> (El País)\n"+
		"2. Tres", msgs[0].Text)
}

func TestTelegram_Publish_Error(t *testing.T) {
	ts, messages := telegramServer(t, "100")
	defer ts.Close()

	tg, err := NewTelegram(nopLogger, TelegramParams{
		Token:    "token",
		ChatIDs:  []string{"100", "200"},
		Endpoint: ts.URL + "/bot%s/%s",
		Client:   ts.Client(),
	})
	require.NoError(t, err)

	err = tg.Publish(context.Background(), topic.Topic{Title: "España"}, []store.Headline{{Title: "Uno"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "send message to 100")
	assert.Len(t, messages(), 1, "other chats still get the digest")
}

func TestTelegram_text_Limit(t *testing.T) {
	tg := &Telegram{loc: time.UTC, now: time.Now}

	hs := make([]store.Headline, 100)
	for i := range hs {
		hs[i] = store.Headline{Title: strings.Repeat("a", 100)}
	}

	text, err := tg.text(topic.Topic{Title: "España"}, hs)
	require.NoError(t, err)
	assert.LessOrEqual(t, len([]rune(text)), maxMessageLen)
	assert.Contains(t, text, "\n1. ")
	assert.NotContains(t, text, "\n100. ")
}

func TestNewTelegram_BadChatID(t *testing.T) {
	_, err := NewTelegram(nopLogger, TelegramParams{Token: "token", ChatIDs: []string{"@channel"}})
	assert.Error(t, err)

	_, err = NewTelegram(nopLogger, TelegramParams{Token: "token"})
	assert.Error(t, err)
}
