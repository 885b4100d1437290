// Package publish delivers topic digests to messengers.
package publish

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Semior001/newsdigest/app/store"
	"github.com/Semior001/newsdigest/app/topic"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/exp/slog"
)

//go:embed data/message.html.tmpl
var message string

var messageTmpl = template.Must(template.New("message").Parse(message))

// maxMessageLen is the limit of a telegram message, in runes.
const maxMessageLen = 4096

// Telegram sends digests to telegram chats.
type Telegram struct {
	log   *slog.Logger
	api   *tgbotapi.BotAPI
	chats []int64
	loc   *time.Location
	now   func() time.Time
}

// TelegramParams describes the telegram publisher.
type TelegramParams struct {
	Token   string
	ChatIDs []string
	// Endpoint is the bot API endpoint format, tgbotapi.APIEndpoint if empty.
	Endpoint string
	Client   tgbotapi.HTTPClient
	Location *time.Location
}

// NewTelegram makes a new telegram publisher.
func NewTelegram(lg *slog.Logger, params TelegramParams) (*Telegram, error) {
	if len(params.ChatIDs) == 0 {
		return nil, errors.New("no chat ids")
	}

	chats := make([]int64, len(params.ChatIDs))
	for i, id := range params.ChatIDs {
		var err error
		if chats[i], err = strconv.ParseInt(strings.TrimSpace(id), 10, 64); err != nil {
			return nil, fmt.Errorf("parse chat id %q: %w", id, err)
		}
	}

	if params.Endpoint == "" {
		params.Endpoint = tgbotapi.APIEndpoint
	}
	if params.Client == nil {
		params.Client = &http.Client{Timeout: 30 * time.Second}
	}

	stdlibLogger := slog.NewLogLogger(lg.Handler(), slog.LevelWarn)
	stdlibLogger.SetPrefix("telegram-bot-api: ")

	if err := tgbotapi.SetLogger(stdlibLogger); err != nil {
		return nil, fmt.Errorf("set logger: %w", err)
	}

	api, err := tgbotapi.NewBotAPIWithClient(params.Token, params.Endpoint, params.Client)
	if err != nil {
		return nil, fmt.Errorf("make new api: %w", err)
	}

	loc := params.Location
	if loc == nil {
		loc = time.UTC
	}

	return &Telegram{log: lg, api: api, chats: chats, loc: loc, now: time.Now}, nil
}

// Publish sends the digest of the topic to every configured chat.
func (b *Telegram) Publish(ctx context.Context, t topic.Topic, hs []store.Headline) error {
	text, err := b.text(t, hs)
	if err != nil {
		return err
	}

	var errs []error
	for _, chatID := range b.chats {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		msg := tgbotapi.NewMessage(chatID, text)
		msg.ParseMode = tgbotapi.ModeHTML
		msg.DisableWebPagePreview = true

		if _, err = b.api.Send(msg); err != nil {
			errs = append(errs, fmt.Errorf("send message to %d: %w", chatID, err))
			continue
		}

		b.log.DebugCtx(ctx, "digest sent", slog.Int64("chat_id", chatID))
	}

	return errors.Join(errs...)
}

// text renders the message, dropping the last headlines until it fits
// into a single telegram message.
func (b *Telegram) text(t topic.Topic, hs []store.Headline) (string, error) {
	type numbered struct {
		store.Headline
		N int
	}

	for n := len(hs); n >= 0; n-- {
		list := make([]numbered, n)
		for i := range list {
			list[i] = numbered{Headline: hs[i], N: i + 1}
		}

		buf := &bytes.Buffer{}
		err := messageTmpl.Execute(buf, struct {
			Icon, Title, Date string
			Headlines         []numbered
		}{
			Icon:      t.Icon,
			Title:     t.Title,
			Date:      b.now().In(b.loc).Format("02/01/2006"),
			Headlines: list,
		})
		if err != nil {
			return "", fmt.Errorf("execute message template: %w", err)
		}

		if text := strings.TrimSpace(buf.String()); utf8.RuneCountInString(text) <= maxMessageLen {
			return text, nil
		}
	}

	return "", errors.New("message does not fit even without headlines")
}
