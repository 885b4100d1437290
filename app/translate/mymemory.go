package translate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/exp/slog"
)

// MyMemoryURL is the default endpoint of the MyMemory translation API.
const MyMemoryURL = "https://api.mymemory.translated.net/get"

// ErrQuotaExceeded is returned when the free MyMemory quota is used up.
var ErrQuotaExceeded = errors.New("translation quota exceeded")

// MyMemory translates texts with the free MyMemory API.
type MyMemory struct {
	Logger  *slog.Logger
	Client  *http.Client
	BaseURL string
	// Email raises the daily quota of anonymous requests.
	Email string
}

type myMemoryResponse struct {
	ResponseData struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
	ResponseStatus  flexInt `json:"responseStatus"`
	ResponseDetails string  `json:"responseDetails"`
}

// flexInt accepts both numbers and numeric strings, MyMemory uses both
// for the response status.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("parse status %q: %w", s, err)
	}
	*f = flexInt(v)
	return nil
}

// Translate translates text.
func (m *MyMemory) Translate(ctx context.Context, text, from, to string) (string, error) {
	base := m.BaseURL
	if base == "" {
		base = MyMemoryURL
	}

	q := url.Values{}
	q.Set("q", text)
	q.Set("langpair", from+"|"+to)
	if m.Email != "" {
		q.Set("de", m.Email)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+q.Encode(), http.NoBody)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	resp, err := m.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			m.Logger.WarnCtx(ctx, "failed to close response body", slog.Any("err", err))
		}
	}()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", ErrQuotaExceeded
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("bad status code: %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var mr myMemoryResponse
	if err = json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	switch {
	case mr.ResponseStatus == http.StatusTooManyRequests,
		strings.HasPrefix(mr.ResponseData.TranslatedText, "MYMEMORY WARNING"):
		return "", ErrQuotaExceeded
	case mr.ResponseStatus != 0 && mr.ResponseStatus != http.StatusOK:
		return "", fmt.Errorf("mymemory responded with status %d: %s", mr.ResponseStatus, mr.ResponseDetails)
	}

	// translations come with html entities, e.g. &#39;
	return html.UnescapeString(mr.ResponseData.TranslatedText), nil
}
