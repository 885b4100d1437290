// Package render builds RSS 2.0 documents out of collected headlines.
package render

import (
	"bytes"
	"embed"
	"encoding/xml"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"
	_ "time/tzdata" // digests are dated in Madrid time on any host

	"github.com/Semior001/newsdigest/app/store"
	"github.com/Semior001/newsdigest/app/topic"
)

//go:embed data/*.tmpl
var tmplFS embed.FS

var tmpl = template.Must(template.New("").ParseFS(tmplFS, "data/*.tmpl"))

const (
	displayDate = "02/01/2006"
	language    = "es-es"
	defaultIcon = "🗞️"
)

// Layout defines how headlines of a topic are laid out in the feed.
type Layout string

const (
	// LayoutDigest renders a single item with a numbered list of headlines.
	LayoutDigest Layout = "digest"
	// LayoutItems renders an item per headline.
	LayoutItems Layout = "items"
)

// ParseLayout parses the layout name.
func ParseLayout(s string) (Layout, error) {
	switch l := Layout(s); l {
	case LayoutDigest, LayoutItems:
		return l, nil
	case "":
		return LayoutDigest, nil
	default:
		return "", fmt.Errorf("unknown layout %q", s)
	}
}

// Placeholder returns the headline rendered for a topic nothing was found for.
func Placeholder(t topic.Topic) store.Headline {
	return store.Headline{
		Title:   "Sin titulares disponibles para " + t.Title,
		Summary: "No se han encontrado noticias para esta categoría.",
	}
}

// Renderer renders topic feeds.
type Renderer struct {
	// BaseURL is the location the files are published at, channel
	// links are made of it.
	BaseURL string
	Ext     string
	// Location is the time zone dates are rendered in, UTC if nil.
	Location *time.Location
	// SummaryLen limits summaries in the combined digest, in runes.
	SummaryLen int
	Now        func() time.Time
}

// Section is a topic with its headlines, as part of the combined digest.
type Section struct {
	Topic     topic.Topic
	Headlines []store.Headline
}

// Channel describes the combined digest document.
type Channel struct {
	Slug        string
	Title       string
	Description string
}

// Link returns the public URL of the file rendered for slug.
func (r *Renderer) Link(slug string) string {
	return strings.TrimRight(r.BaseURL, "/") + "/" + slug + r.Ext
}

// Topic writes the feed of a single topic. A topic without headlines is
// rendered with a placeholder item.
func (r *Renderer) Topic(w io.Writer, layout Layout, t topic.Topic, hs []store.Headline) error {
	if len(hs) == 0 {
		hs = []store.Headline{Placeholder(t)}
	}

	now := r.now()
	ch := channel{
		Title:         t.Title,
		Link:          r.Link(t.Slug),
		Description:   t.ChannelDescription(),
		Language:      language,
		LastBuildDate: now.Format(time.RFC1123Z),
	}

	switch layout {
	case LayoutItems:
		for _, h := range hs {
			desc, err := execute("item.html.tmpl", struct {
				store.Headline
				Icon string
			}{Headline: h, Icon: t.Icon})
			if err != nil {
				return err
			}

			it := item{
				Title:       h.Title,
				Link:        h.URL,
				Description: cdata{Text: desc},
				PubDate:     now.Format(time.RFC1123Z),
			}
			if h.URL != "" {
				it.GUID = &guid{IsPermaLink: true, Value: h.URL}
			}

			ch.Items = append(ch.Items, it)
		}
	case LayoutDigest, "":
		type numbered struct {
			store.Headline
			N int
		}

		list := make([]numbered, len(hs))
		for i, h := range hs {
			list[i] = numbered{Headline: h, N: i + 1}
		}

		desc, err := execute("digest.html.tmpl", struct {
			Headlines []numbered
			Date      string
		}{Headlines: list, Date: now.Format(displayDate)})
		if err != nil {
			return err
		}

		ch.Items = []item{{
			Title:       t.Title + " - " + now.Format(displayDate),
			Description: cdata{Text: desc},
			PubDate:     now.Format(time.RFC1123Z),
		}}
	default:
		return fmt.Errorf("unknown layout %q", layout)
	}

	return write(w, ch)
}

// Combined writes a single document with a section per topic.
func (r *Renderer) Combined(w io.Writer, c Channel, sections []Section) error {
	type view struct {
		Icon      string
		Title     string
		Headlines []store.Headline
	}

	views := make([]view, len(sections))
	for i, s := range sections {
		views[i] = view{Icon: s.Topic.Icon, Title: s.Topic.Title}
		if views[i].Icon == "" {
			views[i].Icon = defaultIcon
		}
		for _, h := range s.Headlines {
			h.Summary = store.TruncateText(strings.Join(strings.Fields(h.Summary), " "), r.SummaryLen)
			views[i].Headlines = append(views[i].Headlines, h)
		}
	}

	desc, err := execute("combined.html.tmpl", struct{ Sections []view }{Sections: views})
	if err != nil {
		return err
	}

	now := r.now()
	return write(w, channel{
		Title:         c.Title,
		Link:          r.Link(c.Slug),
		Description:   c.Description,
		Language:      language,
		LastBuildDate: now.Format(time.RFC1123Z),
		Items: []item{{
			Title:       "🗓️ Noticias del día " + now.Format(displayDate),
			Description: cdata{Text: desc},
			PubDate:     now.Format(time.RFC1123Z),
		}},
	})
}

func (r *Renderer) now() time.Time {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}

	loc := r.Location
	if loc == nil {
		loc = time.UTC
	}

	return now().In(loc)
}

type rss struct {
	XMLName xml.Name `xml:"rss"`
	Version string   `xml:"version,attr"`
	Channel channel  `xml:"channel"`
}

type channel struct {
	Title         string `xml:"title"`
	Link          string `xml:"link"`
	Description   string `xml:"description"`
	Language      string `xml:"language"`
	LastBuildDate string `xml:"lastBuildDate"`
	Items         []item `xml:"item"`
}

type item struct {
	Title       string `xml:"title"`
	Link        string `xml:"link,omitempty"`
	GUID        *guid  `xml:"guid,omitempty"`
	Description cdata  `xml:"description"`
	PubDate     string `xml:"pubDate"`
}

type guid struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

type cdata struct {
	Text string `xml:",cdata"`
}

func execute(name string, data any) (string, error) {
	buf := &bytes.Buffer{}
	if err := tmpl.ExecuteTemplate(buf, name, data); err != nil {
		return "", fmt.Errorf("execute %s: %w", name, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func write(w io.Writer, ch channel) error {
	// CDATA sections are written as is, so every text is cleaned up
	ch.Title, ch.Description = xmlSafe(ch.Title), xmlSafe(ch.Description)
	for i, it := range ch.Items {
		it.Title, it.Link = xmlSafe(it.Title), xmlSafe(it.Link)
		it.Description.Text = xmlSafe(it.Description.Text)
		ch.Items[i] = it
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(rss{Version: "2.0", Channel: ch}); err != nil {
		return fmt.Errorf("encode rss: %w", err)
	}

	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("write trailing newline: %w", err)
	}

	return nil
}

// xmlSafe drops runes that are not allowed in XML 1.0 documents.
func xmlSafe(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t', r == '\n', r == '\r':
		case r >= 0x20 && r <= 0xD7FF:
		case r >= 0xE000 && r <= 0xFFFD:
		case r >= 0x10000 && r <= 0x10FFFF:
		default:
			return -1
		}
		return r
	}, s)
}

// LoadLocation returns the named time zone, falling back to UTC.
func LoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}
