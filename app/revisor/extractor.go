package revisor

import (
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/go-shiori/go-readability"
)

// Page is the readable part of a web page.
type Page struct {
	Title    string
	Excerpt  string
	Content  string
	Author   string
	ImageURL string
}

// Extractor is extracts the readable part of an HTML page.
type Extractor struct {
	parser readability.Parser
}

// NewExtractor creates new Extractor.
func NewExtractor(debug bool) Extractor {
	svc := Extractor{parser: readability.NewParser()}
	svc.parser.Debug = debug

	return svc
}

// Extract extracts page from an HTML document, located at pageURL.
func (e Extractor) Extract(rd io.Reader, pageURL *url.URL) (Page, error) {
	doc, err := e.parser.Parse(rd, pageURL)
	if err != nil {
		return Page{}, fmt.Errorf("parse html: %w", err)
	}

	return Page{
		Title:    doc.Title,
		Excerpt:  sanitize(doc.Excerpt),
		Content:  sanitize(doc.TextContent),
		Author:   doc.Byline,
		ImageURL: doc.Image,
	}, nil
}

var spaces = regexp.MustCompile(`\s+`)

func sanitize(s string) string {
	// nbsp
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.TrimSpace(spaces.ReplaceAllString(s, " "))
}
