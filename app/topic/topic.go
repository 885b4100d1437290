// Package topic defines the subjects headlines are collected for.
package topic

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

//go:embed data/topics.yml
var defaultTopics []byte

var reSlug = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Topic is a named subject, mapped to the queries used to search for it
// and to the output file it is rendered into.
type Topic struct {
	Slug        string   `yaml:"slug"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Icon        string   `yaml:"icon"`
	Queries     []string `yaml:"queries"`
	Feeds       []string `yaml:"feeds"`
}

// Query returns the primary query of the topic.
func (t Topic) Query() string {
	if len(t.Queries) == 0 {
		return t.Title
	}
	return t.Queries[0]
}

// ChannelDescription returns the description of the feed channel.
func (t Topic) ChannelDescription() string {
	if t.Description != "" {
		return t.Description
	}
	return t.Title + " — recopilación automática."
}

// Defaults returns the embedded topic set.
func Defaults() []Topic {
	ts, err := Parse(defaultTopics)
	if err != nil {
		panic(fmt.Sprintf("embedded topics are invalid: %v", err))
	}
	return ts
}

// Load reads topics from the YAML file at path.
func Load(path string) ([]Topic, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open topics file: %w", err)
	}
	defer f.Close()

	bts, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read topics file: %w", err)
	}

	return Parse(bts)
}

// Parse decodes and validates a YAML list of topics.
func Parse(bts []byte) ([]Topic, error) {
	var ts []Topic
	if err := yaml.Unmarshal(bts, &ts); err != nil {
		return nil, fmt.Errorf("unmarshal topics: %w", err)
	}

	if len(ts) == 0 {
		return nil, errors.New("no topics defined")
	}

	seen := map[string]struct{}{}
	for i, t := range ts {
		if !reSlug.MatchString(t.Slug) {
			return nil, fmt.Errorf("topic #%d: invalid slug %q", i, t.Slug)
		}
		if _, ok := seen[t.Slug]; ok {
			return nil, fmt.Errorf("topic #%d: duplicate slug %q", i, t.Slug)
		}
		seen[t.Slug] = struct{}{}

		if t.Title == "" {
			return nil, fmt.Errorf("topic %s: empty title", t.Slug)
		}
	}

	return ts, nil
}
