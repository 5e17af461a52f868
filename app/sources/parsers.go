package sources

import (
	"bytes"
	"cmp"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// Entry is the feed side of an item, as seen in the RSS document
type Entry struct {
	Title       string
	Description string
	Link        string
}

// Detail is what a parser extracts for one item
type Detail struct {
	Title       string
	Author      string
	Description string
}

// Parser turns an entry and its detail page into title, author and description.
type Parser interface {
	Parse(entry Entry, page []byte) (Detail, error)
}

var parsers = map[string]Parser{
	ynet:      ynetParser{},
	walla:     wallaParser{},
	"generic": genericParser{},
}

func ParserFor(name string) (Parser, error) {
	p, ok := parsers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownParser, name)
	}
	return p, nil
}

// ynetParser reads description and author from the page's ld+json block.
// The author is the last parenthesised group, the description runs from the
// "description" key to the first opening parenthesis.
type ynetParser struct{}

func (ynetParser) Parse(entry Entry, page []byte) (Detail, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return Detail{}, fmt.Errorf("failed to parse HTML: %w", err)
	}

	script := doc.Find(`script[type="application/ld+json"]`).First()
	if script.Length() == 0 {
		return Detail{}, fmt.Errorf("no ld+json block in %s", entry.Link)
	}
	text := script.Text()

	_, afterKey, found := strings.Cut(text, `"description"`)
	if !found {
		return Detail{}, fmt.Errorf("no description in ld+json block of %s", entry.Link)
	}
	description, _, _ := strings.Cut(afterKey, "(")
	description = strings.TrimSpace(strings.TrimLeft(description, `: "`))

	author := text
	if i := strings.LastIndex(author, "("); i >= 0 {
		author = author[i+1:]
	}
	author, _, _ = strings.Cut(author, ")")

	return Detail{
		Title:       strings.TrimSpace(entry.Title),
		Author:      strings.TrimSpace(author),
		Description: description,
	}, nil
}

// wallaParser takes the title from the page because the feed title loses its
// CDATA content.
type wallaParser struct{}

func (wallaParser) Parse(entry Entry, page []byte) (Detail, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return Detail{}, fmt.Errorf("failed to parse HTML: %w", err)
	}

	title := doc.Find("h1.title").First()
	if title.Length() == 0 {
		return Detail{}, fmt.Errorf("no title in %s", entry.Link)
	}

	return Detail{
		Title:       strings.TrimSpace(title.Text()),
		Author:      strings.TrimSpace(doc.Find("div.author").First().Text()),
		Description: strings.TrimSpace(entry.Description),
	}, nil
}

type genericParser struct{}

func (genericParser) Parse(entry Entry, page []byte) (Detail, error) {
	if len(page) == 0 {
		return Detail{}, fmt.Errorf("HTML data is empty")
	}

	pageURL, err := url.Parse(entry.Link)
	if err != nil {
		pageURL = nil
	}

	article, err := readability.FromReader(bytes.NewReader(page), pageURL)
	if err != nil {
		return Detail{}, fmt.Errorf("failed to extract content: %w", err)
	}

	return Detail{
		Title:       strings.TrimSpace(cmp.Or(entry.Title, article.Title)),
		Author:      strings.TrimSpace(article.Byline),
		Description: strings.TrimSpace(cmp.Or(article.Excerpt, article.TextContent, entry.Description)),
	}, nil
}
