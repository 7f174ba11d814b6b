package pages

import (
	"bytes"
	"errors"
	"fmt"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/PuerkitoBio/goquery"
)

// DefaultContentSelector matches the main content container of a docs page
const DefaultContentSelector = `div[role="main"]`

// ErrContentNotFound is returned when a page has no element matching the content selector
var ErrContentNotFound = errors.New("content region not found")

// Converter turns an HTML page into readable text
type Converter interface {
	Convert(html []byte) (string, error)
}

// MarkdownConverter renders the content region of a page as GitHub-flavoured markdown
type MarkdownConverter struct {
	selector           string
	fallbackToDocument bool
	converter          *md.Converter
}

// ConverterOptions configures NewMarkdownConverter
type ConverterOptions struct {
	// Selector picks the content region; empty means DefaultContentSelector
	Selector string

	// FallbackToDocument converts the whole <body> when Selector matches nothing.
	// When false a missing region is an ErrContentNotFound error.
	FallbackToDocument bool
}

// NewMarkdownConverter creates a converter with fenced code blocks and "---" rules
func NewMarkdownConverter(opts ConverterOptions) *MarkdownConverter {
	if opts.Selector == "" {
		opts.Selector = DefaultContentSelector
	}

	converter := md.NewConverter("", true, &md.Options{
		HorizontalRule: "---",
		CodeBlockStyle: "fenced",
	})
	converter.Use(plugin.GitHubFlavored())

	return &MarkdownConverter{
		selector:           opts.Selector,
		fallbackToDocument: opts.FallbackToDocument,
		converter:          converter,
	}
}

// Convert implements Converter
func (c *MarkdownConverter) Convert(html []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse html: %w", err)
	}

	content := doc.Find(c.selector).First()
	if content.Length() == 0 {
		if !c.fallbackToDocument {
			return "", fmt.Errorf("%w: %s", ErrContentNotFound, c.selector)
		}
		content = doc.Find("body")
	}

	return c.converter.Convert(content), nil
}
