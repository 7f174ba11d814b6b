package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	toolschema "github.com/google/jsonschema-go/jsonschema"
	"github.com/james2doyle/godot-docs-mcp/internal/pages"
	"github.com/james2doyle/godot-docs-mcp/internal/search"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	ToolSearchDocs         = "search_docs"
	ToolGetDocsPageForTerm = "get_docs_page_for_term"
)

// DocsInput defines input for both documentation tools
type DocsInput struct {
	SearchTerm string `json:"searchTerm" jsonschema:"Term to search the Godot documentation for"`
	Version    string `json:"version,omitempty" jsonschema:"Documentation version (optional)"`
}

// DocSearch composes ranking, URL resolution and the page cache into the two tools
type DocSearch struct {
	ranker         *search.Ranker
	resolver       search.Resolver
	pages          *pages.Cache
	validator      *InputValidator
	inputSchema    *toolschema.Schema
	versions       []string
	defaultVersion string
}

// NewDocSearch wires the tool façade; defaultVersion must be one of versions
func NewDocSearch(ranker *search.Ranker, resolver search.Resolver, cache *pages.Cache, versions []string, defaultVersion string) (*DocSearch, error) {
	validator, err := NewInputValidator(versions)
	if err != nil {
		return nil, err
	}

	if err := validator.Validate(DocsInput{Version: defaultVersion}); err != nil {
		return nil, fmt.Errorf("default version %q: %w", defaultVersion, err)
	}

	inputSchema, err := NewToolInputSchema(versions, defaultVersion)
	if err != nil {
		return nil, err
	}

	return &DocSearch{
		ranker:         ranker,
		resolver:       resolver,
		pages:          cache,
		validator:      validator,
		inputSchema:    inputSchema,
		versions:       append([]string(nil), versions...),
		defaultVersion: defaultVersion,
	}, nil
}

// SearchDocs returns the absolute URL of every match, one per line
func (d *DocSearch) SearchDocs(ctx context.Context, req *mcp.CallToolRequest, input DocsInput) (*mcp.CallToolResult, any, error) {
	urls, err := d.find(ctx, input)
	if err != nil {
		return nil, nil, err
	}
	if len(urls) == 0 {
		return notFoundResult(input.SearchTerm), nil, nil
	}
	return textResult(strings.Join(urls, "\n")), nil, nil
}

// GetDocsPageForTerm returns the converted content of the best match
func (d *DocSearch) GetDocsPageForTerm(ctx context.Context, req *mcp.CallToolRequest, input DocsInput) (*mcp.CallToolResult, any, error) {
	urls, err := d.find(ctx, input)
	if err != nil {
		return nil, nil, err
	}
	if len(urls) == 0 {
		return notFoundResult(input.SearchTerm), nil, nil
	}

	content, err := d.pages.GetPageContent(ctx, urls[0])
	if err != nil {
		var fetchErr *pages.FetchError
		if errors.As(err, &fetchErr) {
			return errorResult(fetchErr.Error()), nil, nil
		}
		return nil, nil, err
	}
	return textResult(content), nil, nil
}

// find validates input, queries the version's index and resolves the hits
func (d *DocSearch) find(ctx context.Context, input DocsInput) ([]string, error) {
	if err := d.validator.Validate(input); err != nil {
		return nil, err
	}

	version := input.Version
	if version == "" {
		version = d.defaultVersion
	}

	paths, err := d.ranker.Query(ctx, version, input.SearchTerm)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	return d.resolver.ResolveAll(version, paths), nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	result := textResult(text)
	result.IsError = true
	return result
}

func notFoundResult(term string) *mcp.CallToolResult {
	return errorResult(fmt.Sprintf("Failed to find any documentation for \"%s\"", term))
}

// RegisterDocSearchTools registers documentation search tools
func RegisterDocSearchTools(server *mcp.Server, d *DocSearch) {
	mcp.AddTool(server,
		&mcp.Tool{
			Name:        ToolSearchDocs,
			InputSchema: d.inputSchema,
			Description: "Search the Godot documentation by term. Returns URLs to the full documentation for each matching term. The resulting URLs will need to have their page content fetched to see the documentation.",
		},
		d.SearchDocs,
	)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        ToolGetDocsPageForTerm,
			InputSchema: d.inputSchema,
			Description: "Fetch content from the Godot documentation by term. Will only return a single documentation page for the first matching result.",
		},
		d.GetDocsPageForTerm,
	)
}
