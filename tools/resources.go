package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// VersionsResourceURI lists the versions the tools accept
const VersionsResourceURI = "godot-docs://versions"

// VersionsInfo is the body of the versions resource
type VersionsInfo struct {
	Versions []string `json:"versions"`
	Default  string   `json:"default"`
}

// Versions returns the supported versions and the default
func (d *DocSearch) Versions() VersionsInfo {
	return VersionsInfo{
		Versions: append([]string(nil), d.versions...),
		Default:  d.defaultVersion,
	}
}

// ReadVersions serves VersionsResourceURI
func (d *DocSearch) ReadVersions(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	data, err := json.Marshal(d.Versions())
	if err != nil {
		return nil, fmt.Errorf("failed to encode versions: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      VersionsResourceURI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// RegisterDocResources registers the versions resource
func RegisterDocResources(server *mcp.Server, d *DocSearch) {
	server.AddResource(
		&mcp.Resource{
			URI:         VersionsResourceURI,
			Name:        "versions",
			Description: "Documentation versions accepted by the search tools and the default version",
			MIMEType:    "application/json",
		},
		d.ReadVersions,
	)
}
