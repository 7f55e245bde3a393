package trs

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/sapporo-wes/yevis-cli-sub000/internal/httpclient"
	"github.com/sapporo-wes/yevis-cli-sub000/internal/versions"
)

// Endpoint reads TRS documents from a published registry, typically the
// GitHub Pages site of a registry repository.
type Endpoint struct {
	base   string
	client httpclient.Client
}

// EndpointOption configures an Endpoint.
type EndpointOption func(*Endpoint)

// WithClient replaces the underlying HTTP client.
func WithClient(client httpclient.Client) EndpointOption {
	return func(e *Endpoint) {
		e.client = client
	}
}

// NewEndpoint creates an endpoint client for the given base URL. A trailing
// slash on the base is optional.
func NewEndpoint(baseURL string, opts ...EndpointOption) *Endpoint {
	e := &Endpoint{
		base:   strings.TrimRight(baseURL, "/"),
		client: httpclient.NewDefaultClient(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewGitHubPagesEndpoint creates an endpoint client for the GitHub Pages
// site of owner/repo.
func NewGitHubPagesEndpoint(owner, repo string, opts ...EndpointOption) *Endpoint {
	return NewEndpoint(fmt.Sprintf("https://%s.github.io/%s", owner, repo), opts...)
}

// Base returns the normalized endpoint base URL.
func (e *Endpoint) Base() string {
	return e.base
}

func (e *Endpoint) get(ctx context.Context, path string, v any) error {
	url := e.base + "/" + path
	data, err := e.client.Get(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", url, err)
	}
	return nil
}

// ServiceInfo fetches the service-info document.
func (e *Endpoint) ServiceInfo(ctx context.Context) (*ServiceInfo, error) {
	var si ServiceInfo
	if err := e.get(ctx, "service-info", &si); err != nil {
		return nil, err
	}
	return &si, nil
}

// ToolClasses fetches the registered tool classes.
func (e *Endpoint) ToolClasses(ctx context.Context) ([]ToolClass, error) {
	var classes []ToolClass
	if err := e.get(ctx, "toolClasses", &classes); err != nil {
		return nil, err
	}
	return classes, nil
}

// Tools fetches all registered tools.
func (e *Endpoint) Tools(ctx context.Context) ([]Tool, error) {
	var tools []Tool
	if err := e.get(ctx, "tools", &tools); err != nil {
		return nil, err
	}
	return tools, nil
}

// Tool fetches one tool by id.
func (e *Endpoint) Tool(ctx context.Context, id uuid.UUID) (*Tool, error) {
	var tool Tool
	if err := e.get(ctx, fmt.Sprintf("tools/%s", id), &tool); err != nil {
		return nil, err
	}
	return &tool, nil
}

// ToolVersions fetches the version entries of one tool.
func (e *Endpoint) ToolVersions(ctx context.Context, id uuid.UUID) ([]ToolVersion, error) {
	var vs []ToolVersion
	if err := e.get(ctx, fmt.Sprintf("tools/%s/versions", id), &vs); err != nil {
		return nil, err
	}
	return vs, nil
}

// Validate confirms the endpoint is a yevis registry with a schema version
// this build can publish into.
func (e *Endpoint) Validate(ctx context.Context) error {
	si, err := e.ServiceInfo(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch service-info from %s: %w", e.base, err)
	}

	if si.Type.Artifact != ServiceTypeArtifact {
		return fmt.Errorf("endpoint %s is not a yevis registry: service type artifact is %q", e.base, si.Type.Artifact)
	}
	if si.Type.Version != SchemaVersion {
		if versions.IsNewerVersion(si.Type.Version, SchemaVersion) {
			return fmt.Errorf("endpoint %s uses registry schema %s, newer than the supported %s: upgrade yevis",
				e.base, si.Type.Version, SchemaVersion)
		}
		return fmt.Errorf("endpoint %s uses registry schema %s, expected %s", e.base, si.Type.Version, SchemaVersion)
	}
	return nil
}
