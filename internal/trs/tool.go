package trs

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/sapporo-wes/yevis-cli-sub000/internal/metadata"
)

// CheckerURL points at the workflow checker yevis runs before a publish.
const CheckerURL = "https://github.com/sapporo-wes/yevis-cli"

// Tool is one registered workflow with all of its published versions.
type Tool struct {
	URL          string        `json:"url"`
	ID           uuid.UUID     `json:"id"`
	Aliases      []string      `json:"aliases,omitempty"`
	Organization string        `json:"organization"`
	Name         string        `json:"name,omitempty"`
	ToolClass    ToolClass     `json:"toolclass"`
	Description  string        `json:"description,omitempty"`
	MetaVersion  string        `json:"meta_version,omitempty"`
	HasChecker   *bool         `json:"has_checker,omitempty"`
	CheckerURL   string        `json:"checker_url,omitempty"`
	Versions     []ToolVersion `json:"versions"`
}

// ToolVersion is one published version of a tool. Its ID is the version
// identifier, while the owning Tool carries the workflow UUID.
type ToolVersion struct {
	Author         []string         `json:"author,omitempty"`
	Name           string           `json:"name,omitempty"`
	URL            string           `json:"url"`
	ID             string           `json:"id"`
	IsProduction   *bool            `json:"is_production,omitempty"`
	Images         []ImageData      `json:"images,omitempty"`
	DescriptorType []DescriptorType `json:"descriptor_type,omitempty"`
	Containerfile  *bool            `json:"containerfile,omitempty"`
	MetaVersion    string           `json:"meta_version,omitempty"`
	Verified       *bool            `json:"verified,omitempty"`
	VerifiedSource []string         `json:"verified_source,omitempty"`
	Signed         *bool            `json:"signed,omitempty"`
	IncludedApps   []string         `json:"included_apps,omitempty"`
}

// Version returns the version identifier, the last path segment of the
// version URL.
func (v *ToolVersion) Version() string {
	u, err := url.Parse(v.URL)
	if err != nil {
		return ""
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	return segments[len(segments)-1]
}

// NewTool builds the registry entry shell for a workflow. Versions are
// appended separately via UpsertVersion.
func NewTool(rec *metadata.Record, owner, repo string) Tool {
	accounts := make([]string, 0, len(rec.Authors))
	for _, author := range rec.Authors {
		accounts = append(accounts, "@"+author.GitHubAccount)
	}

	hasChecker := true
	return Tool{
		URL:          fmt.Sprintf("https://%s.github.io/%s/tools/%s", owner, repo, rec.ID),
		ID:           rec.ID,
		Organization: strings.Join(accounts, ", "),
		Name:         rec.Workflow.Name,
		ToolClass:    DefaultToolClass(),
		Description:  rec.Workflow.Readme,
		HasChecker:   &hasChecker,
		CheckerURL:   CheckerURL,
	}
}

// UpsertVersion rebuilds the version entry for rec and appends it. If an
// entry for the same version already exists it is replaced, and its
// verification provenance is carried over: newSources are concatenated onto
// the previous verified_source list, and the entry counts as verified
// whenever that merged list is non-empty.
func (t *Tool) UpsertVersion(rec *metadata.Record, newSources []string) {
	version := rec.Version

	var mergedSources []string
	versions := make([]ToolVersion, 0, len(t.Versions)+1)
	for _, v := range t.Versions {
		if v.Version() == version {
			mergedSources = append(mergedSources, v.VerifiedSource...)
			continue
		}
		versions = append(versions, v)
	}
	mergedSources = append(mergedSources, newSources...)

	accounts := make([]string, 0, len(rec.Authors))
	for _, author := range rec.Authors {
		accounts = append(accounts, author.GitHubAccount)
	}

	verified := len(mergedSources) > 0
	t.Versions = append(versions, ToolVersion{
		Author:         accounts,
		Name:           rec.Workflow.Name,
		URL:            fmt.Sprintf("%s/versions/%s", t.URL, version),
		ID:             version,
		DescriptorType: []DescriptorType{DescriptorTypeFromLanguage(rec.Workflow.Language.Type)},
		Verified:       &verified,
		VerifiedSource: mergedSources,
	})
}

// FindVersion returns the version entry with the given version identifier.
func (t *Tool) FindVersion(version string) (*ToolVersion, bool) {
	for i := range t.Versions {
		if t.Versions[i].Version() == version {
			return &t.Versions[i], true
		}
	}
	return nil, false
}
