package trs

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	// SchemaVersion is the registry schema version this build of yevis
	// understands and stamps into new service-info documents.
	SchemaVersion = "2.0.1"

	// ServiceTypeGroup and ServiceTypeArtifact identify documents produced
	// by yevis.
	ServiceTypeGroup    = "yevis"
	ServiceTypeArtifact = "yevis"

	// templateRegistryName is the service name the registry template
	// repository ships with. A snapshot still carrying it is treated as
	// uninitialized and regenerated from scratch.
	templateRegistryName = "Yevis workflow registry sapporo-wes/yevis-workflow-registry-template"

	serviceDescription = "The GA4GH TRS API generated by Yevis (https://github.com/sapporo-wes/yevis-cli)"

	// serviceInfoVersionLayout is the time layout of the service-info
	// version field, a second-resolution UTC stamp without separators.
	serviceInfoVersionLayout = "20060102150405"
)

// Timestamp renders as second-resolution UTC (e.g. 2022-01-02T15:04:05Z),
// the form existing registries already contain.
type Timestamp struct {
	time.Time
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.UTC().Truncate(time.Second).Format(time.RFC3339))
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// ServiceType identifies the API a service implements, per the GA4GH
// service-info specification.
type ServiceType struct {
	Group    string `json:"group"`
	Artifact string `json:"artifact"`
	Version  string `json:"version"`
}

// DefaultServiceType returns the service type yevis publishes.
func DefaultServiceType() ServiceType {
	return ServiceType{
		Group:    ServiceTypeGroup,
		Artifact: ServiceTypeArtifact,
		Version:  SchemaVersion,
	}
}

// Organization names the organization running the service.
type Organization struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ServiceInfo is the GA4GH service-info document at the root of a registry.
// Unlike the other TRS entities it uses camelCase field names on the wire.
type ServiceInfo struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Type             ServiceType  `json:"type"`
	Description      *string      `json:"description,omitempty"`
	Organization     Organization `json:"organization"`
	ContactURL       *string      `json:"contactUrl,omitempty"`
	DocumentationURL *string      `json:"documentationUrl,omitempty"`
	CreatedAt        *Timestamp   `json:"createdAt,omitempty"`
	UpdatedAt        *Timestamp   `json:"updatedAt,omitempty"`
	Environment      *string      `json:"environment,omitempty"`
	Version          string       `json:"version"`
}

// NewServiceInfo builds a fresh service-info document for the registry
// hosted on the GitHub Pages site of owner/repo.
func NewServiceInfo(owner, repo string) ServiceInfo {
	now := Timestamp{time.Now().UTC()}
	description := serviceDescription
	return ServiceInfo{
		ID:          fmt.Sprintf("io.github.%s.%s", owner, repo),
		Name:        fmt.Sprintf("Yevis workflow registry %s/%s", owner, repo),
		Type:        DefaultServiceType(),
		Description: &description,
		Organization: Organization{
			Name: owner,
			URL:  fmt.Sprintf("https://github.com/%s", owner),
		},
		CreatedAt: &now,
		UpdatedAt: &now,
		Version:   now.UTC().Format(serviceInfoVersionLayout),
	}
}

// MergeServiceInfo carries identity fields over from the previously
// published service-info while always refreshing updatedAt and version.
// A nil prev, or one still named after the registry template, yields a
// fresh document.
func MergeServiceInfo(prev *ServiceInfo, owner, repo string) ServiceInfo {
	next := NewServiceInfo(owner, repo)
	if prev == nil || prev.Name == templateRegistryName {
		return next
	}

	next.ID = prev.ID
	next.Name = prev.Name
	next.Type = prev.Type
	next.Description = prev.Description
	next.Organization = prev.Organization
	next.ContactURL = prev.ContactURL
	next.DocumentationURL = prev.DocumentationURL
	next.CreatedAt = prev.CreatedAt
	next.Environment = prev.Environment
	return next
}
