// Package trs defines the GA4GH Tool Registry Service entities yevis
// publishes, the rules for rebuilding them from workflow metadata, and a
// client for reading an already published registry endpoint.
package trs

import (
	"crypto/sha256"
	"fmt"

	"github.com/sapporo-wes/yevis-cli-sub000/internal/metadata"
)

// Checksum is a digest of a file's content.
type Checksum struct {
	Checksum string `json:"checksum"`
	Type     string `json:"type"`
}

// NewChecksum computes the sha256 checksum of content.
func NewChecksum(content []byte) Checksum {
	return Checksum{
		Checksum: fmt.Sprintf("%x", sha256.Sum256(content)),
		Type:     "sha256",
	}
}

// FileWrapper carries a file as inline content, a URL, or both. A wrapper
// whose content could not be fetched still carries the URL so clients can
// retry on their side.
type FileWrapper struct {
	Content  *string    `json:"content,omitempty"`
	Checksum []Checksum `json:"checksum,omitempty"`
	URL      string     `json:"url,omitempty"`
}

// FileType classifies the files listed for a tool version.
type FileType string

// Tool file types, as the TRS specification spells them.
const (
	FileTypeTestFile            FileType = "TEST_FILE"
	FileTypePrimaryDescriptor   FileType = "PRIMARY_DESCRIPTOR"
	FileTypeSecondaryDescriptor FileType = "SECONDARY_DESCRIPTOR"
	FileTypeContainerfile       FileType = "CONTAINERFILE"
	FileTypeOther               FileType = "OTHER"
)

// FileTypeFromMetadata maps a workflow file classification to its TRS file
// type.
func FileTypeFromMetadata(t metadata.FileType) FileType {
	switch t {
	case metadata.FileTypePrimary:
		return FileTypePrimaryDescriptor
	case metadata.FileTypeSecondary:
		return FileTypeSecondaryDescriptor
	default:
		return FileTypeOther
	}
}

// ToolFile is one entry of the files listing of a tool version.
type ToolFile struct {
	Path     string    `json:"path,omitempty"`
	FileType FileType  `json:"file_type,omitempty"`
	Checksum *Checksum `json:"checksum,omitempty"`
}

// DescriptorType is the TRS descriptor type enumeration.
type DescriptorType string

// Descriptor types. GALAXY never originates from yevis metadata but occurs
// in registries published by other implementations.
const (
	DescriptorTypeCWL     DescriptorType = "CWL"
	DescriptorTypeWDL     DescriptorType = "WDL"
	DescriptorTypeNFL     DescriptorType = "NFL"
	DescriptorTypeSMK     DescriptorType = "SMK"
	DescriptorTypeGalaxy  DescriptorType = "GALAXY"
	DescriptorTypeUnknown DescriptorType = "UNKNOWN"
)

// DescriptorTypeFromLanguage maps a workflow language to its TRS descriptor
// type.
func DescriptorTypeFromLanguage(lang metadata.LanguageType) DescriptorType {
	switch lang {
	case metadata.LanguageCWL:
		return DescriptorTypeCWL
	case metadata.LanguageWDL:
		return DescriptorTypeWDL
	case metadata.LanguageNFL:
		return DescriptorTypeNFL
	case metadata.LanguageSMK:
		return DescriptorTypeSMK
	case metadata.LanguageUnknown:
		return DescriptorTypeUnknown
	default:
		return DescriptorTypeUnknown
	}
}

// DescriptorTypeWithPlain extends DescriptorType with the PLAIN_ variants
// TRS clients may request descriptors under.
type DescriptorTypeWithPlain string

// Descriptor types including plain variants.
const (
	DescriptorTypeWithPlainCWL         DescriptorTypeWithPlain = "CWL"
	DescriptorTypeWithPlainWDL         DescriptorTypeWithPlain = "WDL"
	DescriptorTypeWithPlainNFL         DescriptorTypeWithPlain = "NFL"
	DescriptorTypeWithPlainSMK         DescriptorTypeWithPlain = "SMK"
	DescriptorTypeWithPlainGalaxy      DescriptorTypeWithPlain = "GALAXY"
	DescriptorTypeWithPlainPlainCWL    DescriptorTypeWithPlain = "PLAIN_CWL"
	DescriptorTypeWithPlainPlainWDL    DescriptorTypeWithPlain = "PLAIN_WDL"
	DescriptorTypeWithPlainPlainNFL    DescriptorTypeWithPlain = "PLAIN_NFL"
	DescriptorTypeWithPlainPlainSMK    DescriptorTypeWithPlain = "PLAIN_SMK"
	DescriptorTypeWithPlainPlainGalaxy DescriptorTypeWithPlain = "PLAIN_GALAXY"
)

// Plain returns the PLAIN_ variant of a descriptor type.
func (d DescriptorType) Plain() DescriptorTypeWithPlain {
	return DescriptorTypeWithPlain("PLAIN_" + string(d))
}

// ImageType is the TRS image type enumeration.
type ImageType string

// Image types.
const (
	ImageTypeDocker      ImageType = "Docker"
	ImageTypeSingularity ImageType = "Singularity"
	ImageTypeConda       ImageType = "Conda"
)

// ImageData describes a container image associated with a tool version.
// yevis never emits images but parses them from foreign registries.
type ImageData struct {
	RegistryHost string     `json:"registry_host,omitempty"`
	ImageName    string     `json:"image_name,omitempty"`
	Size         *int64     `json:"size,omitempty"`
	Updated      string     `json:"updated,omitempty"`
	Checksum     []Checksum `json:"checksum,omitempty"`
	ImageType    *ImageType `json:"image_type,omitempty"`
}
