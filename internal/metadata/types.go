// Package metadata models the workflow metadata records a publish consumes
// and loads them from local files or remote URLs.
package metadata

import (
	"errors"

	"github.com/google/uuid"
)

// FileType classifies a workflow file entry.
type FileType string

const (
	// FileTypePrimary marks the main workflow descriptor. A workflow has
	// exactly one primary file.
	FileTypePrimary FileType = "primary"
	// FileTypeSecondary marks any supporting workflow file.
	FileTypeSecondary FileType = "secondary"
)

// TestFileType classifies a file attached to a test case.
type TestFileType string

const (
	// TestFileTypeWfParams is a workflow parameters file.
	TestFileTypeWfParams TestFileType = "wf_params"
	// TestFileTypeWfEngineParams is a workflow engine parameters file.
	TestFileTypeWfEngineParams TestFileType = "wf_engine_params"
	// TestFileTypeOther is any other test input.
	TestFileTypeOther TestFileType = "other"
)

// LanguageType is the workflow language enumeration.
type LanguageType string

const (
	// LanguageCWL is the Common Workflow Language.
	LanguageCWL LanguageType = "CWL"
	// LanguageWDL is the Workflow Description Language.
	LanguageWDL LanguageType = "WDL"
	// LanguageNFL is Nextflow.
	LanguageNFL LanguageType = "NFL"
	// LanguageSMK is Snakemake.
	LanguageSMK LanguageType = "SMK"
	// LanguageUnknown is any language yevis cannot identify.
	LanguageUnknown LanguageType = "UNKNOWN"
)

// Record is one workflow metadata document, the unit a publish operates on.
// The pair (ID, Version) identifies a workflow version; re-publishing the
// same pair replaces the corresponding registry entry.
type Record struct {
	ID       uuid.UUID `json:"id"`
	Version  string    `json:"version"`
	License  string    `json:"license"`
	Authors  []Author  `json:"authors"`
	Zenodo   *Zenodo   `json:"zenodo,omitempty"`
	Workflow Workflow  `json:"workflow"`
}

// Author identifies one workflow author.
type Author struct {
	GitHubAccount string `json:"github_account"`
	Name          string `json:"name,omitempty"`
	Affiliation   string `json:"affiliation,omitempty"`
	ORCID         string `json:"orcid,omitempty"`
}

// Workflow describes the workflow a record publishes.
type Workflow struct {
	Name     string    `json:"name"`
	Readme   string    `json:"readme"`
	Language Language  `json:"language"`
	Files    []File    `json:"files"`
	Testing  []Testing `json:"testing"`
}

// Language names the workflow language and its version.
type Language struct {
	Type    LanguageType `json:"type"`
	Version string       `json:"version"`
}

// File is one workflow file reference.
type File struct {
	URL    string   `json:"url"`
	Target string   `json:"target,omitempty"`
	Type   FileType `json:"type"`
}

// Testing is one test case bundled with the workflow.
type Testing struct {
	ID    string     `json:"id"`
	Files []TestFile `json:"files"`
}

// TestFile is one file belonging to a test case.
type TestFile struct {
	URL    string       `json:"url"`
	Target string       `json:"target,omitempty"`
	Type   TestFileType `json:"type"`
}

// Zenodo records the deposition a published workflow version is archived in.
type Zenodo struct {
	URL        string `json:"url"`
	ID         uint64 `json:"id"`
	DOI        string `json:"doi"`
	ConceptDOI string `json:"concept_doi"`
}

// ErrNoPrimaryWorkflow is returned when a record has no primary file entry.
var ErrNoPrimaryWorkflow = errors.New("no primary workflow file")

// PrimaryWorkflow returns the files entry marked primary.
func (w *Workflow) PrimaryWorkflow() (File, error) {
	for _, f := range w.Files {
		if f.Type == FileTypePrimary {
			return f, nil
		}
	}
	return File{}, ErrNoPrimaryWorkflow
}
