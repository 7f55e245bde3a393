package registry

import (
	"github.com/google/uuid"

	"github.com/sapporo-wes/yevis-cli-sub000/internal/metadata"
	"github.com/sapporo-wes/yevis-cli-sub000/internal/trs"
)

// RecordOption is a function that configures a workflow record for testing
type RecordOption func(*metadata.Record)

// NewTestRecord creates a workflow record for testing with default values
// and applies any provided options
func NewTestRecord(opts ...RecordOption) *metadata.Record {
	rec := &metadata.Record{
		ID:      uuid.MustParse("c13b6e27-a4ee-426f-8bdb-8cf5c4310bad"),
		Version: "1.0.0",
		License: "CC0-1.0",
		Authors: []metadata.Author{
			{GitHubAccount: "suecharo", Name: "Hirotaka Suetake"},
		},
		Workflow: metadata.Workflow{
			Name:   "CWL_trimming_and_qc",
			Readme: "https://raw.githubusercontent.com/sapporo-wes/yevis-cli/main/tests/CWL/README.md",
			Language: metadata.Language{
				Type:    metadata.LanguageCWL,
				Version: "v1.0",
			},
			Files: []metadata.File{
				{
					URL:    "https://raw.githubusercontent.com/sapporo-wes/yevis-cli/main/tests/CWL/wf/trimming_and_qc.cwl",
					Target: "trimming_and_qc.cwl",
					Type:   metadata.FileTypePrimary,
				},
				{
					URL:    "https://raw.githubusercontent.com/sapporo-wes/yevis-cli/main/tests/CWL/wf/fastqc.cwl",
					Target: "fastqc.cwl",
					Type:   metadata.FileTypeSecondary,
				},
			},
			Testing: []metadata.Testing{
				{
					ID: "test_1",
					Files: []metadata.TestFile{
						{
							URL:    "https://raw.githubusercontent.com/sapporo-wes/yevis-cli/main/tests/CWL/test/wf_params.json",
							Target: "wf_params.json",
							Type:   metadata.TestFileTypeWfParams,
						},
					},
				},
			},
		},
	}

	for _, opt := range opts {
		opt(rec)
	}

	return rec
}

// WithRecordID sets the workflow ID
func WithRecordID(id uuid.UUID) RecordOption {
	return func(rec *metadata.Record) {
		rec.ID = id
	}
}

// WithRecordVersion sets the record version
func WithRecordVersion(version string) RecordOption {
	return func(rec *metadata.Record) {
		rec.Version = version
	}
}

// WithRecordAuthors replaces the author list with the given GitHub accounts
func WithRecordAuthors(accounts ...string) RecordOption {
	return func(rec *metadata.Record) {
		authors := make([]metadata.Author, 0, len(accounts))
		for _, account := range accounts {
			authors = append(authors, metadata.Author{GitHubAccount: account})
		}
		rec.Authors = authors
	}
}

// WithWorkflowName sets the workflow name
func WithWorkflowName(name string) RecordOption {
	return func(rec *metadata.Record) {
		rec.Workflow.Name = name
	}
}

// WithWorkflowLanguage sets the workflow language
func WithWorkflowLanguage(lang metadata.LanguageType, version string) RecordOption {
	return func(rec *metadata.Record) {
		rec.Workflow.Language = metadata.Language{Type: lang, Version: version}
	}
}

// WithWorkflowFiles replaces the workflow file list
func WithWorkflowFiles(files ...metadata.File) RecordOption {
	return func(rec *metadata.Record) {
		rec.Workflow.Files = files
	}
}

// WithWorkflowTesting replaces the workflow test cases
func WithWorkflowTesting(testing ...metadata.Testing) RecordOption {
	return func(rec *metadata.Record) {
		rec.Workflow.Testing = testing
	}
}

// SnapshotOption is a function that configures a Snapshot for testing
type SnapshotOption func(*Snapshot)

// NewTestSnapshot creates a Snapshot for testing, defaulting to the state
// of a never-published registry, and applies any provided options
func NewTestSnapshot(opts ...SnapshotOption) *Snapshot {
	snap := &Snapshot{
		ToolClasses: trs.MergeToolClasses(nil),
		Tools:       []trs.Tool{},
	}

	for _, opt := range opts {
		opt(snap)
	}

	return snap
}

// WithSnapshotServiceInfo sets the previously published service info
func WithSnapshotServiceInfo(info *trs.ServiceInfo) SnapshotOption {
	return func(snap *Snapshot) {
		snap.ServiceInfo = info
	}
}

// WithSnapshotTools sets the previously published tools
func WithSnapshotTools(tools ...trs.Tool) SnapshotOption {
	return func(snap *Snapshot) {
		snap.Tools = tools
	}
}

// WithSnapshotToolClasses sets the previously published tool classes
func WithSnapshotToolClasses(classes ...trs.ToolClass) SnapshotOption {
	return func(snap *Snapshot) {
		snap.ToolClasses = classes
	}
}
