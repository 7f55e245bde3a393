package helpers

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/onsi/gomega"
	sigsyaml "sigs.k8s.io/yaml"

	"github.com/sapporo-wes/yevis-cli-sub000/internal/metadata"
)

// Workflow content served for test records.
const (
	TrimmingWorkflowCWL = `#!/usr/bin/env cwl-runner
cwlVersion: v1.0
class: Workflow
inputs:
  fastq_1: File
  fastq_2: File
outputs:
  qc_result_1:
    type: File
    outputSource: qc_1/result
steps:
  trimming:
    run: tool/trimmomatic_pe.cwl
    in:
      fastq_1: fastq_1
      fastq_2: fastq_2
    out: [trimmed_fastq_1, trimmed_fastq_2]
  qc_1:
    run: tool/fastqc.cwl
    in:
      fastq: trimming/trimmed_fastq_1
    out: [result]
`

	FastqcToolCWL = `#!/usr/bin/env cwl-runner
cwlVersion: v1.0
class: CommandLineTool
baseCommand: fastqc
inputs:
  fastq:
    type: File
    inputBinding:
      position: 1
outputs:
  result:
    type: File
    outputBinding:
      glob: "*_fastqc.zip"
`

	BamstatsWorkflowWDL = `version 1.0

workflow bamstats {
  input {
    File bam_input
    Int mem_gb
  }
  call bamstats_task {
    input: bam_input = bam_input, mem_gb = mem_gb
  }
}

task bamstats_task {
  input {
    File bam_input
    Int mem_gb
  }
  command {
    bash /usr/local/bin/bamstats ${mem_gb} ${bam_input}
  }
  output {
    File bamstats_report = "bamstats_report.zip"
  }
}
`

	WfParamsJSON = `{
  "fastq_1": {"class": "File", "path": "ERR034597_1.small.fq.gz"},
  "fastq_2": {"class": "File", "path": "ERR034597_2.small.fq.gz"}
}
`
)

// NewCWLRecord builds a CWL workflow record whose files resolve against cs.
// Content is registered under a per-workflow prefix so records never share
// URLs.
func NewCWLRecord(cs *ContentServer, id uuid.UUID, version string) *metadata.Record {
	base := "/" + id.String()
	primary := cs.Add(base+"/wf/trimming_and_qc.cwl", TrimmingWorkflowCWL)
	tool := cs.Add(base+"/wf/tool/fastqc.cwl", FastqcToolCWL)
	readme := cs.Add(base+"/README.md", "# trimming_and_qc\n")
	params := cs.Add(base+"/test/wf_params.json", WfParamsJSON)

	return &metadata.Record{
		ID:      id,
		Version: version,
		License: "CC0-1.0",
		Authors: []metadata.Author{
			{GitHubAccount: "suecharo"},
		},
		Workflow: metadata.Workflow{
			Name:   "CWL_trimming_and_qc",
			Readme: readme,
			Language: metadata.Language{
				Type:    metadata.LanguageCWL,
				Version: "v1.0",
			},
			Files: []metadata.File{
				{URL: primary, Target: "trimming_and_qc.cwl", Type: metadata.FileTypePrimary},
				{URL: tool, Target: "tool/fastqc.cwl", Type: metadata.FileTypeSecondary},
			},
			Testing: []metadata.Testing{
				{
					ID: "test_1",
					Files: []metadata.TestFile{
						{URL: params, Target: "wf_params.json", Type: metadata.TestFileTypeWfParams},
					},
				},
			},
		},
	}
}

// NewWDLRecord builds a WDL workflow record whose files resolve against cs.
func NewWDLRecord(cs *ContentServer, id uuid.UUID, version string) *metadata.Record {
	base := "/" + id.String()
	primary := cs.Add(base+"/wf/dockstore-tool-bamstats.wdl", BamstatsWorkflowWDL)
	readme := cs.Add(base+"/README.md", "# bamstats\n")

	return &metadata.Record{
		ID:      id,
		Version: version,
		License: "Apache-2.0",
		Authors: []metadata.Author{
			{GitHubAccount: "suecharo"},
		},
		Workflow: metadata.Workflow{
			Name:   "WDL_dockstore_tool_bamstats",
			Readme: readme,
			Language: metadata.Language{
				Type:    metadata.LanguageWDL,
				Version: "1.0",
			},
			Files: []metadata.File{
				{URL: primary, Target: "dockstore-tool-bamstats.wdl", Type: metadata.FileTypePrimary},
			},
			Testing: []metadata.Testing{},
		},
	}
}

// WriteRecordYAML serializes rec to a YAML file in dir and returns its path.
func WriteRecordYAML(dir string, rec *metadata.Record) string {
	data, err := sigsyaml.Marshal(rec)
	gomega.Expect(err).NotTo(gomega.HaveOccurred())

	path := filepath.Join(dir, fmt.Sprintf("%s-%s.yml", rec.ID, rec.Version))
	err = os.WriteFile(path, data, 0600)
	gomega.Expect(err).NotTo(gomega.HaveOccurred())
	return path
}
