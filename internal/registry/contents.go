package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/sapporo-wes/yevis-cli-sub000/internal/fetch"
	"github.com/sapporo-wes/yevis-cli-sub000/internal/logger"
	"github.com/sapporo-wes/yevis-cli-sub000/internal/metadata"
	"github.com/sapporo-wes/yevis-cli-sub000/internal/trs"
)

// DocumentTree maps registry-relative paths to serialized JSON documents.
// It is the artifact a publish commits.
type DocumentTree map[string]string

// Paths returns the tree's paths in sorted order.
func (t DocumentTree) Paths() []string {
	paths := make([]string, 0, len(t))
	for path := range t {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

func (t DocumentTree) putJSON(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	t[path] = string(data)
	return nil
}

// Materializer renders a built Registry into the static document tree
// served as the TRS API.
type Materializer struct {
	fetcher fetch.Fetcher
}

// NewMaterializer creates a materializer that resolves descriptor content
// and file checksums through fetcher.
func NewMaterializer(fetcher fetch.Fetcher) *Materializer {
	return &Materializer{fetcher: fetcher}
}

// Materialize produces the document tree for reg: the three top-level
// indexes plus the eight per-version documents for every record applied in
// this publish. Fetch failures degrade descriptor content and checksums to
// absent but never abort the publish.
func (m *Materializer) Materialize(ctx context.Context, reg *Registry) (DocumentTree, error) {
	tree := DocumentTree{}
	if err := tree.putJSON("service-info/index.json", reg.ServiceInfo); err != nil {
		return nil, err
	}
	if err := tree.putJSON("toolClasses/index.json", reg.ToolClasses); err != nil {
		return nil, err
	}
	if err := tree.putJSON("tools/index.json", reg.Tools); err != nil {
		return nil, err
	}

	for _, rec := range reg.Records {
		if err := m.materializeVersion(ctx, tree, reg, rec); err != nil {
			return nil, err
		}
	}
	return tree, nil
}

func (m *Materializer) materializeVersion(ctx context.Context, tree DocumentTree, reg *Registry, rec *metadata.Record) error {
	tool, ok := reg.FindTool(rec.ID)
	if !ok {
		return fmt.Errorf("workflow %s was not applied to the registry", rec.ID)
	}
	version, ok := tool.FindVersion(rec.Version)
	if !ok {
		return fmt.Errorf("version %s of workflow %s was not applied to the registry", rec.Version, rec.ID)
	}

	descriptor, err := m.generateDescriptor(ctx, rec)
	if err != nil {
		return err
	}
	tests, err := generateTests(rec)
	if err != nil {
		return err
	}

	descType := trs.DescriptorTypeFromLanguage(rec.Workflow.Language.Type)
	base := fmt.Sprintf("tools/%s/versions/%s", rec.ID, rec.Version)

	docs := []struct {
		path string
		v    any
	}{
		{fmt.Sprintf("tools/%s/index.json", rec.ID), tool},
		{fmt.Sprintf("tools/%s/versions/index.json", rec.ID), tool.Versions},
		{base + "/index.json", version},
		{base + "/yevis-metadata.json", rec},
		{fmt.Sprintf("%s/%s/descriptor/index.json", base, descType), descriptor},
		{fmt.Sprintf("%s/%s/files/index.json", base, descType), m.generateFiles(ctx, rec)},
		{fmt.Sprintf("%s/%s/tests/index.json", base, descType), tests},
		{base + "/containerfile/index.json", []trs.FileWrapper{}},
	}
	for _, doc := range docs {
		if err := tree.putJSON(doc.path, doc.v); err != nil {
			return err
		}
	}
	return nil
}

// generateDescriptor wraps the primary workflow file. When its content
// cannot be fetched the wrapper degrades to URL-only, leaving clients a
// pointer to retry on their side.
func (m *Materializer) generateDescriptor(ctx context.Context, rec *metadata.Record) (trs.FileWrapper, error) {
	primary, err := rec.Workflow.PrimaryWorkflow()
	if err != nil {
		return trs.FileWrapper{}, fmt.Errorf("workflow %s: %w", rec.ID, err)
	}

	content, err := m.fetcher.Fetch(ctx, primary.URL)
	if err != nil {
		logger.Warnf("Failed to fetch descriptor %s: %v", primary.URL, err)
		return trs.FileWrapper{URL: primary.URL}, nil
	}

	text := string(content)
	return trs.FileWrapper{
		Content:  &text,
		Checksum: []trs.Checksum{trs.NewChecksum(content)},
		URL:      primary.URL,
	}, nil
}

// generateFiles lists every workflow file with a best-effort checksum of
// its remote content.
func (m *Materializer) generateFiles(ctx context.Context, rec *metadata.Record) []trs.ToolFile {
	files := make([]trs.ToolFile, 0, len(rec.Workflow.Files))
	for _, f := range rec.Workflow.Files {
		var checksum *trs.Checksum
		content, err := m.fetcher.Fetch(ctx, f.URL)
		if err != nil {
			logger.Warnf("Failed to fetch %s for its checksum: %v", f.URL, err)
		} else {
			c := trs.NewChecksum(content)
			checksum = &c
		}
		files = append(files, trs.ToolFile{
			Path:     f.URL,
			FileType: trs.FileTypeFromMetadata(f.Type),
			Checksum: checksum,
		})
	}
	return files
}

// generateTests embeds each test case as serialized JSON with its checksum.
// Tests carry no URL; their content lives only in the registry.
func generateTests(rec *metadata.Record) ([]trs.FileWrapper, error) {
	tests := make([]trs.FileWrapper, 0, len(rec.Workflow.Testing))
	for _, testing := range rec.Workflow.Testing {
		data, err := json.Marshal(testing)
		if err != nil {
			return nil, fmt.Errorf("failed to encode test case %s: %w", testing.ID, err)
		}
		text := string(data)
		tests = append(tests, trs.FileWrapper{
			Content:  &text,
			Checksum: []trs.Checksum{trs.NewChecksum(data)},
		})
	}
	return tests, nil
}
