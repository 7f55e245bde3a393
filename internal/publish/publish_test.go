package publish_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/mock/gomock"

	fetchmocks "github.com/sapporo-wes/yevis-cli-sub000/internal/fetch/mocks"
	"github.com/sapporo-wes/yevis-cli-sub000/internal/githost"
	hostmocks "github.com/sapporo-wes/yevis-cli-sub000/internal/githost/mocks"
	"github.com/sapporo-wes/yevis-cli-sub000/internal/metadata"
	"github.com/sapporo-wes/yevis-cli-sub000/internal/publish"
	"github.com/sapporo-wes/yevis-cli-sub000/internal/registry"
	registrymocks "github.com/sapporo-wes/yevis-cli-sub000/internal/registry/mocks"
	"github.com/sapporo-wes/yevis-cli-sub000/internal/trs"
)

// unsetCIEnv clears the CI variable that may leak in from the environment
// the tests themselves run in. t.Setenv registers the restore.
func unsetCIEnv(t *testing.T) {
	t.Helper()
	t.Setenv("CI", "")
	require.NoError(t, os.Unsetenv("CI"))
}

func TestCommitMessage(t *testing.T) {
	single := registry.NewTestRecord()
	multiple := []*metadata.Record{
		registry.NewTestRecord(),
		registry.NewTestRecord(registry.WithRecordVersion("2.0.0")),
	}

	tests := []struct {
		name    string
		records []*metadata.Record
		inCI    bool
		want    string
	}{
		{
			name:    "single workflow",
			records: []*metadata.Record{single},
			want:    fmt.Sprintf("Publish workflow, id: %s version: 1.0.0 by yevis", single.ID),
		},
		{
			name:    "single workflow in CI",
			records: []*metadata.Record{single},
			inCI:    true,
			want:    fmt.Sprintf("Publish workflow, id: %s version: 1.0.0 by yevis in CI", single.ID),
		},
		{
			name:    "multiple workflows",
			records: multiple,
			want:    "Publish multiple workflows by yevis",
		},
		{
			name:    "multiple workflows in CI",
			records: multiple,
			inCI:    true,
			want:    "Publish multiple workflows by yevis in CI",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.inCI {
				t.Setenv("CI", "true")
			} else {
				unsetCIEnv(t)
			}
			assert.Equal(t, tt.want, publish.CommitMessage(tt.records))
		})
	}
}

func TestPublisher_ResolveBranch(t *testing.T) {
	t.Parallel()

	t.Run("explicit override", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		host := hostmocks.NewMockHost(ctrl)

		p := publish.NewPublisher(host, fetchmocks.NewMockFetcher(ctrl))
		branch, err := p.ResolveBranch(context.Background(), publish.Options{
			Repository: testRepo,
			Branch:     "main",
		})
		require.NoError(t, err)
		assert.Equal(t, "main", branch)
	})

	t.Run("defaults to the pages branch", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		host := hostmocks.NewMockHost(ctrl)
		host.EXPECT().PagesBranch(gomock.Any(), testRepo).Return("pages", nil)

		p := publish.NewPublisher(host, fetchmocks.NewMockFetcher(ctrl))
		branch, err := p.ResolveBranch(context.Background(), publish.Options{Repository: testRepo})
		require.NoError(t, err)
		assert.Equal(t, "pages", branch)
	})
}

func TestPublisher_Publish_FirstPublish(t *testing.T) {
	unsetCIEnv(t)

	rec := registry.NewTestRecord()

	ctrl := gomock.NewController(t)
	fetcher := fetchmocks.NewMockFetcher(ctrl)
	fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return([]byte("cwlVersion: v1.0"), nil).AnyTimes()

	host := hostmocks.NewMockHost(ctrl)
	host.EXPECT().PagesBranch(gomock.Any(), testRepo).Return("gh-pages", nil)
	host.EXPECT().BranchExists(gomock.Any(), testRepo, "gh-pages").Return(false, nil)
	host.EXPECT().CreateEmptyBranch(gomock.Any(), testRepo, "gh-pages").Return(nil)
	host.EXPECT().GetBranchTipCommitSha(gomock.Any(), testRepo, "gh-pages").Return("seed-sha", nil)
	host.EXPECT().GetTreeShaOfCommit(gomock.Any(), testRepo, "seed-sha").Return("seed-tree-sha", nil)
	host.EXPECT().CreateTree(gomock.Any(), testRepo, "seed-tree-sha", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ githost.Repository, _ string, contents map[string]string) (string, error) {
			assert.Len(t, contents, 11)
			return "tree-sha", nil
		})
	host.EXPECT().CreateCommit(gomock.Any(), testRepo, "seed-sha", "tree-sha",
		fmt.Sprintf("Publish workflow, id: %s version: 1.0.0 by yevis", rec.ID)).Return("commit-sha", nil)
	host.EXPECT().UpdateRef(gomock.Any(), testRepo, "gh-pages", "commit-sha").Return(nil)

	p := publish.NewPublisher(host, fetcher)
	result, err := p.Publish(context.Background(), nil, []*metadata.Record{rec}, publish.Options{Repository: testRepo})
	require.NoError(t, err)

	assert.Equal(t, "gh-pages", result.Branch)
	assert.Equal(t, "commit-sha", result.CommitSha)
	assert.Contains(t, result.Message, rec.ID.String())
	assert.Len(t, result.Tree, 11)
}

func TestPublisher_Publish_FetchFailureStillCommits(t *testing.T) {
	unsetCIEnv(t)

	rec := registry.NewTestRecord()

	ctrl := gomock.NewController(t)
	fetcher := fetchmocks.NewMockFetcher(ctrl)
	fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused")).AnyTimes()

	host := hostmocks.NewMockHost(ctrl)
	host.EXPECT().PagesBranch(gomock.Any(), testRepo).Return("gh-pages", nil)
	host.EXPECT().BranchExists(gomock.Any(), testRepo, "gh-pages").Return(true, nil)
	host.EXPECT().GetBranchTipCommitSha(gomock.Any(), testRepo, "gh-pages").Return("tip-sha", nil)
	host.EXPECT().GetTreeShaOfCommit(gomock.Any(), testRepo, "tip-sha").Return("base-tree-sha", nil)
	host.EXPECT().CreateTree(gomock.Any(), testRepo, "base-tree-sha", gomock.Any()).Return("tree-sha", nil)
	host.EXPECT().CreateCommit(gomock.Any(), testRepo, "tip-sha", "tree-sha", gomock.Any()).Return("commit-sha", nil)
	host.EXPECT().UpdateRef(gomock.Any(), testRepo, "gh-pages", "commit-sha").Return(nil)

	p := publish.NewPublisher(host, fetcher)
	result, err := p.Publish(context.Background(), nil, []*metadata.Record{rec}, publish.Options{Repository: testRepo})
	require.NoError(t, err, "unreachable workflow content must not abort the publish")
	assert.Len(t, result.Tree, 11)
}

func TestPublisher_Publish_AssemblyFailureTouchesNoGitState(t *testing.T) {
	t.Parallel()

	rec := registry.NewTestRecord(registry.WithWorkflowFiles(metadata.File{
		URL:  "https://example.com/helper.cwl",
		Type: metadata.FileTypeSecondary,
	}))

	ctrl := gomock.NewController(t)
	host := hostmocks.NewMockHost(ctrl)
	host.EXPECT().PagesBranch(gomock.Any(), testRepo).Return("gh-pages", nil)

	p := publish.NewPublisher(host, fetchmocks.NewMockFetcher(ctrl))
	_, err := p.Publish(context.Background(), nil, []*metadata.Record{rec}, publish.Options{Repository: testRepo})
	require.Error(t, err)
	assert.ErrorIs(t, err, metadata.ErrNoPrimaryWorkflow)
}

func TestPublisher_Publish_TransactionFailure(t *testing.T) {
	unsetCIEnv(t)

	rec := registry.NewTestRecord()

	ctrl := gomock.NewController(t)
	fetcher := fetchmocks.NewMockFetcher(ctrl)
	fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return([]byte("cwlVersion: v1.0"), nil).AnyTimes()

	host := hostmocks.NewMockHost(ctrl)
	host.EXPECT().PagesBranch(gomock.Any(), testRepo).Return("gh-pages", nil)
	host.EXPECT().BranchExists(gomock.Any(), testRepo, "gh-pages").Return(true, nil)
	host.EXPECT().GetBranchTipCommitSha(gomock.Any(), testRepo, "gh-pages").Return("tip-sha", nil)
	host.EXPECT().GetTreeShaOfCommit(gomock.Any(), testRepo, "tip-sha").Return("base-tree-sha", nil)
	host.EXPECT().CreateTree(gomock.Any(), testRepo, "base-tree-sha", gomock.Any()).Return("tree-sha", nil)
	host.EXPECT().CreateCommit(gomock.Any(), testRepo, "tip-sha", "tree-sha", gomock.Any()).Return("commit-sha", nil)
	host.EXPECT().UpdateRef(gomock.Any(), testRepo, "gh-pages", "commit-sha").Return(errors.New("protected branch"))

	p := publish.NewPublisher(host, fetcher)
	_, err := p.Publish(context.Background(), nil, []*metadata.Record{rec}, publish.Options{Repository: testRepo})
	require.Error(t, err)

	var pubErr *publish.Error
	require.ErrorAs(t, err, &pubErr)
	assert.Equal(t, publish.StepUpdateRef, pubErr.Step)
}

func TestPublisher_Publish_EmitsSpan(t *testing.T) {
	unsetCIEnv(t)

	rec := registry.NewTestRecord()

	ctrl := gomock.NewController(t)
	fetcher := fetchmocks.NewMockFetcher(ctrl)
	fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return([]byte("cwlVersion: v1.0"), nil).AnyTimes()

	host := hostmocks.NewMockHost(ctrl)
	host.EXPECT().PagesBranch(gomock.Any(), testRepo).Return("gh-pages", nil)
	host.EXPECT().BranchExists(gomock.Any(), testRepo, "gh-pages").Return(true, nil)
	host.EXPECT().GetBranchTipCommitSha(gomock.Any(), testRepo, "gh-pages").Return("tip-sha", nil)
	host.EXPECT().GetTreeShaOfCommit(gomock.Any(), testRepo, "tip-sha").Return("base-tree-sha", nil)
	host.EXPECT().CreateTree(gomock.Any(), testRepo, "base-tree-sha", gomock.Any()).Return("tree-sha", nil)
	host.EXPECT().CreateCommit(gomock.Any(), testRepo, "tip-sha", "tree-sha", gomock.Any()).Return("commit-sha", nil)
	host.EXPECT().UpdateRef(gomock.Any(), testRepo, "gh-pages", "commit-sha").Return(nil)

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	p := publish.NewPublisher(host, fetcher, publish.WithTracerProvider(tp))
	_, err := p.Publish(context.Background(), nil, []*metadata.Record{rec}, publish.Options{Repository: testRepo})
	require.NoError(t, err)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "publish.Publish", spans[0].Name)

	attrs := map[attribute.Key]attribute.Value{}
	for _, attr := range spans[0].Attributes {
		attrs[attr.Key] = attr.Value
	}
	assert.Equal(t, testRepo.String(), attrs["registry.repository"].AsString())
	assert.Equal(t, int64(1), attrs["publish.record_count"].AsInt64())
	assert.Equal(t, "gh-pages", attrs["registry.branch"].AsString())
	assert.Equal(t, int64(11), attrs["publish.document_count"].AsInt64())
	assert.Equal(t, "commit-sha", attrs["publish.commit_sha"].AsString())
}

func TestAssemble_MergesIntoSnapshot(t *testing.T) {
	t.Parallel()

	prev := registry.NewTestRecord()
	prevTool := trs.NewTool(prev, "suecharo", "yevis-registry")
	prevTool.UpsertVersion(prev, nil)

	ctrl := gomock.NewController(t)
	fetcher := fetchmocks.NewMockFetcher(ctrl)
	fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return([]byte("cwlVersion: v1.0"), nil).AnyTimes()

	src := registrymocks.NewMockSnapshotSource(ctrl)
	src.EXPECT().ServiceInfo(gomock.Any()).Return(nil, nil)
	src.EXPECT().ToolClasses(gomock.Any()).Return(nil, nil)
	src.EXPECT().Tools(gomock.Any()).Return([]trs.Tool{prevTool}, nil)

	rec := registry.NewTestRecord(registry.WithRecordVersion("2.0.0"))
	tree, err := publish.Assemble(context.Background(), fetcher, src, []*metadata.Record{rec}, publish.Options{
		Repository: testRepo,
	})
	require.NoError(t, err)

	// Both versions are listed, but only the applied one gets documents.
	var versions []trs.ToolVersion
	require.NoError(t, json.Unmarshal([]byte(tree[fmt.Sprintf("tools/%s/versions/index.json", rec.ID)]), &versions))
	assert.Len(t, versions, 2)
	assert.Contains(t, tree, fmt.Sprintf("tools/%s/versions/2.0.0/index.json", rec.ID))
	assert.NotContains(t, tree, fmt.Sprintf("tools/%s/versions/1.0.0/index.json", rec.ID))
}
