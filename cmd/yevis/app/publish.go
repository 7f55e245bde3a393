package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sapporo-wes/yevis-cli-sub000/internal/ci"
	"github.com/sapporo-wes/yevis-cli-sub000/internal/config"
	"github.com/sapporo-wes/yevis-cli-sub000/internal/githost"
	"github.com/sapporo-wes/yevis-cli-sub000/internal/githost/github"
	"github.com/sapporo-wes/yevis-cli-sub000/internal/githost/local"
	"github.com/sapporo-wes/yevis-cli-sub000/internal/metadata"
	"github.com/sapporo-wes/yevis-cli-sub000/internal/publish"
	"github.com/sapporo-wes/yevis-cli-sub000/internal/registry"
	"github.com/sapporo-wes/yevis-cli-sub000/internal/telemetry"
)

var publishCmd = &cobra.Command{
	Use:   "publish <metadata>...",
	Short: "Publish workflow metadata to a registry repository",
	Long: `Publish one or more workflow metadata records (local files or URLs) to the
TRS registry hosted in a repository.

The previously published registry is merged with the new records and the
resulting documents are committed to the target branch in a single commit.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPublish,
}

var (
	publishRepository string
	publishGhToken    string
	publishBranch     string
	publishVerified   bool
	publishLocalDir   string
	publishDryRun     bool
)

func init() {
	publishCmd.Flags().StringVar(&publishRepository, "repository", "", "Target registry repository as owner/name")
	publishCmd.Flags().StringVar(&publishGhToken, "gh-token", "", "GitHub token (falls back to GITHUB_TOKEN)")
	publishCmd.Flags().StringVar(&publishBranch, "branch", "", "Branch to publish to (defaults to the repository's Pages branch)")
	publishCmd.Flags().BoolVar(&publishVerified, "verified", false, "Mark the published versions as verified")
	publishCmd.Flags().StringVar(&publishLocalDir, "local", "", "Publish into the on-disk repository at this directory instead of GitHub")
	publishCmd.Flags().BoolVar(&publishDryRun, "dry-run", false, "Assemble the documents and print their paths without publishing")
}

func runPublish(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	repo, err := resolveRepository(publishRepository, cfg)
	if err != nil {
		return err
	}

	branch := publishBranch
	if branch == "" {
		branch = cfg.Branch
	}

	fetcher := newFetcher(cfg)

	records, err := metadata.LoadRecords(ctx, fetcher, args)
	if err != nil {
		return err
	}

	host, src, err := publishTarget(ctx, cfg, repo, branch)
	if err != nil {
		return err
	}

	opts := publish.Options{
		Repository: repo,
		Branch:     branch,
		Verified:   publishVerified,
	}

	if publishDryRun {
		tree, err := publish.Assemble(ctx, fetcher, src, records, opts)
		if err != nil {
			return err
		}
		fmt.Printf("Would publish %d documents to %s:\n", len(tree), repo)
		for _, path := range tree.Paths() {
			fmt.Println("  " + path)
		}
		return nil
	}

	tel, err := newTelemetry(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer shutdownTelemetry(tel)

	metrics, err := telemetry.NewPublishMetrics(tel.MeterProvider())
	if err != nil {
		return fmt.Errorf("failed to create publish metrics: %w", err)
	}

	publisher := publish.NewPublisher(host, fetcher,
		publish.WithMetrics(metrics),
		publish.WithTracerProvider(tel.TracerProvider()),
	)
	result, err := publisher.Publish(ctx, src, records, opts)
	if err != nil {
		return err
	}

	fmt.Printf("Published %d documents to %s branch %s (commit %s)\n",
		len(result.Tree), repo, result.Branch, result.CommitSha)
	return nil
}

// publishTarget builds the git host a publish commits through and the
// source the previously published registry is read from. Dry runs skip the
// host, so they need no token.
func publishTarget(ctx context.Context, cfg *config.Config, repo githost.Repository, branch string) (githost.Host, registry.SnapshotSource, error) {
	if publishLocalDir != "" {
		host, err := local.OpenOrInit(publishLocalDir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open local repository %s: %w", publishLocalDir, err)
		}
		if branch == "" {
			if branch, err = host.PagesBranch(ctx, repo); err != nil {
				return nil, nil, err
			}
		}
		return host, local.NewSnapshotReader(host, branch), nil
	}

	src := newSnapshotEndpoint(cfg, repo)
	if publishDryRun {
		return nil, src, nil
	}

	token, err := ci.GitHubToken(publishGhToken)
	if err != nil {
		return nil, nil, err
	}
	return github.NewClient(token), src, nil
}
