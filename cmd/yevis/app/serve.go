package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sapporo-wes/yevis-cli-sub000/internal/logger"
	"github.com/sapporo-wes/yevis-cli-sub000/internal/metadata"
	"github.com/sapporo-wes/yevis-cli-sub000/internal/publish"
	"github.com/sapporo-wes/yevis-cli-sub000/internal/server"
	"github.com/sapporo-wes/yevis-cli-sub000/internal/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve <metadata>...",
	Short: "Preview a registry assembled from workflow metadata",
	Long: `Assemble the registry documents for the given workflow metadata records in
memory, merged with whatever the target repository already publishes, and
serve them read-only over HTTP. Nothing is committed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runServe,
}

var (
	serveRepository string
	serveAddress    string
)

func init() {
	serveCmd.Flags().StringVar(&serveRepository, "repository", "", "Target registry repository as owner/name")
	serveCmd.Flags().StringVar(&serveAddress, "address", "", "Address to listen on (defaults to the configured server address)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	repo, err := resolveRepository(serveRepository, cfg)
	if err != nil {
		return err
	}

	address := serveAddress
	if address == "" {
		address = cfg.Server.GetAddress()
	}

	fetcher := newFetcher(cfg)

	records, err := metadata.LoadRecords(ctx, fetcher, args)
	if err != nil {
		return err
	}

	src := newSnapshotEndpoint(cfg, repo)
	tree, err := publish.Assemble(ctx, fetcher, src, records, publish.Options{Repository: repo})
	if err != nil {
		return fmt.Errorf("failed to assemble registry documents: %w", err)
	}

	tel, err := newTelemetry(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer shutdownTelemetry(tel)

	metricsMiddleware, err := telemetry.MetricsMiddleware(tel.MeterProvider())
	if err != nil {
		return fmt.Errorf("failed to create HTTP metrics middleware: %w", err)
	}

	srv := server.New(tree,
		server.WithAddress(address),
		server.WithGatherer(tel.Gatherer()),
		server.WithMiddlewares(
			telemetry.TracingMiddleware(tel.TracerProvider()),
			metricsMiddleware,
		),
	)

	logger.Infof("Serving %d registry documents for %s", len(tree), repo)
	return srv.ListenAndServe(ctx)
}
