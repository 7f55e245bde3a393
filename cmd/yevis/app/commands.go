// Package app provides the command tree of the yevis CLI.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sapporo-wes/yevis-cli-sub000/internal/config"
	"github.com/sapporo-wes/yevis-cli-sub000/internal/fetch"
	"github.com/sapporo-wes/yevis-cli-sub000/internal/githost"
	"github.com/sapporo-wes/yevis-cli-sub000/internal/httpclient"
	"github.com/sapporo-wes/yevis-cli-sub000/internal/logger"
	"github.com/sapporo-wes/yevis-cli-sub000/internal/telemetry"
	"github.com/sapporo-wes/yevis-cli-sub000/internal/trs"
	"github.com/sapporo-wes/yevis-cli-sub000/internal/versions"
)

const telemetryShutdownTimeout = 5 * time.Second

var rootCmd = &cobra.Command{
	Use:               "yevis",
	DisableAutoGenTag: true,
	Short:             "Workflow registry publisher",
	Long: `yevis publishes workflow metadata to a GitHub Pages hosted GA4GH Tool
Registry Service and previews the assembled registry locally.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if viper.GetBool("debug") {
			_ = os.Setenv("YEVIS_DEBUG", "1")
			logger.Initialize()
		}
	},
	Run: func(cmd *cobra.Command, _ []string) {
		// If no subcommand is provided, print help
		if err := cmd.Help(); err != nil {
			logger.Errorf("Error displaying help: %v", err)
		}
	},
}

// NewRootCmd creates the root command of the yevis CLI.
func NewRootCmd() *cobra.Command {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML configuration file")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	bindFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	bindFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))

	viper.SetEnvPrefix(config.EnvPrefix)
	viper.AutomaticEnv()

	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)

	return rootCmd
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		info := versions.GetVersionInfo()
		format, err := cmd.Flags().GetString("format")
		if err != nil {
			logger.Errorf("Error retrieving format flag: %v", err)
			return
		}

		if format == "json" {
			output, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				logger.Errorf("Error formatting version info as JSON: %v", err)
				return
			}
			fmt.Println(string(output))
		} else {
			fmt.Printf("yevis %s (commit %s, built %s, %s, %s)\n",
				info.Version, info.Commit, info.BuildDate, info.GoVersion, info.Platform)
		}
	},
}

func init() {
	versionCmd.Flags().String("format", "", "Output format (json)")
}

// bindFlag exposes a flag through viper so YEVIS_* environment variables
// can set it too.
func bindFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		logger.Errorf("Error binding %s flag: %v", key, err)
	}
}

// loadConfig loads the file named by --config (or YEVIS_CONFIG), falling
// back to defaults when none is given.
func loadConfig() (*config.Config, error) {
	path := viper.GetString("config")
	if path == "" {
		return config.Default(), nil
	}
	cfg, err := config.LoadConfig(config.WithConfigPath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Debugf("Loaded configuration from %s", path)
	return cfg, nil
}

// resolveRepository picks the target repository: the flag when given, the
// configuration otherwise.
func resolveRepository(flagValue string, cfg *config.Config) (githost.Repository, error) {
	value := flagValue
	if value == "" {
		value = cfg.Repository
	}
	if value == "" {
		return githost.Repository{}, fmt.Errorf("a target repository is required: pass --repository owner/name or set it in the configuration file")
	}
	return githost.ParseRepository(value)
}

// newFetcher builds the content fetcher from configuration.
func newFetcher(cfg *config.Config) *fetch.DefaultFetcher {
	return fetch.NewDefaultFetcher(
		fetch.WithTimeout(cfg.Fetch.GetTimeout()),
		fetch.WithMaxTries(cfg.Fetch.GetMaxTries()),
	)
}

// newSnapshotEndpoint builds the TRS endpoint the previously published
// registry is read from: the configured endpoint override, or the GitHub
// Pages site of the target repository.
func newSnapshotEndpoint(cfg *config.Config, repo githost.Repository) *trs.Endpoint {
	client := httpclient.NewDefaultClient(httpclient.WithTimeout(cfg.Fetch.GetTimeout()))
	if cfg.Endpoint != "" {
		return trs.NewEndpoint(cfg.Endpoint, trs.WithClient(client))
	}
	return trs.NewGitHubPagesEndpoint(repo.Owner, repo.Name, trs.WithClient(client))
}

// newTelemetry wires the optional OpenTelemetry stack from configuration,
// stamping the build version onto the service resource.
func newTelemetry(ctx context.Context, cfg *config.Config) (*telemetry.Telemetry, error) {
	tcfg := cfg.Telemetry
	if tcfg != nil && tcfg.ServiceVersion == "" {
		tcfg.ServiceVersion = versions.GetVersionInfo().Version
	}
	return telemetry.New(ctx, telemetry.WithTelemetryConfig(tcfg))
}

func shutdownTelemetry(tel *telemetry.Telemetry) {
	ctx, cancel := context.WithTimeout(context.Background(), telemetryShutdownTimeout)
	defer cancel()
	if err := tel.Shutdown(ctx); err != nil {
		logger.Warnf("Failed to shut down telemetry: %v", err)
	}
}
