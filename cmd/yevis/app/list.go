package app

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/sapporo-wes/yevis-cli-sub000/internal/trs"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the workflows published in a registry",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var listRepository string

func init() {
	listCmd.Flags().StringVar(&listRepository, "repository", "", "Target registry repository as owner/name")
}

func runList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	repo, err := resolveRepository(listRepository, cfg)
	if err != nil {
		return err
	}

	endpoint := newSnapshotEndpoint(cfg, repo)
	if err := endpoint.Validate(ctx); err != nil {
		return err
	}

	tools, err := endpoint.Tools(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch tools from %s: %w", endpoint.Base(), err)
	}

	return renderToolTable(os.Stdout, tools)
}

// renderToolTable prints one row per tool. The latest version is the most
// recently published one; verified is true when any version is verified.
func renderToolTable(w io.Writer, tools []trs.Tool) error {
	table := tablewriter.NewWriter(w)
	table.Header("ID", "NAME", "LATEST", "VERSIONS", "VERIFIED")

	for i := range tools {
		tool := &tools[i]

		latest := ""
		verified := false
		if n := len(tool.Versions); n > 0 {
			latest = tool.Versions[n-1].ID
		}
		for j := range tool.Versions {
			if v := tool.Versions[j].Verified; v != nil && *v {
				verified = true
				break
			}
		}

		row := []string{
			tool.ID.String(),
			tool.Name,
			latest,
			strconv.Itoa(len(tool.Versions)),
			strconv.FormatBool(verified),
		}
		if err := table.Append(row); err != nil {
			return fmt.Errorf("failed to render tool %s: %w", tool.ID, err)
		}
	}

	return table.Render()
}
