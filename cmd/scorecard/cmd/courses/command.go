// Package courses provides commands for managing the canonical course catalog.
package courses

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/scorecard/cmd/application"
	"github.com/agentstation/scorecard/internal/cmd/output"
)

// NewCommand creates the courses command and its subcommands.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "courses",
		Aliases: []string{"course"},
		GroupID: "management",
		Short:   "Manage canonical course data",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newImportCommand(app))
	cmd.AddCommand(newListCommand(app))
	cmd.AddCommand(newMatchCommand(app))
	cmd.AddCommand(newExportCommand(app))

	return cmd
}

func outputFormat(app application.Application) (output.Format, error) {
	return output.ParseFormat(string(output.DetectFormat(app.OutputFormat())))
}
