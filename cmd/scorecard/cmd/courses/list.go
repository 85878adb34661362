package courses

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/scorecard/cmd/application"
	"github.com/agentstation/scorecard/internal/cmd/output"
)

func newListCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List canonical courses",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := outputFormat(app)
			if err != nil {
				return err
			}
			store, err := app.Store(cmd.Context())
			if err != nil {
				return err
			}
			list, err := store.ListCourses(cmd.Context())
			if err != nil {
				return err
			}
			return output.FormatCourses(cmd.OutOrStdout(), list, format)
		},
	}
}
