package courses

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/scorecard/cmd/application"
	"github.com/agentstation/scorecard/internal/courses"
	"github.com/agentstation/scorecard/pkg/constants"
	"github.com/agentstation/scorecard/pkg/errors"
)

func newExportCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write the catalog as importable YAML",
		Long: `Export writes every stored course in the layout "courses import"
reads. Without a file the YAML goes to stdout.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.Store(cmd.Context())
			if err != nil {
				return err
			}
			list, err := store.ListCourses(cmd.Context())
			if err != nil {
				return err
			}
			data, err := courses.Marshal(list)
			if err != nil {
				return err
			}

			if len(args) == 0 {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(args[0], data, constants.FilePermissions); err != nil {
				return errors.WrapResource("write", "course_file", args[0], err)
			}
			app.Logger().Info().Str("path", args[0]).Int("courses", len(list)).Msg("Courses exported")
			return nil
		},
	}
}
