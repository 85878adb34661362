package courses

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/scorecard/cmd/application"
	"github.com/agentstation/scorecard/internal/cmd/output"
	"github.com/agentstation/scorecard/internal/courses"
	"github.com/agentstation/scorecard/pkg/errors"
	"github.com/agentstation/scorecard/pkg/golf"
)

func newImportCommand(app application.Application) *cobra.Command {
	var sample bool

	cmd := &cobra.Command{
		Use:   "import [file-or-dir]",
		Short: "Import courses from YAML files",
		Long: `Import reads canonical course definitions from a YAML file or a
directory of YAML files and saves them. Courses are validated before
anything is written; a course with an existing ID is replaced.

--sample imports the built-in sample catalog instead.`,
		Example: `  scorecard courses import courses.yaml
  scorecard courses import ./catalog/
  scorecard courses import --sample`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(app)
			if err != nil {
				return err
			}

			var parsed []golf.Course
			switch {
			case sample:
				parsed, err = courses.Sample()
			case len(args) == 1:
				parsed, err = courses.Load(args[0])
			default:
				return errors.NewValidationError("path", nil, "a file or directory is required unless --sample is set")
			}
			if err != nil {
				return err
			}

			store, err := app.Store(cmd.Context())
			if err != nil {
				return err
			}
			saved, err := courses.Import(cmd.Context(), store, parsed)
			if err != nil {
				return err
			}
			return output.FormatCourses(cmd.OutOrStdout(), saved, format)
		},
	}

	cmd.Flags().BoolVar(&sample, "sample", false, "Import the built-in sample courses")

	return cmd
}
