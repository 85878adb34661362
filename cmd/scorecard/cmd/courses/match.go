package courses

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/scorecard/cmd/application"
	"github.com/agentstation/scorecard/internal/cmd/output"
	"github.com/agentstation/scorecard/pkg/matcher"
)

func newMatchCommand(app application.Application) *cobra.Command {
	var location string

	cmd := &cobra.Command{
		Use:   "match <name>",
		Short: "Match a course name against the catalog",
		Long: `Match runs the same course matching the scanner uses: an exact
comparison of normalized names first, then trigram similarity against the
configured threshold.`,
		Example: `  scorecard courses match "harbor pines"
  scorecard courses match "Cedar Rdge" --location "Bend, OR"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(app)
			if err != nil {
				return err
			}
			store, err := app.Store(cmd.Context())
			if err != nil {
				return err
			}

			threshold := app.ScanConfig().MatchThreshold
			m := matcher.New(store, &matcher.Options{Threshold: threshold})
			res, err := m.Match(cmd.Context(), strings.Join(args, " "), location)
			if err != nil {
				return err
			}
			return output.FormatMatch(cmd.OutOrStdout(), res, threshold, format)
		},
	}

	cmd.Flags().StringVarP(&location, "location", "l", "", "Course location, e.g. \"Bend, OR\"")

	return cmd
}
