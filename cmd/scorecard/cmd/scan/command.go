// Package scan provides the one-shot scan command.
package scan

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/scorecard/cmd/application"
	"github.com/agentstation/scorecard/internal/cmd/output"
	"github.com/agentstation/scorecard/pkg/errors"
	"github.com/agentstation/scorecard/pkg/extraction"
	"github.com/agentstation/scorecard/pkg/resolve"
	"github.com/agentstation/scorecard/pkg/scan"
)

// Flags holds the scan command flags.
type Flags struct {
	Hint     string
	Context  string
	Strategy string
	Tee      string
	User     string
	CourseID string
	Edits    string
	Confirm  bool
}

// NewCommand creates the scan command.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "scan <image>",
		GroupID: "core",
		Short:   "Read a scorecard image and report the reconciled round",
		Long: `Scan sends a scorecard photo to the extractor, links it to a known
course when one matches, and prints the reconciled round with its
confidence and the fields that need review.

Edits can be applied before printing with --edits, a JSON file in the
same shape the API's PATCH endpoint accepts. With --confirm the
round is saved.`,
		Example: `  # Let the engine pick the strategy
  scorecard scan card.jpg

  # The course is known, only read the scores
  scorecard scan card.jpg --hint "Harbor Pines" --tee White

  # Fix hole 5 and save
  scorecard scan card.jpg --edits fixes.json --confirm`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, app, args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.Hint, "hint", "", "Course name, enables the scores-only fast path")
	cmd.Flags().StringVar(&flags.Context, "context", "", "Free-text context passed to the extractor")
	cmd.Flags().StringVarP(&flags.Strategy, "strategy", "s", "", "Extraction strategy: full, scores_only, smart")
	cmd.Flags().StringVar(&flags.Tee, "tee", "", "Tee color played")
	cmd.Flags().StringVar(&flags.User, "user", "", "User ID for saved tees and the confirmed round")
	cmd.Flags().StringVar(&flags.CourseID, "course-id", "", "Known course ID for scores_only")
	cmd.Flags().StringVar(&flags.Edits, "edits", "", "JSON file of edits to apply")
	cmd.Flags().BoolVar(&flags.Confirm, "confirm", false, "Save the round after scanning")

	return cmd
}

func run(cmd *cobra.Command, app application.Application, path string, flags *Flags) error {
	ctx := cmd.Context()

	format, err := output.ParseFormat(string(output.DetectFormat(app.OutputFormat())))
	if err != nil {
		return err
	}
	strat, err := extraction.ParseStrategy(flags.Strategy)
	if err != nil {
		return err
	}
	edits, err := readEdits(flags.Edits)
	if err != nil {
		return err
	}

	image, err := os.ReadFile(path)
	if err != nil {
		return errors.WrapResource("read", "image", path, err)
	}
	mimeType, _ := extraction.SupportedMIMEType(path)

	store, err := app.Store(ctx)
	if err != nil {
		return err
	}
	extractor, err := app.Extractor()
	if err != nil {
		return err
	}
	scanner := scan.New(extractor, store, store,
		scan.WithConfig(app.ScanConfig()),
		scan.WithUserTees(store),
	)

	sess, err := scanner.Scan(ctx, scan.Request{
		Image:       image,
		MIMEType:    mimeType,
		UserContext: flags.Context,
		CourseHint:  flags.Hint,
		CourseID:    flags.CourseID,
		Strategy:    strat,
		UserID:      flags.User,
		TeeBox:      flags.Tee,
	})
	if err != nil {
		return err
	}

	if edits != nil {
		if sess, err = scanner.Revise(ctx, sess, *edits); err != nil {
			return err
		}
	}

	if !flags.Confirm {
		return output.FormatScan(cmd.OutOrStdout(), sess.Result(), format)
	}

	round, err := scanner.Confirm(ctx, sess)
	if err != nil {
		return err
	}
	return output.FormatRound(cmd.OutOrStdout(), sess.Result(), round, format)
}

// readEdits decodes an edits file. An empty path means no edits.
func readEdits(path string) (*resolve.Edits, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapResource("read", "edits", path, err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var edits resolve.Edits
	if err := dec.Decode(&edits); err != nil {
		return nil, errors.WrapParse("json", path, err)
	}
	return &edits, nil
}
