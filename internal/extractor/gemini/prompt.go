package gemini

import (
	"fmt"
	"strings"

	"github.com/agentstation/scorecard/pkg/golf"
)

const readingRules = `You read golf scorecards from photos and scanned documents.

Scores:
- Report "strokes" as the total number of strokes on the hole.
- Cards are normally written in total strokes. When a card, or the user, uses score to par (+1, -1, E), add the written value to the hole's par.
- Circles and squares around a number do not change the number inside.
- When several players are on the card, read only the player the user names, otherwise the first row.

Confidence:
Give every value a confidence between 0.0 and 1.0 that it was read correctly.
- 1.0: printed or written clearly
- 0.7 to 0.9: small ambiguity
- 0.4 to 0.6: messy or partly hidden
- below 0.4: guessing
Handwritten strokes and putts deserve extra care; lower the confidence when a digit could be read two ways (a 4 that may be a 9).
When score to par was converted, the confidence covers both the written value and the par used.

Blanks:
Use "value": null for any field you looked for but cannot read. Never invent values.
`

const fullTask = `Read everything on the card.
- Report every tee row printed on the card with its yardage for each hole.
- Report one entry per hole on the card (18, or 9 for a nine-hole card), numbered 1 upward with confidence 1.0.
- Report front nine, back nine and total subtotals when the card has them.
- Printed par and handicap values should carry high confidence unless obscured.
`

const identifyTask = `Read only the course name and its location (city, state or region) from the card header or logo.
Respond with {"name": {"value": ..., "confidence": ...}, "location": {"value": ..., "confidence": ...}}.
`

func fullPrompt(userContext string) string {
	return withContext(readingRules+"\n"+fullTask, userContext)
}

// scoresOnlyPrompt describes the known course so the model only reads the
// player's handwriting. Par, handicap and yardage come from the course record.
func scoresOnlyPrompt(course *golf.Course, userContext string) string {
	var b strings.Builder
	b.WriteString(readingRules)
	b.WriteString("\nThe course is already known")
	if course != nil {
		fmt.Fprintf(&b, ": %s", course.Name)
		if course.Location != "" {
			fmt.Fprintf(&b, " (%s)", course.Location)
		}
		b.WriteString(".\n")
		if len(course.Holes) > 0 {
			b.WriteString("Hole pars for converting score to par:\n")
			for _, h := range course.Holes {
				fmt.Fprintf(&b, "- hole %d: par %d\n", h.Number, h.Par)
			}
		}
	} else {
		b.WriteString(".\n")
	}
	b.WriteString(`Read only the player's row and the round details.
- For each hole report hole_number, strokes, putts, fairway_hit and green_in_regulation.
- Leave course, tees, par and handicap out of the response.
- Report the date, player name, notes and any written subtotals.
`)
	return withContext(b.String(), userContext)
}

func identifyPrompt(userContext string) string {
	return withContext(identifyTask, userContext)
}

func withContext(prompt, userContext string) string {
	userContext = strings.TrimSpace(userContext)
	if userContext == "" {
		return prompt
	}
	return prompt + "\nNotes from the user:\n" + userContext + "\n"
}
