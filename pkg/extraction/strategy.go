package extraction

import (
	"fmt"
	"strings"

	"github.com/agentstation/scorecard/pkg/errors"
)

// Strategy selects how much of the card the extractor reads.
type Strategy string

const (
	// StrategyFull extracts course, tees, holes and scores.
	StrategyFull Strategy = "full"
	// StrategyScoresOnly extracts player scores against a known course.
	StrategyScoresOnly Strategy = "scores_only"
	// StrategyIdentify reads only the course name and location.
	StrategyIdentify Strategy = "identify"
	// StrategySmart identifies the course first and then picks full or scores_only.
	// It is a request mode, never sent to the extractor.
	StrategySmart Strategy = "smart"
)

// String returns the strategy name.
func (s Strategy) String() string {
	return string(s)
}

// ParseStrategy parses a strategy name. The empty string parses as "".
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return "", nil
	case StrategyFull:
		return StrategyFull, nil
	case StrategyScoresOnly, "scores-only", "scores":
		return StrategyScoresOnly, nil
	case StrategySmart:
		return StrategySmart, nil
	case StrategyIdentify:
		return StrategyIdentify, nil
	default:
		return "", errors.NewValidationError("strategy", s,
			fmt.Sprintf("unknown strategy %q (want full, scores_only or smart)", s))
	}
}
