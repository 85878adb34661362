// Package similarity scores how alike two normalized course names are.
//
// Scores are Sørensen-Dice coefficients over character trigrams. Both store
// backends score in Go through this package, so they rank identically.
package similarity

import (
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// genericTerms are words that appear in many course names and carry no
// identity. They are dropped before scoring unless nothing else remains.
var genericTerms = map[string]bool{
	"the":     true,
	"golf":    true,
	"links":   true,
	"club":    true,
	"course":  true,
	"country": true,
	"cc":      true,
	"gc":      true,
	"resort":  true,
	"and":     true,
}

// dice holds only settings, so it is safe to share.
var dice = &metrics.SorensenDice{NgramSize: 3}

// Dice returns the Sørensen-Dice coefficient over the trigrams of a and b.
// Blank input scores 0.
func Dice(a, b string) float64 {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return 0
	}
	return strutil.Similarity(a, b, dice)
}

// Names scores two normalized course names, ignoring generic golf terms.
func Names(a, b string) float64 {
	return Dice(StripGeneric(a), StripGeneric(b))
}

// StripGeneric removes generic golf terms from a normalized name. If only
// generic terms remain, s is returned unchanged.
func StripGeneric(s string) string {
	words := strings.Fields(s)
	kept := words[:0:0]
	for _, w := range words {
		if !genericTerms[w] {
			kept = append(kept, w)
		}
	}
	if len(kept) == 0 {
		return strings.Join(words, " ")
	}
	return strings.Join(kept, " ")
}

// LocationMatches reports whether a normalized candidate location is
// compatible with a normalized query location: equal, or one contains the
// other on word boundaries.
func LocationMatches(query, candidate string) bool {
	if query == "" || candidate == "" {
		return false
	}
	if query == candidate {
		return true
	}
	q, c := " "+query+" ", " "+candidate+" "
	return strings.Contains(c, q) || strings.Contains(q, c)
}
