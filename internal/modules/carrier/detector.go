// README: Carrier detector scores catalog matches into ranked guesses.
package carrier

import (
	"sort"
	"strings"

	"shipscope/internal/types"
)

// Guess is one scored carrier hypothesis. Guesses are computed fresh per
// call and never persisted.
type Guess struct {
	Code           string           `json:"code"`
	Name           string           `json:"name"`
	Confidence     types.Confidence `json:"confidence"`
	Score          int              `json:"score"`
	MatchedPattern string           `json:"matchedPattern"`
	Description    string           `json:"description,omitempty"`
	Example        string           `json:"example,omitempty"`
}

// Scoring constants. A single high-tier match must outrank any low-tier
// match even with every bonus applied (100 > 25+20+15).
const (
	baseScoreHigh   = 100
	baseScoreMedium = 60
	baseScoreLow    = 25

	prefixBonusPerChar = 4
	prefixBonusCap     = 20
	lengthBonus        = 15

	minDetectLength = 4
)

// Detector matches normalized tracking numbers against an injected catalog.
// It holds no mutable state and is safe for concurrent use.
type Detector struct {
	catalog Catalog
}

func NewDetector(catalog Catalog) *Detector {
	return &Detector{catalog: catalog}
}

// Detect returns ranked carrier guesses for a raw tracking number. Limit
// truncates the result; limit <= 0 means no truncation. Unparseable input
// degrades to an empty list, never an error — tracking numbers are
// untrusted free text from many sources.
func (d *Detector) Detect(trackingNumber string, limit int) []Guess {
	normalized := Normalize(trackingNumber)
	if len(normalized) < minDetectLength {
		return nil
	}

	guesses := make([]Guess, 0, 4)
	for _, sig := range d.catalog.Signatures() {
		if !sig.Pattern.MatchString(normalized) {
			continue
		}
		guesses = append(guesses, Guess{
			Code:           sig.Code,
			Name:           sig.Name,
			Confidence:     sig.BaseConfidence,
			Score:          scoreMatch(sig, normalized),
			MatchedPattern: sig.Pattern.String(),
			Description:    sig.Description,
			Example:        sig.Example,
		})
	}

	// Stable sort keeps catalog declaration order for equal scores, which
	// makes the output deterministic.
	sort.SliceStable(guesses, func(i, j int) bool {
		return guesses[i].Score > guesses[j].Score
	})

	if limit > 0 && len(guesses) > limit {
		guesses = guesses[:limit]
	}
	return guesses
}

// Guess returns the single top-scoring guess, or nil when detection is empty.
func (d *Detector) Guess(trackingNumber string) *Guess {
	guesses := d.Detect(trackingNumber, 1)
	if len(guesses) == 0 {
		return nil
	}
	return &guesses[0]
}

// Normalize upper-cases the input and strips spaces and hyphens, so
// "1Z 999 AA1...", "1Z-999-AA1..." and "1Z999AA1..." classify identically.
func Normalize(trackingNumber string) string {
	s := strings.ToUpper(strings.TrimSpace(trackingNumber))
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	return s
}

func scoreMatch(sig Signature, normalized string) int {
	score := baseScore(sig.BaseConfidence)
	score += prefixBonus(sig.Pattern.String())
	for _, l := range sig.Lengths {
		if len(normalized) == l {
			score += lengthBonus
			break
		}
	}
	return score
}

func baseScore(c types.Confidence) int {
	switch c {
	case types.ConfidenceHigh:
		return baseScoreHigh
	case types.ConfidenceMedium:
		return baseScoreMedium
	default:
		return baseScoreLow
	}
}

// prefixBonus rewards patterns whose leading characters are literal: "^1Z"
// pins two characters while "^\d{12}" pins none.
func prefixBonus(pattern string) int {
	literal := 0
	for _, r := range strings.TrimPrefix(pattern, "^") {
		if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			literal++
			continue
		}
		break
	}
	bonus := literal * prefixBonusPerChar
	if bonus > prefixBonusCap {
		bonus = prefixBonusCap
	}
	return bonus
}
