// README: Prober enriches guesses with checksum validation and calibrated probability.
package carrier

import (
	"sort"

	"shipscope/internal/types"
)

// Probe is a Guess extended with structural validation and a probability
// calibrated against the strongest candidate of the same call.
type Probe struct {
	Guess
	Validated   bool    `json:"validated"`
	Probability float64 `json:"probability"`
}

const (
	probabilityCeiling        = 0.99
	validatedProbabilityFloor = 0.75
)

// Probe runs detection and enriches each candidate. Ordering and limit
// semantics follow Detect exactly, with one documented exception: a
// low-confidence candidate whose family checksum exists and fails has its
// score halved, and the list is re-sorted so the descending-score invariant
// still holds.
func (d *Detector) Probe(trackingNumber string, limit int) []Probe {
	guesses := d.Detect(trackingNumber, limit)
	if len(guesses) == 0 {
		return nil
	}
	normalized := Normalize(trackingNumber)

	probes := make([]Probe, 0, len(guesses))
	for _, g := range guesses {
		validated := false
		if validate := checksumFor(g.Code); validate != nil {
			validated = validate(normalized)
			if !validated && g.Confidence == types.ConfidenceLow {
				g.Score /= 2
			}
		}
		probes = append(probes, Probe{Guess: g, Validated: validated})
	}

	sort.SliceStable(probes, func(i, j int) bool {
		return probes[i].Score > probes[j].Score
	})

	// Probability is relative to the strongest candidate in this result
	// set, never an absolute universal scale.
	topScore := probes[0].Score
	for i := range probes {
		p := float64(probes[i].Score) / float64(topScore+100)
		if p > probabilityCeiling {
			p = probabilityCeiling
		}
		if probes[i].Validated && p < validatedProbabilityFloor {
			// A passing checksum should dominate pattern score alone.
			p = validatedProbabilityFloor
		}
		probes[i].Probability = p
	}
	return probes
}
