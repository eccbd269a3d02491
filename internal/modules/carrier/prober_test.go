package carrier

import (
	"sort"
	"testing"
)

func TestProbe_ValidatedUPSExceedsFloor(t *testing.T) {
	d := newTestDetector()
	probes := d.Probe("1Z999AA10123456784", 5)
	if len(probes) == 0 {
		t.Fatal("expected probes for valid UPS number")
	}
	top := probes[0]
	if top.Code != "ups" {
		t.Fatalf("top probe = %q, want ups", top.Code)
	}
	if !top.Validated {
		t.Error("expected checksum validation to pass")
	}
	if top.Probability <= 0.7 {
		t.Errorf("validated probe probability = %f, want > 0.7", top.Probability)
	}
}

func TestProbe_FailedChecksumNotValidated(t *testing.T) {
	d := newTestDetector()
	probes := d.Probe("1Z999AA10123456785", 5) // bad check digit
	if len(probes) == 0 {
		t.Fatal("expected probes: the pattern still matches")
	}
	if probes[0].Validated {
		t.Error("tampered check digit must not validate")
	}
}

func TestProbe_ProbabilityBounds(t *testing.T) {
	d := newTestDetector()
	inputs := []string{
		"1Z999AA10123456784",
		"9400111897700000000000",
		"123456789012",
		"RR123456785CN",
		"TBA123456789012",
	}
	for _, in := range inputs {
		for _, p := range d.Probe(in, 0) {
			if p.Probability < 0 || p.Probability > 1 {
				t.Errorf("Probe(%q): probability %f out of [0,1] for %q", in, p.Probability, p.Code)
			}
		}
	}
}

func TestProbe_PreservesOrderAndLimit(t *testing.T) {
	d := newTestDetector()
	in := "123456789012"

	guesses := d.Detect(in, 3)
	probes := d.Probe(in, 3)
	if len(probes) != len(guesses) {
		t.Fatalf("probe count %d != detect count %d", len(probes), len(guesses))
	}
	for i := range probes {
		if probes[i].Code != guesses[i].Code {
			t.Errorf("probe order diverged at %d: %q vs %q", i, probes[i].Code, guesses[i].Code)
		}
	}
	if !sort.SliceIsSorted(probes, func(i, j int) bool { return probes[i].Score > probes[j].Score }) {
		t.Errorf("probes not sorted descending by score: %+v", probes)
	}
}

func TestProbe_NoChecksumFamilyUnpenalized(t *testing.T) {
	d := newTestDetector()
	in := "123456789012" // FedEx Express has no published check digit

	guesses := d.Detect(in, 0)
	probes := d.Probe(in, 0)
	for i := range probes {
		if checksumFor(probes[i].Code) == nil {
			if probes[i].Validated {
				t.Errorf("%q has no checksum but is marked validated", probes[i].Code)
			}
			if probes[i].Score != guesses[i].Score {
				t.Errorf("%q score changed without a checksum: %d vs %d", probes[i].Code, probes[i].Score, guesses[i].Score)
			}
		}
	}
}

func TestProbe_InvalidInputEmpty(t *testing.T) {
	d := newTestDetector()
	for _, in := range []string{"", "123", "INVALID"} {
		if got := d.Probe(in, 5); len(got) != 0 {
			t.Errorf("Probe(%q) = %+v, want empty", in, got)
		}
	}
}
