// README: Static carrier signature catalog; immutable after construction.
package carrier

import (
	"fmt"
	"regexp"

	"shipscope/internal/types"
)

// Signature describes one carrier (or airline) tracking-number format.
type Signature struct {
	Pattern        *regexp.Regexp
	Code           string
	Name           string
	BaseConfidence types.Confidence
	Description    string
	Example        string
	// Lengths lists the canonical total lengths for this format; an exact
	// match earns a scoring bonus.
	Lengths []int
}

// Catalog is a read-only, ordered set of signatures. It is built once and
// passed into detectors; nothing mutates it afterwards, so concurrent use
// is safe by construction.
type Catalog struct {
	sigs []Signature
}

// NewCatalog validates signature codes are unique and returns the catalog.
// Declaration order is preserved and is the tie-break for equal scores.
func NewCatalog(sigs []Signature) (Catalog, error) {
	seen := make(map[string]struct{}, len(sigs))
	for _, s := range sigs {
		if s.Code == "" {
			return Catalog{}, fmt.Errorf("carrier: signature %q has empty code", s.Name)
		}
		if _, dup := seen[s.Code]; dup {
			return Catalog{}, fmt.Errorf("carrier: duplicate signature code %q", s.Code)
		}
		if s.Pattern == nil {
			return Catalog{}, fmt.Errorf("carrier: signature %q has nil pattern", s.Code)
		}
		seen[s.Code] = struct{}{}
	}
	cp := make([]Signature, len(sigs))
	copy(cp, sigs)
	return Catalog{sigs: cp}, nil
}

// Signatures returns the catalog entries in declaration order.
func (c Catalog) Signatures() []Signature {
	return c.sigs
}

// Len reports the number of signatures.
func (c Catalog) Len() int { return len(c.sigs) }

// DefaultCatalog is the built-in signature table. Formats genuinely overlap
// (a bare 12-digit number is both a FedEx Express and a generic candidate),
// so several entries may match one input; the detector scores them apart.
func DefaultCatalog() Catalog {
	c, err := NewCatalog([]Signature{
		{
			Pattern:        regexp.MustCompile(`^1Z[A-Z0-9]{16}$`),
			Code:           "ups",
			Name:           "UPS",
			BaseConfidence: types.ConfidenceHigh,
			Description:    "UPS 1Z tracking number",
			Example:        "1Z999AA10123456784",
			Lengths:        []int{18},
		},
		{
			Pattern:        regexp.MustCompile(`^9[2345]\d{20}$`),
			Code:           "usps-impb",
			Name:           "USPS",
			BaseConfidence: types.ConfidenceHigh,
			Description:    "USPS Intelligent Mail package barcode",
			Example:        "9400111897700000000000",
			Lengths:        []int{22},
		},
		{
			Pattern:        regexp.MustCompile(`^96\d{20}$`),
			Code:           "fedex-ground96",
			Name:           "FedEx Ground",
			BaseConfidence: types.ConfidenceHigh,
			Description:    "FedEx Ground 96 barcode",
			Example:        "9611020987654312345678",
			Lengths:        []int{22},
		},
		{
			Pattern:        regexp.MustCompile(`^[A-Z]{2}\d{9}[A-Z]{2}$`),
			Code:           "upu-s10",
			Name:           "International Post (UPU S10)",
			BaseConfidence: types.ConfidenceHigh,
			Description:    "UPU S10 international registered mail",
			Example:        "RR123456785CN",
			Lengths:        []int{13},
		},
		{
			Pattern:        regexp.MustCompile(`^TBA\d{12}$`),
			Code:           "amazon",
			Name:           "Amazon Logistics",
			BaseConfidence: types.ConfidenceHigh,
			Description:    "Amazon Logistics TBA tracking number",
			Example:        "TBA123456789012",
			Lengths:        []int{15},
		},
		{
			Pattern:        regexp.MustCompile(`^\d{12}$`),
			Code:           "fedex-express",
			Name:           "FedEx",
			BaseConfidence: types.ConfidenceMedium,
			Description:    "FedEx Express 12-digit tracking number",
			Example:        "794644790132",
			Lengths:        []int{12},
		},
		{
			Pattern:        regexp.MustCompile(`^\d{15}$`),
			Code:           "fedex-ground",
			Name:           "FedEx Ground",
			BaseConfidence: types.ConfidenceMedium,
			Description:    "FedEx Ground 15-digit tracking number",
			Example:        "061121092345678",
			Lengths:        []int{15},
		},
		{
			Pattern:        regexp.MustCompile(`^\d{20}$`),
			Code:           "usps-20",
			Name:           "USPS",
			BaseConfidence: types.ConfidenceMedium,
			Description:    "USPS 20-digit tracking number",
			Example:        "71123456789012345678",
			Lengths:        []int{20},
		},
		{
			Pattern:        regexp.MustCompile(`^\d{10}$`),
			Code:           "dhl-express",
			Name:           "DHL Express",
			BaseConfidence: types.ConfidenceMedium,
			Description:    "DHL Express 10-digit waybill",
			Example:        "1234567890",
			Lengths:        []int{10},
		},
		{
			Pattern:        regexp.MustCompile(`^\d{16}$`),
			Code:           "canada-post",
			Name:           "Canada Post",
			BaseConfidence: types.ConfidenceMedium,
			Description:    "Canada Post 16-digit tracking number",
			Example:        "1371134583769923",
			Lengths:        []int{16},
		},
		{
			Pattern:        regexp.MustCompile(`^[CD]\d{14}$`),
			Code:           "ontrac",
			Name:           "OnTrac",
			BaseConfidence: types.ConfidenceMedium,
			Description:    "OnTrac C/D-prefixed tracking number",
			Example:        "C12345678901234",
			Lengths:        []int{15},
		},
		{
			Pattern:        regexp.MustCompile(`^L[A-Z]\d{8}$`),
			Code:           "lasership",
			Name:           "LaserShip",
			BaseConfidence: types.ConfidenceMedium,
			Description:    "LaserShip LX-prefixed tracking number",
			Example:        "LE17119215",
			Lengths:        []int{10},
		},
		{
			Pattern:        regexp.MustCompile(`^(GM|LX|RX|UV)\d{10,37}$`),
			Code:           "dhl-ecommerce",
			Name:           "DHL eCommerce",
			BaseConfidence: types.ConfidenceLow,
			Description:    "DHL eCommerce mail-stream identifier",
			Example:        "GM2951173225",
		},
		{
			Pattern:        regexp.MustCompile(`^\d{11}$`),
			Code:           "iata-awb",
			Name:           "Air Cargo (IATA AWB)",
			BaseConfidence: types.ConfidenceMedium,
			Description:    "IATA air waybill (3-digit airline prefix + serial)",
			Example:        "02012345675",
			Lengths:        []int{11},
		},
		{
			Pattern:        regexp.MustCompile(`^[A-Z]{2}\d{3,4}$`),
			Code:           "airline-flight",
			Name:           "Airline Flight",
			BaseConfidence: types.ConfidenceLow,
			Description:    "IATA flight designator",
			Example:        "UA1234",
		},
	})
	if err != nil {
		// The built-in table is a programming constant; a bad entry is a bug.
		panic(err)
	}
	return c
}
