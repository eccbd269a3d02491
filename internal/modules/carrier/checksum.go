// README: Per-family check-digit validation for tracking numbers.
package carrier

// checksumFor returns the validation function for a signature code, or nil
// when the family has no structural checksum. Families without a checksum
// simply stay unvalidated; they are never penalized for lacking one.
func checksumFor(code string) func(normalized string) bool {
	switch code {
	case "ups":
		return validateUPS
	case "upu-s10":
		return validateS10
	case "usps-impb", "usps-20", "fedex-ground96":
		return validateMod10
	default:
		return nil
	}
}

// validateUPS checks the trailing digit of a 1Z number: letters map to
// (ASCII-63) mod 10, positions alternate weight 1/2, and the check digit
// completes the sum to a multiple of 10.
func validateUPS(s string) bool {
	if len(s) != 18 || s[0] != '1' || s[1] != 'Z' {
		return false
	}
	check := s[17]
	if check < '0' || check > '9' {
		return false
	}

	sum := 0
	for i, c := range []byte(s[2:17]) {
		var v int
		switch {
		case c >= '0' && c <= '9':
			v = int(c - '0')
		case c >= 'A' && c <= 'Z':
			v = int(c-63) % 10
		default:
			return false
		}
		if i%2 == 1 {
			v *= 2
		}
		sum += v
	}
	return (10-sum%10)%10 == int(check-'0')
}

// s10Weights apply to the first eight digits of the S10 serial.
var s10Weights = [8]int{8, 6, 4, 2, 3, 5, 9, 7}

// validateS10 checks the UPU S10 mod-11 check digit (AA#########BB format).
func validateS10(s string) bool {
	if len(s) != 13 {
		return false
	}
	digits := s[2:11]
	sum := 0
	for i := 0; i < 8; i++ {
		c := digits[i]
		if c < '0' || c > '9' {
			return false
		}
		sum += int(c-'0') * s10Weights[i]
	}
	check := 11 - sum%11
	switch check {
	case 10:
		check = 0
	case 11:
		check = 5
	}
	return int(digits[8]-'0') == check
}

// validateMod10 checks the USS Code 128 style check digit used on USPS and
// FedEx Ground barcodes: alternating 3/1 weights from the right, check digit
// completing the sum to a multiple of 10.
func validateMod10(s string) bool {
	if len(s) < 2 {
		return false
	}
	check := s[len(s)-1]
	if check < '0' || check > '9' {
		return false
	}

	sum := 0
	weight := 3
	for i := len(s) - 2; i >= 0; i-- {
		c := s[i]
		if c < '0' || c > '9' {
			return false
		}
		sum += int(c-'0') * weight
		if weight == 3 {
			weight = 1
		} else {
			weight = 3
		}
	}
	return (10-sum%10)%10 == int(check-'0')
}
