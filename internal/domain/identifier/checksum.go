// Package identifier issues and validates checksum-protected student IDs.
//
// An ID is major code + start year + serial + one Luhn check digit:
//
//	2 2025 3123 7
//	| |    |    `- check digit over "220253123"
//	| |    `------ serial: ISO weekday + 3 random digits
//	| `----------- start year
//	`------------- major code
package identifier

// Checksum computes the Luhn check digit for base. Reading from the right,
// digits at odd positions are doubled (minus 9 when above 9) and the rest are
// taken as-is. base must contain digits only; an empty base yields 0.
func Checksum(base string) int {
	sum := 0
	for i := 0; i < len(base); i++ {
		d := int(base[len(base)-1-i] - '0')
		if i%2 == 1 {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
	}
	return (10 - sum%10) % 10
}

// Validate reports whether full ends with the correct check digit for the rest
// of the string. It never panics: empty, one-character and non-digit input is
// simply invalid.
func Validate(full string) bool {
	if len(full) < 2 || !IsDigits(full) {
		return false
	}
	base, check := full[:len(full)-1], int(full[len(full)-1]-'0')
	return Checksum(base) == check
}

// IsDigits reports whether s is non-empty and made of ASCII digits only.
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Append returns base followed by its check digit.
func Append(base string) string {
	return base + string(rune('0'+Checksum(base)))
}
