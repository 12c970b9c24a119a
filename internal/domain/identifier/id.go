package identifier

// ID is a full identifier: base digits followed by one check digit.
type ID string

// Base returns everything before the check digit. Empty for IDs shorter than 2.
func (id ID) Base() string {
	if len(id) < 2 {
		return ""
	}
	return string(id[:len(id)-1])
}

// CheckDigit returns the trailing digit, or -1 when it is missing or not a digit.
func (id ID) CheckDigit() int {
	if len(id) < 2 {
		return -1
	}
	c := id[len(id)-1]
	if c < '0' || c > '9' {
		return -1
	}
	return int(c - '0')
}

// Valid reports whether the check digit matches the base.
func (id ID) Valid() bool {
	return Validate(string(id))
}
