package student

import (
	"fmt"
	"strconv"
	"strings"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// Major is the program of study. The numeric code is the first digit of a student ID.
type Major int

const (
	MajorCyberSecurity Major = iota + 1
	MajorSoftwareEngineering
	MajorDigitalIndustrialEngineering
	MajorDataScienceAI
)

var majorNames = map[Major]string{
	MajorCyberSecurity:                "Cyber Security",
	MajorSoftwareEngineering:          "Software Engineering",
	MajorDigitalIndustrialEngineering: "Digital Industrial Engineering",
	MajorDataScienceAI:                "Data Science and AI",
}

// Majors returns every known major in code order.
func Majors() []Major {
	return []Major{
		MajorCyberSecurity,
		MajorSoftwareEngineering,
		MajorDigitalIndustrialEngineering,
		MajorDataScienceAI,
	}
}

// IsValid reports whether m is one of the known majors.
func (m Major) IsValid() bool {
	_, ok := majorNames[m]
	return ok
}

// Name returns the display name, or "" for an unknown major.
func (m Major) Name() string {
	return majorNames[m]
}

// Code returns the identifier prefix for the major.
func (m Major) Code() string {
	return strconv.Itoa(int(m))
}

// String implements fmt.Stringer.
func (m Major) String() string {
	if name := m.Name(); name != "" {
		return name
	}
	return fmt.Sprintf("Major(%d)", int(m))
}

// MajorByName maps a persisted display name back to its code.
// Matching ignores surrounding whitespace and letter case.
func MajorByName(name string) (Major, bool) {
	name = strings.TrimSpace(name)
	for code, n := range majorNames {
		if strings.EqualFold(n, name) {
			return code, true
		}
	}
	return 0, false
}

// ParseMajor parses a major code typed by a user.
func ParseMajor(s string) (Major, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	m := Major(n)
	return m, m.IsValid()
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: STUDENT
// ══════════════════════════════════════════════════════════════════════════════

// Student is a registered student record. Records are immutable once issued.
type Student struct {
	FirstName string
	LastName  string
	Major     Major
	MajorName string
	StartYear string
	// Serial is the issuance token embedded in StudentID.
	Serial string
	// StudentID is major code + start year + serial + check digit.
	StudentID string
}

// MajorLabel returns the stored major name, falling back to the code's name.
func (s *Student) MajorLabel() string {
	if s.MajorName != "" {
		return s.MajorName
	}
	return s.Major.Name()
}

// FullName returns "First Last".
func (s *Student) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// String renders the record the way the listing shows it.
func (s *Student) String() string {
	return fmt.Sprintf("%s - %s (%s, %s)", s.StudentID, s.FullName(), s.MajorName, s.StartYear)
}

// SerialFromID extracts the serial segment of an identifier issued for the given
// start year. Returns "" when the identifier is too short to hold one.
func SerialFromID(major Major, startYear, id string) string {
	start := len(major.Code()) + len(startYear)
	end := len(id) - 1
	if start >= end {
		return ""
	}
	return id[start:end]
}
