package student

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMajor_Names(t *testing.T) {
	assert.Equal(t, "Cyber Security", MajorCyberSecurity.Name())
	assert.Equal(t, "Software Engineering", MajorSoftwareEngineering.Name())
	assert.Equal(t, "Digital Industrial Engineering", MajorDigitalIndustrialEngineering.Name())
	assert.Equal(t, "Data Science and AI", MajorDataScienceAI.Name())
	assert.Equal(t, "", Major(9).Name())
	assert.Equal(t, "Major(9)", Major(9).String())
}

func TestMajorByName(t *testing.T) {
	for _, m := range Majors() {
		got, ok := MajorByName(m.Name())
		assert.True(t, ok)
		assert.Equal(t, m, got)
	}

	got, ok := MajorByName("  software engineering ")
	assert.True(t, ok)
	assert.Equal(t, MajorSoftwareEngineering, got)

	_, ok = MajorByName("Astrology")
	assert.False(t, ok)
}

func TestParseMajor(t *testing.T) {
	m, ok := ParseMajor(" 3 ")
	assert.True(t, ok)
	assert.Equal(t, MajorDigitalIndustrialEngineering, m)

	_, ok = ParseMajor("7")
	assert.False(t, ok)
	_, ok = ParseMajor("two")
	assert.False(t, ok)
}

func TestSerialFromID(t *testing.T) {
	assert.Equal(t, "3123", SerialFromID(MajorSoftwareEngineering, "2025", "2202531231"))
	assert.Equal(t, "", SerialFromID(MajorSoftwareEngineering, "2025", "22025"))
}

func TestStudent_MajorLabelAndNames(t *testing.T) {
	s := &Student{FirstName: "Dana", LastName: "Omarova", Major: MajorDataScienceAI, StartYear: "2025", StudentID: "4202530011"}
	assert.Equal(t, "Data Science and AI", s.MajorLabel())
	assert.Equal(t, "Dana Omarova", s.FullName())

	s.MajorName = "Custom"
	assert.Equal(t, "Custom", s.MajorLabel())
}
