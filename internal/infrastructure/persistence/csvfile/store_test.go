package csvfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/student-id-registry/internal/domain/shared"
	"github.com/alem-hub/student-id-registry/internal/domain/student"
)

func sampleRecords() []*student.Student {
	return []*student.Student{
		{FirstName: "Aruzhan", LastName: "Sadykova", Major: student.MajorSoftwareEngineering, MajorName: "Software Engineering", StartYear: "2025", Serial: "3123", StudentID: "2202531231"},
		{FirstName: "Dias", LastName: "Omarov, Jr", Major: student.MajorCyberSecurity, MajorName: "Cyber Security", StartYear: "2024", Serial: "1007", StudentID: "1202410075"},
		{FirstName: "Mira", LastName: "Lee", Major: student.MajorDataScienceAI, MajorName: "Data Science and AI", StartYear: "2023", Serial: "7999", StudentID: "4202379990"},
	}
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "students.csv")
	store := NewStore(path)
	ctx := context.Background()

	want := sampleRecords()
	require.NoError(t, store.Save(ctx, want))

	res, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, res.Skipped)

	if diff := cmp.Diff(want, res.Records); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_SaveWritesHeaderFirst(t *testing.T) {
	path := filepath.Join(t.TempDir(), "students.csv")
	require.NoError(t, NewStore(path).Save(context.Background(), sampleRecords()[:1]))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"First Name,Last Name,Major,Start Year,Student ID\nAruzhan,Sadykova,Software Engineering,2025,2202531231\n",
		string(data))
}

func TestStore_LoadMissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "nope.csv"))

	res, err := store.Load(context.Background())
	assert.Nil(t, res)
	assert.ErrorIs(t, err, shared.ErrMissingSource)
}

func TestStore_LoadSkipsUnknownMajor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "students.csv")
	content := "First Name,Last Name,Major,Start Year,Student ID\n" +
		"A,One,Cyber Security,2025,1202510011\n" +
		"B,Two,Astrology,2025,9202510022\n" +
		"C,Three\n" +
		"D,Four,Software Engineering,2025,2202510033\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	res, err := NewStore(path).Load(context.Background())
	require.NoError(t, err)

	require.Len(t, res.Records, 2)
	assert.Equal(t, "A", res.Records[0].FirstName)
	assert.Equal(t, "D", res.Records[1].FirstName)

	require.Len(t, res.Skipped, 2)
	assert.Equal(t, 2, res.Skipped[0].Line)
	assert.ErrorIs(t, res.Skipped[0].Reason, shared.ErrUnknownMajorName)
	assert.Equal(t, 3, res.Skipped[1].Line)
	assert.ErrorIs(t, res.Skipped[1].Reason, shared.ErrInvalidFormat)
}

func TestStore_LoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "students.csv")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	res, err := NewStore(path).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, res.Records)
}

func TestStore_LoadReorderedColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "students.csv")
	content := "Student ID,Major,First Name,Last Name,Start Year\n" +
		"2202531231,Software Engineering,Aruzhan,Sadykova,2025\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	res, err := NewStore(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "Aruzhan", res.Records[0].FirstName)
	assert.Equal(t, "2202531231", res.Records[0].StudentID)
	assert.Equal(t, "3123", res.Records[0].Serial)
}
