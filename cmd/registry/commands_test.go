package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/student-id-registry/internal/domain/identifier"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, key := range []string{"REGISTRY_STORAGE", "DATABASE_URL", "DB_HOST", "REDIS_URL", "REDIS_HOST", "REDIS_ENABLED", "LOGIN_PRE_VALIDATE", "ERROR_TESTS_PER_STUDENT"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Setenv("REGISTRY_CSV_PATH", filepath.Join(dir, "students.csv"))
	t.Setenv("ERROR_REPORT_PATH", filepath.Join(dir, "results.csv"))
	t.Setenv("LOG_LEVEL", "error")
	return dir
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	if args == nil {
		args = []string{}
	}
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCLI_AddListLogin(t *testing.T) {
	isolate(t)

	out, err := execute(t, "", "add", "--first", "Dana", "--last", "Omarova", "--major", "2", "--year", "2025")
	require.NoError(t, err)
	id := strings.TrimSpace(out)
	assert.True(t, identifier.Validate(id))
	assert.True(t, strings.HasPrefix(id, "22025"))

	out, err = execute(t, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, id)
	assert.Contains(t, out, "Software Engineering")

	out, err = execute(t, "", "login", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Welcome, Dana Omarova!")

	_, err = execute(t, "", "login", "1111111111")
	assert.ErrorContains(t, err, "not found")
}

func TestCLI_AddRejectsUnknownMajor(t *testing.T) {
	dir := isolate(t)

	_, err := execute(t, "", "add", "--first", "A", "--last", "B", "--major", "9", "--year", "2025")
	assert.Error(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "students.csv"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestCLI_Validate(t *testing.T) {
	isolate(t)

	out, err := execute(t, "", "validate", "2142025101233")
	require.NoError(t, err)
	assert.Contains(t, out, "valid")

	out, err = execute(t, "", "validate", "2142025101234")
	assert.ErrorIs(t, err, errInvalidID)
	assert.Contains(t, out, "invalid")

	_, err = execute(t, "", "validate", "abc")
	assert.ErrorIs(t, err, errInvalidID)
}

func TestCLI_ErrorTest(t *testing.T) {
	dir := isolate(t)

	_, err := execute(t, "", "add", "--first", "Dana", "--last", "Omarova", "--major", "1", "--year", "2024")
	require.NoError(t, err)

	out, err := execute(t, "", "errortest", "--tests", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "Error detection success rate:")

	data, err := os.ReadFile(filepath.Join(dir, "results.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 1+5)
}

func TestCLI_MenuIsDefault(t *testing.T) {
	isolate(t)

	out, err := execute(t, "6\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Student ID System")
	assert.Contains(t, out, "Exiting. Goodbye!")
}

func TestCLI_MigrateCSV(t *testing.T) {
	isolate(t)

	out, err := execute(t, "", "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing to migrate for the csv backend.")
}

func TestCLI_BadStorageFlag(t *testing.T) {
	isolate(t)

	_, err := execute(t, "", "--storage", "mongo", "list")
	assert.Error(t, err)
}
