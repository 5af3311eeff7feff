package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixir/author-match/internal/domain"
)

func writeJSON(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	root := newRootCommand()
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(&stderr)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestMatchCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	left := writeJSON(t, dir, "left.json", `[
		{"full_name": "Albert Einstein", "affiliations": ["ETH Zurich"]},
		{"full_name": "Niels Bohr"},
		{"full_name": "Paul Dirac"}
	]`)
	right := writeJSON(t, dir, "right.json", `[
		{"full_name": "N. Bohr"},
		{"full_name": "A. Einstein", "ids": {"orcid": "0000-0001"}},
		{"full_name": "Lise Meitner"}
	]`)
	metricsPath := filepath.Join(dir, "metrics.prom")

	stdout, stderr, err := execute(t, "", "match",
		"--left", left,
		"--right", right,
		"--threshold", "0.4",
		"--metrics-out", metricsPath,
	)
	require.NoError(t, err, stderr)

	var part domain.Partition
	require.NoError(t, json.Unmarshal([]byte(stdout), &part))

	require.Len(t, part.Common, 2)
	assert.Equal(t, 0, part.Common[0].LeftIndex)
	assert.Equal(t, 1, part.Common[0].RightIndex)
	assert.Equal(t, []string{"ETH Zurich"}, part.Common[0].Left.Affiliations)
	assert.Equal(t, 1, part.Common[1].LeftIndex)
	assert.Equal(t, 0, part.Common[1].RightIndex)

	require.Len(t, part.LeftOnly, 1)
	assert.Equal(t, "Paul Dirac", part.LeftOnly[0].Record.FullName)
	require.Len(t, part.RightOnly, 1)
	assert.Equal(t, "Lise Meitner", part.RightOnly[0].Record.FullName)

	assert.Contains(t, stderr, "match completed")

	metrics, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "author_match_runs_completed_total 1")
}

func TestMatchCommand_Stdin(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	left := writeJSON(t, dir, "left.json", `[{"full_name": "Marie Curie"}]`)

	stdout, stderr, err := execute(t, `[{"full_name": "M. Curie"}]`, "match",
		"--left", left,
		"--right", "-",
		"--normalizers", "last_name,full_name",
	)
	require.NoError(t, err, stderr)

	var part domain.Partition
	require.NoError(t, json.Unmarshal([]byte(stdout), &part))
	require.Len(t, part.Common, 1)
	assert.Equal(t, "last_name", part.Common[0].Stage)
}

func TestMatchCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	valid := writeJSON(t, dir, "valid.json", `[{"full_name": "Marie Curie"}]`)
	missingName := writeJSON(t, dir, "missing.json", `[{"full_name": "Marie Curie"}, {"ids": {"orcid": "1"}}]`)
	malformed := writeJSON(t, dir, "malformed.json", `{"full_name": "Marie Curie"}`)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "missing right flag",
			args:    []string{"match", "--left", valid},
			wantErr: "required flag",
		},
		{
			name:    "record without name",
			args:    []string{"match", "--left", valid, "--right", missingName},
			wantErr: "[1].FullName",
		},
		{
			name:    "not an array",
			args:    []string{"match", "--left", malformed, "--right", valid},
			wantErr: "load left list",
		},
		{
			name:    "unknown normalizer",
			args:    []string{"match", "--left", valid, "--right", valid, "--normalizers", "soundex"},
			wantErr: "unknown normalizer",
		},
		{
			name:    "threshold out of range",
			args:    []string{"match", "--left", valid, "--right", valid, "--threshold", "1.5"},
			wantErr: "Threshold",
		},
		{
			name:    "both lists from stdin",
			args:    []string{"match", "--left", "-", "--right", "-"},
			wantErr: "stdin",
		},
		{
			name:    "missing file",
			args:    []string{"match", "--left", filepath.Join(dir, "nope.json"), "--right", valid},
			wantErr: "no such file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, "", tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDistanceCommand(t *testing.T) {
	t.Chdir(t.TempDir())

	stdout, _, err := execute(t, "", "distance", "Albert Einstein", "A. Einstein")
	require.NoError(t, err)
	assert.Equal(t, "0.025\n", stdout)

	_, _, err = execute(t, "", "distance", "only one")
	require.Error(t, err)
}

func TestDistanceCommand_Config(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Setenv("AUTHORMATCH_MATCHING_DISTANCE", "ground_truth")
	_, _, err := execute(t, "", "distance", "Marie Curie", "M. Curie")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "needs identifiers")

	t.Setenv("AUTHORMATCH_MATCHING_DISTANCE", "name")
	t.Setenv("AUTHORMATCH_MATCHING_PARSE_CACHE_SIZE", "0")
	_, _, err = execute(t, "", "distance", "Marie Curie", "M. Curie")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ParseCacheSize")

	t.Setenv("AUTHORMATCH_MATCHING_PARSE_CACHE_SIZE", "1")
	stdout, _, err := execute(t, "", "distance", "Marie Curie", "Marie Curie")
	require.NoError(t, err)
	assert.Equal(t, "0\n", stdout)
}

func TestNormalizersCommand(t *testing.T) {
	t.Chdir(t.TempDir())

	stdout, _, err := execute(t, "", "normalizers")
	require.NoError(t, err)
	assert.Equal(t, "full_name\nlast_first_initial\nlast_initials\nlast_name\n", stdout)
}
