// Package testutil provides golden file helpers for snapshot testing.
// Golden files hold known-good reference output; tests compare fresh
// output against them and fail on drift.
package testutil

import (
	"bytes"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var updateGolden = flag.Bool("update-golden", false, "Update golden files")

// goldenDir is resolved relative to the calling package's directory,
// which is the working directory during go test.
const goldenDir = "testdata/golden"

// AssertGoldenJSON marshals data to indented JSON and compares it against
// testdata/golden/<name>.golden. A missing golden file is created from the
// actual output and the test fails, so a re-run verifies the snapshot.
func AssertGoldenJSON(t *testing.T, name string, data interface{}) {
	t.Helper()

	actual, err := json.MarshalIndent(data, "", "  ")
	require.NoError(t, err, "Failed to marshal data to JSON")

	AssertGoldenBytes(t, name, actual)
}

// AssertGoldenBytes compares raw bytes against testdata/golden/<name>.golden.
func AssertGoldenBytes(t *testing.T, name string, actual []byte) {
	t.Helper()

	require.NoError(t, os.MkdirAll(goldenDir, 0o755), "Failed to create golden directory")
	goldenPath := filepath.Join(goldenDir, name+".golden")

	if *updateGolden {
		require.NoError(t, os.WriteFile(goldenPath, actual, 0o644),
			"Failed to write golden file: %s", goldenPath)
		t.Logf("Updated golden file: %s", goldenPath)
		return
	}

	expected, err := os.ReadFile(goldenPath)
	if os.IsNotExist(err) {
		require.NoError(t, os.WriteFile(goldenPath, actual, 0o644),
			"Failed to create golden file: %s", goldenPath)
		require.Fail(t, "Golden file created",
			"Golden file %s did not exist and has been created. "+
				"Re-run the test to verify the output is correct.", goldenPath)
		return
	}
	require.NoError(t, err, "Failed to read golden file: %s", goldenPath)

	if !bytes.Equal(expected, actual) {
		assert.Equal(t, string(expected), string(actual),
			"Golden file mismatch for %s. Use -update-golden to update the golden file.", name)
	}
}

// LoadGoldenJSON unmarshals a golden file into target for manual comparison.
func LoadGoldenJSON(t *testing.T, name string, target interface{}) {
	t.Helper()

	goldenPath := filepath.Join(goldenDir, name+".golden")
	data, err := os.ReadFile(goldenPath)
	require.NoError(t, err, "Failed to read golden file: %s", goldenPath)

	require.NoError(t, json.Unmarshal(data, target),
		"Failed to unmarshal golden JSON file: %s", goldenPath)
}
