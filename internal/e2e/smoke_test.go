package e2e

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmokeFlow(t *testing.T) {
	home := t.TempDir()
	binaryPath := buildBinary(t)
	require.NoError(t, writeRosterFixture(home))

	stdout, stderr, err := runBTA(t, binaryPath, home, "roster", "list")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "AA:BB:CC:DD:EE:01\tAlice")

	_, stderr, err = runBTA(t, binaryPath, home,
		"roster", "add",
		"--device", "AA:BB:CC:DD:EE:02",
		"--name", "Bob",
	)
	require.NoError(t, err, "stderr: %s", stderr)

	stdout, stderr, err = runBTA(t, binaryPath, home,
		"session", "run",
		"--simulate",
		"--scans", "2",
		"--interval", "1ms",
		"--out", filepath.Join(home, "reports"),
	)
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "Attendance Report")
	assert.Contains(t, stdout, "report written to")
}

func buildBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "bta-e2e")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/bta")
	cmd.Dir = repoRoot(t)

	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "build bta binary: %s", string(output))
	return binaryPath
}

func runBTA(t *testing.T, binaryPath, home string, args ...string) (string, string, error) {
	t.Helper()

	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(os.Environ(), "HOME="+home)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func repoRoot(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(wd, "..", ".."))
}

func writeRosterFixture(home string) error {
	configDir := filepath.Join(home, ".bta")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return err
	}

	roster := `version = 1

[[identities]]
device_id = "AA:BB:CC:DD:EE:01"
display_name = "Alice"
registered_at = "2026-03-01T10:30:00Z"
`

	return os.WriteFile(filepath.Join(configDir, "roster.toml"), []byte(roster), 0o644)
}
