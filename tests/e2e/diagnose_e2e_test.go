package e2e

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"kconfresolve/tests/testutil"
)

func TestDiagnoseCommandE2E(t *testing.T) {
	root := testutil.RepoRoot(t)

	cmd := exec.Command("go", "run", "./cmd/kconfresolve", "diagnose",
		"--model", "tests/e2e/fixtures/model-sample.yaml",
		"--feature", "NET_WIRELESS",
		"--value", "y",
	)
	cmd.Dir = root
	cmd.Env = append(os.Environ(), "GO111MODULE=on")
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
	require.Contains(t, string(out), "USB -> y")
}

func TestApplyCommandE2E(t *testing.T) {
	root := testutil.RepoRoot(t)
	configPath := filepath.Join(t.TempDir(), "live.yaml")

	cmd := exec.Command("go", "run", "./cmd/kconfresolve", "apply",
		"--model", "tests/e2e/fixtures/model-sample.yaml",
		"--config", configPath,
		"--feature", "NET_WIRELESS",
		"--value", "y",
	)
	cmd.Dir = root
	cmd.Env = append(os.Environ(), "GO111MODULE=on")
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
	require.FileExists(t, configPath)
}

func TestValidateCommandE2E(t *testing.T) {
	root := testutil.RepoRoot(t)

	cmd := exec.Command("go", "run", "./cmd/kconfresolve", "validate",
		"--model", "tests/e2e/fixtures/model-sample.yaml",
	)
	cmd.Dir = root
	cmd.Env = append(os.Environ(), "GO111MODULE=on")
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
	require.Contains(t, string(out), "valid:")
}

func TestDumpCommandE2E(t *testing.T) {
	root := testutil.RepoRoot(t)
	outDir := t.TempDir()

	cmd := exec.Command("go", "run", "./cmd/kconfresolve", "dump",
		"--model", "tests/e2e/fixtures/model-sample.yaml",
		"--output", outDir,
	)
	cmd.Dir = root
	cmd.Env = append(os.Environ(), "GO111MODULE=on")
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))

	require.FileExists(t, filepath.Join(outDir, "constraints.txt"))
	require.FileExists(t, filepath.Join(outDir, "cnf.dimacs"))
}
