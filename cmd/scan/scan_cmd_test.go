package scan

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cyclicPackage(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "foo")
	require.NoError(t, os.MkdirAll(root, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "__init__.py"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "bar.py"), []byte("import foo.baz\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "baz.py"), []byte("import foo.bar\n"), 0o644))
	return root
}

func runCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestScan_JSONOutput(t *testing.T) {
	root := cyclicPackage(t)

	stdout, _, err := runCommand(t, root)
	require.NoError(t, err)

	assert.Contains(t, stdout, `"foo.bar"`)
	assert.Contains(t, stdout, `"cycle": "bad"`)
	assert.Contains(t, stdout, `"vanilla"`)
}

func TestScan_DOTOutput(t *testing.T) {
	root := cyclicPackage(t)

	stdout, _, err := runCommand(t, root, "-f", "dot")
	require.NoError(t, err)

	assert.Contains(t, stdout, "digraph imports {")
	assert.Contains(t, stdout, `label="foo";`)
	assert.Contains(t, stdout, `"foo.bar" -> "foo.baz" [color=red`)
}

func TestScan_URLGeneration(t *testing.T) {
	root := cyclicPackage(t)

	stdout, _, err := runCommand(t, root, "-f", "dot", "-u")
	require.NoError(t, err)
	assert.Contains(t, stdout, "https://dreampuf.github.io/GraphvizOnline/")
}

func TestScan_URLUnsupportedForJSON(t *testing.T) {
	root := cyclicPackage(t)

	stdout, stderr, err := runCommand(t, root, "-u")
	require.NoError(t, err)
	assert.Contains(t, stderr, "URL generation is not supported")
	assert.Contains(t, stdout, `"foo.bar"`)
}

func TestScan_SeverityOverrideFlag(t *testing.T) {
	root := cyclicPackage(t)

	stdout, _, err := runCommand(t, root, "--vanilla", "good")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"cycle": "good"`)
}

func TestScan_InvalidSeverityFlag(t *testing.T) {
	root := cyclicPackage(t)

	_, _, err := runCommand(t, root, "--vanilla", "terrible")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--vanilla")
}

func TestScan_FailOnThreshold(t *testing.T) {
	root := cyclicPackage(t)

	_, _, err := runCommand(t, root, "--fail-on", "complicated")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "found cycle of severity")

	_, _, err = runCommand(t, root, "--fail-on", "complicated", "--vanilla", "skip")
	require.NoError(t, err)
}

func TestScan_FailOnFromConfig(t *testing.T) {
	root := cyclicPackage(t)
	configPath := filepath.Join(t.TempDir(), ".byecycle.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("fail_on: complicated\n"), 0o644))

	_, _, err := runCommand(t, root, "--config", configPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "found cycle of severity")

	// The flag wins over the configured threshold.
	_, _, err = runCommand(t, root, "--config", configPath, "--fail-on", "bad", "--vanilla", "complicated")
	require.NoError(t, err)
}

func TestScan_InvalidFailOnInConfig(t *testing.T) {
	root := cyclicPackage(t)
	configPath := filepath.Join(t.TempDir(), ".byecycle.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("fail_on: terrible\n"), 0o644))

	_, _, err := runCommand(t, root, "--config", configPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fail_on config")
}

func TestScan_UnknownFormat(t *testing.T) {
	root := cyclicPackage(t)

	_, _, err := runCommand(t, root, "-f", "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestScan_ConfigFile(t *testing.T) {
	root := cyclicPackage(t)
	configPath := filepath.Join(t.TempDir(), ".byecycle.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("severities:\n  vanilla: complicated\n"), 0o644))

	stdout, _, err := runCommand(t, root, "--config", configPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, `"cycle": "complicated"`)
}

func TestScan_FlagBeatsConfig(t *testing.T) {
	root := cyclicPackage(t)
	configPath := filepath.Join(t.TempDir(), ".byecycle.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("severities:\n  vanilla: complicated\n"), 0o644))

	stdout, _, err := runCommand(t, root, "--config", configPath, "--vanilla", "good")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"cycle": "good"`)
}

func TestScan_RootNotFound(t *testing.T) {
	_, _, err := runCommand(t, "no-such-package")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "package root not found")
}

func TestScan_BrokenFileWarnsAndContinues(t *testing.T) {
	root := cyclicPackage(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "broken.py"), []byte("import (((\n"), 0o644))

	stdout, stderr, err := runCommand(t, root)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Warning: parse-failure: foo.broken")
	assert.Contains(t, stdout, `"foo.bar"`)
}
