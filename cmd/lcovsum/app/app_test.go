package app

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/zjy-dev/lcovsum/internal/config"
	"github.com/zjy-dev/lcovsum/internal/lcov"
)

const baseTrace = `TN:
SF:/home/me/crate/src/lib.rs
FN:10,foo
FN:20,bar
FNDA:5,foo
FNDA:0,bar
FNF:2
FNH:1
DA:10,5
LF:20
LH:10
BRF:4
BRH:1
end_of_record
`

const otherTrace = `SF:/home/me/crate/src/lib.rs
FN:10,foo
FN:20,bar
FNDA:5,foo
FNDA:2,bar
FNF:2
FNH:2
LF:20
LH:15
end_of_record
`

// setupWorkdir moves the test into an empty directory so no lcovsum.yaml
// from the repository is picked up, and writes the given traces there.
func setupWorkdir(t *testing.T, files map[string]string) string {
	dir := t.TempDir()
	chdir(t, dir)
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--no-color"}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRoot_Files(t *testing.T) {
	setupWorkdir(t, map[string]string{"base.info": baseTrace})

	out, _, err := execute(t, "base.info")
	require.NoError(t, err)

	assert.Contains(t, out, "src/lib.rs")
	assert.Contains(t, out, "50.00%")
	assert.Contains(t, out, "base.info")
	assert.NotContains(t, out, "\033[")
}

func TestRoot_Summary(t *testing.T) {
	setupWorkdir(t, map[string]string{"base.info": baseTrace})

	out, _, err := execute(t, "-s", "base.info")
	require.NoError(t, err)

	assert.NotContains(t, out, "src/lib.rs")
	assert.Contains(t, out, "base.info")
	assert.Contains(t, out, "50.00%")
}

func TestRoot_Diff(t *testing.T) {
	setupWorkdir(t, map[string]string{"base.info": baseTrace, "other.info": otherTrace})

	t.Run("summary", func(t *testing.T) {
		out, _, err := execute(t, "-s", "-d", "other.info", "base.info")
		require.NoError(t, err)

		assert.NotContains(t, out, "src/lib.rs")
		assert.Contains(t, out, "other.info")
		assert.Contains(t, out, "+ 5")
		assert.Contains(t, out, "+ 25.00%")
		assert.Contains(t, out, "+ 50.00%")
	})

	t.Run("per file", func(t *testing.T) {
		out, _, err := execute(t, "--diff", "other.info", "base.info")
		require.NoError(t, err)

		assert.Contains(t, out, "src/lib.rs")
		assert.Contains(t, out, "diff")
	})
}

func TestRoot_ParseErrorWritesNoReport(t *testing.T) {
	setupWorkdir(t, map[string]string{
		"base.info": baseTrace,
		"bad.info":  "SF:/a.c\nLF:12\nLH:twelve\n",
	})

	out, _, err := execute(t, "-d", "bad.info", "base.info")
	require.Error(t, err)
	assert.Empty(t, out)

	var perr *lcov.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "bad.info", perr.Path)
	assert.Equal(t, 3, perr.Line)
	assert.Contains(t, err.Error(), "LH:twelve")
}

func TestRoot_MissingFile(t *testing.T) {
	setupWorkdir(t, nil)

	out, _, err := execute(t, "missing.info")
	require.Error(t, err)
	assert.Empty(t, out)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Contains(t, err.Error(), "missing.info")
}

func TestRoot_Orphans(t *testing.T) {
	trace := "SF:/a.c\nFN:1,foo\nFNDA:3,bar\nLF:4\nLH:4\n"
	setupWorkdir(t, map[string]string{"orphan.info": trace})

	t.Run("skipped with a warning by default", func(t *testing.T) {
		out, stderr, err := execute(t, "orphan.info")
		require.NoError(t, err)
		assert.Contains(t, out, "100.00%")
		assert.Contains(t, stderr, "[WARN]")
		assert.Contains(t, stderr, `"bar"`)
	})

	t.Run("abort on request", func(t *testing.T) {
		out, _, err := execute(t, "--on-orphan", "abort", "orphan.info")
		require.Error(t, err)
		assert.Empty(t, out)
		assert.True(t, errors.Is(err, lcov.ErrUndeclaredFunction))
	})
}

func TestRoot_InvalidFlagValue(t *testing.T) {
	setupWorkdir(t, map[string]string{"base.info": baseTrace})

	_, _, err := execute(t, "--on-orphan", "explode", "base.info")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "on_orphan")
}

func TestRoot_RequiresOneArgument(t *testing.T) {
	setupWorkdir(t, nil)

	_, _, err := execute(t)
	assert.Error(t, err)
}

func TestInit(t *testing.T) {
	setupWorkdir(t, nil)
	memFs := afero.NewMemMapFs()

	run := func(args ...string) (string, error) {
		var stdout bytes.Buffer
		cmd := newRootCommand(memFs)
		cmd.SetOut(&stdout)
		cmd.SetArgs(append([]string{"init"}, args...))
		err := cmd.Execute()
		return stdout.String(), err
	}

	out, err := run()
	require.NoError(t, err)
	assert.Contains(t, out, "Created lcovsum.yaml")

	content, err := afero.ReadFile(memFs, "lcovsum.yaml")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "# lcovsum configuration."))

	var cfg config.Config
	require.NoError(t, yaml.Unmarshal(content, &cfg))
	assert.Equal(t, *config.Default(), cfg)
	assert.NoError(t, cfg.Validate())

	_, err = run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	require.NoError(t, afero.WriteFile(memFs, "lcovsum.yaml", []byte("stale"), 0644))
	_, err = run("--force")
	require.NoError(t, err)
	content, err = afero.ReadFile(memFs, "lcovsum.yaml")
	require.NoError(t, err)
	assert.NotContains(t, string(content), "stale")

	_, err = run("--output", "configs/lcovsum.yaml")
	require.NoError(t, err)
	exists, err := afero.Exists(memFs, "configs/lcovsum.yaml")
	require.NoError(t, err)
	assert.True(t, exists)

	// Nothing reaches the working directory.
	_, err = os.Stat("lcovsum.yaml")
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestInit_ReadByConfigLoad(t *testing.T) {
	dir := setupWorkdir(t, nil)

	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"init"})
	require.NoError(t, cmd.Execute())

	cfg, err := config.Load(filepath.Join(dir, "lcovsum.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
