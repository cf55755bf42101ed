package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"locplot/internal/cmd/root"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleReport = "language,filename,blank,comment,code,\"github.com/AlDanial/cloc v 1.98\"\nGo,a.go,3,7,12\nGo,b.go,1,2,30\nSUM,,4,9,42\n"

// execute runs a fresh root command against a clean viper instance.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	setDefaults()
	t.Cleanup(func() {
		viper.Reset()
		setDefaults()
	})

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestWrongArgumentCountPrintsUsage(t *testing.T) {
	for _, args := range [][]string{{}, {"a.csv", "b.csv"}} {
		out, err := execute(t, args...)
		require.Error(t, err)
		assert.Contains(t, out, "Usage:")
		assert.Contains(t, out, "cloc --by-file --csv --out loc.csv src")
	}
}

func TestRunSummary(t *testing.T) {
	path := writeFile(t, "loc.csv", sampleReport)

	out, err := execute(t, "--no-tui", path)
	require.NoError(t, err)
	assert.Contains(t, out, "loc")
	assert.Contains(t, out, "FILES")
	assert.Contains(t, out, `Distribution of "code" per file`)
}

func TestConfigFileIsHonored(t *testing.T) {
	report := writeFile(t, "loc.csv", sampleReport)
	config := writeFile(t, "locplot.yaml", "no-tui: true\ncolumn: comment\nxlabel: Module\nylabel: Comment lines\n")

	out, err := execute(t, "--config", config, report)
	require.NoError(t, err)
	assert.Contains(t, out, `Distribution of "comment" per file`)
	assert.Equal(t, config, viper.ConfigFileUsed())

	opts := root.OptionsFromViper(report)
	assert.Equal(t, "Module", opts.Chart.XLabel)
	assert.Equal(t, "Comment lines", opts.Chart.YLabel)
}

func TestFlagBeatsConfigFile(t *testing.T) {
	report := writeFile(t, "loc.csv", sampleReport)
	config := writeFile(t, "locplot.yaml", "no-tui: true\ncolumn: comment\n")

	out, err := execute(t, "--config", config, "--column", "blank", report)
	require.NoError(t, err)
	assert.Contains(t, out, `Distribution of "blank" per file`)
}

func TestMissingConfigFileFails(t *testing.T) {
	report := writeFile(t, "loc.csv", sampleReport)
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	out, err := execute(t, "--config", missing, "--no-tui", report)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config")
	assert.NotContains(t, out, "Distribution of")
}

func TestEnvironmentOverrides(t *testing.T) {
	report := writeFile(t, "loc.csv", sampleReport)
	t.Setenv("LOCPLOT_COLUMN", "blank")
	t.Setenv("LOCPLOT_NO_TUI", "true")

	out, err := execute(t, report)
	require.NoError(t, err)
	assert.Contains(t, out, `Distribution of "blank" per file`)
}

func TestByLanguageFromConfig(t *testing.T) {
	report := writeFile(t, "loc.csv", sampleReport)
	config := writeFile(t, "locplot.yaml", "no-tui: true\nby-language: true\n")

	out, err := execute(t, "--config", config, report)
	require.NoError(t, err)
	assert.Contains(t, out, "Go")
	assert.True(t, root.OptionsFromViper(report).ByLanguage)
}
