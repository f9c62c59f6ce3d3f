package cmd

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manav03panchal/brewlog/internal/config"
	"github.com/manav03panchal/brewlog/internal/errors"
	"github.com/manav03panchal/brewlog/internal/logging"
	"github.com/manav03panchal/brewlog/internal/model"
	"github.com/manav03panchal/brewlog/internal/output"
	"github.com/manav03panchal/brewlog/internal/runtime"
	"github.com/manav03panchal/brewlog/internal/storage"
	"github.com/manav03panchal/brewlog/internal/transfer"
)

// cli runs commands in-process against a SQLite slot in a temp dir.
type cli struct {
	t       *testing.T
	dir     string
	out     bytes.Buffer
	stdin   string
	envFile string
}

func newCLI(t *testing.T) *cli {
	t.Helper()

	c := &cli{t: t, dir: t.TempDir()}
	c.envFile = filepath.Join(c.dir, "missing.env")

	t.Setenv(config.EnvDataDir, c.dir)
	t.Setenv(config.EnvBackend, storage.BackendSQLite)
	t.Setenv(config.EnvExportDir, c.dir)
	for _, key := range []string{config.EnvMethods, config.EnvDefaultSort, config.EnvDatabase} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	prev := runtimeOptions
	runtimeOptions = func() runtime.Options {
		opts := runtime.DefaultOptions()
		opts.Writer = &c.out
		opts.EnvFiles = []string{c.envFile}
		return opts
	}
	prevTerm := stdinIsTerminal
	stdinIsTerminal = func() bool { return false }

	t.Cleanup(func() {
		runtimeOptions = prev
		stdinIsTerminal = prevTerm
		closeContext()
	})
	return c
}

// resetFlags puts every flag back to its default so runs do not leak state.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	resetFlags(rootCmd)
	c.out.Reset()

	rootCmd.SetArgs(args)
	rootCmd.SetOut(&c.out)
	rootCmd.SetErr(&c.out)
	rootCmd.SetIn(strings.NewReader(c.stdin))

	err := rootCmd.Execute()
	if err != nil {
		closeContext()
	}
	return c.out.String(), err
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	require.NoError(c.t, err, out)
	return out
}

func (c *cli) addBrew(bean, method, score string, extra ...string) *model.Brew {
	c.t.Helper()
	args := append([]string{"add", "--format", "json",
		"--bean", bean, "--method", method, "--ratio", "1:15", "--score", score}, extra...)
	var resp struct {
		Status string      `json:"status"`
		Brew   *model.Brew `json:"brew"`
	}
	require.NoError(c.t, json.Unmarshal([]byte(c.mustRun(args...)), &resp))
	require.Equal(c.t, "added", resp.Status)
	return resp.Brew
}

func (c *cli) list(args ...string) output.BrewsResponse {
	c.t.Helper()
	var resp output.BrewsResponse
	out := c.mustRun(append([]string{"list", "--format", "json"}, args...)...)
	require.NoError(c.t, json.Unmarshal([]byte(out), &resp), out)
	return resp
}

func beans(brews []*model.Brew) []string {
	out := make([]string, len(brews))
	for i, b := range brews {
		out[i] = b.Bean
	}
	return out
}

// =============================================================================
// Add / Edit / Delete Tests
// =============================================================================

func TestAddAndList(t *testing.T) {
	c := newCLI(t)

	b := c.addBrew("  Yunnan  ", "v60", "7", "--notes", "stone fruit")
	assert.Equal(t, "Yunnan", b.Bean)
	assert.Equal(t, "V60", b.Method)
	assert.Equal(t, 7.0, b.Score)
	assert.NotEmpty(t, b.ID)

	resp := c.list()
	require.Len(t, resp.Brews, 1)
	assert.Equal(t, b.ID, resp.Brews[0].ID)
	assert.Equal(t, 1, resp.TotalCount)
	require.NotNil(t, resp.Average)
	assert.Equal(t, 7.0, *resp.Average)
}

func TestAddCLIOutput(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("add", "-b", "Kenya", "-m", "Chemex", "-r", "1:16", "-s", "8.5")
	assert.Contains(t, out, "Logged Kenya")
	assert.Contains(t, out, "Ratio: 1:16")

	out = c.mustRun("list")
	assert.Contains(t, out, "Kenya")
	assert.Contains(t, out, "average score 8.5")
}

func TestAddRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		sentinel error
	}{
		{"score_too_high", []string{"--score", "11"}, errors.ErrInvalidScore},
		{"score_not_number", []string{"--score", "great"}, errors.ErrInvalidScore},
		{"unknown_method", []string{"--method", "Percolator"}, errors.ErrUnknownMethod},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCLI(t)
			args := map[string]string{"--bean": "Kenya", "--method": "V60", "--ratio": "1:15", "--score": "8"}
			for i := 0; i < len(tt.args); i += 2 {
				args[tt.args[i]] = tt.args[i+1]
			}
			cmdArgs := []string{"add"}
			for k, v := range args {
				cmdArgs = append(cmdArgs, k, v)
			}

			_, err := c.run(cmdArgs...)
			require.Error(t, err)
			assert.True(t, errors.IsUserError(err))
			assert.ErrorIs(t, err, tt.sentinel)
			assert.Empty(t, c.list().Brews)
		})
	}
}

func TestAddRequiresFlags(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("add", "--bean", "Kenya")
	assert.Error(t, err)
}

func TestAddBeanTooLong(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("add", "--bean", strings.Repeat("x", 31), "--method", "V60", "--ratio", "1:15", "--score", "8")
	require.Error(t, err)
	assert.True(t, errors.IsUserError(err))
}

func TestEditChangesOnlyGivenFields(t *testing.T) {
	c := newCLI(t)
	b := c.addBrew("Kenya", "V60", "6", "--notes", "sour")

	out := c.mustRun("edit", output.ShortID(b.ID), "--score", "9")
	assert.Contains(t, out, "Updated Kenya")

	resp := c.list()
	require.Len(t, resp.Brews, 1)
	got := resp.Brews[0]
	assert.Equal(t, b.ID, got.ID)
	assert.Equal(t, 9.0, got.Score)
	assert.Equal(t, "sour", got.Notes)
	assert.Equal(t, "Kenya", got.Bean)
	assert.True(t, b.CreatedAt.Equal(got.CreatedAt))
}

func TestEditInvalidLeavesBrew(t *testing.T) {
	c := newCLI(t)
	b := c.addBrew("Kenya", "V60", "6")

	_, err := c.run("edit", b.ID, "--score", "0")
	require.Error(t, err)
	assert.Equal(t, 6.0, c.list().Brews[0].Score)
}

func TestEditUnknownIDIsNotice(t *testing.T) {
	c := newCLI(t)
	c.addBrew("Kenya", "V60", "6")

	out, err := c.run("edit", "nope", "--score", "9")
	require.NoError(t, err)
	assert.Contains(t, out, `No brew matches "nope"`)

	out, err = c.run("edit", "nope", "--score", "9", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"not_found"`)
}

func TestAmbiguousIDIsError(t *testing.T) {
	c := newCLI(t)
	path := writeFile(t, c.dir, "in.json", `[
		{"id": "0190a1b2-aaaa-7000-8000-111111111111", "bean": "Kenya", "method": "V60", "ratio": "1:15", "score": 6},
		{"id": "0190a1b2-bbbb-7000-8000-222222222222", "bean": "Brazil", "method": "V60", "ratio": "1:15", "score": 7}
	]`)
	c.mustRun("import", path, "--mode", "replace")

	for _, args := range [][]string{
		{"edit", "0190a1b2", "--score", "9"},
		{"delete", "0190a1b2"},
	} {
		t.Run(args[0], func(t *testing.T) {
			out, err := c.run(args...)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrAmbiguousID))
			assert.True(t, errors.IsUserError(err))
			assert.Contains(t, err.Error(), "matches 2 brews")
			assert.NotContains(t, out, "No brew matches")
		})
	}

	// Nothing changed, and a longer reference picks one brew.
	resp := c.list()
	require.Len(t, resp.Brews, 2)
	c.mustRun("delete", "0190a1b2-bbbb")
	assert.Equal(t, []string{"Kenya"}, beans(c.list().Brews))
}

func TestDelete(t *testing.T) {
	c := newCLI(t)
	keep := c.addBrew("Kenya", "V60", "6")
	gone := c.addBrew("Brazil", "Espresso", "7")

	out := c.mustRun("delete", gone.ID)
	assert.Contains(t, out, "Deleted Brazil")

	resp := c.list()
	require.Len(t, resp.Brews, 1)
	assert.Equal(t, keep.ID, resp.Brews[0].ID)

	// Deleting again is a notice and changes nothing.
	out = c.mustRun("delete", gone.ID)
	assert.Contains(t, out, "No brew matches")
	assert.Len(t, c.list().Brews, 1)
}

// =============================================================================
// List / Stats Tests
// =============================================================================

func TestListFiltersAndSort(t *testing.T) {
	c := newCLI(t)
	c.addBrew("Ethiopia", "V60", "8", "--notes", "jasmine")
	c.addBrew("Kenya", "AeroPress", "6")
	c.addBrew("Colombia", "V60", "9.5")

	assert.Equal(t, []string{"Colombia", "Kenya", "Ethiopia"}, beans(c.list().Brews))
	assert.Equal(t, []string{"Colombia", "Ethiopia"}, beans(c.list("--method", "v60").Brews))
	assert.Equal(t, []string{"Colombia", "Ethiopia"}, beans(c.list("--min-score", "7").Brews))
	assert.Equal(t, []string{"Ethiopia"}, beans(c.list("JASMINE").Brews))
	assert.Equal(t, []string{"Kenya"}, beans(c.list("--search", "ken").Brews))
	assert.Equal(t, []string{"Kenya", "Ethiopia", "Colombia"}, beans(c.list("--sort", "score-asc").Brews))
	assert.Equal(t, []string{"Colombia"}, beans(c.list("--sort", "score", "--limit", "1").Brews))

	resp := c.list("--method", "AeroPress")
	assert.Equal(t, 3, resp.TotalCount)
	assert.Equal(t, 1, resp.ShownCount)
	require.NotNil(t, resp.Average)
	assert.Equal(t, 7.8, *resp.Average)
}

func TestListDefaultSortFromConfig(t *testing.T) {
	c := newCLI(t)
	t.Setenv(config.EnvDefaultSort, "score-desc")
	c.addBrew("Kenya", "V60", "6")
	c.addBrew("Ethiopia", "V60", "9")
	c.addBrew("Brazil", "V60", "7")

	assert.Equal(t, []string{"Ethiopia", "Brazil", "Kenya"}, beans(c.list().Brews))
}

func TestListSince(t *testing.T) {
	c := newCLI(t)
	c.addBrew("Kenya", "V60", "6")

	assert.Len(t, c.list("--since", "yesterday").Brews, 1)
	assert.Empty(t, c.list("--since", "2999-01-01").Brews)

	_, err := c.run("list", "--since", "when the moon is blue")
	assert.Error(t, err)
}

func TestListInvalidInput(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("list", "--sort", "bean")
	assert.ErrorIs(t, err, errors.ErrInvalidSort)

	_, err = c.run("list", "--method", "Percolator")
	assert.ErrorIs(t, err, errors.ErrUnknownMethod)
}

func TestListEmpty(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("list")
	assert.Contains(t, out, "No brews logged yet.")

	resp := c.list()
	assert.NotNil(t, resp.Brews)
	assert.Empty(t, resp.Brews)
	assert.Nil(t, resp.Average)
}

func TestStats(t *testing.T) {
	c := newCLI(t)
	c.addBrew("Ethiopia", "V60", "8")
	c.addBrew("Kenya", "AeroPress", "6")
	c.addBrew("Colombia", "V60", "10")

	var resp output.StatsResponse
	require.NoError(t, json.Unmarshal([]byte(c.mustRun("stats", "--format", "json")), &resp))
	assert.Equal(t, 3, resp.Count)
	assert.Equal(t, "8.0", resp.AverageDisplay)
	require.NotNil(t, resp.Best)
	assert.Equal(t, "Colombia", resp.Best.Bean)
	require.Len(t, resp.ByMethod, 2)
	assert.Equal(t, "V60", resp.ByMethod[0].Method)

	out := c.mustRun("stats")
	assert.Contains(t, out, "Average score: 8.0")
}

func TestStatsEmpty(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("stats")
	assert.Contains(t, out, output.NoData)
}

// =============================================================================
// Clear Tests
// =============================================================================

func TestClearNeedsForceWithoutTerminal(t *testing.T) {
	c := newCLI(t)
	c.addBrew("Kenya", "V60", "6")

	_, err := c.run("clear")
	require.Error(t, err)
	assert.True(t, errors.IsUserError(err))
	assert.Len(t, c.list().Brews, 1)

	out := c.mustRun("clear", "--force")
	assert.Contains(t, out, "Deleted 1 brews")
	assert.Empty(t, c.list().Brews)
}

func TestClearConfirm(t *testing.T) {
	c := newCLI(t)
	stdinIsTerminal = func() bool { return true }
	c.addBrew("Kenya", "V60", "6")

	c.stdin = "n\n"
	out := c.mustRun("clear")
	assert.Contains(t, out, "Nothing deleted.")
	assert.Len(t, c.list().Brews, 1)

	c.stdin = "y\n"
	out = c.mustRun("clear")
	assert.Contains(t, out, "Delete all 1 brews? [y/N]")
	assert.Empty(t, c.list().Brews)
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{" y \n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"y", true},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		got := confirm(strings.NewReader(tt.input), &out, "sure? ")
		assert.Equal(t, tt.want, got, "input %q", tt.input)
		assert.Equal(t, "sure? ", out.String())
	}
}

// =============================================================================
// Export / Import Tests
// =============================================================================

func TestExportToFile(t *testing.T) {
	c := newCLI(t)
	c.addBrew("Kenya", "V60", "6")
	c.addBrew("Ethiopia", "Chemex", "9")

	path := filepath.Join(c.dir, "out", "brews.json")
	out := c.mustRun("export", "-o", path)
	assert.Contains(t, out, "Exported 2 brews")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	items, err := transfer.DecodeImport(data)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestExportLogsAtInfo(t *testing.T) {
	var logs bytes.Buffer
	logging.Init(logging.Config{Level: slog.LevelInfo, Output: &logs})
	t.Cleanup(func() { logging.Init(logging.DefaultConfig()) })

	c := newCLI(t)
	c.addBrew("Kenya", "V60", "6")

	path := filepath.Join(c.dir, "brews.json")
	c.mustRun("export", "-o", path)
	assert.Contains(t, logs.String(), "brews exported")
	assert.Contains(t, logs.String(), "count=1")
}

func TestExportDefaultFilename(t *testing.T) {
	c := newCLI(t)
	c.addBrew("Kenya", "V60", "6")

	var resp output.ExportResponse
	require.NoError(t, json.Unmarshal([]byte(c.mustRun("export", "--format", "json")), &resp))
	assert.Equal(t, "exported", resp.Status)
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, c.dir, filepath.Dir(resp.Path))
	assert.True(t, strings.HasPrefix(filepath.Base(resp.Path), transfer.FilePrefix))
	assert.FileExists(t, resp.Path)
}

func TestExportStdout(t *testing.T) {
	c := newCLI(t)
	c.addBrew("Kenya", "V60", "6")

	var doc model.ExportDocument
	require.NoError(t, json.Unmarshal([]byte(c.mustRun("export", "--stdout")), &doc))
	assert.Equal(t, model.ExportVersion, doc.Version)
	require.Len(t, doc.Brews, 1)
	assert.Equal(t, "Kenya", doc.Brews[0].Bean)
}

func TestExportImportRoundTrip(t *testing.T) {
	c := newCLI(t)
	a := c.addBrew("Kenya", "V60", "6", "--notes", "bright")
	b := c.addBrew("Ethiopia", "Chemex", "9")

	path := filepath.Join(c.dir, "backup.json")
	c.mustRun("export", "-o", path)
	c.mustRun("clear", "--force")

	out := c.mustRun("import", path, "--mode", "replace")
	assert.Contains(t, out, "Imported 2 brews (replace)")

	resp := c.list()
	require.Len(t, resp.Brews, 2)
	assert.Equal(t, []string{b.ID, a.ID}, []string{resp.Brews[0].ID, resp.Brews[1].ID})
	assert.Equal(t, "bright", resp.Brews[1].Notes)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestImportMergeCountsSkipped(t *testing.T) {
	c := newCLI(t)
	existing := c.addBrew("Kenya", "V60", "5")

	path := writeFile(t, c.dir, "in.json", `{"brews": [
		{"id": "`+existing.ID+`", "bean": "Kenya", "method": "V60", "ratio": "1:15", "score": 9},
		{"bean": "Yunnan", "method": "Chemex", "ratio": "1:16", "score": "7"},
		{"bean": "Bad", "method": "V60", "ratio": "1:15", "score": 11},
		42
	]}`)

	var resp output.ImportResponse
	require.NoError(t, json.Unmarshal([]byte(c.mustRun("import", path, "--format", "json")), &resp))
	assert.Equal(t, "imported", resp.Status)
	assert.Equal(t, 4, resp.Total)
	assert.Equal(t, 2, resp.Written)
	assert.Equal(t, 2, resp.Skipped)
	assert.Equal(t, 2, resp.Resulting)

	list := c.list("--sort", "score")
	require.Len(t, list.Brews, 2)
	assert.Equal(t, existing.ID, list.Brews[0].ID)
	assert.Equal(t, 9.0, list.Brews[0].Score)
}

func TestImportDryRun(t *testing.T) {
	c := newCLI(t)
	c.addBrew("Kenya", "V60", "5")
	path := writeFile(t, c.dir, "in.json", `[{"bean": "Yunnan", "method": "Chemex", "ratio": "1:16", "score": 7}]`)

	out := c.mustRun("import", path, "--mode", "replace", "--dry-run")
	assert.Contains(t, out, "Would import 1 brews (replace)")
	assert.Equal(t, []string{"Kenya"}, beans(c.list().Brews))
}

func TestImportErrorsChangeNothing(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		args     []string
		sentinel error
	}{
		{"invalid_json", `{not json`, nil, errors.ErrInvalidImport},
		{"no_array", `{"records": 3}`, nil, errors.ErrNoRecordArray},
		{"no_valid_records", `[{"bean": ""}, 7]`, []string{"--mode", "replace"}, errors.ErrNoValidRecords},
		{"bad_mode", `[]`, []string{"--mode", "append"}, errors.ErrInvalidImportMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCLI(t)
			c.addBrew("Kenya", "V60", "5")
			path := writeFile(t, c.dir, "in.json", tt.content)

			_, err := c.run(append([]string{"import", path}, tt.args...)...)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.sentinel)
			assert.True(t, errors.IsUserError(err))
			assert.Equal(t, []string{"Kenya"}, beans(c.list().Brews))
		})
	}
}

// =============================================================================
// Config / Version / Errors Tests
// =============================================================================

func TestConfigCommand(t *testing.T) {
	c := newCLI(t)
	t.Setenv(config.EnvMethods, "V60,Clever")

	var cfg config.RuntimeConfig
	require.NoError(t, json.Unmarshal([]byte(c.mustRun("config", "--format", "json")), &cfg))
	assert.Equal(t, []string{"V60", "Clever"}, cfg.Methods)
	assert.Equal(t, storage.BackendSQLite, cfg.Backend)

	out := c.mustRun("config")
	assert.Contains(t, out, "V60, Clever")
	assert.Contains(t, out, storage.SQLiteFileName)
	assert.Contains(t, out, "(not found)")
}

func TestConfigShowsLastSaved(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("config")
	assert.Regexp(t, `last saved\s+never`, out)

	c.addBrew("Kenya", "V60", "6")

	out = c.mustRun("config")
	assert.Contains(t, out, "last saved")
	assert.NotRegexp(t, `last saved\s+never`, out)
}

func TestVersion(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("version")
	assert.Contains(t, out, "brewlog dev")
	assert.Nil(t, ctx)
}

func TestCompletionScripts(t *testing.T) {
	c := newCLI(t)

	tests := []struct {
		shell string
		want  string
	}{
		{"bash", "__brewlog_"},
		{"zsh", "#compdef brewlog"},
		{"fish", "complete -c brewlog"},
		{"powershell", "Register-ArgumentCompleter"},
	}

	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			out := c.mustRun("completion", tt.shell)
			assert.Contains(t, out, tt.want)
			assert.Nil(t, ctx)
		})
	}

	t.Run("no_descriptions", func(t *testing.T) {
		out := c.mustRun("completion", "fish", "--no-descriptions")
		assert.Contains(t, out, "complete -c brewlog")
	})

	t.Run("unknown_shell", func(t *testing.T) {
		_, err := c.run("completion", "tcsh")
		assert.Error(t, err)
	})
}

func TestInvalidFormatFlag(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("list", "--format", "xml")
	assert.Error(t, err)
}

func TestPrintErrorLogsSystemOp(t *testing.T) {
	resetFlags(rootCmd)
	var logs bytes.Buffer
	logging.Init(logging.Config{Level: slog.LevelWarn, Output: &logs})
	t.Cleanup(func() { logging.Init(logging.DefaultConfig()) })

	err := errors.NewSystemErrorWithOp("write brews", "Database write failed", errors.ErrDiskFull)

	var buf bytes.Buffer
	printError(&buf, err)
	assert.Contains(t, buf.String(), "Error: Database write failed during write brews")
	assert.Contains(t, logs.String(), `op="write brews"`)
	assert.Contains(t, logs.String(), "category=system")
}

func TestPrintError(t *testing.T) {
	resetFlags(rootCmd)
	err := errors.NewUserErrorFrom(errors.ErrInvalidScore, "Invalid score")

	var buf bytes.Buffer
	printError(&buf, err)
	assert.Equal(t, "Error: Invalid score\n"+errors.Suggestions[errors.ErrInvalidScore]+"\n", buf.String())
}
