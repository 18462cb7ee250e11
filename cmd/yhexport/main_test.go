package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yhdash/internal/dataset"
)

const testCSV = "Län,Kommun,År,Område\n" +
	"A,X,2020,Data/IT\n" +
	"A,Y,2021,Ekonomi\n" +
	"B,Z,2020,Data/IT\n"

func writeDataFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(testCSV), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestExport(t *testing.T) {
	data := writeDataFile(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "no filters keeps every row",
			args: nil,
			want: testCSV,
		},
		{
			name: "county",
			args: []string{"--county", "B"},
			want: "Län,Kommun,År,Område\nB,Z,2020,Data/IT\n",
		},
		{
			name: "county and municipality",
			args: []string{"--county", "A", "--municipality", "Y"},
			want: "Län,Kommun,År,Område\nA,Y,2021,Ekonomi\n",
		},
		{
			name: "year range",
			args: []string{"--year-min", "2020", "--year-max", "2020"},
			want: "Län,Kommun,År,Område\nA,X,2020,Data/IT\nB,Z,2020,Data/IT\n",
		},
		{
			name: "empty view still writes the header",
			args: []string{"--county", "C"},
			want: "Län,Kommun,År,Område\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "out.csv")
			args := append([]string{"--data", data, "--out", out}, tt.args...)

			stdout, _, err := execute(t, args...)
			require.NoError(t, err)

			got, err := os.ReadFile(out)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
			assert.Contains(t, stdout, out)
		})
	}
}

func TestExport_DirectoryOutput(t *testing.T) {
	dir := t.TempDir()

	stdout, _, err := execute(t, "--data", writeDataFile(t), "--out", dir)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "filtered_data.csv"))
	assert.NoError(t, err)
	assert.Contains(t, stdout, "wrote 3 rows")
}

func TestExport_BOM(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.csv")

	_, _, err := execute(t, "--data", writeDataFile(t), "--out", out, "--bom")
	require.NoError(t, err)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(got, []byte("\ufeff")))
}

func TestExport_Errors(t *testing.T) {
	data := writeDataFile(t)

	t.Run("missing data file", func(t *testing.T) {
		_, stderr, err := execute(t, "--data", filepath.Join(t.TempDir(), "missing.xlsx"),
			"--out", filepath.Join(t.TempDir(), "out.csv"))

		require.Error(t, err)
		assert.True(t, dataset.IsDataLoadError(err))
		assert.Contains(t, stderr, "yhexport:")
	})

	t.Run("year-min without year-max", func(t *testing.T) {
		_, _, err := execute(t, "--data", data, "--year-min", "2020")
		assert.Error(t, err)
	})

	t.Run("inverted year range", func(t *testing.T) {
		_, _, err := execute(t, "--data", data, "--year-min", "2021", "--year-max", "2020")
		assert.Error(t, err)
	})

	t.Run("non-numeric year", func(t *testing.T) {
		_, _, err := execute(t, "--data", data, "--year-min", "abc", "--year-max", "2020")
		assert.Error(t, err)
	})

	t.Run("positional arguments rejected", func(t *testing.T) {
		_, _, err := execute(t, "--data", data, "extra")
		assert.Error(t, err)
	})
}

func TestExport_Logging(t *testing.T) {
	data := writeDataFile(t)

	t.Run("quiet by default", func(t *testing.T) {
		_, stderr, err := execute(t, "--data", data, "--out", t.TempDir())
		require.NoError(t, err)
		assert.Empty(t, stderr)
	})

	t.Run("warns about an empty view", func(t *testing.T) {
		_, stderr, err := execute(t, "--data", data, "--out", t.TempDir(), "--county", "C")
		require.NoError(t, err)
		assert.Contains(t, stderr, `"level":"WARN"`)
		assert.Contains(t, stderr, `"msg":"no rows matched the selected filters"`)
	})

	t.Run("verbose", func(t *testing.T) {
		_, stderr, err := execute(t, "--data", data, "--out", t.TempDir(), "-v")
		require.NoError(t, err)
		assert.Contains(t, stderr, `"level":"INFO"`)
	})
}

func TestOptions_loggingConfig(t *testing.T) {
	quiet := (&options{}).loggingConfig()
	assert.Equal(t, "warn", quiet.Level)
	assert.Equal(t, "console", quiet.Output)

	assert.Equal(t, "info", (&options{verbose: true}).loggingConfig().Level)
}
