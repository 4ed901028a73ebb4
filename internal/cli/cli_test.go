package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleData = `Maria Silva|12345678901|Enchente na rua principal|-23.550520|-46.633309
Carlos Lima|55566677788|Queda de arvore|-23.551000|-46.634000
Ana Costa|11122233344|Alagamento|-8.047600|-34.877000
`

func writeDataFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "relatos.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func setQuietEnv(t *testing.T) {
	t.Helper()
	t.Setenv("METRICS_ADDR", "")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("SPATIAL_INDEX", "")
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func decodeResponse(t *testing.T, out string) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	return resp
}

func TestNearby_Text(t *testing.T) {
	setQuietEnv(t)
	path := writeDataFile(t, sampleData)

	out, err := execute(t, "", "nearby", "--file", path, "--lat", "-23.5505", "--lon", "-46.6333")

	require.NoError(t, err)
	assert.Contains(t, out, "Reports within 10 km:")
	assert.Contains(t, out, "1. Maria Silva (12345678901)")
	assert.Contains(t, out, "2. Carlos Lima (55566677788)")
	assert.NotContains(t, out, "Ana Costa")
}

func TestNearby_JSONWithSpatialIndex(t *testing.T) {
	setQuietEnv(t)
	t.Setenv("SPATIAL_INDEX", "true")
	path := writeDataFile(t, sampleData)

	out, err := execute(t, "", "nearby", "--file", path, "--format", "json", "--lat", "-8.0476", "--lon", "-34.877")

	require.NoError(t, err)
	resp := decodeResponse(t, out)
	assert.Equal(t, "ok", resp.Status)
	matches, ok := resp.Data.([]any)
	require.True(t, ok)
	require.Len(t, matches, 1)
	first := matches[0].(map[string]any)
	assert.Equal(t, "Ana Costa", first["name"])
	assert.Equal(t, float64(2), first["position"])
	assert.InDelta(t, 0.0, first["distance_km"], 1e-6)
}

func TestNearby_NoMatchesExitsOne(t *testing.T) {
	setQuietEnv(t)
	path := writeDataFile(t, sampleData)

	out, err := execute(t, "", "nearby", "--file", path, "--lat", "0", "--lon", "0")

	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "No reports found.")
}

func TestNearby_InvalidLatitudeExitsTwo(t *testing.T) {
	setQuietEnv(t)
	path := writeDataFile(t, sampleData)

	out, err := execute(t, "", "nearby", "--file", path, "--lat", "91", "--lon", "0")

	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "latitude")
}

func TestFind_JSON(t *testing.T) {
	setQuietEnv(t)
	path := writeDataFile(t, sampleData)

	out, err := execute(t, "", "find", "--file", path, "--format", "json", "--id", "55566677788")

	require.NoError(t, err)
	resp := decodeResponse(t, out)
	assert.Equal(t, "ok", resp.Status)
	report := resp.Data.(map[string]any)
	assert.Equal(t, "Carlos Lima", report["name"])
	assert.Equal(t, "Queda de arvore", report["description"])
}

func TestFind_NotFoundExitsOne(t *testing.T) {
	setQuietEnv(t)
	path := writeDataFile(t, sampleData)

	out, err := execute(t, "", "find", "--file", path, "--id", "00000000000")

	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "no report with national ID 00000000000")
}

func TestFind_MalformedIDExitsTwo(t *testing.T) {
	setQuietEnv(t)
	path := writeDataFile(t, sampleData)

	out, err := execute(t, "", "find", "--file", path, "--format", "json", "--id", "123")

	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	resp := decodeResponse(t, out)
	assert.Equal(t, "error", resp.Status)
	assert.Contains(t, resp.Error, "national_id")
}

func TestList_SortedDoesNotRewriteFile(t *testing.T) {
	setQuietEnv(t)
	path := writeDataFile(t, sampleData)

	out, err := execute(t, "", "list", "--file", path, "--sorted")

	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "1. Ana Costa"))
	assert.True(t, strings.HasPrefix(lines[1], "2. Carlos Lima"))
	assert.True(t, strings.HasPrefix(lines[2], "3. Maria Silva"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sampleData, string(data))
}

func TestList_MissingFile(t *testing.T) {
	setQuietEnv(t)
	path := filepath.Join(t.TempDir(), "absent.txt")

	out, err := execute(t, "", "list", "--file", path)

	require.NoError(t, err)
	assert.Equal(t, "No reports found.\n", out)
}

func TestCheck_Complete(t *testing.T) {
	setQuietEnv(t)
	path := writeDataFile(t, sampleData)

	out, err := execute(t, "", "check", "--file", path)

	require.NoError(t, err)
	assert.Equal(t, path+": 3 reports loaded\n", out)
}

func TestCheck_MalformedExitsOne(t *testing.T) {
	setQuietEnv(t)
	path := writeDataFile(t, "Maria Silva|12345678901|Enchente|-23.5|-46.6\nbroken line\n")

	out, err := execute(t, "", "check", "--file", path, "--format", "json")

	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	resp := decodeResponse(t, strings.SplitN(out, "\n", 2)[0])
	result := resp.Data.(map[string]any)
	assert.Equal(t, float64(1), result["loaded"])
	assert.Equal(t, float64(2), result["stopped_at"])
	assert.Contains(t, result["error"], "line 2")
}

func TestCheck_Missing(t *testing.T) {
	setQuietEnv(t)
	path := filepath.Join(t.TempDir(), "absent.txt")

	out, err := execute(t, "", "check", "--file", path)

	require.NoError(t, err)
	assert.Contains(t, out, "no data file yet")
}

func TestInvalidFormatExitsTwo(t *testing.T) {
	setQuietEnv(t)

	_, err := execute(t, "", "list", "--format", "yaml")

	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), `invalid format "yaml"`)
}

func TestInvalidConfigExitsTwo(t *testing.T) {
	setQuietEnv(t)
	t.Setenv("LOG_FORMAT", "xml")

	_, err := execute(t, "", "list", "--file", filepath.Join(t.TempDir(), "x.txt"))

	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestInteractive_RegisterAndExitSaves(t *testing.T) {
	setQuietEnv(t)
	path := filepath.Join(t.TempDir(), "relatos.txt")
	t.Setenv("RELATOS_FILE", path)

	input := strings.Join([]string{
		"1", "Maria Silva", "12345678901", "Enchente", "-23.55", "-46.63",
		"6",
	}, "\n") + "\n"

	out, err := execute(t, input)

	require.NoError(t, err)
	assert.Contains(t, out, "Report registered successfully!")
	assert.Contains(t, out, "Exiting...")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Maria Silva|12345678901|Enchente|-23.550000|-46.630000\n", string(data))
}

func TestInteractive_WarnsOnTruncatedFile(t *testing.T) {
	setQuietEnv(t)
	path := writeDataFile(t, "Maria Silva|12345678901|Enchente|-23.5|-46.6\nbroken\n")

	out, err := execute(t, "", "--file", path)

	require.NoError(t, err)
	assert.Contains(t, out, "stopped reading at line 2, 1 reports loaded")
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad")))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))

	wrapped := WrapExitError(ExitFailure, "outer", errors.New("inner"))
	assert.Equal(t, "outer: inner", wrapped.Error())
}

func TestReport_SkipsAlreadyReported(t *testing.T) {
	buf := &bytes.Buffer{}
	out := &OutputFormatter{Format: "text", Writer: buf}
	err := out.Fail(ExitFailure, "find", errors.New("missing"))
	assert.Equal(t, "Error: find: missing\n", buf.String())

	buf.Reset()
	Report(buf, err)
	assert.Empty(t, buf.String())

	Report(buf, NewExitError(ExitCommandError, "bad flag"))
	assert.Equal(t, "Error: bad flag\n", buf.String())
}
