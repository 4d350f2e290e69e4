package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/f3rmion/pnc/internal/analysis"
	"github.com/f3rmion/pnc/internal/sections"
	"github.com/f3rmion/pnc/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBody = `{
	"gpt": {"premises": [{"natural": "Todo homem é mortal"}, {"natural": "Sócrates é homem"}], "conclusion": {"natural": "Sócrates é mortal"}},
	"logic": {"isValid": true},
	"verdict": "Argumento válido"
}`

// execute runs the command tree with a private config directory. Flags keep
// their values between runs, so tests pass every flag they depend on.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("PNC_HISTORY_DB", filepath.Join(dir, "history.db"))
	t.Setenv("PNC_LOG_FILE", filepath.Join(dir, "pnc.log"))
	for _, name := range []string{"PNC_API_URL", "PNC_TIMEOUT", "PNC_THEME", "PNC_HISTORY", "API_URL", "VITE_API_URL"} {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
	return dir
}

func backend(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestAnalyze_TextThenHistory(t *testing.T) {
	isolate(t)
	srv, hits := backend(t, http.StatusOK, sampleBody)

	out, _, err := execute(t, "", "--api-url", srv.URL, "analyze", "--format", "text", "--expand=false", "--no-history=false", "--width", "0",
		"Todo homem é mortal.", "Sócrates é homem.")
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())
	assert.Contains(t, out, "== "+sections.TitlePremises+" ==")
	assert.Contains(t, out, "P1: Todo homem é mortal\n")
	assert.Contains(t, out, "Argumento válido\n")

	out, _, err = execute(t, "", "--api-url", srv.URL, "history", "list", "--limit", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "Todo homem é mortal. Sócrates é homem.")
	assert.Contains(t, out, "Argumento válido")

	var id string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "Sócrates") {
			id = strings.Fields(line)[0]
		}
	}
	require.Len(t, id, 8)
	out, _, err = execute(t, "", "--api-url", srv.URL, "history", "show", id, "--format", "json", "--expand=false", "--width", "0")
	require.NoError(t, err)
	var res map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "Argumento válido", res["verdict"])
	assert.Equal(t, int32(1), hits.Load(), "history never calls the backend")

	out, _, err = execute(t, "", "--api-url", srv.URL, "history", "rm", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted")

	out, _, err = execute(t, "", "--api-url", srv.URL, "history", "list", "--limit", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "No saved analyses.")
}

func TestAnalyze_ServerFailure(t *testing.T) {
	dir := isolate(t)
	srv, _ := backend(t, http.StatusBadGateway, `{"detail": "upstream timeout"}`)

	out, errOut, err := execute(t, "", "--api-url", srv.URL, "--verbose=false", "analyze", "--format", "text", "--expand=false", "--no-history=false", "--width", "0", "texto")
	require.Error(t, err)
	assert.Equal(t, analysis.KindNetworkOrServer, analysis.KindOf(err))
	assert.Empty(t, out)
	assert.Equal(t, session.NoticeFailure+"\n", errOut)

	logged, readErr := os.ReadFile(filepath.Join(dir, "pnc.log"))
	require.NoError(t, readErr)
	assert.Contains(t, string(logged), "analysis failed")
	assert.Contains(t, string(logged), "502")
}

func TestPrintError(t *testing.T) {
	var b bytes.Buffer
	rootCmd.SetErr(&b)
	t.Cleanup(func() { rootCmd.SetErr(nil) })

	printError(rootCmd, &reportedError{err: errors.New("já mostrado")})
	assert.Empty(t, b.String())

	printError(rootCmd, errors.New("unknown format"))
	assert.Equal(t, "Error: unknown format\n", b.String())
}

func TestAnalyze_BlankStdin(t *testing.T) {
	isolate(t)
	srv, hits := backend(t, http.StatusOK, sampleBody)

	_, errOut, err := execute(t, "  \n", "--api-url", srv.URL, "analyze", "--format", "text", "--expand=false", "--no-history=true", "--width", "0")
	require.Error(t, err)
	assert.Equal(t, analysis.KindValidation, analysis.KindOf(err))
	assert.Contains(t, errOut, session.NoticeValidation)
	assert.Zero(t, hits.Load())
}

func TestAnalyze_UnknownFormat(t *testing.T) {
	isolate(t)
	srv, hits := backend(t, http.StatusOK, sampleBody)

	_, _, err := execute(t, "", "--api-url", srv.URL, "analyze", "--format", "yaml", "--no-history=true", "x")
	require.Error(t, err)
	assert.Zero(t, hits.Load())
}

func TestReadInput(t *testing.T) {
	text, err := readInput([]string{"a", "b"}, "", strings.NewReader("ignored"))
	require.NoError(t, err)
	assert.Equal(t, "a b", text)

	file := filepath.Join(t.TempDir(), "arg.txt")
	require.NoError(t, os.WriteFile(file, []byte("do arquivo"), 0644))
	text, err = readInput(nil, file, strings.NewReader("ignored"))
	require.NoError(t, err)
	assert.Equal(t, "do arquivo", text)

	text, err = readInput(nil, "", strings.NewReader("da entrada"))
	require.NoError(t, err)
	assert.Equal(t, "da entrada", text)

	_, err = readInput(nil, filepath.Join(t.TempDir(), "missing"), nil)
	assert.Error(t, err)
}

func TestWriteResult_Markdown(t *testing.T) {
	res, err := analysis.Normalize([]byte(sampleBody))
	require.NoError(t, err)

	var b bytes.Buffer
	require.NoError(t, writeResult(&b, res, outputFlags{format: formatMarkdown}))
	assert.Contains(t, b.String(), "## "+sections.TitleVerdict)
}

func TestConfigInit(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "pnc.yaml")
	t.Cleanup(func() { cfgFile = "" })

	out, _, err := execute(t, "", "--config", path, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Created "+path)

	out, _, err = execute(t, "", "--config", path, "--api-url", "http://localhost:9999", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "api_url:")
	assert.Contains(t, out, "http://localhost:9999")

	_, _, err = execute(t, "", "--config", path, "config", "init")
	assert.Error(t, err)
}
