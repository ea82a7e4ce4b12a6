package cmd_tree

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/rskv-p/htree/pkg/x_script"
)

func writeScript(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ops.htree")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))
	return path
}

func TestRunCommand(t *testing.T) {
	path := writeScript(t, "insert a 1\ninsert b 2 a\nget b\n")
	var out bytes.Buffer
	runCmd.SetOut(&out)
	require.NoError(t, runCmd.RunE(runCmd, []string{path}))
	require.Equal(t, "b = 2\n", out.String())
}

func TestRunCommand_Stdin(t *testing.T) {
	var out bytes.Buffer
	runCmd.SetIn(strings.NewReader("insert a 1\nchildren a\nget a\n"))
	runCmd.SetOut(&out)
	t.Cleanup(func() { runCmd.SetIn(nil) })
	require.NoError(t, runCmd.RunE(runCmd, []string{"-"}))
	require.Equal(t, "\na = 1\n", out.String())
}

func TestDumpCommand(t *testing.T) {
	path := writeScript(t, "insert a 1\ninsert b 2 a\nget b\n")
	var out bytes.Buffer
	dumpCmd.SetOut(&out)
	require.NoError(t, dumpCmd.RunE(dumpCmd, []string{path}))
	require.Contains(t, out.String(), "a: 1")
	require.Contains(t, out.String(), "b: 2")
	require.NotContains(t, out.String(), "b = 2")
}

func TestRunCommand_ScriptError(t *testing.T) {
	path := writeScript(t, "insert a 1\nerase nope\n")
	runCmd.SetOut(&bytes.Buffer{})
	err := runCmd.RunE(runCmd, []string{path})
	var le *x_script.LineError
	require.ErrorAs(t, err, &le)
	require.Equal(t, 2, le.Line)
}

func TestRunCommand_MissingFile(t *testing.T) {
	err := runCmd.RunE(runCmd, []string{filepath.Join(t.TempDir(), "nope")})
	require.ErrorContains(t, err, "open script")
}

func TestTokenCommand(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "htree.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{"jwt_secret":"s3cret"}`), 0o600))
	configPath = cfgPath
	t.Cleanup(func() { configPath = "" })

	var out bytes.Buffer
	tokenCmd.SetOut(&out)
	require.NoError(t, tokenCmd.RunE(tokenCmd, nil))

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(strings.TrimSpace(out.String()), claims, func(*jwt.Token) (any, error) {
		return []byte("s3cret"), nil
	})
	require.NoError(t, err)
	require.Equal(t, "cli", claims.Subject)
}

func TestTokenCommand_NoSecret(t *testing.T) {
	configPath = filepath.Join(t.TempDir(), "missing.json")
	t.Cleanup(func() { configPath = "" })
	t.Setenv("HTREE_JWT_SECRET", "")
	require.ErrorContains(t, tokenCmd.RunE(tokenCmd, nil), "jwt_secret")
}
