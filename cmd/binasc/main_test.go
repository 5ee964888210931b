package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	outputFile = ""
	var out, errOut bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestEncodeDecodeStdio(t *testing.T) {
	out, err := execute(t, "\"MThd\" 4'6\n", "encode", "-")
	require.NoError(t, err)
	require.Equal(t, "MThd\x00\x00\x00\x06", out)

	out, err = execute(t, "MThd", "decode", "-", "--hex=true", "--comments=false", "--midi=false", "--line-bytes=2")
	require.NoError(t, err)
	require.Equal(t, "4d 54 \n68 64 \n", out)
}

func TestEncodeReportsLine(t *testing.T) {
	out, err := execute(t, "01\n02 zz\n", "encode", "-")
	require.Error(t, err)
	require.Contains(t, err.Error(), "line 2")
	require.Equal(t, "\x01\x02", out)
}

func TestConvertAndInfo(t *testing.T) {
	dir := t.TempDir()
	text := `"MThd" 4'6 2'0 2'1 2'96
"MTrk" 4'8
v0 90 '60 '100
v0 ff 2f v0
`
	textPath := filepath.Join(dir, "tune.txt")
	require.NoError(t, os.WriteFile(textPath, []byte(text), 0644))

	_, err := execute(t, "", "convert", textPath)
	require.NoError(t, err)

	midiPath := filepath.Join(dir, "tune.mid")
	require.NoError(t, os.Rename(filepath.Join(dir, "tune.bin"), midiPath))

	out, err := execute(t, "", "decode", midiPath, "--midi", "--comments", "--check")
	require.NoError(t, err)
	require.Contains(t, out, "note-on C4")

	out, err = execute(t, "", "info", midiPath)
	require.NoError(t, err)
	require.Contains(t, out, "Tracks:   1")
	require.NotContains(t, out, "declares")
}
