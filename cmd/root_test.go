package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"

	"dndflow/config"
	"dndflow/diagram"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	require.Equal(t, "dndflow "+version+"\n", out)

	out, err = execute(t, "--version")
	require.NoError(t, err)
	require.Equal(t, "dndflow "+version+"\n", out)
}

func TestConfigShowsEffectiveValues(t *testing.T) {
	path := writeConfig(t, `
[palette]
types = ["source", "sink"]

[server]
addr = ":8080"
`)

	out, err := execute(t, "config", "--config", path, "--log-level", "debug")
	require.NoError(t, err)

	require.Contains(t, out, "file "+path)
	require.Contains(t, out, "• source")
	require.Contains(t, out, "• sink")
	require.NotContains(t, out, "• output")
	require.Contains(t, out, `":8080"`)
	require.Contains(t, out, "level   debug")
	require.Contains(t, out, `1 input "input node" at (250, 5)`)
}

func TestConfigRejectsInvalidFile(t *testing.T) {
	path := writeConfig(t, "[editor]\nnudge_step = 0\n")
	_, err := execute(t, "config", "--config", path)
	require.ErrorContains(t, err, "nudge_step")
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	out, err := execute(t, "config", "init", "--config", path)
	require.NoError(t, err)
	require.Contains(t, out, "Wrote "+path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, config.Default(), cfg)

	_, err = execute(t, "config", "init", "--config", path)
	require.ErrorContains(t, err, "already exists")

	_, err = execute(t, "config", "init", "--config", path, "--force")
	require.NoError(t, err)
}

func TestConfigPath(t *testing.T) {
	out, err := execute(t, "config", "path", "--config", "/tmp/x.toml")
	require.NoError(t, err)
	require.Equal(t, "/tmp/x.toml\n", out)
}

func TestPrintFormatCheckedBeforeStart(t *testing.T) {
	_, err := execute(t, "--print", "xml")
	require.ErrorContains(t, err, "unknown format")
}

func TestGlobalFlagsOverrideLog(t *testing.T) {
	g := globalOptions{
		configPath: writeConfig(t, "[log]\nlevel = \"warn\"\nformat = \"json\"\n"),
		logFormat:  "text",
		logFile:    "/tmp/dndflow.log",
	}
	cfg, err := g.load()
	require.NoError(t, err)
	require.Equal(t, config.LogConfig{Level: "warn", Format: "text", File: "/tmp/dndflow.log"}, cfg.Log)
}

func TestOpenLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dndflow.log")
	logger, closeLog, err := openLogger(config.LogConfig{Level: "debug", Format: "json", File: path}, nil)
	require.NoError(t, err)

	logger.Debug("hello", "n", 1)
	closeLog()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(data), `"msg":"hello"`), string(data))
}

func TestOpenLoggerFallback(t *testing.T) {
	var buf bytes.Buffer
	logger, closeLog, err := openLogger(config.LogConfig{Level: "info"}, &buf)
	require.NoError(t, err)
	defer closeLog()

	logger.Debug("hidden")
	logger.Info("shown")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "shown")

	_, _, err = openLogger(config.LogConfig{File: filepath.Join(t.TempDir(), "missing", "x.log")}, nil)
	require.Error(t, err)
}

func TestNewCore(t *testing.T) {
	cfg := config.Default()
	cfg.IDs = config.IDsConfig{Prefix: "n", Seed: 7}

	s, ids, opts, err := newCore(cfg, nil)
	require.NoError(t, err)
	require.Equal(t, []diagram.Node{{
		ID:       "1",
		Type:     diagram.TypeInput,
		Position: diagram.Point{X: 250, Y: 5},
		Data:     diagram.NodeData{Label: "input node"},
	}}, s.Nodes())
	require.Equal(t, "n7", ids.Next())
	require.Equal(t, 10.0, opts.NudgeStep)
	require.Equal(t, "application/reactflow", opts.DragFormat)
}
