package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gopkg.in/yaml.v3"

	"github.com/seo-optimizer/content-engine/config"
	"github.com/seo-optimizer/content-engine/logging"
)

func runApp(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("DATA_DIR", dir)
	t.Setenv("LOG_LEVEL", "error")

	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("languages: [en]\n"), 0o644))

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.Reader = strings.NewReader(stdin)
	err := app.Run(append([]string{"seo-engine", "--config", cfgPath}, args...))
	return out.String(), err
}

func TestKeywordsCommand(t *testing.T) {
	out, err := runApp(t, "", "keywords", "--limit", "2", "coffee")
	require.NoError(t, err)
	assert.Equal(t, "how to improve coffee\nbest coffee\n", out)

	_, err = runApp(t, "", "keywords")
	assert.Error(t, err)
}

func TestAnalyzeCommand(t *testing.T) {
	text := "Coffee brewing takes practice. Good coffee needs fresh beans."

	out, err := runApp(t, text, "analyze", "--keyword", "coffee", "--title", "Coffee")
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "coffee", decoded["keyword"])
	report := decoded["report"].(map[string]any)
	assert.Equal(t, "Coffee", report["title"])

	file := filepath.Join(t.TempDir(), "post.md")
	require.NoError(t, os.WriteFile(file, []byte(text), 0o644))
	out, err = runApp(t, "", "analyze", "--format", "yaml", file)
	require.NoError(t, err)
	decoded = nil
	require.NoError(t, yaml.Unmarshal([]byte(out), &decoded))
	assert.Contains(t, decoded, "report")

	_, err = runApp(t, text, "analyze", "--format", "xml")
	assert.Error(t, err)
	_, err = runApp(t, "   ", "analyze")
	assert.Error(t, err)
}

func TestAnalyzeCommandSave(t *testing.T) {
	out, err := runApp(t, "Coffee is great. Coffee is life.", "analyze", "--save", "--keyword", "coffee")
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.NotEmpty(t, decoded["id"])
}

func TestNewServicesLogsUsageShutdownFailure(t *testing.T) {
	dir := t.TempDir()
	// a directory in place of the temp file makes the final usage save fail
	require.NoError(t, os.Mkdir(filepath.Join(dir, "stats.json.tmp"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, logging.StatisticsFile), []byte("{broken"), 0o644))

	cfg := &config.Config{}
	cfg.Data.Dir = dir

	core, logs := observer.New(zap.ErrorLevel)
	_, err := newServices(cfg, zap.New(core))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load request statistics")

	entries := logs.FilterMessage("failed to shutdown usage statistics").All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].ContextMap()["error"], "temporary file")
}
