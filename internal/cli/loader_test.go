package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_Explicit(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "project.yaml", "model: entities.cue\nentities:\n  - Person\n  - Order\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "entities.cue", cfg.Model)
	assert.Equal(t, []string{"Person", "Order"}, cfg.Entities)
}

func TestLoadConfig_ExplicitMissing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)

	loadErr, ok := err.(*LoadError)
	require.True(t, ok)
	assert.Equal(t, ErrCodeConfig, loadErr.Code)
}

func TestLoadConfig_Malformed(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.yaml", "entities: [unclosed\n")

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrCodeConfig)
}

func TestLoadSymbols_FromFlags(t *testing.T) {
	syms, err := LoadSymbols(&RootOptions{Entities: []string{"Person", "Order"}})
	require.NoError(t, err)
	assert.True(t, syms.IsEntity("Person"))
	assert.True(t, syms.IsEntity("Order"))
	assert.False(t, syms.IsEntity("Animal"))
}

func TestLoadSymbols_FromModel(t *testing.T) {
	dir := t.TempDir()
	modelPath := writeFile(t, dir, "entities.cue", `
entities: {
	Person: {
		name: "string"
	}
}
`)

	syms, err := LoadSymbols(&RootOptions{Model: modelPath})
	require.NoError(t, err)
	assert.True(t, syms.IsEntity("Person"))
}

func TestLoadSymbols_ConfigAndFlagsCombine(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "cfg.yaml", "entities:\n  - Order\n")

	syms, err := LoadSymbols(&RootOptions{Config: cfgPath, Entities: []string{"Person"}})
	require.NoError(t, err)
	assert.True(t, syms.IsEntity("Order"))
	assert.True(t, syms.IsEntity("Person"))
}

func TestLoadSymbols_NoEntities(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "cfg.yaml", "")

	_, err := LoadSymbols(&RootOptions{Config: cfgPath})
	require.Error(t, err)

	loadErr, ok := err.(*LoadError)
	require.True(t, ok)
	assert.Equal(t, ErrCodeNoEntities, loadErr.Code)
}

func TestLoadSymbols_BadModel(t *testing.T) {
	dir := t.TempDir()
	modelPath := writeFile(t, dir, "entities.cue", "entities: {}")

	_, err := LoadSymbols(&RootOptions{Model: modelPath})
	require.Error(t, err)

	loadErr, ok := err.(*LoadError)
	require.True(t, ok)
	assert.Equal(t, ErrCodeModelFailed, loadErr.Code)
}

func TestLoadUnit(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "unit.json", `{"type":"Program","file":"app.ts","body":[]}`)

	prog, err := LoadUnit(path)
	require.NoError(t, err)
	assert.Equal(t, "app.ts", prog.File)
}

func TestLoadUnit_FileNameFallback(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "unit.json", `{"type":"Program","body":[]}`)

	prog, err := LoadUnit(path)
	require.NoError(t, err)
	assert.Equal(t, path, prog.File)
}

func TestLoadUnit_Missing(t *testing.T) {
	_, err := LoadUnit(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)

	loadErr, ok := err.(*LoadError)
	require.True(t, ok)
	assert.Equal(t, ErrCodeNotFound, loadErr.Code)
}

func TestLoadUnit_Malformed(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "unit.json", `{"type":"BlockStatement"}`)

	_, err := LoadUnit(path)
	require.Error(t, err)

	loadErr, ok := err.(*LoadError)
	require.True(t, ok)
	assert.Equal(t, ErrCodeParseFailed, loadErr.Code)
}
