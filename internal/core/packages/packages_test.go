// Package packages_test contains tests for the dependency collector.
package packages_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nusforge/nusforge/internal/core/packages"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), packages.ConfigFileName)
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))
	return configPath
}

func TestCollect_MissingFileIsEmptyNotError(t *testing.T) {
	t.Parallel()
	deps, err := packages.Collect(filepath.Join(t.TempDir(), packages.ConfigFileName))
	require.NoError(t, err)
	assert.Empty(t, deps)
}

func TestCollect_PreservesDeclarationOrder(t *testing.T) {
	t.Parallel()
	configPath := writeConfig(t, `<?xml version="1.0"?>
<packages>
  <package id="Newtonsoft.Json" version="12.0.3"/>
  <package id="NLog" version="4.7.0"/>
  <package id="Pinned"/>
</packages>`)

	deps, err := packages.Collect(configPath)
	require.NoError(t, err)
	require.Len(t, deps, 3)
	assert.Equal(t, packages.Dependency{ID: "Newtonsoft.Json", Version: "12.0.3"}, deps[0])
	assert.Equal(t, packages.Dependency{ID: "NLog", Version: "4.7.0"}, deps[1])
	assert.Equal(t, packages.Dependency{ID: "Pinned", Version: ""}, deps[2])
}

func TestCollect_EntryWithoutID(t *testing.T) {
	t.Parallel()
	configPath := writeConfig(t, `<?xml version="1.0"?>
<packages>
  <package version="1.0.0"/>
</packages>`)

	_, err := packages.Collect(configPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "without an id")
}

func TestCollect_MalformedXML(t *testing.T) {
	t.Parallel()
	configPath := writeConfig(t, `<packages><package id="A"`)

	_, err := packages.Collect(configPath)
	require.Error(t, err)
}

func TestCollect_WrongRootElement(t *testing.T) {
	t.Parallel()
	configPath := writeConfig(t, `<?xml version="1.0"?><dependencies/>`)

	_, err := packages.Collect(configPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "<packages>")
}

func TestCollect_DuplicateIDsPassThrough(t *testing.T) {
	t.Parallel()
	configPath := writeConfig(t, `<?xml version="1.0"?>
<packages>
  <package id="A" version="1.0"/>
  <package id="A" version="2.0"/>
</packages>`)

	deps, err := packages.Collect(configPath)
	require.NoError(t, err)
	require.Len(t, deps, 2, "dedup is the merger's job, not the collector's")
}
