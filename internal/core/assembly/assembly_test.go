// Package assembly_test contains tests for assembly metadata extraction.
package assembly_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nusforge/nusforge/internal/core/assembly"
)

// writeArtifact creates a dummy artifact and its metadata sidecar in a temp
// directory and returns the artifact path.
func writeArtifact(t *testing.T, sidecarContent string) string {
	t.Helper()
	tempDir := t.TempDir()
	artifactPath := filepath.Join(tempDir, "Foo.dll")
	require.NoError(t, os.WriteFile(artifactPath, []byte("MZ"), 0644))
	if sidecarContent != "" {
		sidecarPath := artifactPath + assembly.SidecarSuffix
		require.NoError(t, os.WriteFile(sidecarPath, []byte(sidecarContent), 0644))
	}
	return artifactPath
}

func TestExtract_AllFields(t *testing.T) {
	t.Parallel()
	artifactPath := writeArtifact(t, `
title = "Foo Library"
description = "Does foo things"
company = "Acme"
copyright = "Copyright Acme"
target_framework = ".NETFramework,Version=v4.7.2"
informational_version = "1.2.3-beta"
assembly_version = "1.2.3.0"
`)

	meta, err := assembly.Extract(artifactPath)
	require.NoError(t, err)
	assert.Equal(t, "Foo Library", meta.Title)
	assert.Equal(t, "Does foo things", meta.Description)
	assert.Equal(t, "Acme", meta.Company)
	assert.Equal(t, "Copyright Acme", meta.Copyright)
	assert.Equal(t, "net472", meta.TargetFramework)
}

func TestExtract_PublishedVersionPrefersInformational(t *testing.T) {
	t.Parallel()
	artifactPath := writeArtifact(t, `
informational_version = "1.2.3-beta"
assembly_version = "1.2.3.0"
`)

	meta, err := assembly.Extract(artifactPath)
	require.NoError(t, err)
	assert.Equal(t, "1.2.3-beta", meta.PublishedVersion())
}

func TestExtract_PublishedVersionFallsBackToAssemblyVersion(t *testing.T) {
	t.Parallel()
	artifactPath := writeArtifact(t, `assembly_version = "1.2.3.0"`)

	meta, err := assembly.Extract(artifactPath)
	require.NoError(t, err)
	assert.Equal(t, "1.2.3.0", meta.PublishedVersion())
}

func TestExtract_MissingArtifact(t *testing.T) {
	t.Parallel()
	_, err := assembly.Extract(filepath.Join(t.TempDir(), "Missing.dll"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to stat artifact")
}

func TestExtract_MissingSidecar(t *testing.T) {
	t.Parallel()
	artifactPath := writeArtifact(t, "")

	_, err := assembly.Extract(artifactPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read assembly metadata")
}

func TestExtract_CompanionMissingIsFatal(t *testing.T) {
	t.Parallel()
	artifactPath := writeArtifact(t, `references = ["Helper"]`)

	_, err := assembly.Extract(artifactPath)
	require.Error(t, err)
	assert.ErrorIs(t, err, assembly.ErrCompanionNotFound)
}

func TestExtract_CompanionResolvedFromArtifactDir(t *testing.T) {
	t.Parallel()
	artifactPath := writeArtifact(t, `references = ["Helper"]`)
	helperPath := filepath.Join(filepath.Dir(artifactPath), "Helper.dll")
	require.NoError(t, os.WriteFile(helperPath, []byte("MZ"), 0644))

	_, err := assembly.Extract(artifactPath)
	require.NoError(t, err)
}

func TestDeriveTargetFramework(t *testing.T) {
	t.Parallel()
	cases := []struct {
		raw  string
		want string
	}{
		{".NETFramework,Version=v4.7.2", "net472"},
		{".NETFramework,Version=v4.0", "net40"},
		{".NETFramework,Version=v3.5", "net35"},
		{"v4.5.1", "net451"},
		{"", assembly.DefaultTargetFramework},
		{"   ", assembly.DefaultTargetFramework},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, assembly.DeriveTargetFramework(tc.raw), "raw token %q", tc.raw)
	}
}
