// Package assembly reads the descriptive metadata of a compiled library
// without loading or executing it. The attribute table is pre-extracted by
// the compile step into a TOML sidecar next to the binary.
package assembly

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// SidecarSuffix is appended to the artifact path to locate its attribute
// table, e.g. bin/Foo.dll -> bin/Foo.dll.meta.toml.
const SidecarSuffix = ".meta.toml"

// DefaultTargetFramework is used when the artifact carries no framework
// attribute.
const DefaultTargetFramework = "net45"

// ErrCompanionNotFound reports a referenced assembly that could not be
// located next to the artifact. Extraction aborts on the first miss.
var ErrCompanionNotFound = errors.New("companion assembly not found")

// Metadata is an immutable snapshot of the artifact's descriptive fields.
// Absent fields are empty strings; the merger leaves the corresponding
// template slots untouched for those.
type Metadata struct {
	Title                string
	Description          string
	Company              string
	Copyright            string
	TargetFramework      string
	InformationalVersion string
	AssemblyVersion      string
}

// PublishedVersion returns the version to publish: the informational
// (product) version when present, otherwise the raw assembly version.
func (m Metadata) PublishedVersion() string {
	if m.InformationalVersion != "" {
		return m.InformationalVersion
	}
	return m.AssemblyVersion
}

// attributeTable mirrors the sidecar layout emitted by the compile step.
type attributeTable struct {
	Title                string   `toml:"title"`
	Description          string   `toml:"description"`
	Company              string   `toml:"company"`
	Copyright            string   `toml:"copyright"`
	TargetFramework      string   `toml:"target_framework"`
	InformationalVersion string   `toml:"informational_version"`
	AssemblyVersion      string   `toml:"assembly_version"`
	References           []string `toml:"references"`
}

// Extract reads the artifact's attribute table and derives the publishable
// metadata. The artifact and its sidecar must both exist; any referenced
// companion assembly missing from the artifact's directory is fatal.
func Extract(artifactPath string) (Metadata, error) {
	info, err := os.Stat(artifactPath)
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to stat artifact %s: %w", artifactPath, err)
	}
	if info.IsDir() {
		return Metadata{}, fmt.Errorf("artifact %s is a directory", artifactPath)
	}

	sidecarPath := artifactPath + SidecarSuffix
	var table attributeTable
	if _, err := toml.DecodeFile(sidecarPath, &table); err != nil {
		return Metadata{}, fmt.Errorf("failed to read assembly metadata %s: %w", sidecarPath, err)
	}

	artifactDir := filepath.Dir(artifactPath)
	for _, ref := range table.References {
		companionPath := filepath.Join(artifactDir, ref+".dll")
		if _, err := os.Stat(companionPath); err != nil {
			return Metadata{}, fmt.Errorf("resolving reference %q (%s): %w", ref, companionPath, ErrCompanionNotFound)
		}
	}

	return Metadata{
		Title:                table.Title,
		Description:          table.Description,
		Company:              table.Company,
		Copyright:            table.Copyright,
		TargetFramework:      DeriveTargetFramework(table.TargetFramework),
		InformationalVersion: table.InformationalVersion,
		AssemblyVersion:      table.AssemblyVersion,
	}, nil
}

// DeriveTargetFramework converts a raw framework token such as
// ".NETFramework,Version=v4.7.2" into the short moniker "net472". An empty
// token yields DefaultTargetFramework.
func DeriveTargetFramework(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultTargetFramework
	}
	if i := strings.Index(raw, ",Version="); i >= 0 {
		raw = raw[i+len(",Version="):]
	}
	raw = strings.TrimPrefix(raw, "v")
	raw = strings.ReplaceAll(raw, ".", "")
	return "net" + raw
}
