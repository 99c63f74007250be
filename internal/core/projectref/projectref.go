// Package projectref discovers package-to-package dependency edges without
// a central registry. Each project publishes its own id and version into its
// own manifest; a dependent recovers the edge by reading the manifest its
// sibling already generated at a well-known path.
package projectref

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"

	"github.com/nusforge/nusforge/internal/core/nuspec"
)

// Reference is one sibling-project declaration from the project definition.
type Reference struct {
	Name    string
	Include string
}

// PublishedRecord is the (id, version) pair a sibling published into its
// manifest.
type PublishedRecord struct {
	ID      string
	Version string
}

// References parses the project definition and returns its ProjectReference
// entries. Entries without an Include attribute are dropped; a missing Name
// falls back to the include path's file stem.
func References(projectPath string) ([]Reference, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(projectPath); err != nil {
		return nil, fmt.Errorf("failed to parse project file %s: %w", projectPath, err)
	}

	var refs []Reference
	for _, el := range doc.FindElements("//ProjectReference") {
		include := el.SelectAttrValue("Include", "")
		if include == "" {
			continue
		}
		// Project files routinely carry Windows-style separators.
		include = filepath.FromSlash(strings.ReplaceAll(include, `\`, "/"))

		name := ""
		if nameEl := el.SelectElement("Name"); nameEl != nil {
			name = strings.TrimSpace(nameEl.Text())
		}
		if name == "" {
			base := filepath.Base(include)
			name = strings.TrimSuffix(base, filepath.Ext(base))
		}
		refs = append(refs, Reference{Name: name, Include: include})
	}
	return refs, nil
}

// Resolve reads the project definition and returns one PublishedRecord per
// reference whose sibling has generated a manifest. A reference whose
// include path does not exist, or whose sibling has no readable
// <Name>.nuspec, is silently skipped: that sibling is not a package.
// An unreadable project definition is fatal.
func Resolve(projectPath, projectDir string) ([]PublishedRecord, error) {
	refs, err := References(projectPath)
	if err != nil {
		return nil, err
	}

	var records []PublishedRecord
	for _, ref := range refs {
		includePath := ref.Include
		if !filepath.IsAbs(includePath) {
			includePath = filepath.Join(projectDir, includePath)
		}
		if _, err := os.Stat(includePath); err != nil {
			continue
		}

		manifestPath := filepath.Join(filepath.Dir(includePath), ref.Name+nuspec.FileExtension)
		manifest, err := nuspec.Load(manifestPath)
		if err != nil {
			continue
		}
		id := manifest.ID()
		if id == "" {
			continue
		}
		records = append(records, PublishedRecord{ID: id, Version: manifest.Version()})
	}
	return records, nil
}
