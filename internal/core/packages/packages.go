// Package packages collects the third-party dependencies a project declares
// in its packages.config file.
package packages

import (
	"fmt"
	"os"

	"github.com/beevik/etree"
)

// ConfigFileName is the conventional declaration file name, looked up under
// the project directory.
const ConfigFileName = "packages.config"

// Dependency is one declared package. Version may be empty. Two
// dependencies are the same dependency when their IDs match.
type Dependency struct {
	ID      string
	Version string
}

// Collect parses the declaration file and returns its entries in document
// order. A missing file is not an error: dependency declarations are
// optional, so the result is simply empty. Duplicate ids pass through
// unchanged; deduplication happens at merge time.
func Collect(configPath string) ([]Dependency, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, nil
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", configPath, err)
	}
	root := doc.Root()
	if root == nil || root.Tag != "packages" {
		return nil, fmt.Errorf("%s: root element is not <packages>", configPath)
	}

	var deps []Dependency
	for _, el := range root.SelectElements("package") {
		id := el.SelectAttrValue("id", "")
		if id == "" {
			return nil, fmt.Errorf("%s: <package> entry without an id attribute", configPath)
		}
		deps = append(deps, Dependency{
			ID:      id,
			Version: el.SelectAttrValue("version", ""),
		})
	}
	return deps, nil
}
