// Package nuspec provides the in-memory model for a .nuspec manifest
// document. A Manifest is loaded once from a template, mutated through the
// merge, and written out exactly once.
package nuspec

import (
	"fmt"
	"os"
	"strings"

	"github.com/beevik/etree"
)

// FileExtension is the conventional extension for manifest files.
const FileExtension = ".nuspec"

// Manifest wraps the manifest XML tree. Subtrees the model does not
// understand are carried through to the output untouched.
type Manifest struct {
	doc *etree.Document
}

// Load reads and parses a manifest file from disk.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	return m, nil
}

// Parse parses manifest XML and validates the package/metadata shape.
func Parse(data []byte) (*Manifest, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, err
	}
	root := doc.Root()
	if root == nil || root.Tag != "package" {
		return nil, fmt.Errorf("root element is not <package>")
	}
	if root.SelectElement("metadata") == nil {
		return nil, fmt.Errorf("<package> has no <metadata> element")
	}
	return &Manifest{doc: doc}, nil
}

func (m *Manifest) metadata() *etree.Element {
	return m.doc.Root().SelectElement("metadata")
}

// SetMetadataField overwrites a scalar metadata field. The write only
// happens when the template already has the element and the value is
// non-empty; otherwise the template content is left untouched.
func (m *Manifest) SetMetadataField(name, value string) {
	if value == "" {
		return
	}
	if el := m.metadata().SelectElement(name); el != nil {
		el.SetText(value)
	}
}

// UpsertMetadataField overwrites a scalar metadata field, creating the
// element when the template lacks it. Empty values are still skipped.
func (m *Manifest) UpsertMetadataField(name, value string) {
	if value == "" {
		return
	}
	el := m.metadata().SelectElement(name)
	if el == nil {
		el = m.metadata().CreateElement(name)
	}
	el.SetText(value)
}

// EnsureDependencies locates the metadata/dependencies element, creating it
// when the template lacks one.
func (m *Manifest) EnsureDependencies() *etree.Element {
	deps := m.metadata().SelectElement("dependencies")
	if deps == nil {
		deps = m.metadata().CreateElement("dependencies")
	}
	return deps
}

// AddDependency records a dependency under metadata/dependencies, creating
// the element when absent. Entries are unique by id: inserting an id that is
// already present is a no-op and returns false, even when the versions
// differ. An empty version produces no version attribute.
func (m *Manifest) AddDependency(id, version string) bool {
	deps := m.EnsureDependencies()
	for _, el := range deps.SelectElements("dependency") {
		if el.SelectAttrValue("id", "") == id {
			return false
		}
	}
	el := deps.CreateElement("dependency")
	el.CreateAttr("id", id)
	if version != "" {
		el.CreateAttr("version", version)
	}
	return true
}

// AppendFile appends a file entry under the root-level files element,
// creating it when absent. Entries already present in the template keep
// their position ahead of appended ones.
func (m *Manifest) AppendFile(src, target string) {
	files := m.doc.Root().SelectElement("files")
	if files == nil {
		files = m.doc.Root().CreateElement("files")
	}
	el := files.CreateElement("file")
	el.CreateAttr("src", src)
	el.CreateAttr("target", target)
}

// ID returns the published package id, or "" when absent.
func (m *Manifest) ID() string {
	return m.metadataText("id")
}

// Version returns the published package version, or "" when absent.
func (m *Manifest) Version() string {
	return m.metadataText("version")
}

func (m *Manifest) metadataText(name string) string {
	el := m.metadata().SelectElement(name)
	if el == nil {
		return ""
	}
	return strings.TrimSpace(el.Text())
}

// Dependencies returns the recorded (id, version) pairs in document order.
func (m *Manifest) Dependencies() [][2]string {
	deps := m.metadata().SelectElement("dependencies")
	if deps == nil {
		return nil
	}
	var out [][2]string
	for _, el := range deps.SelectElements("dependency") {
		out = append(out, [2]string{
			el.SelectAttrValue("id", ""),
			el.SelectAttrValue("version", ""),
		})
	}
	return out
}

// Bytes serializes the manifest with stable indentation.
func (m *Manifest) Bytes() ([]byte, error) {
	m.doc.Indent(2)
	return m.doc.WriteToBytes()
}

// WriteFile serializes the manifest and writes it to path, overwriting any
// previous file.
func (m *Manifest) WriteFile(path string) error {
	data, err := m.Bytes()
	if err != nil {
		return fmt.Errorf("failed to serialize manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest %s: %w", path, err)
	}
	return nil
}
