// Package pack orchestrates manifest generation: it merges the template,
// the artifact's assembly metadata, the declared dependencies and the
// transitively discovered ones into a single .nuspec document, then writes
// it out in one step.
package pack

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/nusforge/nusforge/internal/core/assembly"
	"github.com/nusforge/nusforge/internal/core/nuspec"
	"github.com/nusforge/nusforge/internal/core/packages"
	"github.com/nusforge/nusforge/internal/core/projectref"
)

// Options carries the inputs of one generation run. All paths are required
// except the dependency declaration file, which is discovered by convention
// under ProjectDir.
type Options struct {
	ArtifactPath string
	BaseName     string
	ProjectDir   string
	ProjectFile  string
	TemplatePath string
}

// Result reports what a successful run produced.
type Result struct {
	Version    string
	OutputPath string
	Added      int
	Skipped    int
}

// FileEntry maps a source pattern to a target path inside the package.
type FileEntry struct {
	Src    string
	Target string
}

// fileExtensions are probed next to the artifact, in this order.
var fileExtensions = []string{".dll", ".pdb", ".xml"}

// Generate runs the full merge. The manifest is built entirely in memory
// and written once at the end, so a failing step leaves no partial output
// behind.
func Generate(opts Options) (*Result, error) {
	manifest, err := nuspec.Load(opts.TemplatePath)
	if err != nil {
		return nil, err
	}
	manifest.EnsureDependencies()

	meta, err := assembly.Extract(opts.ArtifactPath)
	if err != nil {
		return nil, err
	}

	declared, err := packages.Collect(filepath.Join(opts.ProjectDir, packages.ConfigFileName))
	if err != nil {
		return nil, err
	}

	transitive, err := projectref.Resolve(opts.ProjectFile, opts.ProjectDir)
	if err != nil {
		return nil, err
	}

	// A manifest without an id or version is unusable, so those two are
	// created even when the template lacks the slots. The descriptive
	// fields only overwrite slots the template already has.
	manifest.UpsertMetadataField("id", opts.BaseName)
	manifest.UpsertMetadataField("version", meta.PublishedVersion())
	manifest.SetMetadataField("title", meta.Title)
	manifest.SetMetadataField("authors", meta.Company)
	manifest.SetMetadataField("owners", meta.Company)
	manifest.SetMetadataField("description", meta.Description)
	manifest.SetMetadataField("copyright", meta.Copyright)

	// Declared dependencies go in first so that an id present in
	// packages.config wins over the same id arriving transitively.
	added, skipped := 0, 0
	for _, dep := range declared {
		if manifest.AddDependency(dep.ID, dep.Version) {
			added++
		} else {
			skipped++
		}
	}
	for _, rec := range transitive {
		if manifest.AddDependency(rec.ID, rec.Version) {
			added++
		} else {
			skipped++
		}
	}

	entries := BuildFiles(filepath.Dir(opts.ArtifactPath), opts.BaseName,
		meta.TargetFramework, filepath.Dir(opts.TemplatePath))
	for _, entry := range entries {
		manifest.AppendFile(entry.Src, entry.Target)
	}

	outputPath := filepath.Join(opts.ProjectDir, opts.BaseName+nuspec.FileExtension)
	if err := manifest.WriteFile(outputPath); err != nil {
		return nil, err
	}

	return &Result{
		Version:    meta.PublishedVersion(),
		OutputPath: outputPath,
		Added:      added,
		Skipped:    skipped,
	}, nil
}

// BuildFiles returns the convention-based file entries: a tools glob next
// to the template, then one entry per artifact companion (binary, debug
// symbols, documentation) that actually exists on disk. Missing candidates
// are omitted, not errors.
func BuildFiles(artifactDir, baseName, targetFramework, templateDir string) []FileEntry {
	entries := []FileEntry{{
		Src:    filepath.Join(templateDir, "tools", "**"),
		Target: "tools",
	}}
	for _, ext := range fileExtensions {
		src := filepath.Join(artifactDir, baseName+ext)
		if _, err := os.Stat(src); err != nil {
			continue
		}
		entries = append(entries, FileEntry{
			Src:    src,
			Target: path.Join("lib", targetFramework, baseName+ext),
		})
	}
	return entries
}

// ValidateOptions reports the first missing required option, if any.
func ValidateOptions(opts Options) error {
	switch {
	case opts.ArtifactPath == "":
		return fmt.Errorf("artifact path is required")
	case opts.BaseName == "":
		return fmt.Errorf("base name is required")
	case opts.ProjectDir == "":
		return fmt.Errorf("project directory is required")
	case opts.ProjectFile == "":
		return fmt.Errorf("project file is required")
	case opts.TemplatePath == "":
		return fmt.Errorf("template path is required")
	}
	return nil
}
