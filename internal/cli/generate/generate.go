package generate

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/nusforge/nusforge/internal/core/pack"
)

// Command defines the structure for the "generate" command.
var Command = &cli.Command{
	Name:  "generate",
	Usage: "Generates a .nuspec manifest for a compiled library",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "artifact",
			Aliases:  []string{"a"},
			Usage:    "Path to the compiled library to introspect",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "name",
			Aliases:  []string{"n"},
			Usage:    "Logical base name of the artifact (also names the output manifest)",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "project-dir",
			Aliases: []string{"d"},
			Usage:   "Project directory used for relative lookups and the output path",
			Value:   ".",
		},
		&cli.StringFlag{
			Name:     "project",
			Aliases:  []string{"p"},
			Usage:    "Path to the project definition declaring sibling references",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "template",
			Aliases:  []string{"t"},
			Usage:    "Path to the manifest template",
			Required: true,
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "Enable verbose output",
		},
	},
	Action: func(cCtx *cli.Context) error {
		opts := pack.Options{
			ArtifactPath: cCtx.String("artifact"),
			BaseName:     cCtx.String("name"),
			ProjectDir:   cCtx.String("project-dir"),
			ProjectFile:  cCtx.String("project"),
			TemplatePath: cCtx.String("template"),
		}
		verbose := cCtx.Bool("verbose")

		if err := pack.ValidateOptions(opts); err != nil {
			return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
		}

		if verbose {
			fmt.Printf("Generating manifest:\n")
			fmt.Printf("  Artifact: %s\n", opts.ArtifactPath)
			fmt.Printf("  Base name: %s\n", opts.BaseName)
			fmt.Printf("  Project dir: %s\n", opts.ProjectDir)
			fmt.Printf("  Project file: %s\n", opts.ProjectFile)
			fmt.Printf("  Template: %s\n", opts.TemplatePath)
		}

		result, err := pack.Generate(opts)
		if err != nil {
			return cli.Exit(fmt.Sprintf("Error generating manifest: %v", err), 1)
		}

		warnColor := color.New(color.FgYellow).SprintFunc()
		if result.Version == "" {
			fmt.Printf("%s artifact carries no version; the template version was kept.\n", warnColor("Warning:"))
		} else if _, verr := semver.NewVersion(strings.TrimPrefix(result.Version, "v")); verr != nil {
			fmt.Printf("%s published version %q is not valid semver.\n", warnColor("Warning:"), result.Version)
		}

		if verbose {
			fmt.Printf("Dependencies: %d recorded, %d duplicate id(s) skipped.\n", result.Added, result.Skipped)
		}

		versionColor := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("Wrote %s (version %s)\n", result.OutputPath, versionColor(result.Version))
		return nil
	},
}
