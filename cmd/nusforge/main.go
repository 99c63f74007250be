package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/nusforge/nusforge/internal/cli/generate"
	"github.com/nusforge/nusforge/internal/cli/self"
)

func main() {
	app := &cli.App{
		Name:    "nusforge",
		Usage:   "Generates NuGet package manifests for compiled libraries",
		Version: "v0.1.0",
		Action: func(c *cli.Context) error {
			// Default action if no command is specified
			_ = cli.ShowAppHelp(c)
			return nil
		},
		Commands: []*cli.Command{
			generate.Command,
			self.NewSelfCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
