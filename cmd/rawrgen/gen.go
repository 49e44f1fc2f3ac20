package main

import (
	"context"
	"fmt"

	"github.com/broady/rawr/rawrgen"
	"github.com/broady/rawr/rawrgen/ir"
)

type GenCmd struct {
	Schema        string `arg:"" help:"Schema document (JSON)." type:"existingfile"`
	Target        string `help:"Output language." enum:"typescript,go" default:"typescript" short:"t"`
	Out           string `help:"Output directory for generated files." required:"" short:"o"`
	Policy        string `help:"Server error policy: wrap answers with an Err result, propagate fails the dispatcher." enum:"wrap,propagate" default:"wrap"`
	ImportRoot    string `help:"Go import path of the output directory (go target)." name:"import-root"`
	RuntimeModule string `help:"Import the runtime from this module instead of the bundled one." name:"runtime-module"`
	Clean         bool   `help:"Remove previously generated files from the output directory first."`
	Comments      bool   `help:"Carry schema documentation into the generated code."`
}

func (c *GenCmd) Run(env *Env) error {
	doc, err := ir.LoadDocument(c.Schema)
	if err != nil {
		return err
	}
	res, err := rawrgen.Generate(context.Background(), doc, &rawrgen.Config{
		Target:        c.Target,
		OutDir:        c.Out,
		Policy:        c.Policy,
		ImportRoot:    c.ImportRoot,
		RuntimeModule: c.RuntimeModule,
		Clean:         c.Clean,
		EmitComments:  c.Comments,
		Logger:        env.Logger,
	})
	if res != nil {
		fmt.Fprintf(env.Stdout, "✓ %d files written to %s\n", len(res.Files), c.Out)
		for _, m := range res.Skipped {
			fmt.Fprintf(env.Stdout, "✗ %s skipped\n", m)
		}
	}
	return err
}
