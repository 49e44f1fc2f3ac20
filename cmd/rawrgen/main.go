package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
)

type CLI struct {
	Globals

	Version VersionCmd `cmd:"" help:"Print version information."`
	Gen     GenCmd     `cmd:"" help:"Generate TypeScript or Go bindings from a schema document."`
	Check   CheckCmd   `cmd:"" help:"Validate a schema document without writing files."`
}

// Globals are the flags shared by every command.
type Globals struct {
	LogLevel string `help:"Log level (debug, info, warn, error)." enum:"debug,info,warn,error" default:"warn" name:"log-level"`
}

// Env is bound into every command's Run method.
type Env struct {
	Stdout io.Writer
	Logger *slog.Logger
}

func (g *Globals) env(stdout, stderr io.Writer) *Env {
	var level slog.Level
	if err := level.UnmarshalText([]byte(g.LogLevel)); err != nil {
		level = slog.LevelWarn
	}
	return &Env{
		Stdout: stdout,
		Logger: slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})),
	}
}

type VersionCmd struct{}

func (c *VersionCmd) Run(env *Env) error {
	fmt.Fprintln(env.Stdout, Version())
	return nil
}

func newParser(cli *CLI, opts ...kong.Option) (*kong.Kong, error) {
	opts = append([]kong.Option{
		kong.Name("rawrgen"),
		kong.Description("Compile rawr schema documents into typed RPC bindings."),
		kong.UsageOnError(),
	}, opts...)
	return kong.New(cli, opts...)
}

func main() {
	cli := &CLI{}
	parser, err := newParser(cli)
	if err != nil {
		panic(err)
	}
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)
	err = ctx.Run(cli.env(os.Stdout, os.Stderr))
	ctx.FatalIfErrorf(err)
}
