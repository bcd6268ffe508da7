package cli

import (
	"context"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/saiyan/cli/cmd"
	"github.com/ardnew/saiyan/lang/eval"
	"github.com/ardnew/saiyan/pkg"
)

// CLI is the top-level command-line interface for saiyan.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Source  []string         `help:"Source file(s) read by commands given none, or '-' for stdin." name:"source" short:"s" type:"existingfile"`
	Version kong.VersionFlag `help:"Print version and exit."                                                               short:"V"`

	Run  cmd.Run  `cmd:"" help:"Evaluate source files"`
	Fmt  cmd.Fmt  `cmd:"" help:"Format source files"`
	Init cmd.Init `cmd:"" help:"Initialize configuration file"`

	Repl cmd.Repl `cmd:"" default:"withargs" help:"Start an interactive shell"`
}

// Run executes the saiyan CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(baseConfig)

	vars := kong.Vars{
		"version":                  pkg.Version,
		cmd.ConfigIdentifier:       configFilePath,
		cmd.CacheIdentifier:        pkg.CacheDir(),
		cmd.MaxCallDepthIdentifier: strconv.Itoa(eval.DefaultMaxCallDepth),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Configure the logger before kong reports anything, wherever the log
	// flags appear on the command line.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			append([]kong.Group{cli.Log.group()}, cli.Pprof.groups()...),
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(resolve(ctx), configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithSourceFiles(ctx, cli.Source)

	// Apply the parsed values of flags that have no TextUnmarshaler.
	cli.Log.start(ctx)

	// No-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}
