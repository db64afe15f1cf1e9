package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/webuild/cli/cmd"
	"github.com/ardnew/webuild/pkg"
)

// CLI is the top-level command-line interface for webuild.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit." short:"V"`

	Render cmd.Render `cmd:"" default:"withargs" help:"Render a file and everything it references."`
	Deps   cmd.Deps   `cmd:""                    help:"Print the reference graph of a file."`
	Watch  cmd.Watch  `cmd:""                    help:"Render a file again whenever a file it references changes."`
}

// Run executes the webuild CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	vars := kong.Vars{
		cmd.ConfigIdentifier: configPath(baseConfig),
		cmd.CacheIdentifier:  cacheDir(),
		"version":            pkg.Name + " " + pkg.Version(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Logger flags take effect before kong reports anything, wherever they
	// appear on the command line.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configPath(baseConfig+".json")),
		kong.Configuration(loadYAML, configPath(baseConfig+".yaml")),
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

	cli.Log.start(ctx)

	// no-op unless built with tag pprof and a mode is selected
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}
