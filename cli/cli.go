package cli

import (
	"context"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/ecoscript/cli/cmd"
	"github.com/ardnew/ecoscript/pkg"
)

// CLI is the top-level command-line interface for ecoscript.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit." short:"V"`

	Run    cmd.Run    `cmd:"" default:"withargs" help:"Run scripts, or start the interpreter without any"`
	Tokens cmd.Tokens `cmd:""                    help:"Print the tokens of a script"`
	AST    cmd.AST    `cmd:""                    help:"Print the syntax tree of a script" name:"ast"`
	Init   cmd.Init   `cmd:""                    help:"Initialize configuration file"`
}

// Run parses args and executes the selected command. The exit function is
// called by kong for --help, --version and usage errors.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	if err := mkdirAllRequired(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Log flags take effect before parsing, wherever they appear.
	cli.Log.scan(args)

	parser, err := kong.New(&cli, cli.options(&ctx, exit)...)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// The context bound for commands now carries ktx.
	ctx = cmd.WithContext(ctx, ktx)

	cli.Log.start(ctx)

	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}

// options returns the kong configuration of the application. Commands are
// bound the context *ctx holds when they run.
func (c *CLI) options(ctx *context.Context, exit func(int)) []kong.Option {
	base := configPath(baseConfig)

	vars := kong.Vars{
		"version":            strings.TrimSpace(pkg.Version),
		cmd.ConfigIdentifier: base,
		cmd.CacheIdentifier:  cacheDir(),
	}.
		CloneWith(c.Log.vars()).
		CloneWith(c.Pprof.vars())

	return []kong.Option{
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			append([]kong.Group{c.Log.group()}, c.Pprof.groups()...),
		),
		kong.BindSingletonProvider(func() context.Context { return *ctx }),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			Summary:             true,
			Tree:                true,
			NoExpandSubcommands: true,
		}),
		kong.Configuration(kong.JSON, base+".json"),
		kong.Configuration(resolveYAML, base+".yaml"),
		kong.Configuration(resolveEco(*ctx), base+".eco"),
		vars,
	}
}
