package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/wordy/cli/cmd"
	"github.com/ardnew/wordy/lang"
	"github.com/ardnew/wordy/log"
	"github.com/ardnew/wordy/pkg"
)

// baseConfig is the name of the configuration file in [pkg.ConfigDir].
const baseConfig = "config" + pkg.Extension

// CLI is the top-level command-line interface for wordy.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`
	Lang  langConfig  `embed:"" group:"lang"`

	Version kong.VersionFlag `help:"Print version and exit." short:"V"`

	Run    cmd.Exec   `cmd:"" default:"withargs" help:"Run wordy scripts"`
	Tokens cmd.Tokens `cmd:""                    help:"List the tokens of wordy scripts"`
	Fmt    cmd.Fmt    `cmd:""                    help:"Format wordy scripts"`
	Demo   cmd.Demo   `cmd:""                    help:"Run the built-in sample script"`
	Repl   cmd.Repl   `cmd:""                    help:"Start an interactive session"`
	Init   cmd.Init   `cmd:""                    help:"Initialize configuration file"`
}

// langConfig holds the interpreter settings shared by every command.
type langConfig struct {
	Strict   bool `default:"false"       help:"Fail on characters outside the token set." negatable:""`
	MaxDepth int  `default:"${maxDepth}" help:"Maximum function call depth."`
}

func (langConfig) vars() kong.Vars {
	return kong.Vars{"maxDepth": strconv.Itoa(lang.DefaultMaxDepth)}
}

func (langConfig) group() kong.Group {
	return kong.Group{Key: "lang", Title: "Interpreter options"}
}

func (c langConfig) options() []lang.Option {
	return []lang.Option{
		lang.WithLogger(log.Default()),
		lang.WithStrictLex(c.Strict),
		lang.WithMaxDepth(c.MaxDepth),
	}
}

// Run executes the wordy CLI with the given context and arguments.
// The exit function is called with the appropriate exit code when kong
// exits early, as for --help.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	return run(ctx, exit, os.Stdout, os.Stderr, args)
}

func run(
	ctx context.Context,
	exit func(code int),
	stdout, stderr io.Writer,
	args []string,
) error {
	var cli CLI

	if err := pkg.MkdirAll(); err != nil {
		return err
	}

	configFilePath := pkg.ConfigPath(baseConfig)

	vars := kong.Vars{
		"version":            pkg.Name + " " + pkg.Version,
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  pkg.CacheDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars()).
		CloneWith(cli.Lang.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Apply logger flags before kong parses anything so that errors from
	// parsing and configuration loading are logged as requested.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.Writers(stdout, stderr),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group(), cli.Lang.group()},
		),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configFilePath+".json"),
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

	cli.Log.start(ctx)

	log.DebugContext(ctx, "command selected",
		slog.String("command", ktx.Command()),
		slog.String("config", configFilePath),
	)

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithOptions(ctx, cli.Lang.options()...)

	// no-op unless built with tag pprof and enabled
	defer cli.Pprof.start(ctx).Stop()

	ktx.BindTo(ctx, (*context.Context)(nil))

	return ktx.Run()
}
