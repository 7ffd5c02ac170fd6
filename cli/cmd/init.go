package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/wordy/lang"
	"github.com/ardnew/wordy/log"
	"github.com/ardnew/wordy/profile"
)

// configHeader is written above the generated declarations.
const configHeader = "% wordy configuration. Command-line flags override these values.\n"

// defaultConfigIndent is the indent width of the generated configuration.
const defaultConfigIndent = 2

// Init writes a configuration file declaring the current value of every
// global flag.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)
	if ktx == nil {
		panic("internal error: kong context undefined")
	}

	confPath := kongVar(ctx, ConfigIdentifier)
	if confPath == "" {
		panic("internal error: config path undefined")
	}

	if _, err := os.Stat(confPath); err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath), slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	file, err := os.Create(confPath)
	if err != nil {
		return ErrWriteConfig.With(slog.String("file", confPath)).Wrap(err)
	}
	defer file.Close()

	if _, err := fmt.Fprint(file, configHeader); err != nil {
		return ErrWriteConfig.With(slog.String("file", confPath)).Wrap(err)
	}

	prog := buildConfig(ktx)

	if err := prog.FormatNative(ctx, file, defaultConfigIndent); err != nil {
		return ErrWriteConfig.With(slog.String("file", confPath)).Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", confPath),
		slog.Int("declarations", len(prog.Statements)),
	)

	return nil
}

// ignoredFlags are flag name prefixes never written to the configuration.
var ignoredFlags = []string{"help", "version", profile.Tag}

// buildConfig declares one variable per global flag. Hyphens in flag names
// become underscores so the names are valid identifiers.
func buildConfig(ktx *kong.Context) *lang.Program {
	var prog lang.Program

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(ignoredFlags, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		decl, ok := declare(strings.ReplaceAll(flag.Name, "-", "_"), ktx.FlagValue(flag))
		if ok {
			prog.Statements = append(prog.Statements, decl)
		}
	}

	return &prog
}

// declare returns a declaration of name holding value. Integers are declared
// as integers and everything else as quoted text.
func declare(name string, value any) (*lang.VarDecl, bool) {
	switch v := value.(type) {
	case nil:
		return nil, false

	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return &lang.VarDecl{Type: lang.TypeInteger, Name: name, Value: fmt.Sprint(v)}, true

	case bool:
		return text(name, strconv.FormatBool(v)), true

	case string:
		if v == "" {
			return nil, false
		}

		return text(name, v), true

	case []string:
		if len(v) == 0 {
			return nil, false
		}

		return text(name, strings.Join(v, ",")), true

	default:
		return text(name, fmt.Sprint(v)), true
	}
}

func text(name, value string) *lang.VarDecl {
	return &lang.VarDecl{
		Type:  lang.TypeText,
		Name:  name,
		Value: `"` + strings.ReplaceAll(value, `"`, "") + `"`,
	}
}
