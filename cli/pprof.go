package cli

import (
	"context"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/wordy/pkg"
	"github.com/ardnew/wordy/profile"
)

// pprofConfig selects a profiling mode. Modes are only available when built
// with the pprof tag; otherwise the enum holds just the empty mode.
type pprofConfig struct {
	Mode string `default:""            enum:",${pprofModeEnum}" help:"Enable profiling"         placeholder:"${enum}"`
	Dir  string `default:"${pprofDir}"                          help:"Profile output directory"                       type:"path"`
}

func (pprofConfig) vars() kong.Vars {
	return kong.Vars{
		"pprofModeEnum": strings.Join(profile.Modes(), ","),
		"pprofDir":      pkg.CachePath(profile.Tag),
	}
}

func (pprofConfig) group() kong.Group {
	return kong.Group{Key: "pprof", Title: "Profiling (pprof)"}
}

// start starts profiling if a mode is selected.
func (c pprofConfig) start(ctx context.Context) profile.Stopper {
	return profile.Make(
		profile.WithMode(c.Mode),
		profile.WithPath(c.Dir),
		profile.WithQuiet(true),
	).Start(ctx)
}
