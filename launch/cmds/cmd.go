package cmds

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Masterminds/semver"
	"github.com/alecthomas/kong"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/MNPJason/MNPCoin-PolisCore/launch/config"
	yamlconfig "github.com/MNPJason/MNPCoin-PolisCore/launch/config/yaml"
	"github.com/MNPJason/MNPCoin-PolisCore/util/logging"
)

var (
	DefaultName = "mnd"
	MainOptions = kong.HelpOptions{NoAppSummary: false, Compact: true, Summary: false, Tree: true}
)

var defaultKongOptions = []kong.Option{
	kong.Name(DefaultName),
	kong.UsageOnError(),
	kong.ConfigureHelp(MainOptions),
	LogVars,
}

func Context(args []string, flags interface{}, options ...kong.Option) (*kong.Context, error) {
	ops := make([]kong.Option, len(defaultKongOptions)+len(options))
	copy(ops, defaultKongOptions)
	copy(ops[len(defaultKongOptions):], options)

	p, err := kong.New(flags, ops...)
	if err != nil {
		return nil, err
	}

	return p.Parse(args)
}

type BaseCommand struct {
	*logging.Logging
	*LogFlags
	LogOutput io.Writer `kong:"-"`
	version   *semver.Version
	exithooks []func() error
}

func NewBaseCommand(name string) *BaseCommand {
	return &BaseCommand{
		Logging: logging.NewLogging(func(c zerolog.Context) zerolog.Context {
			return c.Str("module", fmt.Sprintf("command-%s", name))
		}),
		LogFlags: &LogFlags{},
	}
}

func (cmd *BaseCommand) Initialize(flags interface{}, version string) error {
	v, err := semver.NewVersion(version)
	if err != nil {
		return errors.Wrapf(err, "invalid version, %q", version)
	}

	cmd.version = v

	if cmd.LogOutput == nil {
		cmd.LogOutput = os.Stdout
	}

	lg, err := cmd.LogFlags.Logging(cmd.LogOutput)
	if err != nil {
		return err
	}

	_ = cmd.SetLogging(lg)

	undo, err := maxprocs.Set(maxprocs.Logger(func(f string, s ...interface{}) {
		cmd.Log().Debug().Msgf(f, s...)
	}))
	if err != nil {
		cmd.Log().Warn().Err(err).Msg("failed to set GOMAXPROCS")
	} else {
		cmd.exithooks = append(cmd.exithooks, func() error {
			undo()

			return nil
		})
	}

	cmd.Log().Debug().Interface("flags", flags).Stringer("version", cmd.version).Msg("flags parsed")

	return nil
}

func (cmd *BaseCommand) Version() *semver.Version {
	return cmd.version
}

func (cmd *BaseCommand) Done() {
	for i := range cmd.exithooks {
		if err := cmd.exithooks[i](); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "error: %+v\n", err)
		}
	}

	cmd.Log().Info().Msg("stopped")
}

// LoadConfig loads the yaml config and puts the process logger into the
// context for the hooks.
func (cmd *BaseCommand) LoadConfig(source []byte) (context.Context, config.LocalNode, error) {
	ctx := context.WithValue(context.Background(), config.ContextValueLog, cmd.Logging)

	ctx, conf, err := yamlconfig.Load(ctx, source)
	if err != nil {
		return ctx, nil, errors.WithMessage(err, "failed to load config")
	}

	cmd.Log().Debug().Interface("config", conf).Msg("config loaded")

	return ctx, conf, nil
}
