package cmds

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"

	"github.com/MNPJason/MNPCoin-PolisCore/launch"
)

type RunCommand struct {
	*BaseCommand
	Config    FileLoad      `arg:"" name:"config" help:"config file; '-' is stdin" optional:""`
	ExitAfter time.Duration `name:"exit-after" help:"exit after the given duration"`
}

func NewRunCommand() RunCommand {
	return RunCommand{
		BaseCommand: NewBaseCommand("run"),
	}
}

func (cmd *RunCommand) Run(version string) error {
	if err := cmd.Initialize(cmd, version); err != nil {
		return errors.WithMessage(err, "failed to initialize command")
	}
	defer cmd.Done()

	ctx, _, err := cmd.LoadConfig(cmd.Config.Bytes())
	if err != nil {
		return err
	}

	n, err := launch.NewNode(ctx, launch.DefaultHooks())
	if err != nil {
		return err
	}

	if err := n.Start(); err != nil {
		_ = n.Stop()

		return err
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sig)

	var expire <-chan time.Time
	if cmd.ExitAfter > 0 {
		expire = time.After(cmd.ExitAfter)
	}

	select {
	case s := <-sig:
		cmd.Log().Info().Stringer("signal", s).Msg("signal received")
	case <-expire:
		cmd.Log().Info().Dur("exit-after", cmd.ExitAfter).Msg("expired, exit")
	}

	return n.Stop()
}
