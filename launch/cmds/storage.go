package cmds

import (
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/MNPJason/MNPCoin-PolisCore/launch"
	"github.com/MNPJason/MNPCoin-PolisCore/launch/pm"
	"github.com/MNPJason/MNPCoin-PolisCore/util"
)

// storageHooks opens the storage without the time syncer.
func storageHooks() *pm.Hooks {
	hs := launch.DefaultHooks()
	if err := hs.Add(launch.HookNameTimeSyncer, pm.EmptyHookFunc, true); err != nil {
		panic(err)
	}

	return hs
}

// MasternodesCommand prints the stored masternodes.
type MasternodesCommand struct {
	*BaseCommand
	Config FileLoad `arg:"" name:"config" help:"config file; '-' is stdin" optional:""`
}

func NewMasternodesCommand() MasternodesCommand {
	return MasternodesCommand{
		BaseCommand: NewBaseCommand("masternodes"),
	}
}

func (cmd *MasternodesCommand) Run(version string) error {
	if err := cmd.Initialize(cmd, version); err != nil {
		return errors.WithMessage(err, "failed to initialize command")
	}
	defer cmd.Done()

	ctx, _, err := cmd.LoadConfig(cmd.Config.Bytes())
	if err != nil {
		return err
	}

	n, err := launch.NewNode(ctx, storageHooks())
	if err != nil {
		return err
	}

	defer func() {
		_ = n.Database().Close()
	}()

	_, _ = fmt.Fprintln(os.Stdout, util.ToString(n.List().Infos()))

	return nil
}

type CleanStorageCommand struct {
	*BaseCommand
	Config FileLoad `arg:"" name:"config" help:"config file; '-' is stdin" optional:""`
}

func NewCleanStorageCommand() CleanStorageCommand {
	return CleanStorageCommand{
		BaseCommand: NewBaseCommand("clean-storage"),
	}
}

func (cmd *CleanStorageCommand) Run(version string) error {
	if err := cmd.Initialize(cmd, version); err != nil {
		return errors.WithMessage(err, "failed to initialize command")
	}
	defer cmd.Done()

	ctx, _, err := cmd.LoadConfig(cmd.Config.Bytes())
	if err != nil {
		return err
	}

	hs := storageHooks()
	if err := hs.Add(launch.HookNameLoad, pm.EmptyHookFunc, true); err != nil {
		return err
	}

	n, err := launch.NewNode(ctx, hs)
	if err != nil {
		return err
	}

	defer func() {
		_ = n.Database().Close()
	}()

	if err := n.Database().Clean(); err != nil {
		return err
	}

	cmd.Log().Info().Msg("storage cleaned")

	return nil
}
