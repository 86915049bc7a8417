package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/MNPJason/MNPCoin-PolisCore/launch/cmds"
)

var Version = "v0.0.0"

var mainFlags struct {
	Version      struct{}                 `cmd:"" help:"print version"`
	Run          cmds.RunCommand          `cmd:"" help:"run masternode list daemon"`
	Masternodes  cmds.MasternodesCommand  `cmd:"" help:"print stored masternodes"`
	CleanStorage cmds.CleanStorageCommand `cmd:"" name:"clean-storage" help:"clean storage"`
}

func main() {
	mainFlags.Run = cmds.NewRunCommand()
	mainFlags.Masternodes = cmds.NewMasternodesCommand()
	mainFlags.CleanStorage = cmds.NewCleanStorageCommand()

	kctx, err := cmds.Context(os.Args[1:], &mainFlags, kong.Description("polis masternode list daemon"))
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: %+v\n", err)

		os.Exit(1)
	}

	if kctx.Command() == "version" {
		_, _ = fmt.Fprintln(os.Stdout, Version)

		os.Exit(0)
	}

	if err := kctx.Run(Version); err != nil {
		kctx.FatalIfErrorf(err)
	}

	os.Exit(0)
}
