package main

import (
	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/debbuilder/cmd/debbuilder/commands"
)

var version = "dev"

func main() {
	cli := &commands.CLI{}
	ctx := kong.Parse(cli,
		kong.Name("debbuilder"),
		kong.Description("Builds Debian packages from a tree of ROS-style source packages by driving the external release toolchain."),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)

	err := ctx.Run(&commands.Global{})
	ctx.FatalIfErrorf(err)
}
