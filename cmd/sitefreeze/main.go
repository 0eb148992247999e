package main

import (
	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitefreeze/cmd/sitefreeze/commands"
	"git.home.luguber.info/inful/sitefreeze/internal/foundation/errors"
	"git.home.luguber.info/inful/sitefreeze/internal/version"
)

func main() {
	cli := &commands.CLI{}
	global := &commands.Global{}
	parser := kong.Parse(cli,
		kong.Name("sitefreeze"),
		kong.Description("Export a content site into a folder of static files."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		kong.Bind(global),
	)

	err := parser.Run(global, cli)
	errors.NewCLIErrorAdapter(cli.Verbose, global.Logger).HandleError(err)
}
