package main

import (
	"github.com/alecthomas/kong"

	"github.com/fablerun/fable/cmd/cli"
)

var fableCLI struct {
	Run  cli.RunCmd  `cmd:"" help:"Execute a run manifest against its target environment."`
	Lint cli.LintCmd `cmd:"" help:"Validate a run manifest without launching a browser."`
}

func main() {
	ctx := kong.Parse(&fableCLI,
		kong.Name("fable"),
		kong.Description("Drive a real browser through declarative UI test stories."),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(ctx.Run())
}
