package main

import (
	"os"

	"github.com/roach88/tixgen/internal/cli"
)

var version = "dev"

func main() {
	cmd := cli.NewRootCommand()
	cmd.Version = version
	os.Exit(cli.GetExitCode(cmd.Execute()))
}
