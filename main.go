package main

import (
	"context"
	"os"

	"github.com/m-mizutani/relnotes/pkg/cli"
)

func main() {
	if err := cli.Run(context.Background(), os.Args); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
