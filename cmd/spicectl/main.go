// Command spicectl queries SPICE kernels from the command line.
//
// Kernels named with --kernel, in the config file or in SPICE_KERNELS are
// furnished before every subcommand runs. Logs go to stderr; command
// output goes to stdout.
package main

import (
	"context"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, &app{}, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		stop()
		os.Exit(1)
	}
}
