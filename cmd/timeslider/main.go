// Command timeslider drives scrollable calendar sliders from scripted
// gestures and inspects recorded runs.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/timeslider/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "timeslider:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
