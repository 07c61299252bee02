// Command graphctl drives a graph.Graph from the command line against
// a graph connection config, for ad-hoc queries and scripting.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/graphsession/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
