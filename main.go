// main is the entrypoint for the cadence CLI.
package main

import (
	"fmt"
	"os"

	"github.com/huangsam/cadence/cmd"
	"github.com/huangsam/cadence/internal/iocache"
)

func main() {
	// Commands resolve their stores through the global manager once
	// sharedSetup has initialized it.
	cmd.SetCacheManager(iocache.Manager)

	err := cmd.Execute()

	// Close before exiting so sqlite files flush cleanly.
	iocache.CloseStores()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
