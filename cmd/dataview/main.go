// Command dataview inspects, fingerprints and recompresses captured view blobs.
package main

import (
	"fmt"
	"os"

	"github.com/katalvlaran/dataview/cmd/dataview/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
