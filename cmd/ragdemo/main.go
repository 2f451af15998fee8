// Command ragdemo runs demo scenarios through the in-process pipeline and
// renders the execution trace. Everything runs in mock mode, no services
// required.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/ragpipe/internal/version"
)

func main() {
	root := &cobra.Command{
		Use:     "ragdemo",
		Short:   "Interactive demo for the ragpipe query pipeline",
		Version: version.Version,
	}
	root.AddCommand(newQueryCmd(), newScenarioCmd(), newToolsCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
