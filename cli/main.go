package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackowiak/blackowiak-llm/cli/activate"
	"github.com/blackowiak/blackowiak-llm/cli/status"
	"github.com/blackowiak/blackowiak-llm/cli/use"
	"github.com/blackowiak/blackowiak-llm/pkg/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "blackowiak-llm",
		Version: version.Version,

		// The call to rootCmd.Execute prints the error, so we silence errors
		// here to avoid double printing.
		SilenceErrors: true,
	}
	rootCmd.AddCommand(
		activate.New(),
		status.New(),
		use.New(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
