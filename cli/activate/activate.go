package activate

import (
	"fmt"
	"os"

	"github.com/lithammer/dedent"
	"github.com/spf13/cobra"

	"github.com/blackowiak/blackowiak-llm/cli/cliconfig"
	"github.com/blackowiak/blackowiak-llm/pkg/errors"
)

func New() *cobra.Command {
	return &cobra.Command{
		Use:   "activate CODE",
		Short: "Activate a license on this machine",
		Long: dedent.Dedent(`
			Activate a license on this machine.

			The code is validated offline and bound to this machine's
			fingerprint. Activating a new code replaces any previous
			activation on this machine.`),
		Args: cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			config, err := cliconfig.Load()
			if err != nil {
				errors.HandleFatalError(err)
			}

			data, err := config.Store().Activate(args[0])
			if err != nil {
				fmt.Fprintln(os.Stderr, errors.GetPrintableMessage(err))
				os.Exit(1)
			}
			fmt.Printf("License activated for %s\n", data.Email)
		},
	}
}
