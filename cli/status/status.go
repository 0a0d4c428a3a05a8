package status

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackowiak/blackowiak-llm/cli/cliconfig"
	"github.com/blackowiak/blackowiak-llm/pkg/errors"
)

func New() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether this machine has a valid license",
		Run: func(_ *cobra.Command, _ []string) {
			config, err := cliconfig.Load()
			if err != nil {
				errors.HandleFatalError(err)
			}

			data, usageCount, err := config.Store().Check()
			if err != nil {
				fmt.Fprintln(os.Stderr, errors.GetPrintableMessage(err))
				os.Exit(1)
			}

			fmt.Printf("Licensed to: %s\n", data.Email)
			fmt.Printf("License type: %s\n", data.Type)
			fmt.Printf("Expires: %s\n", data.Expires.Format(time.RFC822))
			if data.MaxUses != nil {
				fmt.Printf("Usage: %d of %d\n", usageCount, *data.MaxUses)
			} else {
				fmt.Printf("Usage: %d\n", usageCount)
			}
		},
	}
}
